package pages

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/deptportal/internal/app/models/dto"
	"github.com/yigit/deptportal/internal/app/services"
	"github.com/yigit/deptportal/internal/middleware"
	"github.com/yigit/deptportal/internal/pkg/apperrors"
)

func clientMeta(c *gin.Context) services.ClientMeta {
	return services.ClientMeta{UserAgent: c.Request.UserAgent(), ClientIP: c.ClientIP()}
}

// safeRedirect only follows targets inside the admin panel.
func safeRedirect(from string) string {
	if strings.HasPrefix(from, "/admin") && !strings.HasPrefix(from, "//") && !strings.HasPrefix(from, "/admin/login") {
		return from
	}
	return "/admin"
}

func (p *Pages) loginData(c *gin.Context, from string) gin.H {
	data := gin.H{"Title": "Admin Login", "From": from, "SignupAllowed": p.svc.Auth.SignupAllowed()}
	if s := middleware.CurrentSession(c); s != nil && !s.IsAdmin() {
		data["Notice"] = "You are signed in as " + s.Email + ", which does not have admin access."
	}
	if c.Query("reset") == "1" {
		data["Notice"] = "Your password has been updated. Please sign in."
	}
	return data
}

func (p *Pages) loginForm(c *gin.Context) {
	if middleware.CurrentSession(c).IsAdmin() {
		c.Redirect(http.StatusSeeOther, safeRedirect(c.Query("from")))
		return
	}
	p.render(c, http.StatusOK, "login", p.loginData(c, c.Query("from")))
}

func (p *Pages) login(c *gin.Context) {
	from := c.PostForm("from")
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		data := p.loginData(c, from)
		data["Error"] = "Enter your email and password."
		data["Email"] = req.Email
		p.render(c, http.StatusBadRequest, "login", data)
		return
	}

	resp, err := p.svc.Auth.Login(c.Request.Context(), req, clientMeta(c))
	if err != nil {
		p.logger.Warn().Err(err).Str("email", req.Email).Msg("Panel login failed")
		data := p.loginData(c, from)
		data["Error"] = userMessage(err)
		data["Email"] = req.Email
		p.render(c, middleware.StatusFor(err), "login", data)
		return
	}

	p.setSessionCookie(c, resp.Token.AccessToken, int(resp.Token.ExpiresIn))
	c.Redirect(http.StatusSeeOther, safeRedirect(from))
}

func (p *Pages) signupForm(c *gin.Context) {
	if !p.svc.Auth.SignupAllowed() {
		p.render(c, http.StatusForbidden, "signup", gin.H{"Title": "Create Account", "Disabled": true})
		return
	}
	p.render(c, http.StatusOK, "signup", gin.H{"Title": "Create Account"})
}

func (p *Pages) signup(c *gin.Context) {
	var req dto.SignupRequest
	bindErr := c.ShouldBind(&req)
	data := gin.H{"Title": "Create Account", "Name": req.Name, "Email": req.Email}
	if bindErr != nil {
		data["Error"] = "Enter your name, a valid email and a password of at least 8 characters."
		p.render(c, http.StatusBadRequest, "signup", data)
		return
	}

	resp, err := p.svc.Auth.Signup(c.Request.Context(), req, clientMeta(c))
	if err != nil {
		if errors.Is(err, apperrors.ErrSignupDisabled) {
			data["Disabled"] = true
		}
		data["Error"] = userMessage(err)
		p.render(c, middleware.StatusFor(err), "signup", data)
		return
	}

	p.setSessionCookie(c, resp.Token.AccessToken, int(resp.Token.ExpiresIn))
	// new accounts are viewers; the login page explains the missing access
	c.Redirect(http.StatusSeeOther, "/admin/login")
}

func (p *Pages) forgotForm(c *gin.Context) {
	p.render(c, http.StatusOK, "forgot_password", gin.H{"Title": "Reset Password"})
}

func (p *Pages) forgot(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		p.render(c, http.StatusBadRequest, "forgot_password", gin.H{"Title": "Reset Password", "Error": "Enter a valid email address."})
		return
	}
	if err := p.svc.Auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		p.logger.Error().Err(err).Msg("Password reset request failed")
		p.render(c, http.StatusInternalServerError, "forgot_password", gin.H{
			"Title": "Reset Password",
			"Error": "We could not send the reset email. Please try again later.",
		})
		return
	}
	p.render(c, http.StatusOK, "forgot_password", gin.H{"Title": "Reset Password", "Sent": true, "Email": req.Email})
}

func (p *Pages) resetForm(c *gin.Context) {
	p.render(c, http.StatusOK, "reset_password", gin.H{"Title": "Choose a New Password", "Token": c.Query("token")})
}

func (p *Pages) reset(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		p.render(c, http.StatusBadRequest, "reset_password", gin.H{
			"Title": "Choose a New Password",
			"Token": req.Token,
			"Error": "Enter a password of at least 8 characters.",
		})
		return
	}
	if err := p.svc.Auth.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		p.render(c, middleware.StatusFor(err), "reset_password", gin.H{
			"Title": "Choose a New Password",
			"Token": req.Token,
			"Error": userMessage(err),
		})
		return
	}
	p.clearSessionCookie(c)
	c.Redirect(http.StatusSeeOther, "/admin/login?reset=1")
}

func (p *Pages) logout(c *gin.Context) {
	if s := middleware.CurrentSession(c); s != nil {
		if err := p.svc.Auth.Logout(c.Request.Context(), s.ID); err != nil {
			p.logger.Warn().Err(err).Str("uid", s.UID).Msg("Failed to revoke session on logout")
		}
	}
	p.clearSessionCookie(c)
	c.Redirect(http.StatusSeeOther, "/admin/login")
}

// dashboardCount is one tile on /admin.
type dashboardCount struct {
	Label string
	Link  string
	Count int
	Error bool
}

func (p *Pages) dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	tiles := make([]dashboardCount, 0, len(p.resources)+1)
	for _, r := range p.resources {
		rows, err := r.list(ctx)
		if err != nil {
			p.logger.Warn().Err(err).Str("collection", r.Name).Msg("Dashboard count failed")
		}
		tiles = append(tiles, dashboardCount{Label: r.Title, Link: "/admin/" + r.Name, Count: len(rows), Error: err != nil})
	}

	active, err := p.svc.Notification.Active(ctx, p.now())
	if err != nil {
		p.logger.Warn().Err(err).Msg("Dashboard active notification count failed")
	}
	tiles = append(tiles, dashboardCount{Label: "Live notifications", Link: "/admin/notifications", Count: len(active), Error: err != nil})

	p.render(c, http.StatusOK, "dashboard", gin.H{"Title": "Admin Dashboard", "Tiles": tiles})
}

func (p *Pages) facultyImage(c *gin.Context) {
	id := c.Param("id")
	editURL := "/admin/faculty/" + id + "/edit"

	header, err := c.FormFile("image")
	if err != nil {
		c.Redirect(http.StatusSeeOther, editURL+"?error=image")
		return
	}
	file, err := header.Open()
	if err != nil {
		c.Redirect(http.StatusSeeOther, editURL+"?error=image")
		return
	}
	defer file.Close()

	_, err = p.svc.Faculty.UploadImage(c.Request.Context(), id, file, header.Size, func(pct int) {
		p.logger.Debug().Str("facultyId", id).Int("percent", pct).Msg("Image upload progress")
	})
	if err != nil {
		p.logger.Warn().Err(err).Str("facultyId", id).Msg("Panel image upload failed")
		c.Redirect(http.StatusSeeOther, editURL+"?error=image")
		return
	}
	c.Redirect(http.StatusSeeOther, editURL+"?notice=image")
}
