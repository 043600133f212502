// Package pages renders the public site and the admin panel as server-side
// HTML.
package pages

import (
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/deptportal/internal/app/services"
	"github.com/yigit/deptportal/internal/middleware"
	"github.com/yigit/deptportal/internal/pkg/apperrors"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Options tune cookie handling.
type Options struct {
	CookieSecure bool
	Logger       zerolog.Logger
}

// Pages holds the page handlers.
type Pages struct {
	svc       *services.Services
	auth      *middleware.AuthMiddleware
	templates *template.Template
	resources []*resource
	opts      Options
	logger    zerolog.Logger
	now       func() time.Time
}

// New parses the embedded templates.
func New(svc *services.Services, authMiddleware *middleware.AuthMiddleware, opts Options) (*Pages, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Pages{
		svc:       svc,
		auth:      authMiddleware,
		templates: tmpl,
		resources: adminResources(svc),
		opts:      opts,
		logger:    opts.Logger,
		now:       time.Now,
	}, nil
}

// Static is the embedded asset tree served under /static.
func Static() http.FileSystem {
	sub, _ := fs.Sub(staticFS, "static")
	return http.FS(sub)
}

// Register mounts the pages, the static assets and the catch-all redirect.
// The router must not have another HTML renderer.
func (p *Pages) Register(router *gin.Engine) {
	router.SetHTMLTemplate(p.templates)
	router.StaticFS("/static", Static())

	site := router.Group("")
	site.Use(p.auth.Authenticate())

	site.GET("/", p.home)
	site.GET("/about", p.about)
	site.GET("/faculty", p.facultyList)
	site.GET("/faculty/:id", p.facultyDetail)
	site.GET("/students", p.students)
	site.GET("/students/:id", p.studentDetail)
	site.GET("/events", p.events)
	site.GET("/events/:type", p.events)
	site.GET("/academics/research", p.research)
	site.GET("/academics/research/:type", p.research)
	site.GET("/academics/achievements", p.achievements)
	site.GET("/academics/achievements/:type", p.achievements)
	site.GET("/academics/certifications", p.certifications)
	site.GET("/academics/certifications/:type", p.certifications)
	site.GET("/academics/placements", p.placements)

	site.GET("/admin/login", p.loginForm)
	site.POST("/admin/login", p.login)
	site.GET("/admin/signup", p.signupForm)
	site.POST("/admin/signup", p.signup)
	site.GET("/admin/forgot-password", p.forgotForm)
	site.POST("/admin/forgot-password", p.forgot)
	site.GET("/admin/reset-password", p.resetForm)
	site.POST("/admin/reset-password", p.reset)
	site.POST("/admin/logout", p.logout)
	p.registerDevRoutes(site)

	admin := site.Group("/admin")
	admin.Use(p.auth.RequireAdminPage())
	admin.GET("", p.dashboard)
	for _, r := range p.resources {
		admin.GET("/"+r.Name, p.adminList(r))
		admin.POST("/"+r.Name, p.adminCreate(r))
		admin.GET("/"+r.Name+"/:id/edit", p.adminEdit(r))
		admin.POST("/"+r.Name+"/:id", p.adminUpdate(r))
		admin.POST("/"+r.Name+"/:id/delete", p.adminDelete(r))
	}
	admin.POST("/faculty/:id/image", p.facultyImage)

	router.NoRoute(notFound)
}

// notFound answers unknown API paths with JSON and sends browsers home.
func notFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		middleware.HandleAPIError(c, apperrors.ErrResourceNotFound)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (p *Pages) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Session"] = middleware.CurrentSession(c)
	data["Path"] = c.Request.URL.Path
	data["Year"] = p.now().Year()
	c.HTML(status, name, data)
}

func (p *Pages) notFoundPage(c *gin.Context, what string) {
	p.render(c, http.StatusNotFound, "not_found", gin.H{"Title": "Not found", "What": what})
}

// unavailable renders the error page for store failures.
func (p *Pages) unavailable(c *gin.Context, err error) {
	p.logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Page failed")
	p.render(c, middleware.StatusFor(err), "error", gin.H{"Title": "Something went wrong", "Error": userMessage(err)})
}

// userMessage is the text shown on a page for err.
func userMessage(err error) string {
	var ce *apperrors.CustomError
	switch {
	case errors.As(err, &ce) && ce.Message != "":
		return ce.Message
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return "An account with this email already exists."
	case errors.Is(err, apperrors.ErrUSNAlreadyExists):
		return "A student with this USN already exists."
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrTokenExpired):
		return "This link is invalid or has expired."
	case errors.Is(err, apperrors.ErrSignupDisabled):
		return "Sign-up is disabled."
	case errors.Is(err, apperrors.ErrFileTooLarge):
		return "The file is too large."
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return "The record no longer exists."
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		return "The data store is unavailable. Please try again shortly."
	}
	return "An unexpected error occurred."
}

func (p *Pages) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(p.auth.CookieName(), token, maxAge, "/", "", p.opts.CookieSecure, true)
}

func (p *Pages) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(p.auth.CookieName(), "", -1, "/", "", p.opts.CookieSecure, true)
}
