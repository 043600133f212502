//go:build devadmin

package pages

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	devAdminUID   = "test-admin-uid"
	devAdminEmail = "test-admin@example.edu"
)

// registerDevRoutes adds a one-click admin sign-in for local development.
// Only binaries built with -tags devadmin carry it.
func (p *Pages) registerDevRoutes(site *gin.RouterGroup) {
	site.GET("/admin/dev-login", p.devLogin)
}

func (p *Pages) devLogin(c *gin.Context) {
	ctx := c.Request.Context()
	user, _, err := p.svc.Auth.EnsureAdmin(ctx, devAdminUID, devAdminEmail, "Test Admin", "")
	if err != nil {
		p.unavailable(c, err)
		return
	}
	resp, err := p.svc.Auth.IssueSession(ctx, user, clientMeta(c))
	if err != nil {
		p.unavailable(c, err)
		return
	}
	p.logger.Warn().Str("uid", user.ID).Msg("Development admin sign-in used")
	p.setSessionCookie(c, resp.Token.AccessToken, int(resp.Token.ExpiresIn))
	c.Redirect(http.StatusSeeOther, "/admin")
}
