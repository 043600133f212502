//go:build !devadmin

package pages

import "github.com/gin-gonic/gin"

// registerDevRoutes is empty in release builds; /admin/dev-login falls
// through to the catch-all redirect.
func (p *Pages) registerDevRoutes(*gin.RouterGroup) {}
