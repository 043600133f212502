package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/yigit/deptportal/internal/app/models/dto"
	"github.com/yigit/deptportal/internal/pkg/apperrors"
	"github.com/yigit/deptportal/internal/pkg/auth"
)

// Context keys set by the auth middleware
const (
	sessionContextKey   = "session"
	authErrorContextKey = "authError"
)

// Authenticator verifies an access token and returns the principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Session, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	authenticator Authenticator
	cookieName    string
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(authenticator Authenticator, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		authenticator: authenticator,
		cookieName:    cookieName,
	}
}

// CookieName is the cookie the HTML panel keeps its token in.
func (m *AuthMiddleware) CookieName() string {
	return m.cookieName
}

// tokenFromRequest prefers the Authorization header over the cookie.
func (m *AuthMiddleware) tokenFromRequest(c *gin.Context) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		return auth.ExtractBearerToken(header)
	}
	if m.cookieName != "" {
		if cookie, err := c.Cookie(m.cookieName); err == nil && cookie != "" {
			return cookie, nil
		}
	}
	return "", nil
}

// Authenticate resolves the principal when a token is present. Requests
// without a valid token continue anonymously; the reason is kept for the
// Require* handlers.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := m.tokenFromRequest(c)
		if err != nil {
			c.Set(authErrorContextKey, apperrors.ErrTokenInvalid)
			c.Next()
			return
		}
		if token == "" {
			c.Next()
			return
		}

		session, err := m.authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.Set(authErrorContextKey, err)
			c.Next()
			return
		}

		c.Set(sessionContextKey, session)
		c.Request = c.Request.WithContext(auth.WithSession(c.Request.Context(), session))
		c.Next()
	}
}

// CurrentSession returns the authenticated principal or nil.
func CurrentSession(c *gin.Context) *auth.Session {
	if v, ok := c.Get(sessionContextKey); ok {
		if s, ok := v.(*auth.Session); ok {
			return s
		}
	}
	return nil
}

func unauthorizedDetail(c *gin.Context) *dto.ErrorDetail {
	detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
	v, ok := c.Get(authErrorContextKey)
	if !ok {
		return detail.WithDetails("Authorization header or session cookie missing")
	}
	// Map the recorded failure onto a specific error code
	err, _ := v.(error)
	switch {
	case errors.Is(err, apperrors.ErrTokenExpired):
		return dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token has expired")
	case errors.Is(err, apperrors.ErrTokenRevoked):
		return dto.NewErrorDetail(dto.ErrorCodeRevokedToken, "Token has been revoked")
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		return dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Could not verify session").WithSeverity(dto.ErrorSeverityCritical)
	}
	return dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")
}

// RequireAuth rejects anonymous API requests with 401.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentSession(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(unauthorizedDetail(c)))
			return
		}
		c.Next() // Authenticated, continue
	}
}

// RequireAdmin answers 401 without a valid session and 403 when the
// user's current role is not admin.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := CurrentSession(c)
		if session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(unauthorizedDetail(c)))
			return
		}
		// Role is read from the user record on every request
		if !session.IsAdmin() {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
				WithDetails("You don't have sufficient permissions for this operation")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}
		c.Next()
	}
}

// LoginRedirect builds the login URL that returns to from afterwards.
func LoginRedirect(from string) string {
	if from == "" {
		return "/admin/login"
	}
	return "/admin/login?from=" + url.QueryEscape(from)
}

// RequireAdminPage redirects everyone but admins to the login page.
func (m *AuthMiddleware) RequireAdminPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentSession(c).IsAdmin() {
			// Come back to the requested page after login
			c.Redirect(http.StatusSeeOther, LoginRedirect(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}
