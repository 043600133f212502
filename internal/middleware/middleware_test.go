package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/deptportal/internal/app/models/dto"
	"github.com/yigit/deptportal/internal/pkg/apperrors"
	"github.com/yigit/deptportal/internal/pkg/auth"
)

type fakeAuthenticator map[string]*auth.Session

func (f fakeAuthenticator) Authenticate(_ context.Context, token string) (*auth.Session, error) {
	switch token {
	case "expired":
		return nil, apperrors.ErrTokenExpired
	case "revoked":
		return nil, apperrors.ErrTokenRevoked
	}
	if s, ok := f[token]; ok {
		return s, nil
	}
	return nil, apperrors.ErrTokenInvalid
}

func newRouter() (*gin.Engine, *AuthMiddleware) {
	gin.SetMode(gin.TestMode)
	m := NewAuthMiddleware(fakeAuthenticator{
		"admin-token":  {ID: "s1", UID: "u1", Role: "admin"},
		"viewer-token": {ID: "s2", UID: "u2", Role: "viewer"},
	}, "session")
	r := gin.New()
	r.Use(m.Authenticate())
	r.GET("/api", m.RequireAdmin(), func(c *gin.Context) {
		// the principal reaches the request context too
		s := auth.FromContext(c.Request.Context())
		c.String(http.StatusOK, s.UID)
	})
	r.GET("/me", m.RequireAuth(), func(c *gin.Context) { c.String(http.StatusOK, CurrentSession(c).UID) })
	r.GET("/admin/faculty", m.RequireAdminPage(), func(c *gin.Context) { c.String(http.StatusOK, "panel") })
	return r, m
}

func TestRequireAdmin_API(t *testing.T) {
	r, _ := newRouter()

	tests := []struct {
		name   string
		header string
		cookie string
		status int
		code   dto.ErrorCode
	}{
		{"no token", "", "", http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"bad format", "Token abc", "", http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
		{"invalid", "Bearer nope", "", http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
		{"expired", "Bearer expired", "", http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
		{"revoked", "Bearer revoked", "", http.StatusUnauthorized, dto.ErrorCodeRevokedToken},
		{"viewer", "Bearer viewer-token", "", http.StatusForbidden, dto.ErrorCodeForbidden},
		{"admin header", "Bearer admin-token", "", http.StatusOK, ""},
		{"admin cookie", "", "admin-token", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "session", Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.code == "" {
				assert.Equal(t, "u1", w.Body.String())
				return
			}
			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestRequireAuth_AllowsViewer(t *testing.T) {
	r, _ := newRouter()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer viewer-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u2", w.Body.String())
}

func TestRequireAdminPage_Redirects(t *testing.T) {
	r, _ := newRouter()

	for _, cookie := range []string{"", "viewer-token", "expired"} {
		t.Run(fmt.Sprintf("cookie=%q", cookie), func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/faculty?page=2", nil)
			if cookie != "" {
				req.AddCookie(&http.Cookie{Name: "session", Value: cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, "/admin/login?from=%2Fadmin%2Ffaculty%3Fpage%3D2", w.Header().Get("Location"))
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/faculty", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "admin-token"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleAPIError_Mapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("x: %w", apperrors.ErrResourceNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: %w", apperrors.ErrFacultyNotFound, apperrors.ErrResourceNotFound), http.StatusNotFound},
		{apperrors.NewValidationError("bad", map[string]string{"name": "name is required"}), http.StatusBadRequest},
		{apperrors.ErrUSNAlreadyExists, http.StatusConflict},
		{apperrors.ErrSignupDisabled, http.StatusForbidden},
		{apperrors.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{fmt.Errorf("%w: faculty: %w", apperrors.ErrStoreUnavailable, errors.New("dial tcp")), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
			HandleAPIError(c, tt.err)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestHandleAPIError_ValidationDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/x", nil)

	HandleAPIError(c, apperrors.NewValidationError("name is required", map[string]string{"name": "name is required"}))

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrorCodeValidationFailed, resp.Error.Code)
	assert.Equal(t, map[string]interface{}{"name": "name is required"}, resp.Error.Details)
}
