package auth

import (
	"context"
	"time"
)

// Session is the authenticated principal of one request. It is built from
// a verified token, a live session record and the user's current role.
type Session struct {
	ID        string
	UID       string
	Email     string
	Name      string
	Role      string
	ExpiresAt time.Time
}

// IsAdmin reports whether the principal holds the admin role.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == "admin"
}

type sessionKey struct{}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the session placed by the auth middleware, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}
