package models

import "time"

const (
	UserSchemaVersion    = 1
	SessionSchemaVersion = 1
)

// User is an account in the users collection; the document id is the uid.
type User struct {
	Base
	Email        string     `json:"email" validate:"required,email" example:"admin@example.edu"`
	Name         string     `json:"name" validate:"required,min=2,max=120" example:"Test Admin"`
	PasswordHash string     `json:"passwordHash,omitempty"`
	Role         RoleType   `json:"role" validate:"required,oneof=admin viewer" example:"admin"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`

	// ResetTokenHash is the sha256 of the pending password-reset token.
	ResetTokenHash string     `json:"resetTokenHash,omitempty"`
	ResetExpiresAt *time.Time `json:"resetExpiresAt,omitempty"`
}

func (u *User) CurrentSchema() int { return UserSchemaVersion }
func (u *User) Upgrade()           {}

// IsAdmin is the sole authorization signal.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Session is a signed-in browser or API client; the document id is the
// token's jti.
type Session struct {
	Base
	UID       string     `json:"uid" validate:"required"`
	IssuedAt  time.Time  `json:"issuedAt"`
	ExpiresAt time.Time  `json:"expiresAt" validate:"required"`
	RevokedAt *time.Time `json:"revokedAt,omitempty"`
	UserAgent string     `json:"userAgent,omitempty"`
	ClientIP  string     `json:"clientIp,omitempty"`
}

func (s *Session) CurrentSchema() int { return SessionSchemaVersion }
func (s *Session) Upgrade()           {}

// Valid reports whether the session is neither revoked nor expired.
func (s *Session) Valid(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
