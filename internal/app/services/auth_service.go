package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/deptportal/internal/app/models"
	"github.com/yigit/deptportal/internal/app/models/dto"
	"github.com/yigit/deptportal/internal/app/repositories"
	"github.com/yigit/deptportal/internal/pkg/apperrors"
	"github.com/yigit/deptportal/internal/pkg/auth"
	"github.com/yigit/deptportal/internal/pkg/email"
)

// DefaultResetTokenTTL is how long a mailed reset link stays valid.
const DefaultResetTokenTTL = time.Hour

// AuthOptions tunes the auth service.
type AuthOptions struct {
	AllowSignup   bool
	ResetTokenTTL time.Duration
}

// ClientMeta describes the client a session is issued to.
type ClientMeta struct {
	UserAgent string
	ClientIP  string
}

// AuthService handles sign-in, sign-up, sign-out, password reset and the
// verification of access tokens.
type AuthService struct {
	userRepo    *repositories.UserRepository
	sessionRepo *repositories.SessionRepository
	jwtService  *auth.JWTService
	mailer      email.EmailService
	options     AuthOptions
	now         func() time.Time
	logger      zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo *repositories.UserRepository,
	sessionRepo *repositories.SessionRepository,
	jwtService *auth.JWTService,
	mailer email.EmailService,
	options AuthOptions,
	logger zerolog.Logger,
) *AuthService {
	if options.ResetTokenTTL <= 0 {
		options.ResetTokenTTL = DefaultResetTokenTTL
	}
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		jwtService:  jwtService,
		mailer:      mailer,
		options:     options,
		now:         func() time.Time { return time.Now().UTC() },
		logger:      logger,
	}
}

// SignupAllowed reports whether self sign-up is enabled.
func (s *AuthService) SignupAllowed() bool {
	return s.options.AllowSignup
}

// Login checks credentials and issues a session.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest, meta ClientMeta) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.logger.Info().Str("email", repositories.NormalizeEmail(req.Email)).Msg("Login attempt for unknown email")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}
	if user.PasswordHash == "" || !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Info().Str("uid", user.ID).Msg("Login attempt with wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	resp, err := s.IssueSession(ctx, user, meta)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.TouchLogin(ctx, user.ID, s.now()); err != nil {
		s.logger.Warn().Err(err).Str("uid", user.ID).Msg("Failed to record login time")
	}
	return resp, nil
}

// Signup creates a viewer account and signs it in.
func (s *AuthService) Signup(ctx context.Context, req dto.SignupRequest, meta ClientMeta) (*dto.AuthResponse, error) {
	if !s.options.AllowSignup {
		return nil, apperrors.ErrSignupDisabled
	}
	if err := auth.CheckPasswordStrength(req.Password); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), map[string]string{"password": err.Error()})
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:        req.Email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		Role:         models.RoleViewer,
	}
	if _, err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info().Str("uid", user.ID).Str("email", user.Email).Msg("User signed up")
	return s.IssueSession(ctx, user, meta)
}

// IssueSession records a session and signs a token naming it.
func (s *AuthService) IssueSession(ctx context.Context, user *models.User, meta ClientMeta) (*dto.AuthResponse, error) {
	issued, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	session := &models.Session{
		Base:      models.Base{ID: issued.SessionID},
		UID:       user.ID,
		IssuedAt:  issued.IssuedAt,
		ExpiresAt: issued.ExpiresAt,
		UserAgent: meta.UserAgent,
		ClientIP:  meta.ClientIP,
	}
	if _, err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("error recording session: %w", err)
	}

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: issued.Token,
			TokenType:   "Bearer",
			ExpiresIn:   int64(issued.ExpiresAt.Sub(issued.IssuedAt).Seconds()),
		},
		User: dto.NewUserResponse(user),
	}, nil
}

// Authenticate verifies a token and builds the request principal. The
// role comes from the user record at call time, not from the token.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Session, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}

	session, err := s.sessionRepo.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, err
	}
	if session.UID != claims.Subject {
		return nil, apperrors.ErrTokenInvalid
	}
	if session.RevokedAt != nil {
		return nil, apperrors.ErrTokenRevoked
	}
	if !session.Valid(s.now()) {
		return nil, apperrors.ErrTokenExpired
	}

	user, err := s.userRepo.Get(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, err
	}

	return &auth.Session{
		ID:        session.ID,
		UID:       user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      string(user.Role),
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// Logout revokes the session behind the current token.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessionRepo.Revoke(ctx, sessionID, s.now()); err != nil {
		return fmt.Errorf("error revoking session: %w", err)
	}
	return nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ForgotPassword mails a reset link. Unknown addresses are not reported
// to the caller.
func (s *AuthService) ForgotPassword(ctx context.Context, emailAddr string) error {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.logger.Info().Str("email", repositories.NormalizeEmail(emailAddr)).Msg("Password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := email.GenerateToken()
	if err != nil {
		return err
	}
	expires := s.now().Add(s.options.ResetTokenTTL)
	if err := s.userRepo.Patch(ctx, user.ID, map[string]any{
		"resetTokenHash": hashResetToken(token),
		"resetExpiresAt": expires,
	}); err != nil {
		return fmt.Errorf("error storing reset token: %w", err)
	}

	if err := s.mailer.SendPasswordResetEmail(ctx, user.Email, user.Name, token); err != nil {
		return fmt.Errorf("error sending reset email: %w", err)
	}
	return nil
}

// ResetPassword sets a new password with a mailed token and signs the
// user out everywhere.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.userRepo.GetByResetToken(ctx, hashResetToken(token))
	if err != nil {
		return err
	}
	now := s.now()
	if user.ResetExpiresAt == nil || now.After(*user.ResetExpiresAt) {
		return apperrors.ErrTokenExpired
	}
	if err := auth.CheckPasswordStrength(newPassword); err != nil {
		return apperrors.NewValidationError(err.Error(), map[string]string{"password": err.Error()})
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	if err := s.userRepo.Patch(ctx, user.ID, map[string]any{
		"passwordHash":   hash,
		"resetTokenHash": nil,
		"resetExpiresAt": nil,
	}); err != nil {
		return err
	}
	n, err := s.sessionRepo.RevokeAllForUser(ctx, user.ID, now)
	if err != nil {
		return err
	}
	s.logger.Info().Str("uid", user.ID).Int("revokedSessions", n).Msg("Password reset")
	return nil
}

// EnsureAdmin creates an admin account or promotes an existing one. A
// non-empty password replaces the stored one. The bool reports creation.
func (s *AuthService) EnsureAdmin(ctx context.Context, uid, emailAddr, name, password string) (*models.User, bool, error) {
	var hash string
	if password != "" {
		if err := auth.CheckPasswordStrength(password); err != nil {
			return nil, false, apperrors.NewValidationError(err.Error(), map[string]string{"password": err.Error()})
		}
		h, err := auth.HashPassword(password)
		if err != nil {
			return nil, false, fmt.Errorf("error hashing password: %w", err)
		}
		hash = h
	}

	var existing *models.User
	var err error
	if uid != "" {
		existing, err = s.userRepo.Get(ctx, uid)
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			err = nil
		}
	} else {
		existing, err = s.userRepo.GetByEmail(ctx, emailAddr)
		if errors.Is(err, apperrors.ErrUserNotFound) {
			err = nil
		}
	}
	if err != nil {
		return nil, false, err
	}

	if existing == nil {
		user := &models.User{
			Base:         models.Base{ID: uid},
			Email:        emailAddr,
			Name:         name,
			PasswordHash: hash,
			Role:         models.RoleAdmin,
		}
		if _, err := s.userRepo.Create(ctx, user); err != nil {
			return nil, false, err
		}
		s.logger.Info().Str("uid", user.ID).Str("email", user.Email).Msg("Admin user created")
		return user, true, nil
	}

	partial := map[string]any{"role": string(models.RoleAdmin)}
	if hash != "" {
		partial["passwordHash"] = hash
	}
	user, err := s.userRepo.Update(ctx, existing.ID, partial)
	if err != nil {
		return nil, false, err
	}
	s.logger.Info().Str("uid", user.ID).Str("email", user.Email).Msg("User promoted to admin")
	return user, false, nil
}
