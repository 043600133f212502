package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yigit/deptportal/internal/app/models"
	"github.com/yigit/deptportal/internal/docstore"
	"github.com/yigit/deptportal/internal/pkg/apperrors"
)

// UserRepository handles users; the document id is the uid.
type UserRepository struct {
	*Collection[models.User, *models.User]
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(store docstore.Store) *UserRepository {
	return &UserRepository{NewCollection[models.User](store, docstore.CollectionUsers)}
}

// NormalizeEmail lowercases and trims an address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GetByEmail returns the user with the given address or ErrUserNotFound.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	found, err := r.Find(ctx, docstore.Where("email", docstore.OpEq, NormalizeEmail(email)).WithLimit(1))
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, apperrors.ErrUserNotFound
	}
	return found[0], nil
}

// Create inserts a user after checking the email is free.
func (r *UserRepository) Create(ctx context.Context, u *models.User) (string, error) {
	u.Email = NormalizeEmail(u.Email)
	existing, err := r.Find(ctx, docstore.Where("email", docstore.OpEq, u.Email).WithLimit(1))
	if err != nil {
		return "", err
	}
	if len(existing) > 0 && existing[0].ID != u.ID {
		return "", fmt.Errorf("%q: %w", u.Email, apperrors.ErrEmailAlreadyExists)
	}
	return r.Collection.Create(ctx, u)
}

// TouchLogin records a successful sign-in.
func (r *UserRepository) TouchLogin(ctx context.Context, uid string, at time.Time) error {
	return r.Patch(ctx, uid, map[string]any{"lastLoginAt": at})
}

// GetByResetToken finds the user holding a pending reset token hash.
func (r *UserRepository) GetByResetToken(ctx context.Context, tokenHash string) (*models.User, error) {
	if tokenHash == "" {
		return nil, apperrors.ErrTokenInvalid
	}
	found, err := r.Find(ctx, docstore.Where("resetTokenHash", docstore.OpEq, tokenHash).WithLimit(1))
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, apperrors.ErrTokenInvalid
	}
	return found[0], nil
}
