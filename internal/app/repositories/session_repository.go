package repositories

import (
	"context"
	"time"

	"github.com/yigit/deptportal/internal/app/models"
	"github.com/yigit/deptportal/internal/docstore"
)

// SessionRepository handles sessions; the document id is the token jti.
type SessionRepository struct {
	*Collection[models.Session, *models.Session]
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(store docstore.Store) *SessionRepository {
	return &SessionRepository{NewCollection[models.Session](store, docstore.CollectionSessions)}
}

// Revoke marks a session as signed out.
func (r *SessionRepository) Revoke(ctx context.Context, id string, at time.Time) error {
	return r.Patch(ctx, id, map[string]any{"revokedAt": at})
}

// RevokeAllForUser signs a user out everywhere and returns the count.
func (r *SessionRepository) RevokeAllForUser(ctx context.Context, uid string, at time.Time) (int, error) {
	sessions, err := r.Find(ctx, docstore.Where("uid", docstore.OpEq, uid))
	if err != nil {
		return 0, err
	}
	n := 0
	for _, s := range sessions {
		if s.RevokedAt != nil {
			continue
		}
		if err := r.Revoke(ctx, s.ID, at); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
