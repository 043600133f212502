package repositories

import (
	"context"
	"time"

	"github.com/yigit/deptportal/internal/app/models"
	"github.com/yigit/deptportal/internal/docstore"
)

// NotificationRepository handles notification documents
type NotificationRepository struct {
	*Collection[models.Notification, *models.Notification]
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(store docstore.Store) *NotificationRepository {
	return &NotificationRepository{NewCollection[models.Notification](store, docstore.CollectionNotifications)}
}

// FindInWindow issues the compound query active && start <= now && end >= now.
// Stores without a composite index answer docstore.ErrQueryNotSupported.
func (r *NotificationRepository) FindInWindow(ctx context.Context, now time.Time) ([]*models.Notification, error) {
	q := docstore.Where("active", docstore.OpEq, true).
		Where("startDate", docstore.OpLte, now).
		Where("endDate", docstore.OpGte, now)
	return r.Find(ctx, q)
}

// FindActive returns every record flagged active, regardless of dates.
func (r *NotificationRepository) FindActive(ctx context.Context) ([]*models.Notification, error) {
	return r.Find(ctx, docstore.Where("active", docstore.OpEq, true))
}
