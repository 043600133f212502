package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/deptportal/internal/app/models"
	"github.com/yigit/deptportal/internal/app/repositories"
	"github.com/yigit/deptportal/internal/docstore"
	"github.com/yigit/deptportal/internal/pkg/apperrors"
)

// NotificationService selects and manages home page notifications
type NotificationService interface {
	// Active returns the displayable notifications at now, highest
	// priority first, ties in store order.
	Active(ctx context.Context, now time.Time) ([]*models.Notification, error)
	// Current returns the active list and the index shown at now.
	Current(ctx context.Context, now time.Time) ([]*models.Notification, int, error)
	RotationInterval() time.Duration

	ListNotifications(ctx context.Context) ([]*models.Notification, error)
	GetNotification(ctx context.Context, id string) (*models.Notification, error)
	CreateNotification(ctx context.Context, n *models.Notification) (string, error)
	UpdateNotification(ctx context.Context, id string, partial map[string]any) (*models.Notification, error)
	DeleteNotification(ctx context.Context, id string) error
}

type notificationServiceImpl struct {
	repo     *repositories.NotificationRepository
	interval time.Duration
	logger   zerolog.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(repo *repositories.NotificationRepository, interval time.Duration, logger zerolog.Logger) NotificationService {
	return &notificationServiceImpl{repo: repo, interval: interval, logger: logger}
}

// SortByPriority orders high > normal > low > unknown, keeping the
// relative order of equal priorities.
func SortByPriority(list []*models.Notification) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Priority.Rank() > list[j].Priority.Rank()
	})
}

// RotationIndex is the position displayed at now when n notifications
// rotate every interval.
func RotationIndex(now time.Time, interval time.Duration, n int) int {
	if n <= 1 || interval <= 0 {
		return 0
	}
	slot := now.UnixNano() / int64(interval)
	idx := int(slot % int64(n))
	if idx < 0 {
		idx += n
	}
	return idx
}

func (s *notificationServiceImpl) Active(ctx context.Context, now time.Time) ([]*models.Notification, error) {
	list, err := s.repo.FindInWindow(ctx, now)
	switch {
	case err == nil:
	case errors.Is(err, docstore.ErrQueryNotSupported):
		s.logger.Debug().Err(err).Msg("Compound notification query unsupported, filtering active notifications locally")
		list, err = s.activeFallback(ctx, now)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("error querying notifications: %w", err)
	}
	SortByPriority(list)
	return list, nil
}

// activeFallback fetches every active record and applies the window here.
func (s *notificationServiceImpl) activeFallback(ctx context.Context, now time.Time) ([]*models.Notification, error) {
	all, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("error querying active notifications: %w", err)
	}
	out := make([]*models.Notification, 0, len(all))
	for _, n := range all {
		if n.InWindow(now) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *notificationServiceImpl) Current(ctx context.Context, now time.Time) ([]*models.Notification, int, error) {
	list, err := s.Active(ctx, now)
	if err != nil {
		return nil, 0, err
	}
	return list, RotationIndex(now, s.interval, len(list)), nil
}

func (s *notificationServiceImpl) RotationInterval() time.Duration {
	return s.interval
}

func notificationNotFound(err error) error {
	if errors.Is(err, apperrors.ErrResourceNotFound) {
		return fmt.Errorf("%w: %w", apperrors.ErrNotificationNotFound, err)
	}
	return err
}

func (s *notificationServiceImpl) ListNotifications(ctx context.Context) ([]*models.Notification, error) {
	list, err := s.repo.Find(ctx, docstore.All().Order("startDate", true))
	if err != nil {
		return nil, fmt.Errorf("error retrieving notifications: %w", err)
	}
	return list, nil
}

func (s *notificationServiceImpl) GetNotification(ctx context.Context, id string) (*models.Notification, error) {
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, notificationNotFound(err)
	}
	return n, nil
}

func (s *notificationServiceImpl) CreateNotification(ctx context.Context, n *models.Notification) (string, error) {
	if n.Priority == "" {
		n.Priority = models.PriorityNormal
	}
	if n.Type == "" {
		n.Type = "info"
	}
	id, err := s.repo.Create(ctx, n)
	if err != nil {
		return "", fmt.Errorf("error creating notification: %w", err)
	}
	return id, nil
}

func (s *notificationServiceImpl) UpdateNotification(ctx context.Context, id string, partial map[string]any) (*models.Notification, error) {
	n, err := s.repo.Update(ctx, id, partial)
	if err != nil {
		return nil, notificationNotFound(err)
	}
	return n, nil
}

func (s *notificationServiceImpl) DeleteNotification(ctx context.Context, id string) error {
	return notificationNotFound(s.repo.Delete(ctx, id))
}
