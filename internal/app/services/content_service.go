package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/deptportal/internal/app/models"
	"github.com/yigit/deptportal/internal/app/repositories"
	"github.com/yigit/deptportal/internal/pkg/auth"
)

// CRUDService is the admin contract shared by the simple collections.
type CRUDService[T any] interface {
	List(ctx context.Context) ([]*T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, rec *T) (string, error)
	Update(ctx context.Context, id string, partial map[string]any) (*T, error)
	Delete(ctx context.Context, id string) error
}

type crudService[T any, P repositories.RecordPtr[T]] struct {
	coll   *repositories.Collection[T, P]
	logger zerolog.Logger
}

func (s *crudService[T, P]) List(ctx context.Context) ([]*T, error) {
	list, err := s.coll.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving %s: %w", s.coll.Name(), err)
	}
	return list, nil
}

func (s *crudService[T, P]) Get(ctx context.Context, id string) (*T, error) {
	return s.coll.Get(ctx, id)
}

func (s *crudService[T, P]) Create(ctx context.Context, rec *T) (string, error) {
	id, err := s.coll.Create(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("error creating %s record: %w", s.coll.Name(), err)
	}
	s.logger.Info().Str("collection", s.coll.Name()).Str("id", id).Str("by", actor(ctx)).Msg("Record created")
	return id, nil
}

func (s *crudService[T, P]) Update(ctx context.Context, id string, partial map[string]any) (*T, error) {
	return s.coll.Update(ctx, id, partial)
}

func (s *crudService[T, P]) Delete(ctx context.Context, id string) error {
	if err := s.coll.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("collection", s.coll.Name()).Str("id", id).Str("by", actor(ctx)).Msg("Record deleted")
	return nil
}

// actor names the signed-in user behind ctx for audit lines.
func actor(ctx context.Context) string {
	if s := auth.FromContext(ctx); s != nil {
		return s.UID
	}
	return "system"
}

// ResearchService manages research records
type ResearchService interface {
	CRUDService[models.Research]
	ListByFaculty(ctx context.Context, facultyID string) ([]*models.Research, error)
	ListByType(ctx context.Context, category string) ([]*models.Research, error)
}

type researchServiceImpl struct {
	crudService[models.Research, *models.Research]
	repo *repositories.ResearchRepository
}

func NewResearchService(repo *repositories.ResearchRepository, logger zerolog.Logger) ResearchService {
	return &researchServiceImpl{
		crudService: crudService[models.Research, *models.Research]{coll: repo.Collection, logger: logger},
		repo:        repo,
	}
}

func (s *researchServiceImpl) ListByFaculty(ctx context.Context, facultyID string) ([]*models.Research, error) {
	return s.repo.ListByFaculty(ctx, facultyID)
}

// ListByType matches the free-text category case-insensitively.
func (s *researchServiceImpl) ListByType(ctx context.Context, category string) ([]*models.Research, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return filterFold(list, category, func(r *models.Research) string { return r.Category }), nil
}

// AchievementService manages achievement records
type AchievementService interface {
	CRUDService[models.Achievement]
	ListByFaculty(ctx context.Context, facultyID string) ([]*models.Achievement, error)
	ListByType(ctx context.Context, achievementType string) ([]*models.Achievement, error)
}

type achievementServiceImpl struct {
	crudService[models.Achievement, *models.Achievement]
	repo *repositories.AchievementRepository
}

func NewAchievementService(repo *repositories.AchievementRepository, logger zerolog.Logger) AchievementService {
	return &achievementServiceImpl{
		crudService: crudService[models.Achievement, *models.Achievement]{coll: repo.Collection, logger: logger},
		repo:        repo,
	}
}

func (s *achievementServiceImpl) ListByFaculty(ctx context.Context, facultyID string) ([]*models.Achievement, error) {
	return s.repo.ListByFaculty(ctx, facultyID)
}

func (s *achievementServiceImpl) ListByType(ctx context.Context, achievementType string) ([]*models.Achievement, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return filterFold(list, achievementType, func(a *models.Achievement) string { return a.Type }), nil
}

// filterFold keeps the records whose key equals want, ignoring case and
// surrounding space.
func filterFold[T any](list []*T, want string, key func(*T) string) []*T {
	want = strings.TrimSpace(want)
	out := make([]*T, 0, len(list))
	for _, rec := range list {
		if strings.EqualFold(strings.TrimSpace(key(rec)), want) {
			out = append(out, rec)
		}
	}
	return out
}

// EventService manages department events
type EventService interface {
	CRUDService[models.Event]
	ListRecent(ctx context.Context) ([]*models.Event, error)
	ListByType(ctx context.Context, eventType string) ([]*models.Event, error)
}

type eventServiceImpl struct {
	crudService[models.Event, *models.Event]
	repo *repositories.EventRepository
}

func NewEventService(repo *repositories.EventRepository, logger zerolog.Logger) EventService {
	return &eventServiceImpl{
		crudService: crudService[models.Event, *models.Event]{coll: repo.Collection, logger: logger},
		repo:        repo,
	}
}

func (s *eventServiceImpl) Create(ctx context.Context, e *models.Event) (string, error) {
	e.Type = strings.ToLower(strings.TrimSpace(e.Type))
	return s.crudService.Create(ctx, e)
}

func (s *eventServiceImpl) Update(ctx context.Context, id string, partial map[string]any) (*models.Event, error) {
	if t, ok := partial["type"].(string); ok {
		partial["type"] = strings.ToLower(strings.TrimSpace(t))
	}
	return s.crudService.Update(ctx, id, partial)
}

func (s *eventServiceImpl) ListRecent(ctx context.Context) ([]*models.Event, error) {
	return s.repo.ListRecent(ctx)
}

func (s *eventServiceImpl) ListByType(ctx context.Context, eventType string) ([]*models.Event, error) {
	return s.repo.ListByType(ctx, strings.ToLower(eventType))
}

// CertificationService manages certification records
type CertificationService interface {
	CRUDService[models.Certification]
	ListByType(ctx context.Context, certType string) ([]*models.Certification, error)
}

type certificationServiceImpl struct {
	crudService[models.Certification, *models.Certification]
	repo *repositories.CertificationRepository
}

func NewCertificationService(repo *repositories.CertificationRepository, logger zerolog.Logger) CertificationService {
	return &certificationServiceImpl{
		crudService: crudService[models.Certification, *models.Certification]{coll: repo.Collection, logger: logger},
		repo:        repo,
	}
}

func (s *certificationServiceImpl) Create(ctx context.Context, rec *models.Certification) (string, error) {
	rec.Type = strings.ToLower(strings.TrimSpace(rec.Type))
	return s.crudService.Create(ctx, rec)
}

func (s *certificationServiceImpl) Update(ctx context.Context, id string, partial map[string]any) (*models.Certification, error) {
	if t, ok := partial["type"].(string); ok {
		partial["type"] = strings.ToLower(strings.TrimSpace(t))
	}
	return s.crudService.Update(ctx, id, partial)
}

func (s *certificationServiceImpl) ListByType(ctx context.Context, certType string) ([]*models.Certification, error) {
	return s.repo.ListByType(ctx, strings.ToLower(strings.TrimSpace(certType)))
}
