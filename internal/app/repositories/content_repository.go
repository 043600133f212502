package repositories

import (
	"context"

	"github.com/yigit/deptportal/internal/app/models"
	"github.com/yigit/deptportal/internal/docstore"
)

// ResearchRepository handles research documents
type ResearchRepository struct {
	*Collection[models.Research, *models.Research]
}

func NewResearchRepository(store docstore.Store) *ResearchRepository {
	return &ResearchRepository{NewCollection[models.Research](store, docstore.CollectionResearch)}
}

// ListByFaculty follows the loose facultyId reference.
func (r *ResearchRepository) ListByFaculty(ctx context.Context, facultyID string) ([]*models.Research, error) {
	return r.Find(ctx, docstore.Where("facultyId", docstore.OpEq, facultyID))
}

// AchievementRepository handles achievement documents
type AchievementRepository struct {
	*Collection[models.Achievement, *models.Achievement]
}

func NewAchievementRepository(store docstore.Store) *AchievementRepository {
	return &AchievementRepository{NewCollection[models.Achievement](store, docstore.CollectionAchievements)}
}

// ListByFaculty follows the loose facultyId reference.
func (r *AchievementRepository) ListByFaculty(ctx context.Context, facultyID string) ([]*models.Achievement, error) {
	return r.Find(ctx, docstore.Where("facultyId", docstore.OpEq, facultyID))
}

// EventRepository handles event documents
type EventRepository struct {
	*Collection[models.Event, *models.Event]
}

func NewEventRepository(store docstore.Store) *EventRepository {
	return &EventRepository{NewCollection[models.Event](store, docstore.CollectionEvents)}
}

// ListByType returns events of one type, newest first.
func (r *EventRepository) ListByType(ctx context.Context, eventType string) ([]*models.Event, error) {
	return r.Find(ctx, docstore.Where("type", docstore.OpEq, eventType).Order("startDate", true))
}

// ListRecent returns all events, newest first.
func (r *EventRepository) ListRecent(ctx context.Context) ([]*models.Event, error) {
	return r.Find(ctx, docstore.All().Order("startDate", true))
}

// CertificationRepository handles certification documents
type CertificationRepository struct {
	*Collection[models.Certification, *models.Certification]
}

func NewCertificationRepository(store docstore.Store) *CertificationRepository {
	return &CertificationRepository{NewCollection[models.Certification](store, docstore.CollectionCertifications)}
}

// ListByType returns certifications of one type, newest first.
func (r *CertificationRepository) ListByType(ctx context.Context, certType string) ([]*models.Certification, error) {
	return r.Find(ctx, docstore.Where("type", docstore.OpEq, certType).Order("date", true))
}
