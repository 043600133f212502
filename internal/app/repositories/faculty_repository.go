package repositories

import (
	"context"

	"github.com/yigit/deptportal/internal/app/models"
	"github.com/yigit/deptportal/internal/docstore"
)

// FacultyRepository handles faculty documents
type FacultyRepository struct {
	*Collection[models.Faculty, *models.Faculty]
}

// NewFacultyRepository creates a new FacultyRepository
func NewFacultyRepository(store docstore.Store) *FacultyRepository {
	return &FacultyRepository{NewCollection[models.Faculty](store, docstore.CollectionFaculty)}
}

// ListOrdered returns all faculty sorted by their display order.
func (r *FacultyRepository) ListOrdered(ctx context.Context) ([]*models.Faculty, error) {
	return r.Find(ctx, docstore.All().Order("order", false))
}

// ListActive returns faculty flagged active, in display order.
func (r *FacultyRepository) ListActive(ctx context.Context) ([]*models.Faculty, error) {
	return r.Find(ctx, docstore.Where("isActive", docstore.OpEq, true).Order("order", false))
}

// SetImageURL points a faculty record at a stored image.
func (r *FacultyRepository) SetImageURL(ctx context.Context, id, url string) error {
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	return r.Patch(ctx, id, map[string]any{"imageUrl": url})
}
