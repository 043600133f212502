package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/deptportal/internal/app/models"
	"github.com/yigit/deptportal/internal/docstore"
	"github.com/yigit/deptportal/internal/pkg/apperrors"
)

// StudentRepository handles student documents. USN uniqueness is checked
// here at write time only.
type StudentRepository struct {
	*Collection[models.Student, *models.Student]
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(store docstore.Store) *StudentRepository {
	return &StudentRepository{NewCollection[models.Student](store, docstore.CollectionStudents)}
}

// GetByUSN returns the student with the given seat number.
func (r *StudentRepository) GetByUSN(ctx context.Context, usn string) (*models.Student, error) {
	usn = strings.ToUpper(strings.TrimSpace(usn))
	found, err := r.Find(ctx, docstore.Where("usn", docstore.OpEq, usn).WithLimit(1))
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("student usn %q: %w", usn, apperrors.ErrStudentNotFound)
	}
	return found[0], nil
}

func (r *StudentRepository) usnTaken(ctx context.Context, usn, exceptID string) (bool, error) {
	found, err := r.Find(ctx, docstore.Where("usn", docstore.OpEq, usn))
	if err != nil {
		return false, err
	}
	for _, s := range found {
		if s.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

// Create inserts a student after checking the USN is free.
func (r *StudentRepository) Create(ctx context.Context, s *models.Student) (string, error) {
	s.USN = strings.ToUpper(strings.TrimSpace(s.USN))
	taken, err := r.usnTaken(ctx, s.USN, "")
	if err != nil {
		return "", err
	}
	if taken {
		return "", fmt.Errorf("%q: %w", s.USN, apperrors.ErrUSNAlreadyExists)
	}
	return r.Collection.Create(ctx, s)
}

// Update merges fields and re-checks USN uniqueness when it changes.
func (r *StudentRepository) Update(ctx context.Context, id string, partial map[string]any) (*models.Student, error) {
	if raw, ok := partial["usn"].(string); ok {
		usn := strings.ToUpper(strings.TrimSpace(raw))
		partial["usn"] = usn
		taken, err := r.usnTaken(ctx, usn, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%q: %w", usn, apperrors.ErrUSNAlreadyExists)
		}
	}
	return r.Collection.Update(ctx, id, partial)
}
