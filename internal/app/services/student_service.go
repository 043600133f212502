package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/deptportal/internal/app/models"
	"github.com/yigit/deptportal/internal/app/models/dto"
	"github.com/yigit/deptportal/internal/app/repositories"
	"github.com/yigit/deptportal/internal/docstore"
	"github.com/yigit/deptportal/internal/pkg/apperrors"
)

// StudentService defines student operations
type StudentService interface {
	ListStudents(ctx context.Context) ([]*models.Student, error)
	GetStudent(ctx context.Context, id string) (*models.Student, error)
	GetStudentByUSN(ctx context.Context, usn string) (*models.Student, error)
	CreateStudent(ctx context.Context, s *models.Student) (string, error)
	UpdateStudent(ctx context.Context, id string, partial map[string]any) (*models.Student, error)
	DeleteStudent(ctx context.Context, id string) error
	Stats(ctx context.Context) (*dto.StudentStats, []*models.Student, error)
}

type studentServiceImpl struct {
	repo   *repositories.StudentRepository
	logger zerolog.Logger
}

// NewStudentService creates a new student service
func NewStudentService(repo *repositories.StudentRepository, logger zerolog.Logger) StudentService {
	return &studentServiceImpl{repo: repo, logger: logger}
}

func studentNotFound(err error) error {
	if errors.Is(err, apperrors.ErrResourceNotFound) {
		return fmt.Errorf("%w: %w", apperrors.ErrStudentNotFound, err)
	}
	return err
}

func (s *studentServiceImpl) ListStudents(ctx context.Context) ([]*models.Student, error) {
	list, err := s.repo.Find(ctx, docstore.All().Order("usn", false))
	if err != nil {
		return nil, fmt.Errorf("error retrieving students: %w", err)
	}
	return list, nil
}

func (s *studentServiceImpl) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	st, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, studentNotFound(err)
	}
	return st, nil
}

func (s *studentServiceImpl) GetStudentByUSN(ctx context.Context, usn string) (*models.Student, error) {
	return s.repo.GetByUSN(ctx, usn)
}

func (s *studentServiceImpl) CreateStudent(ctx context.Context, st *models.Student) (string, error) {
	id, err := s.repo.Create(ctx, st)
	if err != nil {
		return "", fmt.Errorf("error creating student: %w", err)
	}
	return id, nil
}

func (s *studentServiceImpl) UpdateStudent(ctx context.Context, id string, partial map[string]any) (*models.Student, error) {
	st, err := s.repo.Update(ctx, id, partial)
	if err != nil {
		return nil, studentNotFound(err)
	}
	return st, nil
}

func (s *studentServiceImpl) DeleteStudent(ctx context.Context, id string) error {
	return studentNotFound(s.repo.Delete(ctx, id))
}

// ComputeStats counts placement outcomes for the dashboard.
func ComputeStats(list []*models.Student) *dto.StudentStats {
	stats := &dto.StudentStats{Total: len(list)}
	for _, st := range list {
		switch st.PlacementStatus {
		case models.PlacementPlaced:
			stats.Placed++
		case models.PlacementNotPlaced:
			stats.NotPlaced++
		}
		if st.PlacementEligible {
			stats.Eligible++
		} else {
			stats.NotEligible++
		}
	}
	return stats
}

func (s *studentServiceImpl) Stats(ctx context.Context) (*dto.StudentStats, []*models.Student, error) {
	list, err := s.ListStudents(ctx)
	if err != nil {
		return nil, nil, err
	}
	return ComputeStats(list), list, nil
}
