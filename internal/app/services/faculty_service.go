package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/deptportal/internal/app/models"
	"github.com/yigit/deptportal/internal/app/models/dto"
	"github.com/yigit/deptportal/internal/app/repositories"
	"github.com/yigit/deptportal/internal/pkg/apperrors"
	"github.com/yigit/deptportal/internal/pkg/filestorage"
)

// ImageLimits bounds uploaded faculty images.
type ImageLimits struct {
	MaxWidth       int
	MaxHeight      int
	MaxUploadBytes int64
}

// FacultyService defines the interface for faculty-related operations
type FacultyService interface {
	ListFaculty(ctx context.Context) ([]*models.Faculty, error)
	ListActiveFaculty(ctx context.Context) ([]*models.Faculty, error)
	GetFaculty(ctx context.Context, id string) (*models.Faculty, error)
	GetFacultyProfile(ctx context.Context, id string) (*dto.FacultyProfile, error)
	CreateFaculty(ctx context.Context, faculty *models.Faculty) (string, error)
	UpdateFaculty(ctx context.Context, id string, partial map[string]any) (*models.Faculty, error)
	DeleteFaculty(ctx context.Context, id string) error
	UploadImage(ctx context.Context, id string, r io.Reader, size int64, progress filestorage.ProgressFunc) (*dto.ImageUploadResponse, error)
}

// facultyServiceImpl implements the FacultyService interface
type facultyServiceImpl struct {
	facultyRepo     *repositories.FacultyRepository
	researchRepo    *repositories.ResearchRepository
	achievementRepo *repositories.AchievementRepository
	storage         filestorage.FileStorage
	limits          ImageLimits
	logger          zerolog.Logger
}

// NewFacultyService creates a new faculty service instance
func NewFacultyService(
	facultyRepo *repositories.FacultyRepository,
	researchRepo *repositories.ResearchRepository,
	achievementRepo *repositories.AchievementRepository,
	storage filestorage.FileStorage,
	limits ImageLimits,
	logger zerolog.Logger,
) FacultyService {
	return &facultyServiceImpl{
		facultyRepo:     facultyRepo,
		researchRepo:    researchRepo,
		achievementRepo: achievementRepo,
		storage:         storage,
		limits:          limits,
		logger:          logger,
	}
}

func facultyNotFound(err error) error {
	if errors.Is(err, apperrors.ErrResourceNotFound) {
		return fmt.Errorf("%w: %w", apperrors.ErrFacultyNotFound, err)
	}
	return err
}

func (s *facultyServiceImpl) ListFaculty(ctx context.Context) ([]*models.Faculty, error) {
	faculty, err := s.facultyRepo.ListOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving faculty: %w", err)
	}
	return faculty, nil
}

func (s *facultyServiceImpl) ListActiveFaculty(ctx context.Context) ([]*models.Faculty, error) {
	faculty, err := s.facultyRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving active faculty: %w", err)
	}
	return faculty, nil
}

func (s *facultyServiceImpl) GetFaculty(ctx context.Context, id string) (*models.Faculty, error) {
	faculty, err := s.facultyRepo.Get(ctx, id)
	if err != nil {
		return nil, facultyNotFound(err)
	}
	return faculty, nil
}

// GetFacultyProfile loads a faculty member with research and achievements.
// Failures of the secondary lists are logged and yield empty lists.
func (s *facultyServiceImpl) GetFacultyProfile(ctx context.Context, id string) (*dto.FacultyProfile, error) {
	faculty, err := s.GetFaculty(ctx, id)
	if err != nil {
		return nil, err
	}
	profile := &dto.FacultyProfile{Faculty: faculty, Research: []*models.Research{}, Achievements: []*models.Achievement{}}

	if research, err := s.researchRepo.ListByFaculty(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("facultyId", id).Msg("Failed to load research for faculty")
	} else {
		profile.Research = research
	}
	if achievements, err := s.achievementRepo.ListByFaculty(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("facultyId", id).Msg("Failed to load achievements for faculty")
	} else {
		profile.Achievements = achievements
	}
	return profile, nil
}

func (s *facultyServiceImpl) CreateFaculty(ctx context.Context, faculty *models.Faculty) (string, error) {
	if faculty == nil {
		return "", fmt.Errorf("%w: faculty is nil", apperrors.ErrValidationFailed)
	}
	faculty.Name = strings.TrimSpace(faculty.Name)
	faculty.SyncAliases()

	id, err := s.facultyRepo.Create(ctx, faculty)
	if err != nil {
		return "", fmt.Errorf("error creating faculty: %w", err)
	}
	s.logger.Info().Str("facultyId", id).Str("name", faculty.Name).Msg("Faculty created")
	return id, nil
}

// syncPartialAliases mirrors designation/qualification edits onto the
// legacy fields so both stay equal.
func syncPartialAliases(partial map[string]any) {
	pairs := [][2]string{{"designation", "position"}, {"qualification", "education"}}
	for _, p := range pairs {
		if v, ok := partial[p[0]]; ok {
			if _, set := partial[p[1]]; !set {
				partial[p[1]] = v
			}
		}
	}
}

func (s *facultyServiceImpl) UpdateFaculty(ctx context.Context, id string, partial map[string]any) (*models.Faculty, error) {
	syncPartialAliases(partial)
	faculty, err := s.facultyRepo.Update(ctx, id, partial)
	if err != nil {
		return nil, facultyNotFound(err)
	}
	return faculty, nil
}

func (s *facultyServiceImpl) DeleteFaculty(ctx context.Context, id string) error {
	faculty, err := s.facultyRepo.Get(ctx, id)
	if err != nil {
		return facultyNotFound(err)
	}
	if err := s.facultyRepo.Delete(ctx, id); err != nil {
		return facultyNotFound(err)
	}
	if s.storage != nil && s.storage.GetFullPath(faculty.ImageURL) != "" {
		if err := s.storage.DeleteFile(faculty.ImageURL); err != nil {
			s.logger.Warn().Err(err).Str("facultyId", id).Msg("Failed to delete faculty image")
		}
	}
	return nil
}

// UploadImage stores a new faculty image. The stream is read through a
// progress reader, downscaled when larger than the configured bounds,
// stored, and finally linked from the faculty document. progress sees 100
// only after the document was updated.
func (s *facultyServiceImpl) UploadImage(ctx context.Context, id string, r io.Reader, size int64, progress filestorage.ProgressFunc) (*dto.ImageUploadResponse, error) {
	if _, err := s.GetFaculty(ctx, id); err != nil {
		return nil, err
	}
	if s.limits.MaxUploadBytes > 0 && size > s.limits.MaxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes", apperrors.ErrFileTooLarge, size)
	}

	pr := filestorage.NewProgressReader(r, size, progress)
	reader := io.Reader(pr)
	if s.limits.MaxUploadBytes > 0 {
		reader = io.LimitReader(pr, s.limits.MaxUploadBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading upload: %w", apperrors.ErrUploadFailed, err)
	}
	if s.limits.MaxUploadBytes > 0 && int64(len(data)) > s.limits.MaxUploadBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", apperrors.ErrFileTooLarge, s.limits.MaxUploadBytes)
	}

	img, err := filestorage.ProcessImage(data, s.limits.MaxWidth, s.limits.MaxHeight)
	if err != nil {
		if errors.Is(err, filestorage.ErrUnsupportedImage) {
			return nil, apperrors.NewValidationError("image must be a JPEG, PNG, GIF or WebP file", map[string]string{"image": "unsupported image format"})
		}
		return nil, fmt.Errorf("%w: %w", apperrors.ErrUploadFailed, err)
	}

	url, err := s.storage.Save(ctx, "faculty/"+id, uuid.NewString()+img.Ext, bytes.NewReader(img.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrUploadFailed, err)
	}
	if err := s.facultyRepo.SetImageURL(ctx, id, url); err != nil {
		if delErr := s.storage.DeleteFile(url); delErr != nil {
			s.logger.Warn().Err(delErr).Str("url", url).Msg("Failed to remove orphaned upload")
		}
		return nil, fmt.Errorf("%w: linking image: %w", apperrors.ErrUploadFailed, facultyNotFound(err))
	}
	pr.Done()

	s.logger.Info().
		Str("facultyId", id).
		Str("url", url).
		Int64("bytes", pr.BytesRead()).
		Int("width", img.Width).
		Int("height", img.Height).
		Bool("resized", img.Resized).
		Msg("Faculty image uploaded")

	return &dto.ImageUploadResponse{ImageURL: url, Width: img.Width, Height: img.Height, Resized: img.Resized}, nil
}
