package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/osegonte/daad-study-search-sub000/internal/models"
	appErrors "github.com/osegonte/daad-study-search-sub000/pkg/errors"
)

// UniversityRepository abstracts university persistence.
type UniversityRepository interface {
	List(ctx context.Context, filter models.UniversityFilter) ([]models.University, int, error)
	FindByID(ctx context.Context, id string) (*models.University, error)
	Create(ctx context.Context, university *models.University) error
	Update(ctx context.Context, university *models.University) error
	Delete(ctx context.Context, id string) error
}

// UniversityService manages the university catalogue.
type UniversityService struct {
	repo      UniversityRepository
	search    *SearchService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUniversityService constructs a university service.
func NewUniversityService(repo UniversityRepository, search *SearchService, validate *validator.Validate, logger *zap.Logger) *UniversityService {
	if validate == nil {
		validate = validator.New()
	}
	return &UniversityService{repo: repo, search: search, validator: validate, logger: logger}
}

// List returns universities for the given filter.
func (s *UniversityService) List(ctx context.Context, filter models.UniversityFilter) ([]models.University, int, error) {
	universities, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list universities")
	}
	if universities == nil {
		universities = []models.University{}
	}
	return universities, total, nil
}

// Get returns one university.
func (s *UniversityService) Get(ctx context.Context, id string) (*models.University, error) {
	university, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "university not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load university")
	}
	return university, nil
}

// Create adds a university.
func (s *UniversityService) Create(ctx context.Context, input models.UniversityInput) (*models.University, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid university payload")
	}

	university := &models.University{
		Name:            input.Name,
		City:            input.City,
		InstitutionType: models.InstitutionType(input.InstitutionType),
		Website:         input.Website,
		Description:     input.Description,
	}
	if err := s.repo.Create(ctx, university); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create university")
	}
	return university, nil
}

// Update modifies a university. Search pages join against university columns,
// so cached results are invalidated.
func (s *UniversityService) Update(ctx context.Context, id string, input models.UniversityInput) (*models.University, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid university payload")
	}

	university, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "university not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load university")
	}

	university.Name = input.Name
	university.City = input.City
	university.InstitutionType = models.InstitutionType(input.InstitutionType)
	university.Website = input.Website
	university.Description = input.Description

	if err := s.repo.Update(ctx, university); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update university")
	}

	s.search.InvalidateResults(ctx)
	return university, nil
}

// Delete removes a university. Deletion fails while programmes still
// reference it; the foreign key surfaces as a conflict.
func (s *UniversityService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "university not found")
		}
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "university is still referenced")
	}
	s.search.InvalidateResults(ctx)
	return nil
}
