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

// SubjectAreaRepository abstracts subject area persistence.
type SubjectAreaRepository interface {
	List(ctx context.Context) ([]models.SubjectArea, error)
	FindByID(ctx context.Context, id string) (*models.SubjectArea, error)
	FindBySlug(ctx context.Context, slug string) (*models.SubjectArea, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID string) (bool, error)
	Create(ctx context.Context, area *models.SubjectArea) error
	Update(ctx context.Context, area *models.SubjectArea) error
	Delete(ctx context.Context, id string) error
}

// SubjectAreaService manages the subject area taxonomy. Slugs double as
// facet values on the search page, so writes invalidate cached results.
type SubjectAreaService struct {
	repo      SubjectAreaRepository
	search    *SearchService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectAreaService constructs a subject area service.
func NewSubjectAreaService(repo SubjectAreaRepository, search *SearchService, validate *validator.Validate, logger *zap.Logger) *SubjectAreaService {
	if validate == nil {
		validate = validator.New()
	}
	return &SubjectAreaService{repo: repo, search: search, validator: validate, logger: logger}
}

// List returns every subject area.
func (s *SubjectAreaService) List(ctx context.Context) ([]models.SubjectArea, error) {
	areas, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subject areas")
	}
	if areas == nil {
		areas = []models.SubjectArea{}
	}
	return areas, nil
}

// Get returns one subject area.
func (s *SubjectAreaService) Get(ctx context.Context, id string) (*models.SubjectArea, error) {
	area, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject area not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject area")
	}
	return area, nil
}

// Create adds a subject area with a unique slug.
func (s *SubjectAreaService) Create(ctx context.Context, input models.SubjectAreaInput) (*models.SubjectArea, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject area payload")
	}

	taken, err := s.repo.ExistsBySlug(ctx, input.Slug, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slug")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "slug is already in use")
	}

	area := &models.SubjectArea{Name: input.Name, Slug: input.Slug}
	if err := s.repo.Create(ctx, area); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject area")
	}
	return area, nil
}

// Update modifies a subject area.
func (s *SubjectAreaService) Update(ctx context.Context, id string, input models.SubjectAreaInput) (*models.SubjectArea, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject area payload")
	}

	area, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject area not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject area")
	}

	taken, err := s.repo.ExistsBySlug(ctx, input.Slug, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slug")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "slug is already in use")
	}

	area.Name = input.Name
	area.Slug = input.Slug
	if err := s.repo.Update(ctx, area); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update subject area")
	}

	s.search.InvalidateResults(ctx)
	return area, nil
}

// Delete removes a subject area. The database rejects the delete while
// programmes reference it.
func (s *SubjectAreaService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "subject area not found")
		}
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "subject area is still referenced")
	}
	s.search.InvalidateResults(ctx)
	return nil
}
