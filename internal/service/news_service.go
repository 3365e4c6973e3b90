package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/osegonte/daad-study-search-sub000/internal/models"
	appErrors "github.com/osegonte/daad-study-search-sub000/pkg/errors"
)

// NewsRepository abstracts news persistence.
type NewsRepository interface {
	List(ctx context.Context, filter models.NewsFilter) ([]models.NewsItem, int, error)
	FindByID(ctx context.Context, id string) (*models.NewsItem, error)
	Create(ctx context.Context, item *models.NewsItem) error
	Update(ctx context.Context, item *models.NewsItem) error
	Delete(ctx context.Context, id string) error
}

// NewsService manages editorial articles. Public listings only ever see
// published items; drafts stay admin-only.
type NewsService struct {
	repo      NewsRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNewsService constructs a news service.
func NewNewsService(repo NewsRepository, validate *validator.Validate, logger *zap.Logger) *NewsService {
	if validate == nil {
		validate = validator.New()
	}
	return &NewsService{repo: repo, validator: validate, logger: logger}
}

// ListPublished returns published articles for the public site.
func (s *NewsService) ListPublished(ctx context.Context, filter models.NewsFilter) ([]models.NewsItem, int, error) {
	filter.PublishedOnly = true
	return s.list(ctx, filter)
}

// ListAll returns every article for the admin CMS.
func (s *NewsService) ListAll(ctx context.Context, filter models.NewsFilter) ([]models.NewsItem, int, error) {
	filter.PublishedOnly = false
	return s.list(ctx, filter)
}

func (s *NewsService) list(ctx context.Context, filter models.NewsFilter) ([]models.NewsItem, int, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list news")
	}
	if items == nil {
		items = []models.NewsItem{}
	}
	return items, total, nil
}

// Get returns one article. Unpublished drafts are hidden from public callers.
func (s *NewsService) Get(ctx context.Context, id string, includeDrafts bool) (*models.NewsItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "article not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load article")
	}
	if !item.Published && !includeDrafts {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "article not found")
	}
	return item, nil
}

// Create adds an article. Publishing stamps the publication time.
func (s *NewsService) Create(ctx context.Context, input models.NewsInput) (*models.NewsItem, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid news payload")
	}

	item := &models.NewsItem{Title: input.Title, Body: input.Body, Published: input.Published}
	if input.Published {
		now := time.Now().UTC()
		item.PublishedAt = &now
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create article")
	}
	return item, nil
}

// Update modifies an article. The publication time is set on the first
// transition to published and kept afterwards.
func (s *NewsService) Update(ctx context.Context, id string, input models.NewsInput) (*models.NewsItem, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid news payload")
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "article not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load article")
	}

	item.Title = input.Title
	item.Body = input.Body
	if input.Published && item.PublishedAt == nil {
		now := time.Now().UTC()
		item.PublishedAt = &now
	}
	item.Published = input.Published

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update article")
	}
	return item, nil
}

// Delete removes an article.
func (s *NewsService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "article not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete article")
	}
	return nil
}
