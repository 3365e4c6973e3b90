package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/osegonte/daad-study-search-sub000/internal/models"
	appErrors "github.com/osegonte/daad-study-search-sub000/pkg/errors"
)

// ProgrammeRepository abstracts programme persistence for the CMS.
type ProgrammeRepository interface {
	FindByID(ctx context.Context, id string) (*models.ProgrammeDetail, error)
	Create(ctx context.Context, programme *models.Programme) error
	Update(ctx context.Context, programme *models.Programme) error
	Delete(ctx context.Context, id string) error
}

// AuditRecorder appends catalogue audit records.
type AuditRecorder interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// ProgrammeService manages programme catalogue entries.
type ProgrammeService struct {
	repo      ProgrammeRepository
	search    *SearchService
	audit     AuditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProgrammeService constructs a programme service.
func NewProgrammeService(repo ProgrammeRepository, search *SearchService, audit AuditRecorder, validate *validator.Validate, logger *zap.Logger) *ProgrammeService {
	if validate == nil {
		validate = validator.New()
	}
	return &ProgrammeService{repo: repo, search: search, audit: audit, validator: validate, logger: logger}
}

// Get returns one programme with its university and subject area.
func (s *ProgrammeService) Get(ctx context.Context, id string) (*models.ProgrammeDetail, error) {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "programme not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load programme")
	}
	return detail, nil
}

// Create adds a programme and invalidates cached search pages.
func (s *ProgrammeService) Create(ctx context.Context, actorID string, input models.ProgrammeInput) (*models.Programme, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid programme payload")
	}

	var programme models.Programme
	input.Apply(&programme)

	if err := s.repo.Create(ctx, &programme); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create programme")
	}

	s.search.InvalidateResults(ctx)
	s.recordAudit(ctx, actorID, programme.ID, nil, &programme)
	return &programme, nil
}

// Update modifies a programme and invalidates cached search pages.
func (s *ProgrammeService) Update(ctx context.Context, actorID, id string, input models.ProgrammeInput) (*models.Programme, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid programme payload")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "programme not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load programme")
	}

	before := existing.Programme
	updated := existing.Programme
	input.Apply(&updated)

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update programme")
	}

	s.search.InvalidateResults(ctx)
	s.recordAudit(ctx, actorID, id, &before, &updated)
	return &updated, nil
}

// Delete removes a programme and invalidates cached search pages.
func (s *ProgrammeService) Delete(ctx context.Context, actorID, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "programme not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete programme")
	}

	s.search.InvalidateResults(ctx)
	s.recordAudit(ctx, actorID, id, nil, nil)
	return nil
}

func (s *ProgrammeService) recordAudit(ctx context.Context, actorID, resourceID string, before, after *models.Programme) {
	if s.audit == nil {
		return
	}
	log := &models.AuditLog{
		Action:     models.AuditActionCatalogueWrite,
		Resource:   "programme",
		ResourceID: &resourceID,
	}
	if actorID != "" {
		log.UserID = &actorID
	}
	if before != nil {
		log.OldValues, _ = json.Marshal(before)
	}
	if after != nil {
		log.NewValues, _ = json.Marshal(after)
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record catalogue audit log", zap.Error(err))
	}
}
