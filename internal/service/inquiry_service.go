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

// InquiryRepository abstracts inquiry persistence.
type InquiryRepository interface {
	Create(ctx context.Context, inquiry *models.ServiceInquiry) error
	List(ctx context.Context, page, pageSize int) ([]models.ServiceInquiry, int, error)
	FindByID(ctx context.Context, id string) (*models.ServiceInquiry, error)
	Delete(ctx context.Context, id string) error
}

// InquiryService handles contact form submissions and their admin review.
type InquiryService struct {
	repo      InquiryRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewInquiryService constructs an inquiry service.
func NewInquiryService(repo InquiryRepository, validate *validator.Validate, logger *zap.Logger) *InquiryService {
	if validate == nil {
		validate = validator.New()
	}
	return &InquiryService{repo: repo, validator: validate, logger: logger}
}

// Submit records a contact form submission.
func (s *InquiryService) Submit(ctx context.Context, input models.InquiryInput) (*models.ServiceInquiry, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid inquiry payload")
	}

	inquiry := &models.ServiceInquiry{
		Name:    input.Name,
		Email:   input.Email,
		Subject: input.Subject,
		Message: input.Message,
	}
	if err := s.repo.Create(ctx, inquiry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store inquiry")
	}

	s.logger.Info("service inquiry received", zap.String("inquiry_id", inquiry.ID), zap.String("subject", inquiry.Subject))
	return inquiry, nil
}

// List returns inquiries for the admin inbox, newest first.
func (s *InquiryService) List(ctx context.Context, page, pageSize int) ([]models.ServiceInquiry, int, error) {
	inquiries, total, err := s.repo.List(ctx, page, pageSize)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list inquiries")
	}
	if inquiries == nil {
		inquiries = []models.ServiceInquiry{}
	}
	return inquiries, total, nil
}

// Get returns one inquiry.
func (s *InquiryService) Get(ctx context.Context, id string) (*models.ServiceInquiry, error) {
	inquiry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "inquiry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load inquiry")
	}
	return inquiry, nil
}

// Delete removes an inquiry once handled.
func (s *InquiryService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "inquiry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete inquiry")
	}
	return nil
}
