package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/osegonte/daad-study-search-sub000/internal/models"
	"github.com/osegonte/daad-study-search-sub000/internal/payments"
	"github.com/osegonte/daad-study-search-sub000/pkg/config"
	appErrors "github.com/osegonte/daad-study-search-sub000/pkg/errors"
	"github.com/osegonte/daad-study-search-sub000/pkg/export"
	"github.com/osegonte/daad-study-search-sub000/pkg/jobs"
	"github.com/osegonte/daad-study-search-sub000/pkg/storage"
)

// MatchReportRepository abstracts match-report persistence.
type MatchReportRepository interface {
	Create(ctx context.Context, report *models.MatchReportRequest) error
	FindByID(ctx context.Context, id string) (*models.MatchReportRequest, error)
	FindByCheckoutSession(ctx context.Context, sessionID string) (*models.MatchReportRequest, error)
	List(ctx context.Context, filter models.MatchReportFilter) ([]models.MatchReportRequest, int, error)
	SetCheckoutSession(ctx context.Context, id, sessionID, checkoutURL string) error
	MarkPaid(ctx context.Context, id string, paidAt time.Time) (int64, error)
	UpdateStatus(ctx context.Context, id string, status models.MatchReportStatus) error
	SetSummaryPath(ctx context.Context, id, path string) error
}

// CheckoutProvider opens hosted checkout sessions and verifies webhooks.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, reference, description string) (*payments.CheckoutSession, error)
	ParseWebhook(body []byte, signature string) (*payments.WebhookEvent, error)
}

const summaryJobType = "match_report_summary"

// MatchReportService runs the paid match-report product: intake with a
// document upload, hosted checkout, webhook settlement, background summary
// generation, and signed downloads.
type MatchReportService struct {
	repo      MatchReportRepository
	checkout  CheckoutProvider
	store     *storage.LocalStorage
	signer    *storage.SignedURLSigner
	exporter  *export.PDFExporter
	queue     *jobs.Queue
	audit     AuditRecorder
	validator *validator.Validate
	logger    *zap.Logger
	cfg       config.MatchReportsConfig
}

// NewMatchReportService constructs a match-report service. Call StartWorkers
// before accepting traffic so summary jobs have consumers.
func NewMatchReportService(repo MatchReportRepository, checkout CheckoutProvider, store *storage.LocalStorage, signer *storage.SignedURLSigner, audit AuditRecorder, validate *validator.Validate, cfg config.MatchReportsConfig, logger *zap.Logger) *MatchReportService {
	if validate == nil {
		validate = validator.New()
	}
	s := &MatchReportService{
		repo:      repo,
		checkout:  checkout,
		store:     store,
		signer:    signer,
		exporter:  export.NewPDFExporter(),
		audit:     audit,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
	s.queue = jobs.NewQueue(summaryJobType, s.handleSummaryJob, jobs.QueueConfig{
		Workers:    cfg.WorkerConcurrency,
		MaxRetries: cfg.WorkerRetries,
		Logger:     logger,
	})
	return s
}

// StartWorkers launches the summary worker pool.
func (s *MatchReportService) StartWorkers(ctx context.Context) {
	s.queue.Start(ctx)
}

// StopWorkers drains the summary worker pool.
func (s *MatchReportService) StopWorkers() {
	s.queue.Stop()
}

// Submit stores the intake, saves the uploaded document, and opens a hosted
// checkout session. The returned record carries the checkout URL the client
// redirects to.
func (s *MatchReportService) Submit(ctx context.Context, userID string, input models.MatchReportInput, filename, mimeType string, size int64, file io.Reader) (*models.MatchReportRequest, error) {
	if userID == "" {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid match report payload")
	}
	if size > s.cfg.MaxFileSizeBytes {
		return nil, appErrors.Clone(appErrors.ErrFileTooLarge, fmt.Sprintf("document exceeds %d bytes", s.cfg.MaxFileSizeBytes))
	}
	if !s.mimeAllowed(mimeType) {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFile, "document type is not allowed")
	}

	report := &models.MatchReportRequest{
		ID:                uuid.NewString(),
		UserID:            userID,
		TargetDegree:      models.DegreeType(input.TargetDegree),
		SubjectInterests:  input.SubjectInterests,
		BudgetPerSemester: input.BudgetPerSemester,
		Notes:             input.Notes,
		DocumentName:      filepath.Base(filename),
		Status:            models.MatchReportPendingPayment,
	}

	storedName := fmt.Sprintf("%s/document%s", report.ID, filepath.Ext(filename))
	path, err := s.store.SaveStream(storedName, io.LimitReader(file, s.cfg.MaxFileSizeBytes))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store document")
	}
	report.DocumentPath = path

	if err := s.repo.Create(ctx, report); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create match report")
	}

	session, err := s.checkout.CreateSession(ctx, report.ID, "Study programme match report")
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetCheckoutSession(ctx, report.ID, session.ID, session.URL); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to attach checkout session")
	}
	report.CheckoutSessionID = session.ID
	report.CheckoutURL = session.URL

	return report, nil
}

// HandleWebhook settles a checkout webhook. MarkPaid only transitions once,
// so replayed deliveries are acknowledged without side effects.
func (s *MatchReportService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	event, err := s.checkout.ParseWebhook(body, signature)
	if err != nil {
		return err
	}
	if event.Type != payments.EventCheckoutCompleted {
		s.logger.Debug("ignoring webhook event", zap.String("type", event.Type))
		return nil
	}

	report, err := s.repo.FindByCheckoutSession(ctx, event.SessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "unknown checkout session")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve checkout session")
	}

	paidAt := event.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now().UTC()
	}
	rows, err := s.repo.MarkPaid(ctx, report.ID, paidAt)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark report paid")
	}
	if rows == 0 {
		s.logger.Info("duplicate payment webhook ignored", zap.String("report_id", report.ID))
		return nil
	}

	if err := s.queue.Enqueue(jobs.Job{ID: report.ID, Type: summaryJobType, Payload: report.ID}); err != nil {
		s.logger.Warn("failed to enqueue summary job", zap.String("report_id", report.ID), zap.Error(err))
	}
	return nil
}

// handleSummaryJob renders the intake summary PDF for a paid request.
func (s *MatchReportService) handleSummaryJob(ctx context.Context, job jobs.Job) error {
	reportID, ok := job.Payload.(string)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", job.Payload)
	}

	report, err := s.repo.FindByID(ctx, reportID)
	if err != nil {
		return fmt.Errorf("load match report %s: %w", reportID, err)
	}

	summary := export.Summary{
		Title:    "Match Report Intake",
		Subtitle: fmt.Sprintf("Request %s", report.ID),
		Fields: []export.Field{
			{Label: "Target degree", Value: string(report.TargetDegree)},
			{Label: "Subject interests", Value: report.SubjectInterests},
			{Label: "Budget per semester", Value: fmt.Sprintf("%d EUR", report.BudgetPerSemester)},
			{Label: "Document", Value: report.DocumentName},
			{Label: "Paid at", Value: formatPaidAt(report.PaidAt)},
		},
		Notes: report.Notes,
	}

	data, err := s.exporter.Render(summary)
	if err != nil {
		return fmt.Errorf("render summary for %s: %w", reportID, err)
	}

	storedName := fmt.Sprintf("%s/summary.pdf", report.ID)
	path, err := s.store.Save(storedName, data)
	if err != nil {
		return fmt.Errorf("store summary for %s: %w", reportID, err)
	}

	if err := s.repo.SetSummaryPath(ctx, report.ID, path); err != nil {
		return fmt.Errorf("record summary path for %s: %w", reportID, err)
	}

	s.logger.Info("match report summary generated", zap.String("report_id", report.ID))
	return nil
}

func formatPaidAt(ts *time.Time) string {
	if ts == nil {
		return "-"
	}
	return ts.UTC().Format(time.RFC3339)
}

// Get returns one request. Owners see their own; admins see all.
func (s *MatchReportService) Get(ctx context.Context, callerID string, callerRole models.UserRole, id string) (*models.MatchReportRequest, error) {
	report, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "match report not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load match report")
	}
	if report.UserID != callerID && callerRole != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not your match report")
	}
	return report, nil
}

// ListForUser returns one user's requests.
func (s *MatchReportService) ListForUser(ctx context.Context, userID string, page, pageSize int) ([]models.MatchReportRequest, int, error) {
	if userID == "" {
		return nil, 0, appErrors.ErrUnauthorized
	}
	return s.list(ctx, models.MatchReportFilter{UserID: userID, Page: page, PageSize: pageSize})
}

// AdminList returns requests for the back office.
func (s *MatchReportService) AdminList(ctx context.Context, filter models.MatchReportFilter) ([]models.MatchReportRequest, int, error) {
	if filter.Status != "" && !models.ValidMatchReportStatus(filter.Status) {
		return nil, 0, appErrors.Clone(appErrors.ErrValidation, "unknown status filter")
	}
	return s.list(ctx, filter)
}

func (s *MatchReportService) list(ctx context.Context, filter models.MatchReportFilter) ([]models.MatchReportRequest, int, error) {
	reports, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list match reports")
	}
	if reports == nil {
		reports = []models.MatchReportRequest{}
	}
	return reports, total, nil
}

// UpdateStatus moves a request through the delivery workflow. Only paid
// requests advance; a pending one must settle through the webhook first.
func (s *MatchReportService) UpdateStatus(ctx context.Context, actorID, id string, status models.MatchReportStatus) (*models.MatchReportRequest, error) {
	if !models.ValidMatchReportStatus(status) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown status")
	}

	report, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "match report not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load match report")
	}

	if report.Status == models.MatchReportPendingPayment && status != models.MatchReportPendingPayment {
		return nil, appErrors.Clone(appErrors.ErrPaymentRequired, "request has not been paid")
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update status")
	}
	report.Status = status

	if s.audit != nil {
		log := &models.AuditLog{
			UserID:     &actorID,
			Action:     models.AuditActionMatchReportEdit,
			Resource:   "match_report",
			ResourceID: &id,
			NewValues:  []byte(fmt.Sprintf(`{"status":%q}`, status)),
		}
		if err := s.audit.CreateAuditLog(ctx, log); err != nil {
			s.logger.Warn("failed to record match report audit log", zap.Error(err))
		}
	}
	return report, nil
}

// SummaryDownloadURL hands out a short-lived signed token for the summary
// PDF. Only the owner of a paid request gets one.
func (s *MatchReportService) SummaryDownloadURL(ctx context.Context, callerID string, callerRole models.UserRole, id string) (string, time.Time, error) {
	report, err := s.Get(ctx, callerID, callerRole, id)
	if err != nil {
		return "", time.Time{}, err
	}
	if report.Status == models.MatchReportPendingPayment {
		return "", time.Time{}, appErrors.Clone(appErrors.ErrPaymentRequired, "request has not been paid")
	}
	if report.SummaryPath == "" {
		return "", time.Time{}, appErrors.Clone(appErrors.ErrNotFound, "summary is not ready yet")
	}
	return s.signer.Generate(report.ID, report.SummaryPath)
}

// OpenSummary resolves a signed token back to the summary file.
func (s *MatchReportService) OpenSummary(ctx context.Context, token string) (io.ReadCloser, string, error) {
	recordID, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download token")
	}

	report, err := s.repo.FindByID(ctx, recordID)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "match report not found")
	}
	if report.SummaryPath == "" || report.SummaryPath != relPath {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "summary is not available")
	}

	file, err := s.store.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open summary")
	}
	return file, fmt.Sprintf("match-report-%s.pdf", report.ID), nil
}

func (s *MatchReportService) mimeAllowed(mimeType string) bool {
	if len(s.cfg.AllowedMIMEs) == 0 {
		return true
	}
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	for _, allowed := range s.cfg.AllowedMIMEs {
		if strings.EqualFold(allowed, mimeType) {
			return true
		}
	}
	return false
}
