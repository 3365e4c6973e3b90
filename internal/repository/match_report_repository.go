package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/osegonte/daad-study-search-sub000/internal/models"
)

// MatchReportRepository stores match-report intakes and their payment state.
type MatchReportRepository struct {
	db *sqlx.DB
}

// NewMatchReportRepository creates a new instance of MatchReportRepository.
func NewMatchReportRepository(db *sqlx.DB) *MatchReportRepository {
	return &MatchReportRepository{db: db}
}

const matchReportColumns = `id, user_id, target_degree, subject_interests, budget_per_semester, notes,
        document_path, document_name, summary_path, status, checkout_session_id, checkout_url, paid_at,
        created_at, updated_at`

// Create inserts a new match-report request.
func (r *MatchReportRepository) Create(ctx context.Context, report *models.MatchReportRequest) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if report.CreatedAt.IsZero() {
		report.CreatedAt = now
	}
	report.UpdatedAt = now
	const query = `INSERT INTO match_report_requests (id, user_id, target_degree, subject_interests,
        budget_per_semester, notes, document_path, document_name, summary_path, status,
        checkout_session_id, checkout_url, paid_at, created_at, updated_at)
        VALUES (:id, :user_id, :target_degree, :subject_interests, :budget_per_semester, :notes,
        :document_path, :document_name, :summary_path, :status, :checkout_session_id, :checkout_url,
        :paid_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, report); err != nil {
		return fmt.Errorf("create match report: %w", err)
	}
	return nil
}

// FindByID returns a single request.
func (r *MatchReportRepository) FindByID(ctx context.Context, id string) (*models.MatchReportRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM match_report_requests WHERE id = $1 LIMIT 1`, matchReportColumns)
	var report models.MatchReportRequest
	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find match report: %w", err)
	}
	return &report, nil
}

// FindByCheckoutSession resolves the request a payment webhook refers to.
func (r *MatchReportRepository) FindByCheckoutSession(ctx context.Context, sessionID string) (*models.MatchReportRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM match_report_requests WHERE checkout_session_id = $1 LIMIT 1`, matchReportColumns)
	var report models.MatchReportRequest
	if err := r.db.GetContext(ctx, &report, query, sessionID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find match report by session: %w", err)
	}
	return &report, nil
}

// List returns requests by filter with total count, newest first.
func (r *MatchReportRepository) List(ctx context.Context, filter models.MatchReportFilter) ([]models.MatchReportRequest, int, error) {
	baseQuery := `FROM match_report_requests WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.UserID != "" {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)+1))
		args = append(args, filter.UserID)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", matchReportColumns, baseQuery, pageSize, offset)

	var reports []models.MatchReportRequest
	if err := r.db.SelectContext(ctx, &reports, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list match reports: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count match reports: %w", err)
	}

	return reports, total, nil
}

// SetCheckoutSession records the hosted checkout session for a request.
func (r *MatchReportRepository) SetCheckoutSession(ctx context.Context, id, sessionID, checkoutURL string) error {
	const query = `UPDATE match_report_requests SET checkout_session_id = $2, checkout_url = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, sessionID, checkoutURL, time.Now().UTC()); err != nil {
		return fmt.Errorf("set checkout session: %w", err)
	}
	return nil
}

// MarkPaid transitions a pending request to PAID exactly once. Returns the
// number of rows affected so callers can detect duplicate webhook delivery.
func (r *MatchReportRepository) MarkPaid(ctx context.Context, id string, paidAt time.Time) (int64, error) {
	const query = `UPDATE match_report_requests SET status = $2, paid_at = $3, updated_at = $4
        WHERE id = $1 AND status = $5`
	result, err := r.db.ExecContext(ctx, query, id, models.MatchReportPaid, paidAt, time.Now().UTC(), models.MatchReportPendingPayment)
	if err != nil {
		return 0, fmt.Errorf("mark match report paid: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark paid rows: %w", err)
	}
	return rows, nil
}

// UpdateStatus sets the workflow status of a request.
func (r *MatchReportRepository) UpdateStatus(ctx context.Context, id string, status models.MatchReportStatus) error {
	const query = `UPDATE match_report_requests SET status = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update match report status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update status rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetSummaryPath stores the generated PDF summary location.
func (r *MatchReportRepository) SetSummaryPath(ctx context.Context, id, path string) error {
	const query = `UPDATE match_report_requests SET summary_path = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, path, time.Now().UTC()); err != nil {
		return fmt.Errorf("set summary path: %w", err)
	}
	return nil
}
