package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/osegonte/daad-study-search-sub000/internal/models"
)

// InquiryRepository stores service inquiries from the public contact form.
type InquiryRepository struct {
	db *sqlx.DB
}

// NewInquiryRepository creates a new instance of InquiryRepository.
func NewInquiryRepository(db *sqlx.DB) *InquiryRepository {
	return &InquiryRepository{db: db}
}

// Create inserts a new inquiry.
func (r *InquiryRepository) Create(ctx context.Context, inquiry *models.ServiceInquiry) error {
	if inquiry.ID == "" {
		inquiry.ID = uuid.NewString()
	}
	if inquiry.CreatedAt.IsZero() {
		inquiry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO service_inquiries (id, name, email, subject, message, created_at)
        VALUES (:id, :name, :email, :subject, :message, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, inquiry); err != nil {
		return fmt.Errorf("create inquiry: %w", err)
	}
	return nil
}

// List returns inquiries newest first with total count.
func (r *InquiryRepository) List(ctx context.Context, page, pageSize int) ([]models.ServiceInquiry, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`SELECT id, name, email, subject, message, created_at
        FROM service_inquiries ORDER BY created_at DESC LIMIT %d OFFSET %d`, pageSize, offset)

	var inquiries []models.ServiceInquiry
	if err := r.db.SelectContext(ctx, &inquiries, query); err != nil {
		return nil, 0, fmt.Errorf("list inquiries: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM service_inquiries`); err != nil {
		return nil, 0, fmt.Errorf("count inquiries: %w", err)
	}

	return inquiries, total, nil
}

// FindByID returns a single inquiry.
func (r *InquiryRepository) FindByID(ctx context.Context, id string) (*models.ServiceInquiry, error) {
	const query = `SELECT id, name, email, subject, message, created_at
        FROM service_inquiries WHERE id = $1 LIMIT 1`
	var inquiry models.ServiceInquiry
	if err := r.db.GetContext(ctx, &inquiry, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find inquiry: %w", err)
	}
	return &inquiry, nil
}

// Delete removes an inquiry.
func (r *InquiryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM service_inquiries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete inquiry: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete inquiry rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
