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

// SubjectAreaRepository manages persistence for subject areas.
type SubjectAreaRepository struct {
	db *sqlx.DB
}

// NewSubjectAreaRepository constructs a SubjectAreaRepository.
func NewSubjectAreaRepository(db *sqlx.DB) *SubjectAreaRepository {
	return &SubjectAreaRepository{db: db}
}

// List returns all subject areas ordered by name.
func (r *SubjectAreaRepository) List(ctx context.Context) ([]models.SubjectArea, error) {
	const query = `SELECT id, name, slug, created_at, updated_at FROM subject_areas ORDER BY name ASC`
	var areas []models.SubjectArea
	if err := r.db.SelectContext(ctx, &areas, query); err != nil {
		return nil, fmt.Errorf("list subject areas: %w", err)
	}
	return areas, nil
}

// FindByID fetches a subject area by ID.
func (r *SubjectAreaRepository) FindByID(ctx context.Context, id string) (*models.SubjectArea, error) {
	const query = `SELECT id, name, slug, created_at, updated_at FROM subject_areas WHERE id = $1`
	var area models.SubjectArea
	if err := r.db.GetContext(ctx, &area, query, id); err != nil {
		return nil, err
	}
	return &area, nil
}

// FindBySlug fetches a subject area by its URL slug.
func (r *SubjectAreaRepository) FindBySlug(ctx context.Context, slug string) (*models.SubjectArea, error) {
	const query = `SELECT id, name, slug, created_at, updated_at FROM subject_areas WHERE slug = $1`
	var area models.SubjectArea
	if err := r.db.GetContext(ctx, &area, query, slug); err != nil {
		return nil, err
	}
	return &area, nil
}

// ExistsBySlug checks slug uniqueness, optionally excluding an ID.
func (r *SubjectAreaRepository) ExistsBySlug(ctx context.Context, slug string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM subject_areas WHERE slug = $1"
	args := []interface{}{slug}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check slug: %w", err)
	}
	return true, nil
}

// Create inserts a new subject area.
func (r *SubjectAreaRepository) Create(ctx context.Context, area *models.SubjectArea) error {
	if area.ID == "" {
		area.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if area.CreatedAt.IsZero() {
		area.CreatedAt = now
	}
	area.UpdatedAt = now
	const query = `INSERT INTO subject_areas (id, name, slug, created_at, updated_at)
        VALUES (:id, :name, :slug, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, area); err != nil {
		return fmt.Errorf("create subject area: %w", err)
	}
	return nil
}

// Update modifies an existing subject area.
func (r *SubjectAreaRepository) Update(ctx context.Context, area *models.SubjectArea) error {
	area.UpdatedAt = time.Now().UTC()
	const query = `UPDATE subject_areas SET name = :name, slug = :slug, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, area); err != nil {
		return fmt.Errorf("update subject area: %w", err)
	}
	return nil
}

// Delete removes a subject area.
func (r *SubjectAreaRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subject_areas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subject area: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
