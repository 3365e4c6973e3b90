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

// NewsRepository manages persistence for editorial news items.
type NewsRepository struct {
	db *sqlx.DB
}

// NewNewsRepository constructs a NewsRepository.
func NewNewsRepository(db *sqlx.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

// List returns news items, newest published first.
func (r *NewsRepository) List(ctx context.Context, filter models.NewsFilter) ([]models.NewsItem, int, error) {
	base := "FROM news_items"
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.PublishedOnly {
		conditions = append(conditions, "published = TRUE")
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(title) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT id, title, body, published, published_at, created_at, updated_at
        %s ORDER BY COALESCE(published_at, created_at) DESC LIMIT %d OFFSET %d`, base, size, offset)

	var items []models.NewsItem
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list news: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count news: %w", err)
	}
	return items, total, nil
}

// FindByID fetches a news item by ID.
func (r *NewsRepository) FindByID(ctx context.Context, id string) (*models.NewsItem, error) {
	const query = `SELECT id, title, body, published, published_at, created_at, updated_at FROM news_items WHERE id = $1`
	var item models.NewsItem
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a new news item.
func (r *NewsRepository) Create(ctx context.Context, item *models.NewsItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	const query = `INSERT INTO news_items (id, title, body, published, published_at, created_at, updated_at)
        VALUES (:id, :title, :body, :published, :published_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create news item: %w", err)
	}
	return nil
}

// Update modifies an existing news item.
func (r *NewsRepository) Update(ctx context.Context, item *models.NewsItem) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE news_items SET title = :title, body = :body, published = :published,
        published_at = :published_at, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("update news item: %w", err)
	}
	return nil
}

// Delete removes a news item.
func (r *NewsRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM news_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete news item: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
