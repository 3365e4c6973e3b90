package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/osegonte/daad-study-search-sub000/internal/models"
)

// WatchlistRepository manages saved-programme associations.
type WatchlistRepository struct {
	db *sqlx.DB
}

// NewWatchlistRepository constructs a WatchlistRepository.
func NewWatchlistRepository(db *sqlx.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// Exists reports whether the user has saved the programme. Absence is a
// normal outcome, not an error.
func (r *WatchlistRepository) Exists(ctx context.Context, userID, programmeID string) (bool, error) {
	const query = `SELECT 1 FROM watchlist_entries WHERE user_id = $1 AND programme_id = $2 LIMIT 1`
	var found int
	if err := r.db.GetContext(ctx, &found, query, userID, programmeID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check watchlist membership: %w", err)
	}
	return true, nil
}

// Insert adds a watchlist entry.
func (r *WatchlistRepository) Insert(ctx context.Context, entry *models.WatchlistEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.AddedAt.IsZero() {
		entry.AddedAt = time.Now().UTC()
	}
	const query = `INSERT INTO watchlist_entries (id, user_id, programme_id, added_at)
        VALUES (:id, :user_id, :programme_id, :added_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("insert watchlist entry: %w", err)
	}
	return nil
}

// Delete removes the entry for the given user/programme pair.
func (r *WatchlistRepository) Delete(ctx context.Context, userID, programmeID string) error {
	const query = `DELETE FROM watchlist_entries WHERE user_id = $1 AND programme_id = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, programmeID); err != nil {
		return fmt.Errorf("delete watchlist entry: %w", err)
	}
	return nil
}

// MembershipForSet answers saved/not-saved for every programme id in one
// query. This replaces the one-roundtrip-per-row pattern the browse page
// used to need.
func (r *WatchlistRepository) MembershipForSet(ctx context.Context, userID string, programmeIDs []string) (map[string]bool, error) {
	membership := make(map[string]bool, len(programmeIDs))
	for _, id := range programmeIDs {
		membership[id] = false
	}
	if len(programmeIDs) == 0 {
		return membership, nil
	}

	const query = `SELECT programme_id FROM watchlist_entries WHERE user_id = $1 AND programme_id = ANY($2)`
	var saved []string
	if err := r.db.SelectContext(ctx, &saved, query, userID, pq.Array(programmeIDs)); err != nil {
		return nil, fmt.Errorf("batch watchlist membership: %w", err)
	}
	for _, id := range saved {
		membership[id] = true
	}
	return membership, nil
}

// ListByUser returns the user's saved programmes, newest first.
func (r *WatchlistRepository) ListByUser(ctx context.Context, userID string) ([]models.WatchlistItem, error) {
	query := fmt.Sprintf(`SELECT %s, w.added_at
        %s
        JOIN watchlist_entries w ON w.programme_id = p.id
        WHERE w.user_id = $1
        ORDER BY w.added_at DESC`, programmeColumns, programmeBase)

	var items []models.WatchlistItem
	if err := r.db.SelectContext(ctx, &items, query, userID); err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	return items, nil
}
