package models

import "time"

// WatchlistEntry associates a user with a saved programme.
type WatchlistEntry struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	ProgrammeID string    `db:"programme_id" json:"programme_id"`
	AddedAt     time.Time `db:"added_at" json:"added_at"`
}

// WatchlistItem pairs an entry with the programme it references.
type WatchlistItem struct {
	ProgrammeDetail
	AddedAt time.Time `db:"added_at" json:"added_at"`
}
