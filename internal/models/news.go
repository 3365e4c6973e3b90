package models

import "time"

// NewsItem is an editorial article managed through the admin CMS.
type NewsItem struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Body        string     `db:"body" json:"body"`
	Published   bool       `db:"published" json:"published"`
	PublishedAt *time.Time `db:"published_at" json:"published_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// NewsFilter captures filtering criteria for listing news items.
type NewsFilter struct {
	PublishedOnly bool
	Search        string
	Page          int
	PageSize      int
}
