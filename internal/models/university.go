package models

import "time"

// InstitutionType distinguishes public from private universities.
type InstitutionType string

const (
	InstitutionPublic  InstitutionType = "Public"
	InstitutionPrivate InstitutionType = "Private"
)

// University represents an institution referenced by programmes.
type University struct {
	ID              string          `db:"id" json:"id"`
	Name            string          `db:"name" json:"name"`
	City            string          `db:"city" json:"city"`
	InstitutionType InstitutionType `db:"institution_type" json:"institution_type"`
	Website         string          `db:"website" json:"website,omitempty"`
	Description     string          `db:"description" json:"description,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// UniversityFilter captures filtering criteria for listing universities.
type UniversityFilter struct {
	Search          string
	City            string
	InstitutionType string
	Page            int
	PageSize        int
	SortBy          string
	SortOrder       string
}
