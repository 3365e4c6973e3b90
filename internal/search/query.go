package search

import (
	"fmt"
	"strings"
)

// Sort names the supported result orderings.
type Sort string

const (
	SortLatest     Sort = "latest"
	SortName       Sort = "name"
	SortCity       Sort = "city"
	SortUniversity Sort = "university"
)

// ParseSort maps a raw query parameter to a Sort, defaulting to latest.
func ParseSort(raw string) Sort {
	switch Sort(strings.ToLower(strings.TrimSpace(raw))) {
	case SortName:
		return SortName
	case SortCity:
		return SortCity
	case SortUniversity:
		return SortUniversity
	default:
		return SortLatest
	}
}

// Query bundles everything one programme search executes on: the facet
// selection, the free-text search string, the sort option, and paging.
type Query struct {
	Selection Selection
	Text      string
	Sort      Sort
	Page      int
	PageSize  int
}

// Normalize clamps paging to sane bounds.
func (q Query) Normalize(defaultSize, maxSize int) Query {
	if defaultSize <= 0 {
		defaultSize = 20
	}
	if maxSize <= 0 {
		maxSize = 100
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = defaultSize
	}
	if q.PageSize > maxSize {
		q.PageSize = maxSize
	}
	if q.Sort == "" {
		q.Sort = SortLatest
	}
	q.Text = strings.TrimSpace(q.Text)
	return q
}

// CacheKey renders a stable cache key for the query.
func (q Query) CacheKey() string {
	return fmt.Sprintf("search:%s|q=%s|sort=%s|page=%d|size=%d",
		q.Selection.Canonical(), strings.ToLower(q.Text), q.Sort, q.Page, q.PageSize)
}
