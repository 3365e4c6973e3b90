package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/osegonte/daad-study-search-sub000/internal/models"
	"github.com/osegonte/daad-study-search-sub000/internal/search"
	"github.com/osegonte/daad-study-search-sub000/pkg/config"
)

// SearchProgrammeRepository abstracts the faceted query executor.
type SearchProgrammeRepository interface {
	Search(ctx context.Context, q search.Query) ([]models.ProgrammeDetail, int, error)
}

// SearchResult is one published page of search results.
type SearchResult struct {
	Items    []models.ProgrammeDetail `json:"items"`
	Total    int                      `json:"total"`
	Page     int                      `json:"page"`
	PageSize int                      `json:"page_size"`
	Degraded bool                     `json:"-"`
	Cached   bool                     `json:"-"`
}

// SearchService executes programme searches: it enforces the premium gate,
// consults the result cache, and degrades to an empty page when the database
// is unavailable rather than failing the browse page.
type SearchService struct {
	repo      SearchProgrammeRepository
	cache     *CacheService
	metrics   *MetricsService
	sequencer *search.Sequencer
	logger    *zap.Logger

	premiumEnabled bool
	defaultSize    int
	maxSize        int
	cacheTTL       time.Duration
}

// NewSearchService constructs a search service.
func NewSearchService(repo SearchProgrammeRepository, cache *CacheService, metrics *MetricsService, cfg *config.Config, logger *zap.Logger) *SearchService {
	return &SearchService{
		repo:           repo,
		cache:          cache,
		metrics:        metrics,
		sequencer:      &search.Sequencer{},
		logger:         logger,
		premiumEnabled: cfg.Premium.EnablePremiumFilters,
		defaultSize:    cfg.Search.PageSize,
		maxSize:        cfg.Search.MaxPageSize,
		cacheTTL:       cfg.Search.CacheTTL,
	}
}

// PremiumEnabled reports whether premium facets are active at all. Individual
// entitlement still comes from the caller's token.
func (s *SearchService) PremiumEnabled() bool {
	return s.premiumEnabled
}

// Entitled combines the caller's premium claim with the server-side flag.
func (s *SearchService) Entitled(premiumClaim bool) bool {
	return premiumClaim && s.premiumEnabled
}

// Search runs a programme search for a caller with the given premium claim.
// Premium facet selections from non-entitled callers are stripped, never
// errored, so shared URLs keep working after a subscription lapses.
func (s *SearchService) Search(ctx context.Context, q search.Query, premiumClaim bool) (*SearchResult, error) {
	if !s.Entitled(premiumClaim) {
		q.Selection = q.Selection.WithoutPremium()
	}
	q = q.Normalize(s.defaultSize, s.maxSize)

	key := q.CacheKey()
	if s.cache.Enabled() {
		var cached SearchResult
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			cached.Cached = true
			s.metrics.ObserveSearch(true, false)
			return &cached, nil
		}
	}

	seq := s.sequencer.Next()
	start := time.Now()
	items, total, err := s.repo.Search(ctx, q)
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("programme_search", time.Since(start))
	}
	if err != nil {
		// The browse page stays up on a database outage. An empty,
		// explicitly degraded page is served and never cached.
		s.logger.Error("programme search failed, serving degraded result",
			zap.String("key", key), zap.Error(err))
		s.metrics.ObserveSearch(false, true)
		return &SearchResult{
			Items:    []models.ProgrammeDetail{},
			Page:     q.Page,
			PageSize: q.PageSize,
			Degraded: true,
		}, nil
	}

	if items == nil {
		items = []models.ProgrammeDetail{}
	}
	result := &SearchResult{
		Items:    items,
		Total:    total,
		Page:     q.Page,
		PageSize: q.PageSize,
	}

	// Publish to the cache only while this execution is still the newest
	// one issued. A slow query finishing after later searches must not
	// overwrite fresher snapshots.
	if s.cache.Enabled() && s.sequencer.Latest(seq) {
		if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
			s.logger.Warn("search result cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	s.metrics.ObserveSearch(false, false)
	return result, nil
}

// InvalidateResults drops every cached search page. Catalogue writes call
// this so stale listings never outlive an edit.
func (s *SearchService) InvalidateResults(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, "search:*"); err != nil {
		s.logger.Warn("search cache invalidation failed", zap.Error(err))
	}
}
