package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/osegonte/daad-study-search-sub000/internal/models"
	"github.com/osegonte/daad-study-search-sub000/internal/search"
	"github.com/osegonte/daad-study-search-sub000/pkg/config"
	appErrors "github.com/osegonte/daad-study-search-sub000/pkg/errors"
)

type mockSearchRepo struct {
	lastQuery search.Query
	calls     int
	items     []models.ProgrammeDetail
	total     int
	err       error
	delay     func()
}

func (m *mockSearchRepo) Search(ctx context.Context, q search.Query) ([]models.ProgrammeDetail, int, error) {
	m.calls++
	m.lastQuery = q
	if m.delay != nil {
		m.delay()
	}
	if m.err != nil {
		return nil, 0, m.err
	}
	return m.items, m.total, nil
}

type memoryCacheRepo struct {
	entries map[string][]byte
	sets    int
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.entries == nil {
		m.entries = make(map[string][]byte)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	m.sets++
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.entries = nil
	return nil
}

func searchTestConfig(premium bool) *config.Config {
	return &config.Config{
		Search:  config.SearchConfig{CacheEnabled: true, CacheTTL: time.Minute, PageSize: 20, MaxPageSize: 100},
		Premium: config.PremiumConfig{EnablePremiumFilters: premium},
	}
}

func newSearchServiceForTest(repo *mockSearchRepo, cacheRepo CacheRepository, premium bool) *SearchService {
	var cache *CacheService
	if cacheRepo != nil {
		cache = NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true)
	}
	return NewSearchService(repo, cache, nil, searchTestConfig(premium), zap.NewNop())
}

func TestSearchStripsPremiumFacetsWithoutEntitlement(t *testing.T) {
	repo := &mockSearchRepo{}
	svc := newSearchServiceForTest(repo, nil, true)

	sel := search.NewSelection()
	require.NoError(t, sel.Set(search.KeyMOILetter, "Accepted"))
	require.NoError(t, sel.SetAll(search.KeyCourseType, []string{"Master"}))

	_, err := svc.Search(context.Background(), search.Query{Selection: sel}, false)
	require.NoError(t, err)

	got := repo.lastQuery.Selection
	assert.Empty(t, got.Values(search.KeyMOILetter))
	assert.Equal(t, []string{"Master"}, got.Values(search.KeyCourseType))
}

func TestSearchStripsPremiumFacetsWhenFlagDisabled(t *testing.T) {
	repo := &mockSearchRepo{}
	svc := newSearchServiceForTest(repo, nil, false)

	sel := search.NewSelection()
	require.NoError(t, sel.Set(search.KeyInterview, "Yes"))

	// Even a premium token gets nothing while the feature flag is off.
	_, err := svc.Search(context.Background(), search.Query{Selection: sel}, true)
	require.NoError(t, err)
	assert.Empty(t, repo.lastQuery.Selection.Values(search.KeyInterview))
}

func TestSearchKeepsPremiumFacetsForEntitledCaller(t *testing.T) {
	repo := &mockSearchRepo{}
	svc := newSearchServiceForTest(repo, nil, true)

	sel := search.NewSelection()
	require.NoError(t, sel.Set(search.KeyInterview, "No"))

	_, err := svc.Search(context.Background(), search.Query{Selection: sel}, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"No"}, repo.lastQuery.Selection.Values(search.KeyInterview))
}

func TestSearchDegradesOnRepositoryFailure(t *testing.T) {
	repo := &mockSearchRepo{err: errors.New("connection refused")}
	svc := newSearchServiceForTest(repo, nil, false)

	result, err := svc.Search(context.Background(), search.Query{Selection: search.NewSelection()}, false)
	require.NoError(t, err)
	assert.True(t, result.Degraded)
	assert.Empty(t, result.Items)
	assert.Zero(t, result.Total)
}

func TestSearchDegradedResultIsNotCached(t *testing.T) {
	cacheRepo := &memoryCacheRepo{}
	repo := &mockSearchRepo{err: errors.New("connection refused")}
	svc := newSearchServiceForTest(repo, cacheRepo, false)

	_, err := svc.Search(context.Background(), search.Query{Selection: search.NewSelection()}, false)
	require.NoError(t, err)
	assert.Zero(t, cacheRepo.sets)
}

func TestSearchServesCachedPage(t *testing.T) {
	cacheRepo := &memoryCacheRepo{}
	repo := &mockSearchRepo{items: []models.ProgrammeDetail{{Programme: models.Programme{ID: "prog-1"}}}, total: 1}
	svc := newSearchServiceForTest(repo, cacheRepo, false)

	q := search.Query{Selection: search.NewSelection(), Text: "data"}
	first, err := svc.Search(context.Background(), q, false)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	require.Equal(t, 1, repo.calls)

	second, err := svc.Search(context.Background(), q, false)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, first.Total, second.Total)
}

func TestSearchTextAndPagingPassThrough(t *testing.T) {
	repo := &mockSearchRepo{}
	svc := newSearchServiceForTest(repo, nil, false)

	q := search.Query{Selection: search.NewSelection(), Text: "  Engineering ", Page: 0, PageSize: 500}
	_, err := svc.Search(context.Background(), q, false)
	require.NoError(t, err)

	assert.Equal(t, "Engineering", repo.lastQuery.Text)
	assert.Equal(t, 1, repo.lastQuery.Page)
	assert.Equal(t, 100, repo.lastQuery.PageSize)
}
