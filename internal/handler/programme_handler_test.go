package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/osegonte/daad-study-search-sub000/internal/middleware"
	"github.com/osegonte/daad-study-search-sub000/internal/models"
	"github.com/osegonte/daad-study-search-sub000/internal/search"
	"github.com/osegonte/daad-study-search-sub000/internal/service"
	"github.com/osegonte/daad-study-search-sub000/pkg/config"
)

type stubSearchRepo struct {
	lastQuery search.Query
	items     []models.ProgrammeDetail
	total     int
	err       error
}

func (m *stubSearchRepo) Search(ctx context.Context, q search.Query) ([]models.ProgrammeDetail, int, error) {
	m.lastQuery = q
	if m.err != nil {
		return nil, 0, m.err
	}
	return m.items, m.total, nil
}

func newProgrammeHandlerForTest(repo *stubSearchRepo, premiumEnabled bool) *ProgrammeHandler {
	cfg := &config.Config{}
	cfg.Search.PageSize = 20
	cfg.Search.MaxPageSize = 100
	cfg.Premium.EnablePremiumFilters = premiumEnabled
	cfg.Premium.UpgradeURL = "https://example.com/upgrade"
	searchSvc := service.NewSearchService(repo, nil, nil, cfg, zap.NewNop())
	return NewProgrammeHandler(searchSvc, nil, cfg.Premium)
}

func TestProgrammeSearchParsesFacetsAndPaging(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &stubSearchRepo{items: []models.ProgrammeDetail{}, total: 42}
	handler := newProgrammeHandlerForTest(repo, true)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/programmes?courseType=Master&language=English&search=+robotics+&sort=name&page=2&page_size=10", nil)
	c.Request = req

	handler.Search(c)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []string{"Master"}, repo.lastQuery.Selection.Values(search.KeyCourseType))
	assert.Equal(t, []string{"English"}, repo.lastQuery.Selection.Values(search.KeyLanguage))
	assert.Equal(t, "robotics", repo.lastQuery.Text)
	assert.Equal(t, search.SortName, repo.lastQuery.Sort)
	assert.Equal(t, 2, repo.lastQuery.Page)
	assert.Equal(t, 10, repo.lastQuery.PageSize)

	var envelope struct {
		Pagination models.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 42, envelope.Pagination.TotalCount)
}

func TestProgrammeSearchStripsPremiumFacetsForAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &stubSearchRepo{}
	handler := newProgrammeHandlerForTest(repo, true)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/programmes?moiLetter=Accepted&courseType=Master", nil)
	c.Request = req

	handler.Search(c)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Empty(t, repo.lastQuery.Selection.Values(search.KeyMOILetter))
	assert.Equal(t, []string{"Master"}, repo.lastQuery.Selection.Values(search.KeyCourseType))
}

func TestProgrammeSearchKeepsPremiumFacetsForEntitledCaller(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &stubSearchRepo{}
	handler := newProgrammeHandlerForTest(repo, true)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/programmes?moiLetter=Accepted", nil)
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Premium: true})

	handler.Search(c)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []string{"Accepted"}, repo.lastQuery.Selection.Values(search.KeyMOILetter))
}

func TestProgrammeSearchReportsDegradedPage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &stubSearchRepo{err: assert.AnError}
	handler := newProgrammeHandlerForTest(repo, false)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/programmes", nil)
	c.Request = req

	handler.Search(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []models.ProgrammeDetail `json:"data"`
		Meta map[string]interface{}   `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Empty(t, envelope.Data)
	assert.Equal(t, true, envelope.Meta["degraded"])
}

func TestEntitlementEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newProgrammeHandlerForTest(&stubSearchRepo{}, true)

	// Anonymous caller gets the upgrade pointer.
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/me/entitlement", nil)
	c.Request = req
	handler.Entitlement(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, false, envelope.Data["premium_filters"])
	assert.Equal(t, "https://example.com/upgrade", envelope.Data["upgrade_url"])

	// Premium token flips the flag.
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Premium: true})
	handler.Entitlement(c)
	require.Equal(t, http.StatusOK, w.Code)

	envelope.Data = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, true, envelope.Data["premium_filters"])
	assert.NotContains(t, envelope.Data, "upgrade_url")
}
