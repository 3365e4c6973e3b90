package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/osegonte/daad-study-search-sub000/internal/models"
	"github.com/osegonte/daad-study-search-sub000/internal/search"
	"github.com/osegonte/daad-study-search-sub000/internal/service"
	"github.com/osegonte/daad-study-search-sub000/pkg/config"
	appErrors "github.com/osegonte/daad-study-search-sub000/pkg/errors"
	"github.com/osegonte/daad-study-search-sub000/pkg/response"
)

// ProgrammeHandler serves the public programme search surface and the
// admin catalogue endpoints.
type ProgrammeHandler struct {
	search     *service.SearchService
	programmes *service.ProgrammeService
	premium    config.PremiumConfig
}

// NewProgrammeHandler creates a new handler.
func NewProgrammeHandler(searchSvc *service.SearchService, programmeSvc *service.ProgrammeService, premium config.PremiumConfig) *ProgrammeHandler {
	return &ProgrammeHandler{search: searchSvc, programmes: programmeSvc, premium: premium}
}

// Search godoc
// @Summary Search study programmes
// @Description Faceted programme search with free-text, sort and paging
// @Tags Programmes
// @Produce json
// @Param search query string false "Free-text search"
// @Param sort query string false "Sort order (latest, name, city, university)"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /programmes [get]
func (h *ProgrammeHandler) Search(c *gin.Context) {
	params := c.Request.URL.Query()

	q := search.Query{
		Selection: search.FromQuery(params),
		Text:      c.Query("search"),
		Sort:      search.ParseSort(c.Query("sort")),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		q.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", c.DefaultQuery("page_size", "0"))); err == nil {
		q.PageSize = size
	}

	premium := false
	if claims := claimsFromContext(c); claims != nil {
		premium = claims.Premium
	}

	result, err := h.search.Search(c.Request.Context(), q, premium)
	if err != nil {
		response.Error(c, err)
		return
	}

	pagination := &models.Pagination{Page: result.Page, PageSize: result.PageSize, TotalCount: result.Total}
	meta := map[string]interface{}{"degraded": result.Degraded}
	response.JSON(c, http.StatusOK, result.Items, pagination, meta)
}

// Get godoc
// @Summary Get programme detail
// @Tags Programmes
// @Produce json
// @Param id path string true "Programme ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /programmes/{id} [get]
func (h *ProgrammeHandler) Get(c *gin.Context) {
	programme, err := h.programmes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, programme, nil)
}

// Entitlement godoc
// @Summary Report premium filter entitlement
// @Description Whether the caller may use premium facets, for UI gating
// @Tags Programmes
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /me/entitlement [get]
func (h *ProgrammeHandler) Entitlement(c *gin.Context) {
	premium := false
	if claims := claimsFromContext(c); claims != nil {
		premium = claims.Premium
	}

	payload := gin.H{"premium_filters": h.search.Entitled(premium)}
	if !h.search.Entitled(premium) && h.premium.UpgradeURL != "" {
		payload["upgrade_url"] = h.premium.UpgradeURL
	}
	response.JSON(c, http.StatusOK, payload, nil)
}

// Create godoc
// @Summary Create programme
// @Tags Admin Catalogue
// @Accept json
// @Produce json
// @Param payload body models.ProgrammeInput true "Programme payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/programmes [post]
func (h *ProgrammeHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var input models.ProgrammeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid programme payload"))
		return
	}

	programme, err := h.programmes.Create(c.Request.Context(), claims.UserID, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, programme)
}

// Update godoc
// @Summary Update programme
// @Tags Admin Catalogue
// @Accept json
// @Produce json
// @Param id path string true "Programme ID"
// @Param payload body models.ProgrammeInput true "Programme payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/programmes/{id} [put]
func (h *ProgrammeHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var input models.ProgrammeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid programme payload"))
		return
	}

	programme, err := h.programmes.Update(c.Request.Context(), claims.UserID, c.Param("id"), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, programme, nil)
}

// Delete godoc
// @Summary Delete programme
// @Tags Admin Catalogue
// @Produce json
// @Param id path string true "Programme ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/programmes/{id} [delete]
func (h *ProgrammeHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.programmes.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
