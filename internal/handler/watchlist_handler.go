package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/osegonte/daad-study-search-sub000/internal/service"
	appErrors "github.com/osegonte/daad-study-search-sub000/pkg/errors"
	"github.com/osegonte/daad-study-search-sub000/pkg/response"
)

// WatchlistHandler serves the saved-programmes endpoints.
type WatchlistHandler struct {
	service *service.WatchlistService
}

// NewWatchlistHandler creates a new handler.
func NewWatchlistHandler(svc *service.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{service: svc}
}

// List godoc
// @Summary List saved programmes
// @Tags Watchlist
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /watchlist [get]
func (h *WatchlistHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	items, err := h.service.List(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Toggle godoc
// @Summary Toggle a programme on the watchlist
// @Description Adds the programme when absent, removes it when present
// @Tags Watchlist
// @Produce json
// @Param programmeID path string true "Programme ID"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /watchlist/{programmeID}/toggle [post]
func (h *WatchlistHandler) Toggle(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	saved, err := h.service.Toggle(c.Request.Context(), claims.UserID, c.Param("programmeID"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"saved": saved}, nil)
}

// Status godoc
// @Summary Batched watchlist membership
// @Description Membership flags for a comma-separated set of programme IDs
// @Tags Watchlist
// @Produce json
// @Param ids query string true "Comma-separated programme IDs"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /watchlist/status [get]
func (h *WatchlistHandler) Status(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var ids []string
	for _, raw := range strings.Split(c.Query("ids"), ",") {
		if id := strings.TrimSpace(raw); id != "" {
			ids = append(ids, id)
		}
	}

	status, err := h.service.Status(c.Request.Context(), claims.UserID, ids)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}
