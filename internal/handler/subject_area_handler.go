package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/osegonte/daad-study-search-sub000/internal/models"
	"github.com/osegonte/daad-study-search-sub000/internal/service"
	appErrors "github.com/osegonte/daad-study-search-sub000/pkg/errors"
	"github.com/osegonte/daad-study-search-sub000/pkg/response"
)

// SubjectAreaHandler serves public subject area reads and admin writes.
type SubjectAreaHandler struct {
	service *service.SubjectAreaService
}

// NewSubjectAreaHandler creates a new handler.
func NewSubjectAreaHandler(svc *service.SubjectAreaService) *SubjectAreaHandler {
	return &SubjectAreaHandler{service: svc}
}

// List godoc
// @Summary List subject areas
// @Tags SubjectAreas
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /subject-areas [get]
func (h *SubjectAreaHandler) List(c *gin.Context) {
	areas, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, areas, nil)
}

// Get godoc
// @Summary Get subject area detail
// @Tags SubjectAreas
// @Produce json
// @Param id path string true "Subject area ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /subject-areas/{id} [get]
func (h *SubjectAreaHandler) Get(c *gin.Context) {
	area, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, area, nil)
}

// Create godoc
// @Summary Create subject area
// @Tags Admin Catalogue
// @Accept json
// @Produce json
// @Param payload body models.SubjectAreaInput true "Subject area payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/subject-areas [post]
func (h *SubjectAreaHandler) Create(c *gin.Context) {
	var input models.SubjectAreaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid subject area payload"))
		return
	}

	area, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, area)
}

// Update godoc
// @Summary Update subject area
// @Tags Admin Catalogue
// @Accept json
// @Produce json
// @Param id path string true "Subject area ID"
// @Param payload body models.SubjectAreaInput true "Subject area payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/subject-areas/{id} [put]
func (h *SubjectAreaHandler) Update(c *gin.Context) {
	var input models.SubjectAreaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid subject area payload"))
		return
	}

	area, err := h.service.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, area, nil)
}

// Delete godoc
// @Summary Delete subject area
// @Tags Admin Catalogue
// @Produce json
// @Param id path string true "Subject area ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/subject-areas/{id} [delete]
func (h *SubjectAreaHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
