package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/osegonte/daad-study-search-sub000/internal/models"
	"github.com/osegonte/daad-study-search-sub000/internal/service"
	appErrors "github.com/osegonte/daad-study-search-sub000/pkg/errors"
	"github.com/osegonte/daad-study-search-sub000/pkg/response"
)

// InquiryHandler accepts public consult inquiries and lets admins review them.
type InquiryHandler struct {
	service *service.InquiryService
}

// NewInquiryHandler creates a new handler.
func NewInquiryHandler(svc *service.InquiryService) *InquiryHandler {
	return &InquiryHandler{service: svc}
}

// Submit godoc
// @Summary Submit a consult inquiry
// @Tags Inquiries
// @Accept json
// @Produce json
// @Param payload body models.InquiryInput true "Inquiry payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /inquiries [post]
func (h *InquiryHandler) Submit(c *gin.Context) {
	var input models.InquiryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid inquiry payload"))
		return
	}

	inquiry, err := h.service.Submit(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, inquiry)
}

// List godoc
// @Summary List inquiries
// @Tags Admin Inquiries
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/inquiries [get]
func (h *InquiryHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	inquiries, total, err := h.service.List(c.Request.Context(), page, size)
	if err != nil {
		response.Error(c, err)
		return
	}

	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	response.JSON(c, http.StatusOK, inquiries, pagination)
}

// Get godoc
// @Summary Get inquiry detail
// @Tags Admin Inquiries
// @Produce json
// @Param id path string true "Inquiry ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/inquiries/{id} [get]
func (h *InquiryHandler) Get(c *gin.Context) {
	inquiry, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, inquiry, nil)
}

// Delete godoc
// @Summary Delete inquiry
// @Tags Admin Inquiries
// @Produce json
// @Param id path string true "Inquiry ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/inquiries/{id} [delete]
func (h *InquiryHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
