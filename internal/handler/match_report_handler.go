package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/osegonte/daad-study-search-sub000/internal/models"
	"github.com/osegonte/daad-study-search-sub000/internal/service"
	appErrors "github.com/osegonte/daad-study-search-sub000/pkg/errors"
	"github.com/osegonte/daad-study-search-sub000/pkg/response"
)

// WebhookSignatureHeader carries the checkout provider's HMAC signature.
const WebhookSignatureHeader = "X-Webhook-Signature"

// MatchReportHandler serves the paid match report product: intake with a
// transcript upload, checkout, the payment webhook, and summary download.
type MatchReportHandler struct {
	service *service.MatchReportService
}

// NewMatchReportHandler creates a new handler.
func NewMatchReportHandler(svc *service.MatchReportService) *MatchReportHandler {
	return &MatchReportHandler{service: svc}
}

// Submit godoc
// @Summary Submit a match report request
// @Description Multipart intake form with a transcript document; responds with the checkout URL
// @Tags MatchReports
// @Accept mpfd
// @Produce json
// @Param target_degree formData string true "Target degree"
// @Param subject_interests formData string true "Subject interests"
// @Param budget_per_semester formData int false "Budget per semester in EUR"
// @Param notes formData string false "Free-form notes"
// @Param document formData file true "Transcript document"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Router /match-reports [post]
func (h *MatchReportHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	input := models.MatchReportInput{
		TargetDegree:     strings.TrimSpace(c.PostForm("target_degree")),
		SubjectInterests: strings.TrimSpace(c.PostForm("subject_interests")),
		Notes:            strings.TrimSpace(c.PostForm("notes")),
	}
	if raw := c.PostForm("budget_per_semester"); raw != "" {
		budget, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "budget_per_semester must be a number"))
			return
		}
		input.BudgetPerSemester = budget
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "transcript document is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to read uploaded document"))
		return
	}
	defer file.Close()

	mimeType := fileHeader.Header.Get("Content-Type")
	report, err := h.service.Submit(c.Request.Context(), claims.UserID, input, fileHeader.Filename, mimeType, fileHeader.Size, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, report)
}

// ListMine godoc
// @Summary List the caller's match report requests
// @Tags MatchReports
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /match-reports [get]
func (h *MatchReportHandler) ListMine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	reports, total, err := h.service.ListForUser(c.Request.Context(), claims.UserID, page, size)
	if err != nil {
		response.Error(c, err)
		return
	}

	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	response.JSON(c, http.StatusOK, reports, pagination)
}

// Get godoc
// @Summary Get a match report request
// @Tags MatchReports
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /match-reports/{id} [get]
func (h *MatchReportHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	report, err := h.service.Get(c.Request.Context(), claims.UserID, claims.Role, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// DownloadURL godoc
// @Summary Issue a signed summary download link
// @Tags MatchReports
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Failure 402 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /match-reports/{id}/download-url [get]
func (h *MatchReportHandler) DownloadURL(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	token, expiresAt, err := h.service.SummaryDownloadURL(c.Request.Context(), claims.UserID, claims.Role, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"url":        "/api/v1/downloads/match-report-summary?token=" + token,
		"token":      token,
		"expires_at": expiresAt,
	}, nil)
}

// Download godoc
// @Summary Download a summary by signed token
// @Description The token alone authorizes the download, so the link can be handed to a browser
// @Tags MatchReports
// @Produce application/pdf
// @Param token query string true "Signed token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Router /downloads/match-report-summary [get]
func (h *MatchReportHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "download token is required"))
		return
	}

	file, filename, err := h.service.OpenSummary(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, file); err != nil {
		// Headers are already out, nothing sensible left to send.
		c.Abort()
	}
}

// AdminList godoc
// @Summary List match report requests
// @Tags Admin MatchReports
// @Produce json
// @Param status query string false "Status filter"
// @Param user_id query string false "User filter"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/match-reports [get]
func (h *MatchReportHandler) AdminList(c *gin.Context) {
	var filter models.MatchReportFilter
	filter.Status = models.MatchReportStatus(strings.ToUpper(strings.TrimSpace(c.Query("status"))))
	filter.UserID = c.Query("user_id")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "20")); err == nil {
		filter.PageSize = size
	}

	reports, total, err := h.service.AdminList(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	response.JSON(c, http.StatusOK, reports, pagination)
}

// UpdateStatus godoc
// @Summary Advance a match report request
// @Tags Admin MatchReports
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param payload body map[string]string true "New status"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 402 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/match-reports/{id}/status [patch]
func (h *MatchReportHandler) UpdateStatus(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var payload struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "status is required"))
		return
	}

	status := models.MatchReportStatus(strings.ToUpper(strings.TrimSpace(payload.Status)))
	report, err := h.service.UpdateStatus(c.Request.Context(), claims.UserID, c.Param("id"), status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Webhook godoc
// @Summary Checkout provider payment webhook
// @Description Verifies the HMAC signature and marks the referenced request paid
// @Tags Payments
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /payments/webhook [post]
func (h *MatchReportHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read webhook body"))
		return
	}

	signature := c.GetHeader(WebhookSignatureHeader)
	if err := h.service.HandleWebhook(c.Request.Context(), body, signature); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"received": true}, nil)
}
