package handler

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/osegonte/daad-study-search-sub000/internal/middleware"
	"github.com/osegonte/daad-study-search-sub000/internal/models"
	"github.com/osegonte/daad-study-search-sub000/internal/payments"
	"github.com/osegonte/daad-study-search-sub000/internal/service"
	"github.com/osegonte/daad-study-search-sub000/pkg/config"
	"github.com/osegonte/daad-study-search-sub000/pkg/storage"
)

type stubMatchReportRepo struct {
	reports  map[string]*models.MatchReportRequest
	markPaid int
}

func newStubMatchReportRepo() *stubMatchReportRepo {
	return &stubMatchReportRepo{reports: map[string]*models.MatchReportRequest{}}
}

func (m *stubMatchReportRepo) Create(ctx context.Context, report *models.MatchReportRequest) error {
	m.reports[report.ID] = report
	return nil
}

func (m *stubMatchReportRepo) FindByID(ctx context.Context, id string) (*models.MatchReportRequest, error) {
	report, ok := m.reports[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *report
	return &clone, nil
}

func (m *stubMatchReportRepo) FindByCheckoutSession(ctx context.Context, sessionID string) (*models.MatchReportRequest, error) {
	for _, report := range m.reports {
		if report.CheckoutSessionID == sessionID {
			clone := *report
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *stubMatchReportRepo) List(ctx context.Context, filter models.MatchReportFilter) ([]models.MatchReportRequest, int, error) {
	return nil, 0, nil
}

func (m *stubMatchReportRepo) SetCheckoutSession(ctx context.Context, id, sessionID, checkoutURL string) error {
	m.reports[id].CheckoutSessionID = sessionID
	m.reports[id].CheckoutURL = checkoutURL
	return nil
}

func (m *stubMatchReportRepo) MarkPaid(ctx context.Context, id string, paidAt time.Time) (int64, error) {
	report := m.reports[id]
	if report.Status != models.MatchReportPendingPayment {
		return 0, nil
	}
	m.markPaid++
	report.Status = models.MatchReportPaid
	report.PaidAt = &paidAt
	return 1, nil
}

func (m *stubMatchReportRepo) UpdateStatus(ctx context.Context, id string, status models.MatchReportStatus) error {
	m.reports[id].Status = status
	return nil
}

func (m *stubMatchReportRepo) SetSummaryPath(ctx context.Context, id, path string) error {
	m.reports[id].SummaryPath = path
	return nil
}

func newMatchReportHandlerForTest(t *testing.T) (*MatchReportHandler, *stubMatchReportRepo) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Minute)

	checkout := payments.NewClient(config.PaymentsConfig{
		CheckoutURL:   "http://127.0.0.1:0",
		WebhookSecret: "hook-secret",
	}, zap.NewNop())

	repo := newStubMatchReportRepo()
	cfg := config.MatchReportsConfig{
		MaxFileSizeBytes: 1 << 20,
		AllowedMIMEs:     []string{"application/pdf"},
	}
	svc := service.NewMatchReportService(repo, checkout, store, signer, nil, nil, cfg, zap.NewNop())
	return NewMatchReportHandler(svc), repo
}

func TestMatchReportSubmitRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newMatchReportHandlerForTest(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/match-reports", nil)
	c.Request = req

	handler.Submit(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMatchReportSubmitRequiresDocument(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newMatchReportHandlerForTest(t)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("target_degree", "Master"))
	require.NoError(t, form.WriteField("subject_interests", "Data Engineering"))
	require.NoError(t, form.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/match-reports", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1"})

	handler.Submit(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo := newMatchReportHandlerForTest(t)

	report := &models.MatchReportRequest{ID: "r1", Status: models.MatchReportPendingPayment, CheckoutSessionID: "cs_1"}
	repo.reports[report.ID] = report

	body, _ := json.Marshal(payments.WebhookEvent{Type: payments.EventCheckoutCompleted, SessionID: "cs_1"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewReader(body))
	req.Header.Set(WebhookSignatureHeader, "deadbeef")
	c.Request = req

	handler.Webhook(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, repo.markPaid)
}

func TestWebhookMarksReportPaid(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo := newMatchReportHandlerForTest(t)

	report := &models.MatchReportRequest{ID: "r1", Status: models.MatchReportPendingPayment, CheckoutSessionID: "cs_1"}
	repo.reports[report.ID] = report

	body, _ := json.Marshal(payments.WebhookEvent{Type: payments.EventCheckoutCompleted, SessionID: "cs_1"})
	mac := hmac.New(sha256.New, []byte("hook-secret"))
	mac.Write(body)
	signature := hex.EncodeToString(mac.Sum(nil))

	deliver := func() int {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		req, _ := http.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewReader(body))
		req.Header.Set(WebhookSignatureHeader, signature)
		c.Request = req
		handler.Webhook(c)
		return w.Code
	}

	require.Equal(t, http.StatusOK, deliver())
	assert.Equal(t, models.MatchReportPaid, repo.reports["r1"].Status)
	assert.Equal(t, 1, repo.markPaid)

	// A replayed delivery acknowledges without paying twice.
	require.Equal(t, http.StatusOK, deliver())
	assert.Equal(t, 1, repo.markPaid)
}
