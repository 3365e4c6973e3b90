package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/osegonte/daad-study-search-sub000/internal/models"
	"github.com/osegonte/daad-study-search-sub000/internal/payments"
	"github.com/osegonte/daad-study-search-sub000/pkg/config"
	"github.com/osegonte/daad-study-search-sub000/pkg/jobs"
	"github.com/osegonte/daad-study-search-sub000/pkg/storage"
)

type mockMatchReportRepo struct {
	reports   map[string]*models.MatchReportRequest
	markPaid  int
	summaries int
}

func newMockMatchReportRepo() *mockMatchReportRepo {
	return &mockMatchReportRepo{reports: make(map[string]*models.MatchReportRequest)}
}

func (m *mockMatchReportRepo) Create(ctx context.Context, report *models.MatchReportRequest) error {
	m.reports[report.ID] = report
	return nil
}

func (m *mockMatchReportRepo) FindByID(ctx context.Context, id string) (*models.MatchReportRequest, error) {
	r, ok := m.reports[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return r, nil
}

func (m *mockMatchReportRepo) FindByCheckoutSession(ctx context.Context, sessionID string) (*models.MatchReportRequest, error) {
	for _, r := range m.reports {
		if r.CheckoutSessionID == sessionID {
			return r, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockMatchReportRepo) List(ctx context.Context, filter models.MatchReportFilter) ([]models.MatchReportRequest, int, error) {
	var out []models.MatchReportRequest
	for _, r := range m.reports {
		if filter.UserID != "" && r.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		out = append(out, *r)
	}
	return out, len(out), nil
}

func (m *mockMatchReportRepo) SetCheckoutSession(ctx context.Context, id, sessionID, checkoutURL string) error {
	if r, ok := m.reports[id]; ok {
		r.CheckoutSessionID = sessionID
		r.CheckoutURL = checkoutURL
	}
	return nil
}

func (m *mockMatchReportRepo) MarkPaid(ctx context.Context, id string, paidAt time.Time) (int64, error) {
	r, ok := m.reports[id]
	if !ok || r.Status != models.MatchReportPendingPayment {
		return 0, nil
	}
	r.Status = models.MatchReportPaid
	r.PaidAt = &paidAt
	m.markPaid++
	return 1, nil
}

func (m *mockMatchReportRepo) UpdateStatus(ctx context.Context, id string, status models.MatchReportStatus) error {
	r, ok := m.reports[id]
	if !ok {
		return sql.ErrNoRows
	}
	r.Status = status
	return nil
}

func (m *mockMatchReportRepo) SetSummaryPath(ctx context.Context, id, path string) error {
	if r, ok := m.reports[id]; ok {
		r.SummaryPath = path
		m.summaries++
	}
	return nil
}

type mockCheckout struct {
	sessions int
	secret   string
}

func (m *mockCheckout) CreateSession(ctx context.Context, reference, description string) (*payments.CheckoutSession, error) {
	m.sessions++
	return &payments.CheckoutSession{ID: "cs_" + reference, URL: "https://pay.example.test/" + reference}, nil
}

func (m *mockCheckout) ParseWebhook(body []byte, signature string) (*payments.WebhookEvent, error) {
	mac := hmac.New(sha256.New, []byte(m.secret))
	mac.Write(body)
	if hex.EncodeToString(mac.Sum(nil)) != signature {
		return nil, errBadSignature
	}
	var event payments.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

var errBadSignature = errors.New("bad webhook signature")

func newMatchReportServiceForTest(t *testing.T) (*MatchReportService, *mockMatchReportRepo, *mockCheckout) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Minute)
	repo := newMockMatchReportRepo()
	checkout := &mockCheckout{secret: "hook-secret"}
	cfg := config.MatchReportsConfig{
		MaxFileSizeBytes: 1 << 20,
		AllowedMIMEs:     []string{"application/pdf"},
	}
	svc := NewMatchReportService(repo, checkout, store, signer, nil, nil, cfg, zap.NewNop())
	return svc, repo, checkout
}

func validInput() models.MatchReportInput {
	return models.MatchReportInput{
		TargetDegree:      "Master",
		SubjectInterests:  "Data Engineering",
		BudgetPerSemester: 500,
	}
}

func signedBody(t *testing.T, secret string, event payments.WebhookEvent) ([]byte, string) {
	body, err := json.Marshal(event)
	require.NoError(t, err)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return body, hex.EncodeToString(mac.Sum(nil))
}

func TestSubmitOpensCheckoutSession(t *testing.T) {
	svc, repo, checkout := newMatchReportServiceForTest(t)

	doc := strings.NewReader("%PDF-1.4 transcript")
	report, err := svc.Submit(context.Background(), "user-1", validInput(), "transcript.pdf", "application/pdf", 19, doc)
	require.NoError(t, err)

	assert.Equal(t, models.MatchReportPendingPayment, report.Status)
	assert.NotEmpty(t, report.CheckoutURL)
	assert.NotEmpty(t, report.DocumentPath)
	assert.Equal(t, 1, checkout.sessions)
	assert.Len(t, repo.reports, 1)
}

func TestSubmitRejectsOversizedDocument(t *testing.T) {
	svc, _, _ := newMatchReportServiceForTest(t)

	_, err := svc.Submit(context.Background(), "user-1", validInput(), "big.pdf", "application/pdf", 10<<20, strings.NewReader("x"))
	require.Error(t, err)
}

func TestSubmitRejectsDisallowedMIME(t *testing.T) {
	svc, _, _ := newMatchReportServiceForTest(t)

	_, err := svc.Submit(context.Background(), "user-1", validInput(), "notes.exe", "application/octet-stream", 10, strings.NewReader("x"))
	require.Error(t, err)
}

func TestSubmitRequiresAuthentication(t *testing.T) {
	svc, _, _ := newMatchReportServiceForTest(t)

	_, err := svc.Submit(context.Background(), "", validInput(), "transcript.pdf", "application/pdf", 10, strings.NewReader("x"))
	require.Error(t, err)
}

func TestWebhookMarksPaidOnce(t *testing.T) {
	svc, repo, _ := newMatchReportServiceForTest(t)

	report, err := svc.Submit(context.Background(), "user-1", validInput(), "transcript.pdf", "application/pdf", 10, strings.NewReader("x"))
	require.NoError(t, err)

	event := payments.WebhookEvent{Type: payments.EventCheckoutCompleted, SessionID: report.CheckoutSessionID, PaidAt: time.Now()}
	body, sig := signedBody(t, "hook-secret", event)

	require.NoError(t, svc.HandleWebhook(context.Background(), body, sig))
	assert.Equal(t, models.MatchReportPaid, repo.reports[report.ID].Status)
	assert.Equal(t, 1, repo.markPaid)

	// Replayed delivery is acknowledged without a second transition.
	require.NoError(t, svc.HandleWebhook(context.Background(), body, sig))
	assert.Equal(t, 1, repo.markPaid)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	svc, _, _ := newMatchReportServiceForTest(t)

	event := payments.WebhookEvent{Type: payments.EventCheckoutCompleted, SessionID: "cs_unknown"}
	body, _ := signedBody(t, "hook-secret", event)
	require.Error(t, svc.HandleWebhook(context.Background(), body, "bad-signature"))
}

func TestUpdateStatusRequiresPayment(t *testing.T) {
	svc, _, _ := newMatchReportServiceForTest(t)

	report, err := svc.Submit(context.Background(), "user-1", validInput(), "transcript.pdf", "application/pdf", 10, strings.NewReader("x"))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), "admin-1", report.ID, models.MatchReportInProgress)
	require.Error(t, err)
}

func TestSummaryDownloadGatedUntilReady(t *testing.T) {
	svc, repo, _ := newMatchReportServiceForTest(t)

	report, err := svc.Submit(context.Background(), "user-1", validInput(), "transcript.pdf", "application/pdf", 10, strings.NewReader("x"))
	require.NoError(t, err)

	// Unpaid: no download.
	_, _, err = svc.SummaryDownloadURL(context.Background(), "user-1", models.RoleUser, report.ID)
	require.Error(t, err)

	now := time.Now()
	repo.reports[report.ID].Status = models.MatchReportPaid
	repo.reports[report.ID].PaidAt = &now

	// Paid but summary not generated yet: still no download.
	_, _, err = svc.SummaryDownloadURL(context.Background(), "user-1", models.RoleUser, report.ID)
	require.Error(t, err)
}

func TestSummaryJobRendersAndStoresPDF(t *testing.T) {
	svc, repo, _ := newMatchReportServiceForTest(t)

	report, err := svc.Submit(context.Background(), "user-1", validInput(), "transcript.pdf", "application/pdf", 10, strings.NewReader("x"))
	require.NoError(t, err)
	now := time.Now()
	repo.reports[report.ID].Status = models.MatchReportPaid
	repo.reports[report.ID].PaidAt = &now

	require.NoError(t, svc.handleSummaryJob(context.Background(), jobForReport(report.ID)))
	assert.NotEmpty(t, repo.reports[report.ID].SummaryPath)

	// Owner can now fetch a signed URL and open the file through it.
	token, _, err := svc.SummaryDownloadURL(context.Background(), "user-1", models.RoleUser, report.ID)
	require.NoError(t, err)

	file, name, err := svc.OpenSummary(context.Background(), token)
	require.NoError(t, err)
	defer file.Close()
	assert.Contains(t, name, report.ID)

	// A stranger never gets a URL.
	_, _, err = svc.SummaryDownloadURL(context.Background(), "user-2", models.RoleUser, report.ID)
	require.Error(t, err)
}

func jobForReport(id string) jobs.Job {
	return jobs.Job{ID: id, Type: summaryJobType, Payload: id}
}
