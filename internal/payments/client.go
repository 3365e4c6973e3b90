package payments

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/osegonte/daad-study-search-sub000/pkg/config"
	appErrors "github.com/osegonte/daad-study-search-sub000/pkg/errors"
)

// CheckoutSession is what the provider returns when a session is created.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// WebhookEvent is the provider callback payload. Only checkout completion is
// consumed; other event types pass through unhandled.
type WebhookEvent struct {
	Type      string    `json:"type"`
	SessionID string    `json:"session_id"`
	PaidAt    time.Time `json:"paid_at"`
}

// EventCheckoutCompleted marks a successfully paid checkout session.
const EventCheckoutCompleted = "checkout.session.completed"

type createSessionRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Reference   string `json:"reference"`
	Description string `json:"description"`
	SuccessURL  string `json:"success_url"`
	CancelURL   string `json:"cancel_url"`
}

// Client talks to the hosted checkout provider over HTTP.
type Client struct {
	cfg        config.PaymentsConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient constructs a payments client from configuration.
func NewClient(cfg config.PaymentsConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// CreateSession opens a hosted checkout session for a match-report purchase.
// The reference travels to the provider and comes back on the webhook so the
// paid request can be resolved without trusting client redirects.
func (c *Client) CreateSession(ctx context.Context, reference, description string) (*CheckoutSession, error) {
	payload := createSessionRequest{
		AmountCents: c.cfg.ReportPrice,
		Currency:    c.cfg.Currency,
		Reference:   reference,
		Description: description,
		SuccessURL:  c.cfg.SuccessURL,
		CancelURL:   c.cfg.CancelURL,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal checkout request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.CheckoutURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build checkout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("checkout provider unreachable", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "checkout provider unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("checkout session rejected",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", raw))
		return nil, appErrors.Wrap(fmt.Errorf("checkout provider status %d", resp.StatusCode), appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "checkout session rejected")
	}

	var session CheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("decode checkout response: %w", err)
	}
	if session.ID == "" || session.URL == "" {
		return nil, appErrors.Wrap(fmt.Errorf("incomplete checkout session"), appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "incomplete checkout session")
	}
	return &session, nil
}

// VerifySignature checks the HMAC-SHA256 signature the provider attaches to
// webhook deliveries.
func (c *Client) VerifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.cfg.WebhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ParseWebhook validates and decodes a webhook delivery.
func (c *Client) ParseWebhook(body []byte, signature string) (*WebhookEvent, error) {
	if !c.VerifySignature(body, signature) {
		return nil, appErrors.ErrUnauthorized
	}
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid webhook payload")
	}
	return &event, nil
}
