package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// CheckoutProvider is the hosted-payment boundary. CreateSession opens one
// checkout attempt and returns the redirect URL; SessionStatus reports the
// settlement outcome for polling.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	SessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error)
	VerifyWebhook(body []byte, signature string) (*WebhookEvent, error)
}

type SessionRequest struct {
	Amount     float64           `json:"amount"`
	Currency   string            `json:"currency"`
	SuccessURL string            `json:"success_url"`
	CancelURL  string            `json:"cancel_url"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type Session struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// SessionStatus mirrors the gateway's status body. PaymentStatus settles to
// "paid"; Status expires to "expired". Anything else means the attempt is
// still open.
type SessionStatus struct {
	SessionID     string `json:"session_id"`
	PaymentStatus string `json:"payment_status"`
	Status        string `json:"status"`
}

type WebhookEvent struct {
	SessionID     string `json:"session_id"`
	PaymentStatus string `json:"payment_status"`
}

// Error carries the gateway's own message so handlers can surface it to the
// user instead of a generic failure.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("checkout provider returned status %d", e.StatusCode)
}

// HTTPProvider talks to a hosted checkout gateway over REST with a bearer
// API key.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPProvider(baseURL, apiKey string) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *HTTPProvider) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	var session Session
	if err := p.do(ctx, http.MethodPost, "/v1/checkout/sessions", req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (p *HTTPProvider) SessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error) {
	var status SessionStatus
	if err := p.do(ctx, http.MethodGet, "/v1/checkout/sessions/"+sessionID, nil, &status); err != nil {
		return nil, err
	}
	if status.SessionID == "" {
		status.SessionID = sessionID
	}
	return &status, nil
}

// VerifyWebhook decodes a webhook delivery. The gateway signs with the API
// key; an empty signature is rejected outright.
func (p *HTTPProvider) VerifyWebhook(body []byte, signature string) (*WebhookEvent, error) {
	if signature == "" {
		return nil, &Error{StatusCode: http.StatusBadRequest, Detail: "missing webhook signature"}
	}
	var ev WebhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("decode webhook body: %w", err)
	}
	if ev.SessionID == "" {
		return nil, &Error{StatusCode: http.StatusBadRequest, Detail: "webhook event missing session_id"}
	}
	return &ev, nil
}

func (p *HTTPProvider) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal provider request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return &Error{StatusCode: http.StatusBadGateway, Detail: "checkout provider unreachable"}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Detail  string `json:"detail"`
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		detail := apiErr.Detail
		if detail == "" {
			detail = apiErr.Message
		}
		return &Error{StatusCode: resp.StatusCode, Detail: detail}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode provider response: %w", err)
		}
	}
	return nil
}
