package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Client is a thin wrapper over the SkyBook REST API. It holds the bearer
// credential and decodes the response envelope; flow logic lives in Session,
// Orchestrator and the booking surface.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type RegisterResult struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*RegisterResult, error) {
	var out RegisterResult
	err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"name": name, "email": email, "password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email": email, "password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SearchFlights(ctx context.Context, source, destination, date string) ([]Flight, error) {
	q := url.Values{}
	if source != "" {
		q.Set("source", source)
	}
	if destination != "" {
		q.Set("destination", destination)
	}
	if date != "" {
		q.Set("date", date)
	}
	path := "/api/flights/search"
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}

	var out []Flight
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetFlight(ctx context.Context, id string) (*Flight, error) {
	var out Flight
	if err := c.do(ctx, http.MethodGet, "/api/flights/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateBooking(ctx context.Context, flightID, passengerName, passengerContact string) (*Booking, error) {
	var out Booking
	err := c.do(ctx, http.MethodPost, "/api/bookings", map[string]string{
		"flight_id":         flightID,
		"passenger_name":    passengerName,
		"passenger_contact": passengerContact,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListBookings(ctx context.Context) ([]Booking, error) {
	var out []Booking
	if err := c.do(ctx, http.MethodGet, "/api/bookings", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetBooking(ctx context.Context, id string) (*Booking, error) {
	var out Booking
	if err := c.do(ctx, http.MethodGet, "/api/bookings/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelBooking(ctx context.Context, id string) (*CancelResult, error) {
	var out CancelResult
	if err := c.do(ctx, http.MethodPost, "/api/bookings/"+url.PathEscape(id)+"/cancel", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCheckoutSession(ctx context.Context, bookingID, originURL string) (*CheckoutSession, error) {
	q := url.Values{}
	q.Set("booking_id", bookingID)
	q.Set("origin_url", originURL)

	var out CheckoutSession
	err := c.do(ctx, http.MethodPost, "/api/payments/create-checkout?"+q.Encode(), nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CheckoutStatus(ctx context.Context, sessionID string) (*PaymentStatus, error) {
	var out PaymentStatus
	err := c.do(ctx, http.MethodGet, "/api/payments/status/"+url.PathEscape(sessionID), nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DownloadReceipt returns the PDF bytes for a confirmed booking.
func (c *Client) DownloadReceipt(ctx context.Context, bookingID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/bookings/"+url.PathEscape(bookingID)+"/receipt", nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request receipt: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}
	return io.ReadAll(resp.Body)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}

	if !env.Success {
		apiErr := &APIError{HTTPStatus: resp.StatusCode, Code: "INTERNAL_ERROR"}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data from %s: %w", path, err)
		}
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func decodeAPIError(resp *http.Response) error {
	var env envelope
	apiErr := &APIError{HTTPStatus: resp.StatusCode, Code: "INTERNAL_ERROR"}
	if err := json.NewDecoder(resp.Body).Decode(&env); err == nil && env.Error != nil {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
	}
	return apiErr
}
