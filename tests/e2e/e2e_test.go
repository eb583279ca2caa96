package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"skybook/internal/database"
	"skybook/internal/domain"
	"skybook/internal/middleware"
	"skybook/internal/modules/admin"
	"skybook/internal/modules/auth"
	"skybook/internal/modules/booking"
	"skybook/internal/modules/flights"
	"skybook/internal/modules/payment"
	jwtsvc "skybook/internal/pkg/jwt"
	"skybook/internal/provider"
	"skybook/internal/repository"
)

// fakeCheckout is an in-process stand-in for the hosted payment gateway.
type fakeCheckout struct {
	mu       sync.Mutex
	sessions map[string]*provider.SessionStatus
}

func newFakeCheckout() *fakeCheckout {
	return &fakeCheckout{sessions: map[string]*provider.SessionStatus{}}
}

func (f *fakeCheckout) CreateSession(ctx context.Context, req provider.SessionRequest) (*provider.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := "cs_test_" + uuid.NewString()[:8]
	f.sessions[id] = &provider.SessionStatus{SessionID: id, PaymentStatus: "unpaid", Status: "open"}
	return &provider.Session{SessionID: id, URL: "https://pay.example/" + id}, nil
}

func (f *fakeCheckout) SessionStatus(ctx context.Context, sessionID string) (*provider.SessionStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.sessions[sessionID]
	if !ok {
		return nil, &provider.Error{StatusCode: http.StatusNotFound, Detail: "no such session"}
	}
	copied := *st
	return &copied, nil
}

func (f *fakeCheckout) VerifyWebhook(body []byte, signature string) (*provider.WebhookEvent, error) {
	if signature == "" {
		return nil, &provider.Error{StatusCode: http.StatusBadRequest, Detail: "missing webhook signature"}
	}
	var ev provider.WebhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (f *fakeCheckout) settle(sessionID, paymentStatus, status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.sessions[sessionID]; ok {
		st.PaymentStatus = paymentStatus
		st.Status = status
	}
}

type testSuite struct {
	router   *gin.Engine
	db       *gorm.DB
	checkout *fakeCheckout
}

type testResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details,omitempty"`
	} `json:"error,omitempty"`
}

func setupTestSuite(t *testing.T) *testSuite {
	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, database.Migrate(db))

	userRepo := repository.NewUserRepository(db)
	flightRepo := repository.NewFlightRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)
	checkout := newFakeCheckout()

	authHandler := auth.NewHandler(auth.NewService(userRepo, jwtService))
	flightHandler := flights.NewHandler(flights.NewService(flightRepo, nil))
	bookingHandler := booking.NewHandler(booking.NewService(bookingRepo, flightRepo, nil))
	paymentHandler := payment.NewHandler(payment.NewService(paymentRepo, bookingRepo, checkout, nil), checkout)
	adminHandler := admin.NewHandler(admin.NewService(flightRepo, bookingRepo, nil))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	authHandler.RegisterPublicRoutes(api)
	flightHandler.RegisterPublicRoutes(api)
	paymentHandler.RegisterPublicRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.JWTAuth(jwtService))
	{
		authHandler.RegisterProtectedRoutes(protected)
		bookingHandler.RegisterProtectedRoutes(protected)
		paymentHandler.RegisterProtectedRoutes(protected)

		adminGroup := protected.Group("")
		adminGroup.Use(middleware.AdminOnly())
		adminHandler.RegisterRoutes(adminGroup)
	}

	return &testSuite{router: r, db: db, checkout: checkout}
}

func (s *testSuite) request(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, *testResponse) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp testResponse
	if len(w.Body.Bytes()) > 0 && w.Header().Get("Content-Type") != "application/pdf" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp),
			"unexpected body: %s", w.Body.String())
	}
	return w, &resp
}

func checkoutPath(bookingID string) string {
	q := url.Values{}
	q.Set("booking_id", bookingID)
	q.Set("origin_url", "https://app.example")
	return "/api/payments/create-checkout?" + q.Encode()
}

func (s *testSuite) registerUser(t *testing.T, name, email string) string {
	t.Helper()
	w, resp := s.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	return data.Token
}

func (s *testSuite) adminToken(t *testing.T) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)
	email := fmt.Sprintf("admin-%s@skybook.local", uuid.NewString()[:8])
	require.NoError(t, s.db.Create(&domain.User{
		ID: uuid.NewString(), Name: "Admin", Email: email,
		PasswordHash: string(hash), Role: domain.RoleAdmin,
	}).Error)

	w, resp := s.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": email, "password": "admin123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	return data.Token
}

func (s *testSuite) createFlight(t *testing.T, adminToken string, seats int, price float64) string {
	t.Helper()
	departure := time.Now().Add(72 * time.Hour).UTC().Truncate(time.Second)
	w, resp := s.request(t, http.MethodPost, "/api/admin/flights", adminToken, map[string]any{
		"flight_number":  "SB" + uuid.NewString()[:4],
		"source":         "Delhi",
		"destination":    "Mumbai",
		"departure_time": departure,
		"arrival_time":   departure.Add(2 * time.Hour),
		"total_seats":    seats,
		"price":          price,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var flight domain.Flight
	require.NoError(t, json.Unmarshal(resp.Data, &flight))
	return flight.ID
}

func TestFullBookingLifecycle(t *testing.T) {
	s := setupTestSuite(t)
	adminToken := s.adminToken(t)
	userToken := s.registerUser(t, "Alice", "alice@example.com")

	flightID := s.createFlight(t, adminToken, 60, 4500)

	// Search finds the flight.
	w, resp := s.request(t, http.MethodGet, "/api/flights/search?source=delhi&destination=mumbai", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var found []domain.Flight
	require.NoError(t, json.Unmarshal(resp.Data, &found))
	require.Len(t, found, 1)
	assert.Equal(t, 60, found[0].AvailableSeats)

	// Book a seat.
	w, resp = s.request(t, http.MethodPost, "/api/bookings", userToken, map[string]string{
		"flight_id": flightID, "passenger_name": "Alice", "passenger_contact": "alice@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var booked domain.Booking
	require.NoError(t, json.Unmarshal(resp.Data, &booked))
	assert.Equal(t, "1A", booked.SeatNumber)
	assert.Equal(t, domain.BookingPending, booked.Status)

	// Seat count dropped.
	w, resp = s.request(t, http.MethodGet, "/api/flights/"+flightID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var flight domain.Flight
	require.NoError(t, json.Unmarshal(resp.Data, &flight))
	assert.Equal(t, 59, flight.AvailableSeats)

	// Open a checkout session.
	w, resp = s.request(t, http.MethodPost, checkoutPath(booked.ID), userToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var session struct {
		SessionID string `json:"session_id"`
		URL       string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &session))
	require.NotEmpty(t, session.SessionID)

	// Still open: booking stays pending.
	w, resp = s.request(t, http.MethodGet, "/api/payments/status/"+session.SessionID, userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status struct {
		PaymentStatus string `json:"payment_status"`
		BookingStatus string `json:"booking_status"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &status))
	assert.Equal(t, "unpaid", status.PaymentStatus)
	assert.Equal(t, string(domain.BookingPending), status.BookingStatus)

	// Gateway settles; next poll confirms the booking.
	s.checkout.settle(session.SessionID, "paid", "complete")
	w, resp = s.request(t, http.MethodGet, "/api/payments/status/"+session.SessionID, userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(resp.Data, &status))
	assert.Equal(t, "paid", status.PaymentStatus)
	assert.Equal(t, string(domain.BookingConfirmed), status.BookingStatus)

	// Polling again is harmless.
	w, _ = s.request(t, http.MethodGet, "/api/payments/status/"+session.SessionID, userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Receipt is available once confirmed.
	w, _ = s.request(t, http.MethodGet, "/api/bookings/"+booked.ID+"/receipt", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())

	// Cancel returns the seat and 80% of the price.
	w, resp = s.request(t, http.MethodPost, "/api/bookings/"+booked.ID+"/cancel", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var cancel struct {
		Status       string  `json:"status"`
		RefundAmount float64 `json:"refund_amount"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &cancel))
	assert.Equal(t, string(domain.BookingCancelled), cancel.Status)
	assert.InDelta(t, 3600, cancel.RefundAmount, 0.001)

	w, resp = s.request(t, http.MethodGet, "/api/flights/"+flightID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(resp.Data, &flight))
	assert.Equal(t, 60, flight.AvailableSeats)

	// A second cancellation is rejected.
	w, resp = s.request(t, http.MethodPost, "/api/bookings/"+booked.ID+"/cancel", userToken, nil)
	require.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ALREADY_CANCELLED", resp.Error.Code)
}

func TestLatePaymentNeverResurrectsCancelledBooking(t *testing.T) {
	s := setupTestSuite(t)
	adminToken := s.adminToken(t)
	userToken := s.registerUser(t, "Bob", "bob@example.com")
	flightID := s.createFlight(t, adminToken, 60, 5000)

	w, resp := s.request(t, http.MethodPost, "/api/bookings", userToken, map[string]string{
		"flight_id": flightID, "passenger_name": "Bob", "passenger_contact": "bob@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var booked domain.Booking
	require.NoError(t, json.Unmarshal(resp.Data, &booked))

	w, resp = s.request(t, http.MethodPost, checkoutPath(booked.ID), userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var session struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &session))

	// User cancels while the checkout is still open.
	w, _ = s.request(t, http.MethodPost, "/api/bookings/"+booked.ID+"/cancel", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Gateway settles afterwards; the booking must stay cancelled.
	s.checkout.settle(session.SessionID, "paid", "complete")
	w, resp = s.request(t, http.MethodGet, "/api/payments/status/"+session.SessionID, userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status struct {
		BookingStatus string `json:"booking_status"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &status))
	assert.Equal(t, string(domain.BookingCancelled), status.BookingStatus)
}

func TestSeatsExhaustAtomically(t *testing.T) {
	s := setupTestSuite(t)
	adminToken := s.adminToken(t)
	userToken := s.registerUser(t, "Carol", "carol@example.com")
	flightID := s.createFlight(t, adminToken, 2, 1000)

	for i := 0; i < 2; i++ {
		w, _ := s.request(t, http.MethodPost, "/api/bookings", userToken, map[string]string{
			"flight_id": flightID, "passenger_name": "Carol", "passenger_contact": "carol@example.com",
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, resp := s.request(t, http.MethodPost, "/api/bookings", userToken, map[string]string{
		"flight_id": flightID, "passenger_name": "Carol", "passenger_contact": "carol@example.com",
	})
	require.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NO_SEATS_AVAILABLE", resp.Error.Code)
}

func TestAuthAndOwnershipBoundaries(t *testing.T) {
	s := setupTestSuite(t)
	adminToken := s.adminToken(t)
	aliceToken := s.registerUser(t, "Alice", "alice2@example.com")
	bobToken := s.registerUser(t, "Bob", "bob2@example.com")
	flightID := s.createFlight(t, adminToken, 60, 4500)

	// Duplicate registration.
	w, resp := s.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Alice", "email": "alice2@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "EMAIL_EXISTS", resp.Error.Code)

	// Malformed registration carries the binding detail.
	w, resp = s.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "NoCredentials",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.NotEmpty(t, resp.Error.Details)

	// Bookings need a token.
	w, _ = s.request(t, http.MethodPost, "/api/bookings", "", map[string]string{
		"flight_id": flightID, "passenger_name": "X", "passenger_contact": "x@example.com",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Admin surface is closed to regular users.
	w, _ = s.request(t, http.MethodGet, "/api/admin/bookings", aliceToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	// Bob cannot read Alice's booking.
	w, resp = s.request(t, http.MethodPost, "/api/bookings", aliceToken, map[string]string{
		"flight_id": flightID, "passenger_name": "Alice", "passenger_contact": "alice2@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var booked domain.Booking
	require.NoError(t, json.Unmarshal(resp.Data, &booked))

	w, _ = s.request(t, http.MethodGet, "/api/bookings/"+booked.ID, bobToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	// Admin can.
	w, _ = s.request(t, http.MethodGet, "/api/bookings/"+booked.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAdminReports(t *testing.T) {
	s := setupTestSuite(t)
	adminToken := s.adminToken(t)
	userToken := s.registerUser(t, "Dave", "dave@example.com")
	flightID := s.createFlight(t, adminToken, 60, 2000)

	// One confirmed, one cancelled.
	for i := 0; i < 2; i++ {
		w, resp := s.request(t, http.MethodPost, "/api/bookings", userToken, map[string]string{
			"flight_id": flightID, "passenger_name": "Dave", "passenger_contact": "dave@example.com",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		var booked domain.Booking
		require.NoError(t, json.Unmarshal(resp.Data, &booked))

		if i == 0 {
			w, resp = s.request(t, http.MethodPost, checkoutPath(booked.ID), userToken, nil)
			require.Equal(t, http.StatusOK, w.Code)
			var session struct {
				SessionID string `json:"session_id"`
			}
			require.NoError(t, json.Unmarshal(resp.Data, &session))
			s.checkout.settle(session.SessionID, "paid", "complete")
			w, _ = s.request(t, http.MethodGet, "/api/payments/status/"+session.SessionID, userToken, nil)
			require.Equal(t, http.StatusOK, w.Code)
		} else {
			w, _ = s.request(t, http.MethodPost, "/api/bookings/"+booked.ID+"/cancel", userToken, nil)
			require.Equal(t, http.StatusOK, w.Code)
		}
	}

	w, resp := s.request(t, http.MethodGet, "/api/admin/reports/bookings", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var report admin.Report
	require.NoError(t, json.Unmarshal(resp.Data, &report))
	assert.Equal(t, 2, report.TotalBookings)
	assert.Equal(t, 1, report.ConfirmedBookings)
	assert.Equal(t, 1, report.CancelledBookings)
	assert.InDelta(t, 2000, report.TotalRevenue, 0.001)
	require.Len(t, report.TopRoutes, 1)
	assert.Equal(t, 2, report.TopRoutes[0].Bookings)
}
