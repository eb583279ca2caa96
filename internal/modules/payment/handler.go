package payment

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"skybook/internal/domain"
	"skybook/internal/pkg/response"
	"skybook/internal/provider"
)

type Handler struct {
	service  *Service
	checkout provider.CheckoutProvider
}

func NewHandler(service *Service, checkout provider.CheckoutProvider) *Handler {
	return &Handler{service: service, checkout: checkout}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhook/stripe", h.Webhook)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	paymentGroup := rg.Group("/payments")
	{
		paymentGroup.POST("/create-checkout", h.CreateSession)
		paymentGroup.GET("/status/:session_id", h.Status)
	}
}

func (h *Handler) CreateSession(c *gin.Context) {
	req := CreateCheckoutRequest{
		BookingID: c.Query("booking_id"),
		OriginURL: c.Query("origin_url"),
	}
	if req.BookingID == "" || req.OriginURL == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "booking_id and origin_url are required")
		return
	}

	session, err := h.service.CreateCheckout(c.Request.Context(),
		c.GetString("user_id"), domain.UserRole(c.GetString("role")), req)
	if err != nil {
		h.writeError(c, err, "Failed to create checkout session")
		return
	}

	response.Success(c, http.StatusOK, session)
}

func (h *Handler) Status(c *gin.Context) {
	status, err := h.service.Status(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		h.writeError(c, err, "Failed to check payment status")
		return
	}

	response.Success(c, http.StatusOK, status)
}

func (h *Handler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unreadable webhook body")
		return
	}

	ev, err := h.checkout.VerifyWebhook(body, c.GetHeader("Stripe-Signature"))
	if err != nil {
		logrus.WithError(err).Warn("rejected checkout webhook")
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid webhook delivery")
		return
	}

	if err := h.service.HandleWebhook(c.Request.Context(), ev); err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			// Unknown session: acknowledge so the gateway stops retrying.
			response.Success(c, http.StatusOK, gin.H{"received": true})
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process webhook")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"received": true})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	var provErr *provider.Error
	if errors.As(err, &provErr) {
		response.Error(c, http.StatusBadGateway, "UPSTREAM_ERROR", provErr.Error())
		return
	}

	switch err {
	case ErrBookingNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case ErrPaymentNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Payment session not found")
	case ErrNotOwner:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not allowed to pay for this booking")
	case ErrBookingCancelled:
		response.Error(c, http.StatusConflict, "ALREADY_CANCELLED", "Booking is cancelled")
	case ErrAlreadyPaid:
		response.Error(c, http.StatusConflict, "VALIDATION_ERROR", "Booking is already paid")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}
