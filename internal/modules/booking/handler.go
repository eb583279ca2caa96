package booking

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"skybook/internal/domain"
	"skybook/internal/pkg/response"
	"skybook/internal/receipt"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	bookingGroup := rg.Group("/bookings")
	{
		bookingGroup.POST("", h.Create)
		bookingGroup.GET("", h.List)
		bookingGroup.GET("/:id", h.GetByID)
		bookingGroup.POST("/:id/cancel", h.Cancel)
		bookingGroup.GET("/:id/receipt", h.Receipt)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.Create(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		switch err {
		case ErrInvalidPassenger:
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case ErrFlightNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Flight not found")
		case ErrNoSeatsAvailable:
			response.Error(c, http.StatusConflict, "NO_SEATS_AVAILABLE", "No seats available on this flight")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create booking")
		}
		return
	}

	response.Success(c, http.StatusCreated, b)
}

func (h *Handler) List(c *gin.Context) {
	bookings, err := h.service.ListByUser(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list bookings")
		return
	}

	response.Success(c, http.StatusOK, bookings)
}

func (h *Handler) GetByID(c *gin.Context) {
	b, err := h.service.Get(c.Request.Context(),
		c.GetString("user_id"), domain.UserRole(c.GetString("role")), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "Failed to load booking")
		return
	}

	response.Success(c, http.StatusOK, b)
}

func (h *Handler) Cancel(c *gin.Context) {
	result, err := h.service.Cancel(c.Request.Context(),
		c.GetString("user_id"), domain.UserRole(c.GetString("role")), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "Failed to cancel booking")
		return
	}

	response.Success(c, http.StatusOK, result)
}

func (h *Handler) Receipt(c *gin.Context) {
	b, err := h.service.GetForReceipt(c.Request.Context(),
		c.GetString("user_id"), domain.UserRole(c.GetString("role")), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "Failed to load booking")
		return
	}

	pdf, err := receipt.Render(b)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to render receipt")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", b.ID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch err {
	case ErrBookingNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case ErrNotOwner:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not allowed to access this booking")
	case ErrAlreadyCancelled:
		response.Error(c, http.StatusConflict, "ALREADY_CANCELLED", "Booking is already cancelled")
	case ErrReceiptUnavailable:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Receipt is only available for confirmed bookings")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}
