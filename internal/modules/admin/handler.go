package admin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"skybook/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the admin surface; the group must already carry the
// auth and admin-role middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	adminGroup := rg.Group("/admin")
	{
		adminGroup.POST("/flights", h.CreateFlight)
		adminGroup.GET("/flights", h.ListFlights)
		adminGroup.PUT("/flights/:id", h.UpdateFlight)
		adminGroup.DELETE("/flights/:id", h.DeleteFlight)
		adminGroup.GET("/bookings", h.ListBookings)
		adminGroup.GET("/reports/bookings", h.Reports)
	}
}

func (h *Handler) CreateFlight(c *gin.Context) {
	var req CreateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err.Error())
		return
	}

	f, err := h.service.CreateFlight(c.Request.Context(), req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create flight")
		return
	}

	response.Success(c, http.StatusCreated, f)
}

func (h *Handler) ListFlights(c *gin.Context) {
	flights, err := h.service.ListFlights(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list flights")
		return
	}

	response.Success(c, http.StatusOK, flights)
}

func (h *Handler) UpdateFlight(c *gin.Context) {
	var req UpdateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	f, err := h.service.UpdateFlight(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		if err == ErrFlightNotFound {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Flight not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update flight")
		return
	}

	response.Success(c, http.StatusOK, f)
}

func (h *Handler) DeleteFlight(c *gin.Context) {
	if err := h.service.DeleteFlight(c.Request.Context(), c.Param("id")); err != nil {
		if err == ErrFlightNotFound {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Flight not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete flight")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) ListBookings(c *gin.Context) {
	bookings, err := h.service.ListBookings(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list bookings")
		return
	}

	response.Success(c, http.StatusOK, bookings)
}

func (h *Handler) Reports(c *gin.Context) {
	var from, to time.Time
	if raw := c.Query("from_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "from_date must be YYYY-MM-DD")
			return
		}
		from = parsed
	}
	if raw := c.Query("to_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "to_date must be YYYY-MM-DD")
			return
		}
		to = parsed.Add(24*time.Hour - time.Nanosecond)
	}

	report, err := h.service.BuildReport(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build report")
		return
	}

	response.Success(c, http.StatusOK, report)
}
