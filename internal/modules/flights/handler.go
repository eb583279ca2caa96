package flights

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

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	flightGroup := rg.Group("/flights")
	{
		flightGroup.GET("/search", h.Search)
		flightGroup.GET("/:id", h.GetByID)
	}
}

func (h *Handler) Search(c *gin.Context) {
	q := SearchQuery{
		Source:      c.Query("source"),
		Destination: c.Query("destination"),
	}
	if raw := c.Query("date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be YYYY-MM-DD")
			return
		}
		q.Date = date
	}

	flights, err := h.service.Search(c.Request.Context(), q)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to search flights")
		return
	}

	response.Success(c, http.StatusOK, flights)
}

func (h *Handler) GetByID(c *gin.Context) {
	flight, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == ErrFlightNotFound {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Flight not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load flight")
		return
	}

	response.Success(c, http.StatusOK, flight)
}
