package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shareit-market/service-rental/internal/application"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
	metrics *Metrics
}

// NewBookingHandler creates a new BookingHandler. metrics may be nil.
func NewBookingHandler(service *application.BookingService, metrics *Metrics) *BookingHandler {
	return &BookingHandler{service: service, metrics: metrics}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	bookings.Use(RequireUserID())
	{
		bookings.POST("", h.Create)
		bookings.PATCH("/:bookingId", h.SetStatus)
		bookings.POST("/:bookingId/cancel", h.Cancel)
		bookings.GET("/:bookingId", h.Get)
		bookings.GET("", h.ListSent)
		bookings.GET("/owner", h.ListReceived)
	}
}

// Create handles POST /bookings.
func (h *BookingHandler) Create(c *gin.Context) {
	userID, _ := GetUserID(c)

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	result, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.BookingsCreated.Inc()
	}
	c.JSON(http.StatusCreated, result)
}

// SetStatus handles PATCH /bookings/:bookingId?approved=true|false.
func (h *BookingHandler) SetStatus(c *gin.Context) {
	userID, _ := GetUserID(c)

	bookingID, err := strconv.ParseInt(c.Param("bookingId"), 10, 64)
	if err != nil {
		respondBadRequest(c, "invalid booking id")
		return
	}

	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		respondBadRequest(c, "approved query parameter must be true or false")
		return
	}

	result, err := h.service.SetStatus(c.Request.Context(), userID, bookingID, approved)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Cancel handles POST /bookings/:bookingId/cancel.
func (h *BookingHandler) Cancel(c *gin.Context) {
	userID, _ := GetUserID(c)

	bookingID, err := strconv.ParseInt(c.Param("bookingId"), 10, 64)
	if err != nil {
		respondBadRequest(c, "invalid booking id")
		return
	}

	result, err := h.service.Cancel(c.Request.Context(), userID, bookingID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get handles GET /bookings/:bookingId.
func (h *BookingHandler) Get(c *gin.Context) {
	userID, _ := GetUserID(c)

	bookingID, err := strconv.ParseInt(c.Param("bookingId"), 10, 64)
	if err != nil {
		respondBadRequest(c, "invalid booking id")
		return
	}

	result, err := h.service.Get(c.Request.Context(), userID, bookingID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListSent handles GET /bookings?state=&from=&size=.
func (h *BookingHandler) ListSent(c *gin.Context) {
	userID, _ := GetUserID(c)

	state := c.DefaultQuery("state", "ALL")
	from, size, ok := parsePageWindow(c)
	if !ok {
		return
	}

	result, err := h.service.ListSent(c.Request.Context(), userID, state, from, size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListReceived handles GET /bookings/owner?state=&from=&size=.
func (h *BookingHandler) ListReceived(c *gin.Context) {
	userID, _ := GetUserID(c)

	state := c.DefaultQuery("state", "ALL")
	from, size, ok := parsePageWindow(c)
	if !ok {
		return
	}

	result, err := h.service.ListReceived(c.Request.Context(), userID, state, from, size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// parsePageWindow reads the from/size query parameters with their defaults.
// Range validation happens in the application layer; only syntax is checked
// here.
func parsePageWindow(c *gin.Context) (int, int, bool) {
	from, err := strconv.Atoi(c.DefaultQuery("from", "0"))
	if err != nil {
		respondBadRequest(c, "from query parameter must be an integer")
		return 0, 0, false
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil {
		respondBadRequest(c, "size query parameter must be an integer")
		return 0, 0, false
	}
	return from, size, true
}
