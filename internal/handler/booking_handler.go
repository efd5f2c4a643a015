package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/shareit-team/shareit-server/internal/application"
	"github.com/shareit-team/shareit-server/pkg/middleware"
	"github.com/shareit-team/shareit-server/pkg/response"
)

// BookingService is the booking lifecycle as seen by the HTTP layer.
type BookingService interface {
	CreateBooking(ctx context.Context, userID int64, req application.CreateBookingRequest) (*application.BookingDTO, error)
	ApproveBooking(ctx context.Context, userID, bookingID int64, approved bool) (*application.BookingDTO, error)
	GetBooking(ctx context.Context, userID, bookingID int64) (*application.BookingDTO, error)
	ListBookerBookings(ctx context.Context, userID int64, state string, from, size int) ([]application.BookingDTO, error)
	ListOwnerBookings(ctx context.Context, userID int64, state string, from, size int) ([]application.BookingDTO, error)
}

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	bookings.Use(middleware.SharerUserID())
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookerBookings)
		bookings.GET("/owner", h.ListOwnerBookings)
		bookings.GET("/:bookingId", h.GetBooking)
		bookings.PATCH("/:bookingId", h.ApproveBooking)
	}
}

// CreateBooking handles POST /bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}

// ApproveBooking handles PATCH /bookings/:bookingId?approved=bool.
func (h *BookingHandler) ApproveBooking(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	bookingID, ok := pathID(c, "bookingId")
	if !ok {
		return
	}
	approved, ok := requiredBool(c, "approved")
	if !ok {
		return
	}

	result, err := h.service.ApproveBooking(c.Request.Context(), userID, bookingID, approved)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}

// GetBooking handles GET /bookings/:bookingId.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	bookingID, ok := pathID(c, "bookingId")
	if !ok {
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), userID, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}

// ListBookerBookings handles GET /bookings?state&from&size.
func (h *BookingHandler) ListBookerBookings(c *gin.Context) {
	h.list(c, h.service.ListBookerBookings)
}

// ListOwnerBookings handles GET /bookings/owner?state&from&size.
func (h *BookingHandler) ListOwnerBookings(c *gin.Context) {
	h.list(c, h.service.ListOwnerBookings)
}

type listFunc func(ctx context.Context, userID int64, state string, from, size int) ([]application.BookingDTO, error)

func (h *BookingHandler) list(c *gin.Context, fetch listFunc) {
	userID, _ := middleware.GetUserID(c)
	from, size, ok := parsePagination(c)
	if !ok {
		return
	}

	result, err := fetch(c.Request.Context(), userID, c.DefaultQuery("state", "ALL"), from, size)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}
