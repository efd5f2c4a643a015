package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/shareit-team/shareit-server/internal/application"
	"github.com/shareit-team/shareit-server/pkg/middleware"
	"github.com/shareit-team/shareit-server/pkg/response"
)

// RequestService manages item requests as seen by the HTTP layer.
type RequestService interface {
	CreateRequest(ctx context.Context, userID int64, req application.CreateItemRequestRequest) (*application.ItemRequestDTO, error)
	ListOwnRequests(ctx context.Context, userID int64) ([]application.ItemRequestDTO, error)
	ListOtherRequests(ctx context.Context, userID int64, from, size int) ([]application.ItemRequestDTO, error)
	GetRequest(ctx context.Context, userID, requestID int64) (*application.ItemRequestDTO, error)
}

// RequestHandler handles HTTP requests for item requests.
type RequestHandler struct {
	service RequestService
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(service RequestService) *RequestHandler {
	return &RequestHandler{service: service}
}

// RegisterRoutes registers item request routes.
func (h *RequestHandler) RegisterRoutes(r *gin.RouterGroup) {
	requests := r.Group("/requests")
	requests.Use(middleware.SharerUserID())
	{
		requests.POST("", h.CreateRequest)
		requests.GET("", h.ListOwnRequests)
		requests.GET("/all", h.ListOtherRequests)
		requests.GET("/:requestId", h.GetRequest)
	}
}

func (h *RequestHandler) CreateRequest(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req application.CreateItemRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	result, err := h.service.CreateRequest(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

func (h *RequestHandler) ListOwnRequests(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	result, err := h.service.ListOwnRequests(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// ListOtherRequests handles GET /requests/all?from&size.
func (h *RequestHandler) ListOtherRequests(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	from, size, ok := parsePagination(c)
	if !ok {
		return
	}

	result, err := h.service.ListOtherRequests(c.Request.Context(), userID, from, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

func (h *RequestHandler) GetRequest(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	requestID, ok := pathID(c, "requestId")
	if !ok {
		return
	}

	result, err := h.service.GetRequest(c.Request.Context(), userID, requestID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
