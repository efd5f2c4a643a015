package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/shareit-team/shareit-server/internal/application"
	"github.com/shareit-team/shareit-server/pkg/middleware"
	"github.com/shareit-team/shareit-server/pkg/response"
)

// ItemService is the item directory as seen by the HTTP layer.
type ItemService interface {
	CreateItem(ctx context.Context, ownerID int64, req application.CreateItemRequest) (*application.ItemDTO, error)
	UpdateItem(ctx context.Context, ownerID, itemID int64, req application.UpdateItemRequest) (*application.ItemDTO, error)
	GetItem(ctx context.Context, userID, itemID int64) (*application.ItemDTO, error)
	ListOwnerItems(ctx context.Context, ownerID int64, from, size int) ([]application.ItemDTO, error)
	SearchItems(ctx context.Context, text string, from, size int) ([]application.ItemDTO, error)
	AddComment(ctx context.Context, userID, itemID int64, req application.CreateCommentRequest) (*application.CommentDTO, error)
}

// ItemHandler handles HTTP requests for items and their comments.
type ItemHandler struct {
	service ItemService
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(service ItemService) *ItemHandler {
	return &ItemHandler{service: service}
}

// RegisterRoutes registers all item routes.
func (h *ItemHandler) RegisterRoutes(r *gin.RouterGroup) {
	items := r.Group("/items")
	items.Use(middleware.SharerUserID())
	{
		items.POST("", h.CreateItem)
		items.GET("", h.ListOwnerItems)
		items.GET("/search", h.SearchItems)
		items.GET("/:itemId", h.GetItem)
		items.PATCH("/:itemId", h.UpdateItem)
		items.POST("/:itemId/comment", h.AddComment)
	}
}

// CreateItem handles POST /items.
func (h *ItemHandler) CreateItem(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req application.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	result, err := h.service.CreateItem(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// UpdateItem handles PATCH /items/:itemId.
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}

	var req application.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	result, err := h.service.UpdateItem(c.Request.Context(), userID, itemID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// GetItem handles GET /items/:itemId. Bookings are included for the owner only.
func (h *ItemHandler) GetItem(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}

	result, err := h.service.GetItem(c.Request.Context(), userID, itemID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// ListOwnerItems handles GET /items.
func (h *ItemHandler) ListOwnerItems(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	from, size, ok := parsePagination(c)
	if !ok {
		return
	}

	result, err := h.service.ListOwnerItems(c.Request.Context(), userID, from, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// SearchItems handles GET /items/search?text.
func (h *ItemHandler) SearchItems(c *gin.Context) {
	from, size, ok := parsePagination(c)
	if !ok {
		return
	}

	result, err := h.service.SearchItems(c.Request.Context(), c.Query("text"), from, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// AddComment handles POST /items/:itemId/comment.
func (h *ItemHandler) AddComment(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}

	var req application.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	result, err := h.service.AddComment(c.Request.Context(), userID, itemID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
