package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/talia/go-boutique-api/internal/dto"
	"github.com/talia/go-boutique-api/internal/middleware"
	"github.com/talia/go-boutique-api/internal/model"
	"github.com/talia/go-boutique-api/internal/service"
)

type CartHandler struct {
	svc *service.CartService
}

func NewCartHandler(svc *service.CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

func (h *CartHandler) Get(c *gin.Context) {
	cart, err := h.svc.GetCart(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	items := make([]dto.CartLineResponse, 0, len(cart.Items))
	for i := range cart.Items {
		items = append(items, toCartLineResponse(&cart.Items[i]))
	}
	c.JSON(http.StatusOK, dto.CartResponse{
		Items:      items,
		Total:      cart.Total,
		TotalItems: cart.TotalItems,
	})
}

func (h *CartHandler) Count(c *gin.Context) {
	count, err := h.svc.Count(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// Add merges with any existing line for the same category; quantity defaults
// to 1 when omitted.
func (h *CartHandler) Add(c *gin.Context) {
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	item, err := h.svc.Add(c.Request.Context(), middleware.GetUserID(c), req.CategoryID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		case errors.Is(err, service.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quantity"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":         item.ID,
		"categoryId": item.CategoryID,
		"quantity":   item.Quantity,
	})
}

func (h *CartHandler) Update(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cart item ID"})
		return
	}

	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	removed, err := h.svc.UpdateQuantity(c.Request.Context(), middleware.GetUserID(c), itemID, *req.Quantity)
	if err != nil {
		h.writeCartError(c, err)
		return
	}
	if removed {
		c.JSON(http.StatusOK, gin.H{"message": "item removed from cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart updated", "quantity": *req.Quantity})
}

// UpdateByCategory addresses the line by category instead of cart item ID.
func (h *CartHandler) UpdateByCategory(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("categoryId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category ID"})
		return
	}

	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	removed, err := h.svc.UpdateQuantityByCategory(c.Request.Context(), middleware.GetUserID(c), categoryID, *req.Quantity)
	if err != nil {
		h.writeCartError(c, err)
		return
	}
	if removed {
		c.JSON(http.StatusOK, gin.H{"message": "item removed from cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart updated", "quantity": *req.Quantity})
}

func (h *CartHandler) Remove(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cart item ID"})
		return
	}

	if err := h.svc.Remove(c.Request.Context(), middleware.GetUserID(c), itemID); err != nil {
		h.writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item removed from cart"})
}

func (h *CartHandler) RemoveByCategory(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("categoryId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category ID"})
		return
	}

	if err := h.svc.RemoveByCategory(c.Request.Context(), middleware.GetUserID(c), categoryID); err != nil {
		h.writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item removed from cart"})
}

func (h *CartHandler) Clear(c *gin.Context) {
	removed, err := h.svc.Clear(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart cleared", "itemsRemoved": removed})
}

func (h *CartHandler) writeCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCartItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "cart item not found"})
	case errors.Is(err, service.ErrCartItemForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "cart item belongs to another user"})
	case errors.Is(err, service.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quantity"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func toCartLineResponse(line *model.CartLine) dto.CartLineResponse {
	return dto.CartLineResponse{
		ID:         line.ID,
		CategoryID: line.CategoryID,
		Quantity:   line.Quantity,
		Category:   service.ToCategoryResponse(&line.Category),
		Subtotal:   line.Subtotal,
	}
}
