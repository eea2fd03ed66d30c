package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/talia/go-boutique-api/internal/dto"
	"github.com/talia/go-boutique-api/internal/middleware"
	"github.com/talia/go-boutique-api/internal/service"
)

type OrderHandler struct {
	svc *service.OrderService
}

func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// Checkout turns the cart into an order and hands back the URL of the
// payment screen for it.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.svc.Checkout(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
		case errors.Is(err, service.ErrCategoryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.CheckoutResponse{
		OrderID:     order.ID,
		TotalAmount: order.TotalAmount,
		PaymentURL:  "/api/v1/payment/screen/" + order.ID.String(),
	})
}

func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.svc.ListByUserID(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	resp := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, service.ToOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, dto.OrderListResponse{Orders: resp})
}

func (h *OrderHandler) Get(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
		return
	}

	order, err := h.svc.GetByID(c.Request.Context(), orderID, middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, service.ToOrderResponse(order))
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
		return
	}

	if err := h.svc.Cancel(c.Request.Context(), orderID, middleware.GetUserID(c)); err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		case errors.Is(err, service.ErrOrderNotCancellable):
			c.JSON(http.StatusConflict, gin.H{"error": "order cannot be cancelled at this stage"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order cancelled"})
}
