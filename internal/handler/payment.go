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

type PaymentHandler struct {
	svc      *service.PaymentService
	orderSvc *service.OrderService
}

func NewPaymentHandler(svc *service.PaymentService, orderSvc *service.OrderService) *PaymentHandler {
	return &PaymentHandler{svc: svc, orderSvc: orderSvc}
}

// Process charges the order. A declined charge is a client-visible failure,
// not a server error.
func (h *PaymentHandler) Process(c *gin.Context) {
	var req dto.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, approved, err := h.svc.Process(c.Request.Context(), req.OrderID, middleware.GetUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		case errors.Is(err, service.ErrPaymentAlreadyProcessed):
			c.JSON(http.StatusConflict, gin.H{"error": "payment already completed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	if !approved {
		c.JSON(http.StatusBadRequest, dto.PaymentResultResponse{
			Message:       "payment declined",
			OrderID:       order.ID,
			PaymentStatus: order.PaymentStatus,
		})
		return
	}
	c.JSON(http.StatusOK, dto.PaymentResultResponse{
		Message:       "payment successful",
		OrderID:       order.ID,
		PaymentStatus: order.PaymentStatus,
		OrderStatus:   order.Status,
	})
}

// Screen returns the order summary the client renders before confirming
// payment.
func (h *PaymentHandler) Screen(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
		return
	}

	order, err := h.orderSvc.GetByID(c.Request.Context(), orderID, middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orderId":       order.ID,
		"totalAmount":   order.TotalAmount,
		"paymentStatus": order.PaymentStatus,
		"paymentMethod": order.PaymentMethod,
	})
}

func (h *PaymentHandler) Success(c *gin.Context) {
	h.result(c, "payment successful")
}

func (h *PaymentHandler) Failure(c *gin.Context) {
	h.result(c, "payment failed")
}

func (h *PaymentHandler) result(c *gin.Context, message string) {
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
		return
	}

	order, err := h.orderSvc.GetByID(c.Request.Context(), orderID, middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.PaymentResultResponse{
		Message:       message,
		OrderID:       order.ID,
		PaymentStatus: order.PaymentStatus,
		OrderStatus:   order.Status,
	})
}
