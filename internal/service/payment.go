package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/talia/go-boutique-api/internal/model"
	"github.com/talia/go-boutique-api/internal/repository"
)

var ErrPaymentAlreadyProcessed = errors.New("payment already completed")

// Gateway is the payment-gateway seam. Authorize reports whether the charge
// was approved; a returned error means the gateway could not be reached and
// the order state must not change.
type Gateway interface {
	Authorize(ctx context.Context, order *model.Order) (bool, error)
}

// SimulatedGateway approves charges with a fixed probability. Placeholder
// for a real gateway integration.
type SimulatedGateway struct {
	SuccessRate float64
}

func (g SimulatedGateway) Authorize(_ context.Context, _ *model.Order) (bool, error) {
	return rand.Float64() < g.SuccessRate, nil
}

const orderConfirmedQueue = "orders.confirmed"

type PaymentService struct {
	orderRepo repository.OrderRepository
	gateway   Gateway
	amqpCh    *amqp.Channel
}

func NewPaymentService(orderRepo repository.OrderRepository, gateway Gateway, amqpCh *amqp.Channel) *PaymentService {
	return &PaymentService{orderRepo: orderRepo, gateway: gateway, amqpCh: amqpCh}
}

// Process charges the order through the gateway. Re-invocation after a
// completed payment fails with ErrPaymentAlreadyProcessed and changes
// nothing. A declined charge marks the payment failed but leaves the order
// status untouched.
func (s *PaymentService) Process(ctx context.Context, orderID, userID uuid.UUID) (*model.Order, bool, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, false, fmt.Errorf("get order: %w", err)
	}
	if order == nil || order.UserID != userID {
		return nil, false, ErrOrderNotFound
	}
	if order.PaymentStatus == model.PaymentStatusCompleted {
		return nil, false, ErrPaymentAlreadyProcessed
	}

	approved, err := s.gateway.Authorize(ctx, order)
	if err != nil {
		return nil, false, fmt.Errorf("authorize payment: %w", err)
	}

	if !approved {
		if err := s.orderRepo.UpdatePaymentStatus(ctx, orderID, model.PaymentStatusFailed); err != nil {
			return nil, false, err
		}
		order.PaymentStatus = model.PaymentStatusFailed
		return order, false, nil
	}

	if err := s.orderRepo.UpdatePaymentStatus(ctx, orderID, model.PaymentStatusCompleted); err != nil {
		return nil, false, err
	}
	if err := s.orderRepo.UpdateStatus(ctx, orderID, model.OrderStatusConfirmed); err != nil {
		return nil, false, err
	}
	order.PaymentStatus = model.PaymentStatusCompleted
	order.Status = model.OrderStatusConfirmed

	// Notify downstream consumers, best-effort.
	if s.amqpCh != nil {
		msg, _ := json.Marshal(model.OrderConfirmedMessage{OrderID: order.ID, UserID: order.UserID})
		_ = s.amqpCh.PublishWithContext(ctx, "", orderConfirmedQueue, false, false, amqp.Publishing{
			ContentType:  "application/json",
			Body:         msg,
			DeliveryMode: amqp.Persistent,
		})
	}
	return order, true, nil
}
