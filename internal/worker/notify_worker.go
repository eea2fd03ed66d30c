package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/talia/go-boutique-api/internal/model"
	"github.com/talia/go-boutique-api/internal/repository"
)

const (
	confirmedQueueName = "orders.confirmed"
	dlxExchange        = "orders.confirmed.dlx"
	dlqQueueName       = "orders.confirmed.dlq"
	idempotencyTTL     = 24 * time.Hour
)

// Notifier delivers the order confirmation to the customer. The log-backed
// implementation stands in for an email or push provider.
type Notifier interface {
	OrderConfirmed(ctx context.Context, order *model.Order) error
}

type LogNotifier struct {
	Log *slog.Logger
}

func (n LogNotifier) OrderConfirmed(_ context.Context, order *model.Order) error {
	n.Log.Info("order confirmation sent",
		"order_id", order.ID,
		"user_id", order.UserID,
		"total_amount", order.TotalAmount.String(),
	)
	return nil
}

// NotifyWorker consumes confirmed-order messages and sends one notification
// per order, deduplicated through Redis.
type NotifyWorker struct {
	channel     *amqp.Channel
	orderRepo   repository.OrderRepository
	redisClient *redis.Client
	notifier    Notifier
	log         *slog.Logger
	done        chan struct{}
}

func NewNotifyWorker(
	ch *amqp.Channel,
	orderRepo repository.OrderRepository,
	redisClient *redis.Client,
	notifier Notifier,
	log *slog.Logger,
) *NotifyWorker {
	return &NotifyWorker{
		channel:     ch,
		orderRepo:   orderRepo,
		redisClient: redisClient,
		notifier:    notifier,
		log:         log,
		done:        make(chan struct{}),
	}
}

// SetupRabbitMQ declares exchanges, queues, and bindings (DLX/DLQ).
func SetupRabbitMQ(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(dlxExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLX: %w", err)
	}
	if _, err := ch.QueueDeclare(dlqQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLQ: %w", err)
	}
	if err := ch.QueueBind(dlqQueueName, confirmedQueueName, dlxExchange, false, nil); err != nil {
		return fmt.Errorf("bind DLQ: %w", err)
	}
	if _, err := ch.QueueDeclare(confirmedQueueName, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    dlxExchange,
		"x-dead-letter-routing-key": confirmedQueueName,
	}); err != nil {
		return fmt.Errorf("declare confirmed queue: %w", err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set QoS: %w", err)
	}
	return nil
}

func (w *NotifyWorker) Start(ctx context.Context) error {
	msgs, err := w.channel.Consume(confirmedQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				w.processMessage(ctx, msg)
			case <-w.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	w.log.Info("notify worker started")
	return nil
}

func (w *NotifyWorker) Stop() { close(w.done) }

func (w *NotifyWorker) processMessage(ctx context.Context, msg amqp.Delivery) {
	var confirmed model.OrderConfirmedMessage
	if err := json.Unmarshal(msg.Body, &confirmed); err != nil {
		w.log.Error("unmarshal confirmed message", "error", err)
		_ = msg.Nack(false, false)
		return
	}

	log := w.log.With("order_id", confirmed.OrderID, "user_id", confirmed.UserID)

	// One notification per order, ever.
	idempotencyKey := "order_notified:" + confirmed.OrderID.String()
	exists, err := w.redisClient.Exists(ctx, idempotencyKey).Result()
	if err != nil {
		log.Error("check idempotency key", "error", err)
		_ = msg.Nack(false, true)
		return
	}
	if exists > 0 {
		log.Info("order already notified, skipping")
		_ = msg.Ack(false)
		return
	}

	if err := w.notify(ctx, confirmed); err != nil {
		log.Error("notify failed", "error", err)
		_ = msg.Nack(false, false) // to DLQ
		return
	}

	if err := w.redisClient.Set(ctx, idempotencyKey, "1", idempotencyTTL).Err(); err != nil {
		log.Error("set idempotency key", "error", err)
	}

	_ = msg.Ack(false)
	log.Info("order notification delivered")
}

func (w *NotifyWorker) notify(ctx context.Context, confirmed model.OrderConfirmedMessage) error {
	order, err := w.orderRepo.GetByID(ctx, confirmed.OrderID)
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return fmt.Errorf("order not found: %s", confirmed.OrderID)
	}
	return w.notifier.OrderConfirmed(ctx, order)
}
