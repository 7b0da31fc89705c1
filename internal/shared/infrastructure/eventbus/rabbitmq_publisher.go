package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/nemodouble/godlife/pkg/observability"
)

// RabbitMQPublisher publishes persistent JSON messages to a topic exchange
// with publisher confirms, so Publish only succeeds once the broker has taken
// responsibility for the message.
type RabbitMQPublisher struct {
	mu      sync.Mutex
	session *amqpSession
	logger  *slog.Logger
}

// NewRabbitMQPublisher connects, declares exchange and enables confirms.
func NewRabbitMQPublisher(url, exchange string, logger *slog.Logger) (*RabbitMQPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if exchange == "" {
		exchange = OutboundExchange
	}
	session, err := dialSession(url, exchange)
	if err != nil {
		return nil, err
	}
	if err := session.channel.Confirm(false); err != nil {
		_ = session.close()
		return nil, fmt.Errorf("enable publisher confirms: %w", err)
	}

	logger = logger.With("component", "rabbitmq_publisher", "exchange", exchange)
	logger.Info("rabbitmq publisher connected")
	return &RabbitMQPublisher{session: session, logger: logger}, nil
}

// Publish blocks until the broker acks the message or ctx ends.
func (p *RabbitMQPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	msg := amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		MessageId:     uuid.NewString(),
		CorrelationId: observability.CorrelationIDFromContext(ctx),
		Timestamp:     time.Now().UTC(),
		Body:          payload,
	}
	confirm, err := p.session.channel.PublishWithDeferredConfirmWithContext(ctx, p.session.exchange, routingKey, false, false, msg)
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("confirm %s: %w", routingKey, err)
	}
	if !acked {
		return fmt.Errorf("publish %s: %w", routingKey, errNacked)
	}

	p.logger.DebugContext(ctx, "message published", "routing_key", routingKey, "message_id", msg.MessageId, "size", len(payload))
	return nil
}

var errNacked = errors.New("broker nacked message")

// Check reports whether the connection and channel are still open.
func (p *RabbitMQPublisher) Check() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session.check()
}

func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.session.close()
	p.logger.Info("rabbitmq publisher closed")
	return err
}
