package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/nemodouble/godlife/pkg/observability"
)

// DefaultQueueName is the queue chat requests are consumed from.
const DefaultQueueName = "godlife.chat.requests"

// deadSuffix names the queue that keeps requests which failed twice.
const deadSuffix = ".dead"

// RabbitMQConsumerConfig configures NewRabbitMQConsumer.
type RabbitMQConsumerConfig struct {
	URL       string
	QueueName string
	Exchange  string
	Logger    *slog.Logger
}

// RabbitMQConsumer reads chat requests from a durable queue bound to the
// inbound exchange and dispatches them one at a time. A request whose handler
// fails is requeued once; a second failure routes it to the dead queue.
type RabbitMQConsumer struct {
	mu       sync.Mutex
	session  *amqpSession
	queue    string
	registry *Registry
	logger   *slog.Logger
	running  bool
	stop     chan struct{}
	stopOnce sync.Once
}

// NewRabbitMQConsumer connects and declares the exchange, the queue and its
// dead queue.
func NewRabbitMQConsumer(cfg RabbitMQConsumerConfig, registry *Registry) (*RabbitMQConsumer, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.QueueName == "" {
		cfg.QueueName = DefaultQueueName
	}
	if cfg.Exchange == "" {
		cfg.Exchange = InboundExchange
	}
	if registry == nil {
		registry = NewRegistry(cfg.Logger)
	}

	session, err := dialSession(cfg.URL, cfg.Exchange)
	if err != nil {
		return nil, err
	}
	if err := declareQueues(session.channel, cfg.QueueName); err != nil {
		_ = session.close()
		return nil, err
	}

	logger := cfg.Logger.With("component", "rabbitmq_consumer", "queue", cfg.QueueName)
	logger.Info("rabbitmq consumer connected", "exchange", cfg.Exchange)
	return &RabbitMQConsumer{
		session:  session,
		queue:    cfg.QueueName,
		registry: registry,
		logger:   logger,
		stop:     make(chan struct{}),
	}, nil
}

// declareQueues declares queue with dead-lettering through the default
// exchange into queue+".dead".
func declareQueues(ch *amqp.Channel, queue string) error {
	if _, err := ch.QueueDeclare(queue+deadSuffix, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", queue+deadSuffix, err)
	}
	args := amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": queue + deadSuffix,
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, args); err != nil {
		return fmt.Errorf("declare queue %s: %w", queue, err)
	}
	return nil
}

// Register adds handler and binds the queue to each of its routing keys.
func (c *RabbitMQConsumer) Register(handler Handler) {
	c.registry.Register(handler)

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range handler.RoutingKeys() {
		if err := c.session.channel.QueueBind(c.queue, key, c.session.exchange, false, nil); err != nil {
			c.logger.Error("bind routing key failed", "routing_key", key, "error", err)
			continue
		}
		c.logger.Debug("queue bound", "routing_key", key)
	}
}

// Start consumes until ctx ends or Close is called.
func (c *RabbitMQConsumer) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return errors.New("consumer already running")
	}
	c.running = true
	ch := c.session.channel
	c.mu.Unlock()

	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	deliveries, err := ch.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.queue, err)
	}
	c.logger.Info("consuming chat requests")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.stop:
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			c.settle(d, c.process(ctx, d))
		}
	}
}

// settle acks handled and undecodable deliveries. A failed delivery is
// requeued unless it was already redelivered, in which case the broker
// dead-letters it.
func (c *RabbitMQConsumer) settle(d amqp.Delivery, err error) {
	if err == nil {
		if ackErr := d.Ack(false); ackErr != nil {
			c.logger.Error("ack failed", "error", ackErr)
		}
		return
	}
	requeue := !d.Redelivered
	if !requeue {
		c.logger.Warn("dead-lettering chat request", "routing_key", d.RoutingKey, "message_id", d.MessageId, "error", err)
	}
	if nackErr := d.Nack(false, requeue); nackErr != nil {
		c.logger.Error("nack failed", "error", nackErr)
	}
}

func (c *RabbitMQConsumer) process(ctx context.Context, d amqp.Delivery) error {
	var msg Message
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		c.logger.Error("discarding undecodable message", "routing_key", d.RoutingKey, "error", err)
		return nil
	}
	if msg.RoutingKey == "" {
		msg.RoutingKey = d.RoutingKey
	}
	if msg.Metadata.CorrelationID == "" {
		msg.Metadata.CorrelationID = d.CorrelationId
	}
	ctx = observability.WithCorrelationID(ctx, msg.Metadata.CorrelationID)

	start := time.Now()
	if err := c.registry.Dispatch(ctx, &msg); err != nil {
		return err
	}
	c.logger.DebugContext(ctx, "chat request handled",
		"routing_key", msg.RoutingKey,
		"message_id", msg.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Close stops Start and closes the connection.
func (c *RabbitMQConsumer) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })

	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	err := c.session.close()
	c.logger.Info("rabbitmq consumer closed")
	return err
}
