package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// InProcessBus dispatches messages synchronously inside the process. It
// replaces the broker in local mode.
type InProcessBus struct {
	registry *Registry
	logger   *slog.Logger
	mu       sync.Mutex
}

// NewInProcessBus creates an in-process bus.
func NewInProcessBus(logger *slog.Logger) *InProcessBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessBus{
		registry: NewRegistry(logger),
		logger:   logger,
	}
}

// Register adds a handler.
func (b *InProcessBus) Register(handler Handler) {
	b.registry.Register(handler)
}

// Publish decodes payload as a Message and dispatches it. Handler errors are
// logged, not returned, since there is no broker to requeue to.
func (b *InProcessBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	msg := &Message{}
	if err := json.Unmarshal(payload, msg); err != nil {
		b.logger.Error("discarding undecodable message",
			"routing_key", routingKey,
			"error", err,
		)
		return nil
	}
	if msg.RoutingKey == "" {
		msg.RoutingKey = routingKey
	}
	b.dispatch(ctx, msg)
	return nil
}

// Send dispatches msg and returns the joined handler errors.
func (b *InProcessBus) Send(ctx context.Context, msg *Message) error {
	return b.dispatch(ctx, msg)
}

func (b *InProcessBus) dispatch(ctx context.Context, msg *Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := time.Now()
	err := b.registry.Dispatch(ctx, msg)
	b.logger.Debug("message dispatched",
		"routing_key", msg.RoutingKey,
		"message_id", msg.ID,
		"duration_ms", time.Since(start).Milliseconds(),
		"failed", err != nil,
	)
	return err
}

// Start blocks until ctx is cancelled; dispatch happens on Publish.
func (b *InProcessBus) Start(ctx context.Context) error {
	b.logger.Info("in-process bus started")
	<-ctx.Done()
	return ctx.Err()
}

// Close is a no-op.
func (b *InProcessBus) Close() error {
	return nil
}

// Registry returns the handler registry.
func (b *InProcessBus) Registry() *Registry {
	return b.registry
}
