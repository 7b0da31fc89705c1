package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/nemodouble/godlife/pkg/observability"
)

// Registry maps routing keys to handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

// Register adds handler under each of its routing keys.
func (r *Registry) Register(handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, key := range handler.RoutingKeys() {
		r.handlers[key] = append(r.handlers[key], handler)
		r.logger.Debug("registered handler", "routing_key", key)
	}
}

// Handlers returns the handlers bound to key.
func (r *Registry) Handlers(key string) []Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.handlers[key]
}

// RoutingKeys returns every bound key in sorted order.
func (r *Registry) RoutingKeys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.handlers))
	for k := range r.handlers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Dispatch hands msg to every handler of its routing key. All handlers run
// even when one fails; their errors are joined.
func (r *Registry) Dispatch(ctx context.Context, msg *Message) error {
	handlers := r.Handlers(msg.RoutingKey)
	if len(handlers) == 0 {
		r.logger.Debug("no handler for routing key", "routing_key", msg.RoutingKey)
		return nil
	}
	if msg.OwnerID != "" {
		ctx = observability.WithOwnerID(ctx, msg.OwnerID)
	}

	var errs []error
	for _, h := range handlers {
		if err := h.Handle(ctx, msg); err != nil {
			r.logger.ErrorContext(ctx, "handler failed",
				"routing_key", msg.RoutingKey,
				"message_id", msg.ID,
				"error", err,
			)
			errs = append(errs, fmt.Errorf("%s: %w", msg.RoutingKey, err))
		}
	}
	return errors.Join(errs...)
}
