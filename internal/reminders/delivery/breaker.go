package delivery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/nemodouble/godlife/internal/reminders"
)

// BreakerConfig configures the delivery circuit breaker.
type BreakerConfig struct {
	Name string
	// FailureThreshold is the number of consecutive failures that opens the circuit.
	FailureThreshold uint32
	// OpenTimeout is how long the circuit stays open before a trial send.
	OpenTimeout time.Duration
}

// DefaultBreakerConfig opens after five consecutive failures for one minute.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "delivery",
		FailureThreshold: 5,
		OpenTimeout:      time.Minute,
	}
}

// BreakerMessenger stops calling a failing messenger until it recovers.
type BreakerMessenger struct {
	next    reminders.Messenger
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// NewBreakerMessenger wraps next in a circuit breaker.
func NewBreakerMessenger(next reminders.Messenger, cfg BreakerConfig, logger *slog.Logger) *BreakerMessenger {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = DefaultBreakerConfig().FailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = DefaultBreakerConfig().OpenTimeout
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// A missing address is the owner's problem, not the transport's.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNoRecipient)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("delivery circuit changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &BreakerMessenger{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
	}
}

func (m *BreakerMessenger) Send(ctx context.Context, ownerID, text string) error {
	_, err := m.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, m.next.Send(ctx, ownerID, text)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrDeliveryUnavailable, err)
	}
	return err
}

// State returns the circuit state name.
func (m *BreakerMessenger) State() string {
	return m.breaker.State().String()
}
