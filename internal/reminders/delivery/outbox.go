package delivery

import (
	"context"
	"fmt"

	"github.com/nemodouble/godlife/internal/shared/infrastructure/outbox"
)

// OutboxMessenger queues messages in the outbox table. The outbox processor
// publishes them to the broker with retries, so Send succeeds once the row is
// stored.
type OutboxMessenger struct {
	repo       outbox.Repository
	routingKey string
}

// NewOutboxMessenger creates a messenger queueing on RoutingKeyDirectMessage.
func NewOutboxMessenger(repo outbox.Repository) *OutboxMessenger {
	return &OutboxMessenger{repo: repo, routingKey: RoutingKeyDirectMessage}
}

func (m *OutboxMessenger) Send(ctx context.Context, ownerID, text string) error {
	payload, err := NewOutboundMessage(ownerID, text).Encode()
	if err != nil {
		return fmt.Errorf("encode outbound message: %w", err)
	}
	if err := m.repo.Save(ctx, outbox.NewMessage(ownerID, m.routingKey, payload)); err != nil {
		return fmt.Errorf("queue outbound message: %w", err)
	}
	return nil
}
