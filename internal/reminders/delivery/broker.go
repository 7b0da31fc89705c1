package delivery

import (
	"context"
	"fmt"
	"log/slog"
)

// Publisher publishes a payload under a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
}

// BrokerMessenger hands messages to the chat transport through the message broker.
type BrokerMessenger struct {
	publisher  Publisher
	routingKey string
	logger     *slog.Logger
}

// NewBrokerMessenger creates a broker messenger publishing on RoutingKeyDirectMessage.
func NewBrokerMessenger(publisher Publisher, logger *slog.Logger) *BrokerMessenger {
	if logger == nil {
		logger = slog.Default()
	}
	return &BrokerMessenger{
		publisher:  publisher,
		routingKey: RoutingKeyDirectMessage,
		logger:     logger,
	}
}

func (m *BrokerMessenger) Send(ctx context.Context, ownerID, text string) error {
	msg := NewOutboundMessage(ownerID, text)
	payload, err := msg.Encode()
	if err != nil {
		return fmt.Errorf("encode outbound message: %w", err)
	}
	if err := m.publisher.Publish(ctx, m.routingKey, payload); err != nil {
		return fmt.Errorf("publish outbound message: %w", err)
	}

	m.logger.Debug("outbound message published",
		"message_id", msg.ID,
		"owner_id", ownerID,
	)
	return nil
}
