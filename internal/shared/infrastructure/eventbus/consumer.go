package eventbus

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Handler handles messages for a set of routing keys.
type Handler interface {
	// RoutingKeys returns the keys this handler is bound to,
	// e.g. ["chat.report.requested"].
	RoutingKeys() []string

	// Handle processes one message. A returned error requeues it.
	Handle(ctx context.Context, msg *Message) error
}

// Message is an envelope received from or sent to the message bus.
type Message struct {
	ID         uuid.UUID       `json:"id"`
	RoutingKey string          `json:"routing_key"`
	OwnerID    string          `json:"owner_id"`
	SentAt     time.Time       `json:"sent_at"`
	Payload    json.RawMessage `json:"payload"`
	Metadata   Metadata        `json:"metadata,omitempty"`
}

// Metadata carries tracing fields of a message.
type Metadata struct {
	CorrelationID string `json:"correlation_id,omitempty"`
	ReplyTo       string `json:"reply_to,omitempty"`
}

// NewMessage builds an envelope around payload, which is marshalled to JSON.
func NewMessage(routingKey, ownerID string, payload any) (*Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		ID:         uuid.New(),
		RoutingKey: routingKey,
		OwnerID:    ownerID,
		SentAt:     time.Now().UTC(),
		Payload:    raw,
	}, nil
}

// Decode unmarshals the payload into v.
func (m *Message) Decode(v any) error {
	return json.Unmarshal(m.Payload, v)
}

// Consumer receives messages from a broker and dispatches them to handlers.
type Consumer interface {
	// Start consumes until ctx is cancelled or Close is called.
	Start(ctx context.Context) error

	// Register adds a handler and binds its routing keys.
	Register(handler Handler)

	// Close releases the broker connection.
	Close() error
}
