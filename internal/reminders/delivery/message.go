// Package delivery implements reminder messengers for the chat transport,
// Kafka, e-mail and logs.
package delivery

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	// RoutingKeyDirectMessage routes outbound direct messages on the broker.
	RoutingKeyDirectMessage = "chat.message.direct"
)

var (
	// ErrDeliveryUnavailable is returned while the delivery circuit is open.
	ErrDeliveryUnavailable = errors.New("delivery unavailable")
	// ErrNoRecipient is returned when an owner has no address for a channel.
	ErrNoRecipient = errors.New("owner has no recipient address")
)

// OutboundMessage is the envelope handed to the chat transport.
type OutboundMessage struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// NewOutboundMessage creates an envelope with a fresh id.
func NewOutboundMessage(ownerID, text string) OutboundMessage {
	return OutboundMessage{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
}

// Encode serializes the envelope as JSON.
func (m OutboundMessage) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// DecodeOutboundMessage parses a JSON envelope.
func DecodeOutboundMessage(data []byte) (OutboundMessage, error) {
	var m OutboundMessage
	err := json.Unmarshal(data, &m)
	return m, err
}
