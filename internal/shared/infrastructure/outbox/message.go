package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Status is where a queued reminder is in its delivery.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPublished Status = "published"
	StatusDead      Status = "dead"
)

// Message is one reminder waiting for the broker. OwnerID orders delivery:
// messages of one owner are relayed in CreatedAt order.
type Message struct {
	ID          uuid.UUID
	OwnerID     string
	RoutingKey  string
	Payload     json.RawMessage
	CreatedAt   time.Time
	PublishedAt *time.Time
	NextRetryAt *time.Time
	RetryCount  int
	LastError   *string

	DeadLetteredAt   *time.Time
	DeadLetterReason *string
}

// NewMessage queues an already encoded JSON payload.
func NewMessage(ownerID, routingKey string, payload []byte) *Message {
	return &Message{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		RoutingKey: routingKey,
		Payload:    json.RawMessage(payload),
		CreatedAt:  time.Now().UTC(),
	}
}

func (m *Message) Status() Status {
	switch {
	case m.DeadLetteredAt != nil:
		return StatusDead
	case m.PublishedAt != nil:
		return StatusPublished
	default:
		return StatusPending
	}
}

func (m *Message) IsPublished() bool { return m.Status() == StatusPublished }
func (m *Message) IsDead() bool      { return m.Status() == StatusDead }

// DueAt reports whether a pending message may be relayed at now.
func (m *Message) DueAt(now time.Time) bool {
	if m.Status() != StatusPending {
		return false
	}
	return m.NextRetryAt == nil || !m.NextRetryAt.After(now)
}
