package outbox

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryRepository is a Repository kept in process memory.
type InMemoryRepository struct {
	mu       sync.Mutex
	messages map[uuid.UUID]*Message
}

// NewInMemoryRepository creates an empty in-memory outbox.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{messages: make(map[uuid.UUID]*Message)}
}

func (r *InMemoryRepository) Save(ctx context.Context, msg *Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *msg
	r.messages[msg.ID] = &stored
	return nil
}

func (r *InMemoryRepository) GetPending(ctx context.Context, now time.Time, limit int) ([]*Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var due []*Message
	for _, msg := range r.messages {
		if msg.DueAt(now) {
			copied := *msg
			due = append(due, &copied)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].CreatedAt.Before(due[j].CreatedAt) })
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (r *InMemoryRepository) MarkPublished(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.update(id, func(m *Message) { m.PublishedAt = &at })
}

func (r *InMemoryRepository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string, nextRetryAt time.Time) error {
	return r.update(id, func(m *Message) {
		m.RetryCount++
		m.LastError = &errMsg
		m.NextRetryAt = &nextRetryAt
	})
}

func (r *InMemoryRepository) MarkDead(ctx context.Context, id uuid.UUID, reason string, at time.Time) error {
	return r.update(id, func(m *Message) {
		m.RetryCount++
		m.LastError = &reason
		m.DeadLetterReason = &reason
		m.DeadLetteredAt = &at
	})
}

func (r *InMemoryRepository) DeleteOld(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, msg := range r.messages {
		if msg.IsPublished() && msg.CreatedAt.Before(cutoff) {
			delete(r.messages, id)
			n++
		}
	}
	return n, nil
}

// Get returns a copy of the stored message, or nil.
func (r *InMemoryRepository) Get(id uuid.UUID) *Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.messages[id]
	if !ok {
		return nil
	}
	copied := *msg
	return &copied
}

func (r *InMemoryRepository) update(id uuid.UUID, fn func(*Message)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if msg, ok := r.messages[id]; ok {
		fn(msg)
	}
	return nil
}
