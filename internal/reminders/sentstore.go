package reminders

import (
	"context"
	"sync"

	"github.com/nemodouble/godlife/internal/shared/domain"
)

// SentStore is the idempotency set of trigger keys. Claim and Release form a
// critical section per key: a key is claimed by at most one caller until it
// is released, and a key released as sent can never be claimed again.
type SentStore interface {
	// Claim reserves key. It returns false when the key is sent or in flight.
	Claim(ctx context.Context, key TriggerKey) (bool, error)
	// Release ends a claim, marking the key sent or freeing it for retry.
	Release(ctx context.Context, key TriggerKey, sent bool) error
	// IsSent reports whether key was released as sent.
	IsSent(ctx context.Context, key TriggerKey) (bool, error)
}

// MemorySentStore keeps markers for the lifetime of the process.
type MemorySentStore struct {
	mu       sync.Mutex
	sent     map[TriggerKey]struct{}
	inFlight map[TriggerKey]struct{}
}

// NewMemorySentStore creates an empty in-memory store.
func NewMemorySentStore() *MemorySentStore {
	return &MemorySentStore{
		sent:     make(map[TriggerKey]struct{}),
		inFlight: make(map[TriggerKey]struct{}),
	}
}

func (s *MemorySentStore) Claim(_ context.Context, key TriggerKey) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sent[key]; ok {
		return false, nil
	}
	if _, ok := s.inFlight[key]; ok {
		return false, nil
	}
	s.inFlight[key] = struct{}{}
	return true, nil
}

func (s *MemorySentStore) Release(_ context.Context, key TriggerKey, sent bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.inFlight, key)
	if sent {
		s.sent[key] = struct{}{}
	}
	return nil
}

func (s *MemorySentStore) IsSent(_ context.Context, key TriggerKey) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sent[key]
	return ok, nil
}

// Prune drops sent markers of days before cutoff and returns how many were removed.
func (s *MemorySentStore) Prune(cutoff domain.Day) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key := range s.sent {
		if key.Day.Before(cutoff) {
			delete(s.sent, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of sent markers.
func (s *MemorySentStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}
