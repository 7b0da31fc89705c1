package reminders

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	sentKeyPrefix   = "godlife:reminder:"
	stateInFlight   = "inflight"
	stateSent       = "sent"
	defaultLease    = 2 * time.Minute
	defaultRetained = 48 * time.Hour
)

// releaseScript deletes a claim only while it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisSentStore keeps markers in Redis so they survive restarts. A claim is
// a SET NX with a lease so a crashed sender frees the key on its own. Each
// claim stores a fresh token; an abandoned claim is only dropped while the
// key still carries that token, so a claim taken over after the lease ran
// out stays intact.
type RedisSentStore struct {
	client    *redis.Client
	lease     time.Duration
	retention time.Duration

	mu     sync.Mutex
	tokens map[string]string
}

// NewRedisSentStore creates a Redis backed store. Zero durations use defaults.
func NewRedisSentStore(client *redis.Client, lease, retention time.Duration) *RedisSentStore {
	if lease <= 0 {
		lease = defaultLease
	}
	if retention <= 0 {
		retention = defaultRetained
	}
	return &RedisSentStore{
		client:    client,
		lease:     lease,
		retention: retention,
		tokens:    make(map[string]string),
	}
}

func (s *RedisSentStore) redisKey(key TriggerKey) string {
	return sentKeyPrefix + key.String()
}

func (s *RedisSentStore) Claim(ctx context.Context, key TriggerKey) (bool, error) {
	rk := s.redisKey(key)
	token := stateInFlight + ":" + uuid.NewString()
	ok, err := s.client.SetNX(ctx, rk, token, s.lease).Result()
	if err != nil {
		return false, fmt.Errorf("claim %s: %w", key, err)
	}
	if ok {
		s.mu.Lock()
		s.tokens[rk] = token
		s.mu.Unlock()
	}
	return ok, nil
}

func (s *RedisSentStore) Release(ctx context.Context, key TriggerKey, sent bool) error {
	rk := s.redisKey(key)
	s.mu.Lock()
	token, held := s.tokens[rk]
	delete(s.tokens, rk)
	s.mu.Unlock()

	var err error
	switch {
	case sent:
		err = s.client.Set(ctx, rk, stateSent, s.retention).Err()
	case held:
		err = releaseScript.Run(ctx, s.client, []string{rk}, token).Err()
	}
	if err != nil {
		return fmt.Errorf("release %s: %w", key, err)
	}
	return nil
}

func (s *RedisSentStore) IsSent(ctx context.Context, key TriggerKey) (bool, error) {
	state, err := s.client.Get(ctx, s.redisKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	return state == stateSent, nil
}
