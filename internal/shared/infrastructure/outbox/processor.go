package outbox

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nemodouble/godlife/internal/shared/infrastructure/eventbus"
)

// ProcessorConfig tunes the relay loop.
type ProcessorConfig struct {
	PollInterval     time.Duration
	BatchSize        int
	MaxRetries       int // attempts before a message is dead-lettered
	RetryBackoffBase time.Duration
	RetryBackoffMax  time.Duration
	Retention        time.Duration // zero keeps published rows forever
}

func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		PollInterval:     time.Second,
		BatchSize:        100,
		MaxRetries:       5,
		RetryBackoffBase: time.Second,
		RetryBackoffMax:  time.Minute,
		Retention:        7 * 24 * time.Hour,
	}
}

// Processor relays queued reminder messages to the broker.
//
// Messages of one owner are relayed in creation order: once a message of an
// owner fails, the owner's later messages wait for the next batch so that a
// deadline reminder never overtakes the daily prompt queued before it.
type Processor struct {
	repo      Repository
	publisher eventbus.Publisher
	config    ProcessorConfig
	logger    *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	statsMu sync.Mutex
	stats   Stats
}

func NewProcessor(repo Repository, publisher eventbus.Publisher, config ProcessorConfig, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultProcessorConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = defaults.BatchSize
	}
	if config.RetryBackoffBase <= 0 {
		config.RetryBackoffBase = defaults.RetryBackoffBase
	}
	if config.RetryBackoffMax <= 0 {
		config.RetryBackoffMax = defaults.RetryBackoffMax
	}
	return &Processor{
		repo:      repo,
		publisher: publisher,
		config:    config,
		logger:    logger.With("component", "outbox"),
	}
}

// Start runs the relay loop until ctx ends or Stop is called. Starting a
// running processor is a no-op.
func (p *Processor) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.run(runCtx, p.done)

	p.logger.Info("outbox processor started",
		"poll_interval", p.config.PollInterval,
		"batch_size", p.config.BatchSize,
		"max_retries", p.config.MaxRetries,
	)
	return nil
}

// Stop cancels the loop and waits for the batch in flight.
func (p *Processor) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	p.logger.Info("outbox processor stopped")
}

func (p *Processor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

func (p *Processor) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	poll := time.NewTicker(p.config.PollInterval)
	defer poll.Stop()
	prune := time.NewTicker(time.Hour)
	defer prune.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-poll.C:
			if err := p.ProcessOnce(ctx); err != nil && ctx.Err() == nil {
				p.logger.Error("outbox batch failed", "error", err)
			}
		case <-prune.C:
			p.prune(ctx)
		}
	}
}

// ProcessOnce relays one batch of due messages.
func (p *Processor) ProcessOnce(ctx context.Context) error {
	now := time.Now().UTC()
	batch, err := p.repo.GetPending(ctx, now, p.config.BatchSize)
	if err != nil {
		p.recordError(err)
		return err
	}
	p.recordLag(now, batch)

	blocked := make(map[string]bool)
	for _, msg := range batch {
		if blocked[msg.OwnerID] {
			continue
		}
		if err := p.publisher.Publish(ctx, msg.RoutingKey, msg.Payload); err != nil {
			blocked[msg.OwnerID] = true
			p.handleFailure(ctx, msg, err)
			continue
		}
		if err := p.repo.MarkPublished(ctx, msg.ID, time.Now().UTC()); err != nil {
			// The broker has the message; a retry would duplicate it, so the
			// owner's queue stays blocked until the row can be updated.
			blocked[msg.OwnerID] = true
			p.logger.Error("mark published failed", "id", msg.ID, "owner_id", msg.OwnerID, "error", err)
			continue
		}
		p.bump(func(s *Stats) { s.PublishedCount++ })
	}
	return nil
}

func (p *Processor) handleFailure(ctx context.Context, msg *Message, cause error) {
	attempts := msg.RetryCount + 1
	log := p.logger.With("id", msg.ID, "owner_id", msg.OwnerID, "routing_key", msg.RoutingKey, "attempt", attempts)

	if p.config.MaxRetries <= 0 || attempts >= p.config.MaxRetries {
		log.Error("dead-lettering reminder", "error", cause)
		p.recordFailure(cause, func(s *Stats) { s.DeadCount++ })
		if err := p.repo.MarkDead(ctx, msg.ID, cause.Error(), time.Now().UTC()); err != nil {
			log.Error("mark dead failed", "error", err)
		}
		return
	}

	next := time.Now().UTC().Add(p.backoff(attempts))
	log.Warn("publish failed, will retry", "next_retry_at", next, "error", cause)
	p.recordFailure(cause, func(s *Stats) { s.FailedCount++ })
	if err := p.repo.MarkFailed(ctx, msg.ID, cause.Error(), next); err != nil {
		log.Error("mark failed failed", "error", err)
	}
}

// backoff doubles from RetryBackoffBase per attempt, capped at RetryBackoffMax.
func (p *Processor) backoff(attempt int) time.Duration {
	d := p.config.RetryBackoffBase
	for i := 1; i < attempt && d < p.config.RetryBackoffMax; i++ {
		d *= 2
	}
	return min(d, p.config.RetryBackoffMax)
}

func (p *Processor) prune(ctx context.Context) {
	if p.config.Retention <= 0 {
		return
	}
	deleted, err := p.repo.DeleteOld(ctx, time.Now().UTC().Add(-p.config.Retention))
	if err != nil {
		p.logger.Warn("outbox prune failed", "error", err)
		return
	}
	if deleted > 0 {
		p.logger.Debug("outbox pruned", "deleted", deleted)
	}
}

// Stats is a snapshot of relay counters.
type Stats struct {
	IsRunning       bool
	PublishedCount  uint64
	FailedCount     uint64
	DeadCount       uint64
	LagSeconds      float64
	LastError       string
	LastErrorAt     *time.Time
	LastProcessedAt *time.Time
	OldestMessageAt *time.Time
}

func (p *Processor) GetStats() Stats {
	p.statsMu.Lock()
	s := p.stats
	p.statsMu.Unlock()
	s.IsRunning = p.IsRunning()
	return s
}

func (p *Processor) bump(fn func(*Stats)) {
	p.statsMu.Lock()
	fn(&p.stats)
	p.statsMu.Unlock()
}

func (p *Processor) recordFailure(err error, fn func(*Stats)) {
	now := time.Now().UTC()
	p.bump(func(s *Stats) {
		fn(s)
		s.LastError = err.Error()
		s.LastErrorAt = &now
	})
}

func (p *Processor) recordError(err error) {
	p.recordFailure(err, func(*Stats) {})
}

func (p *Processor) recordLag(now time.Time, batch []*Message) {
	p.bump(func(s *Stats) {
		s.LastProcessedAt = &now
		s.OldestMessageAt = nil
		s.LagSeconds = 0
		for _, msg := range batch {
			if s.OldestMessageAt == nil || msg.CreatedAt.Before(*s.OldestMessageAt) {
				created := msg.CreatedAt
				s.OldestMessageAt = &created
			}
		}
		if s.OldestMessageAt != nil {
			s.LagSeconds = now.Sub(*s.OldestMessageAt).Seconds()
		}
	})
}
