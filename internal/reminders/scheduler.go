package reminders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	routines "github.com/nemodouble/godlife/internal/routines/domain"
	"github.com/nemodouble/godlife/internal/shared/domain"
	"github.com/nemodouble/godlife/internal/validity"
	"github.com/nemodouble/godlife/pkg/observability"
)

// Messenger delivers a direct text message to an owner.
type Messenger interface {
	Send(ctx context.Context, ownerID, text string) error
}

// RoutineSource loads routines for scheduling.
type RoutineSource interface {
	ListOwners(ctx context.Context) ([]string, error)
	FindActiveByOwner(ctx context.Context, ownerID string) ([]*routines.Routine, error)
	FindByID(ctx context.Context, id uuid.UUID) (*routines.Routine, error)
}

// CheckinSource reads checkin state at fire time.
type CheckinSource interface {
	Get(ctx context.Context, routineID uuid.UUID, day domain.Day) (*routines.Checkin, error)
	ListForOwnerDay(ctx context.Context, ownerID string, day domain.Day) ([]*routines.Checkin, error)
}

// SettingsSource loads owner settings, falling back to defaults.
type SettingsSource interface {
	Handle(ctx context.Context, ownerID string) (*routines.UserSettings, error)
}

// Config holds scheduler timing.
type Config struct {
	SweepInterval  time.Duration
	SweepWindow    time.Duration
	ReplanSchedule string
	DayOffset      time.Duration
}

// DefaultConfig sweeps every five minutes and replans hourly.
func DefaultConfig() Config {
	return Config{
		SweepInterval:  5 * time.Minute,
		SweepWindow:    5 * time.Minute,
		ReplanSchedule: "@hourly",
		DayOffset:      domain.DefaultDayOffset,
	}
}

// Stats is a snapshot of scheduler counters.
type Stats struct {
	IsRunning   bool
	Scheduled   uint64
	Fired       uint64
	Suppressed  uint64
	Failed      uint64
	Pending     int
	LastSweepAt *time.Time
	LastError   string
	LastErrorAt *time.Time
}

type pendingTask struct {
	id  uint64
	gen uint64
}

// Scheduler fires daily prompts and deadline reminders. Future triggers get a
// wait-then-fire goroutine and a periodic sweep fires anything due within the
// sweep window that was missed.
type Scheduler struct {
	routines  RoutineSource
	checkins  CheckinSource
	settings  SettingsSource
	calendar  *validity.Calendar
	sent      SentStore
	messenger Messenger
	config    Config
	clock     domain.Clock
	metrics   observability.Metrics
	logger    *slog.Logger

	mu          sync.Mutex
	running     bool
	ctx         context.Context
	cancel      context.CancelFunc
	cron        *cron.Cron
	wg          sync.WaitGroup
	generations map[string]uint64
	pending     map[TriggerKey]pendingTask
	nextTaskID  uint64

	statsMu sync.Mutex
	stats   Stats
}

// NewScheduler creates a scheduler. Nil clock, metrics and logger get defaults.
func NewScheduler(
	routineSource RoutineSource,
	checkins CheckinSource,
	settings SettingsSource,
	calendar *validity.Calendar,
	sent SentStore,
	messenger Messenger,
	config Config,
	clock domain.Clock,
	metrics observability.Metrics,
	logger *slog.Logger,
) *Scheduler {
	defaults := DefaultConfig()
	if config.SweepInterval <= 0 {
		config.SweepInterval = defaults.SweepInterval
	}
	if config.SweepWindow <= 0 {
		config.SweepWindow = defaults.SweepWindow
	}
	if config.ReplanSchedule == "" {
		config.ReplanSchedule = defaults.ReplanSchedule
	}
	if clock == nil {
		clock = domain.SystemClock{}
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		routines:    routineSource,
		checkins:    checkins,
		settings:    settings,
		calendar:    calendar,
		sent:        sent,
		messenger:   messenger,
		config:      config,
		clock:       clock,
		metrics:     metrics,
		logger:      logger,
		generations: make(map[string]uint64),
		pending:     make(map[TriggerKey]pendingTask),
	}
}

// Start schedules today's triggers, runs an immediate sweep and starts the
// cron driven sweep and replan jobs. Every goroutine derives from ctx.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	runCtx, cancel := context.WithCancel(ctx)
	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", s.config.SweepInterval), func() { s.sweep(runCtx) }); err != nil {
		s.mu.Unlock()
		cancel()
		return fmt.Errorf("add sweep job: %w", err)
	}
	if _, err := c.AddFunc(s.config.ReplanSchedule, func() { s.replan(runCtx) }); err != nil {
		s.mu.Unlock()
		cancel()
		return fmt.Errorf("add replan job %q: %w", s.config.ReplanSchedule, err)
	}
	s.ctx, s.cancel, s.cron = runCtx, cancel, c
	s.running = true
	s.mu.Unlock()

	if err := s.ScheduleToday(runCtx); err != nil {
		s.logger.Error("initial scheduling failed", "error", err)
	}
	s.sweep(runCtx)
	c.Start()

	s.logger.Info("reminder scheduler started",
		"sweep_interval", s.config.SweepInterval,
		"sweep_window", s.config.SweepWindow,
		"replan", s.config.ReplanSchedule,
	)
	return nil
}

// Stop cancels every pending task and the cron jobs and waits for them.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.cancel()
	c := s.cron
	s.pending = make(map[TriggerKey]pendingTask)
	s.mu.Unlock()

	<-c.Stop().Done()
	s.wg.Wait()
	s.logger.Info("reminder scheduler stopped")
}

// IsRunning returns true between Start and Stop.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// ScheduleToday plans every known owner. Failures are isolated per owner and
// returned joined.
func (s *Scheduler) ScheduleToday(ctx context.Context) error {
	owners, err := s.routines.ListOwners(ctx)
	if err != nil {
		s.recordError(err)
		return fmt.Errorf("list owners: %w", err)
	}

	var errs []error
	for _, ownerID := range owners {
		if err := s.scheduleOwner(ctx, ownerID, false); err != nil {
			s.logger.Warn("scheduling owner failed", "owner_id", ownerID, "error", err)
			s.recordError(err)
			errs = append(errs, fmt.Errorf("owner %s: %w", ownerID, err))
		}
	}
	return errors.Join(errs...)
}

// RescheduleOwner starts a new plan generation for an owner. Tasks of the
// previous plan lapse without sending.
func (s *Scheduler) RescheduleOwner(ctx context.Context, ownerID string) error {
	return s.scheduleOwner(ctx, ownerID, true)
}

// SettingsChanged reschedules the owner on the scheduler's own context and
// runs a sweep so a reminder time moved into the past is not lost.
func (s *Scheduler) SettingsChanged(_ context.Context, ownerID string) {
	s.mu.Lock()
	runCtx, running := s.ctx, s.running
	s.mu.Unlock()
	if !running {
		return
	}
	if err := s.RescheduleOwner(runCtx, ownerID); err != nil {
		s.logger.Warn("reschedule after settings change failed", "owner_id", ownerID, "error", err)
		return
	}
	if err := s.sweepOwner(runCtx, ownerID, s.clock.Now()); err != nil {
		s.logger.Warn("sweep after settings change failed", "owner_id", ownerID, "error", err)
	}
}

func (s *Scheduler) scheduleOwner(ctx context.Context, ownerID string, reset bool) error {
	settings, err := s.settings.Handle(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	rs, err := s.routines.FindActiveByOwner(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("load routines: %w", err)
	}

	now := s.clock.Now()
	today := domain.DayOf(now.In(settings.Location()))
	triggers := PlanDay(settings, rs, today, s.config.DayOffset)

	s.mu.Lock()
	if reset {
		s.generations[ownerID]++
		for key := range s.pending {
			if key.OwnerID == ownerID {
				delete(s.pending, key)
			}
		}
	}
	gen := s.generations[ownerID]
	s.mu.Unlock()

	scheduled := 0
	for _, trig := range triggers {
		if !trig.At.After(now) {
			continue
		}
		if sent, err := s.sent.IsSent(ctx, trig.Key); err == nil && sent {
			continue
		}
		if s.addPending(trig, gen) {
			scheduled++
		}
	}

	if scheduled > 0 {
		s.recordScheduled(scheduled)
		s.logger.Debug("owner scheduled",
			"owner_id", ownerID,
			"triggers", scheduled,
			"generation", gen,
		)
	}
	return nil
}

// addPending starts a wait-then-fire task unless the key already has one in
// the current generation. Tasks always run on the scheduler's context, never
// the caller's, so Stop cancels every one of them.
func (s *Scheduler) addPending(trig Trigger, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return false
	}
	if p, ok := s.pending[trig.Key]; ok && p.gen == gen {
		return false
	}
	s.nextTaskID++
	task := pendingTask{id: s.nextTaskID, gen: gen}
	s.pending[trig.Key] = task

	s.wg.Add(1)
	go s.runTask(s.ctx, trig, task)
	return true
}

func (s *Scheduler) runTask(ctx context.Context, trig Trigger, task pendingTask) {
	defer s.wg.Done()

	timer := time.NewTimer(trig.At.Sub(s.clock.Now()))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	if !s.takePending(trig.Key, task) {
		return
	}
	if _, err := s.fire(ctx, trig); err != nil {
		s.logger.Warn("scheduled reminder failed", "key", trig.Key.String(), "error", err)
	}
}

// takePending removes the task entry if it still belongs to the current plan.
func (s *Scheduler) takePending(key TriggerKey, task pendingTask) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.pending[key]
	if !ok || current.id != task.id || task.gen != s.generations[key.OwnerID] {
		return false
	}
	delete(s.pending, key)
	return true
}

// RunCorrectionSweepOnce fires every trigger due within the sweep window whose
// key is not yet sent. Owners are processed independently.
func (s *Scheduler) RunCorrectionSweepOnce(ctx context.Context) error {
	start := time.Now()
	now := s.clock.Now()

	owners, err := s.routines.ListOwners(ctx)
	if err != nil {
		s.recordError(err)
		return fmt.Errorf("list owners: %w", err)
	}

	for _, ownerID := range owners {
		if err := s.sweepOwner(ctx, ownerID, now); err != nil {
			s.logger.Warn("sweep failed for owner", "owner_id", ownerID, "error", err)
			s.recordError(err)
		}
	}

	s.recordSweep(now)
	s.metrics.Timing(observability.MetricSweepDuration, time.Since(start))
	return nil
}

func (s *Scheduler) sweepOwner(ctx context.Context, ownerID string, now time.Time) error {
	settings, err := s.settings.Handle(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	rs, err := s.routines.FindActiveByOwner(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("load routines: %w", err)
	}

	var errs []error
	for _, date := range calendarDates(settings.Location(), now, s.config.SweepWindow) {
		for _, trig := range PlanDay(settings, rs, date, s.config.DayOffset) {
			if !trig.Due(now, s.config.SweepWindow) {
				continue
			}
			if _, err := s.fire(ctx, trig); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (s *Scheduler) sweep(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := s.RunCorrectionSweepOnce(ctx); err != nil {
		s.logger.Error("correction sweep failed", "error", err)
	}
}

func (s *Scheduler) replan(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := s.ScheduleToday(ctx); err != nil {
		s.logger.Warn("replan finished with errors", "error", err)
	}
	if store, ok := s.sent.(*MemorySentStore); ok {
		cutoff := domain.DayOf(s.clock.Now()).AddDays(-2)
		if removed := store.Prune(cutoff); removed > 0 {
			s.logger.Debug("pruned sent markers", "removed", removed)
		}
	}
}

// fire sends one trigger at most once. It reports whether a message was sent.
// A failed send releases the key so the next sweep retries it.
func (s *Scheduler) fire(ctx context.Context, trig Trigger) (bool, error) {
	claimed, err := s.sent.Claim(ctx, trig.Key)
	if err != nil {
		s.recordFailed(err)
		return false, err
	}
	if !claimed {
		return false, nil
	}

	text, err := s.compose(ctx, trig.Key)
	if err != nil {
		s.release(ctx, trig.Key, false)
		s.recordFailed(err)
		return false, fmt.Errorf("compose %s: %w", trig.Key, err)
	}
	if text == "" {
		s.release(ctx, trig.Key, true)
		s.recordSuppressed(trig.Key)
		return false, nil
	}

	if err := s.messenger.Send(ctx, trig.Key.OwnerID, text); err != nil {
		s.release(ctx, trig.Key, false)
		s.recordFailed(err)
		return false, fmt.Errorf("send %s: %w", trig.Key, err)
	}
	s.release(ctx, trig.Key, true)
	s.recordFired(trig.Key)

	s.logger.Info("reminder sent",
		"owner_id", trig.Key.OwnerID,
		"kind", trig.Key.Kind,
		"day", trig.Key.Day,
	)
	return true, nil
}

func (s *Scheduler) release(ctx context.Context, key TriggerKey, sent bool) {
	if err := s.sent.Release(ctx, key, sent); err != nil {
		s.logger.Error("release trigger key failed", "key", key.String(), "sent", sent, "error", err)
	}
}

// compose builds the message of a key. An empty text means there is nothing
// to send and the key is marked sent.
func (s *Scheduler) compose(ctx context.Context, key TriggerKey) (string, error) {
	settings, err := s.settings.Handle(ctx, key.OwnerID)
	if err != nil {
		return "", err
	}
	oc, err := s.calendar.ForOwner(ctx, key.OwnerID)
	if err != nil {
		return "", err
	}
	rs, err := s.routines.FindActiveByOwner(ctx, key.OwnerID)
	if err != nil {
		return "", err
	}
	checkins, err := s.checkins.ListForOwnerDay(ctx, key.OwnerID, key.Day)
	if err != nil {
		return "", err
	}
	states := make(map[uuid.UUID]routines.CheckinState, len(checkins))
	for _, c := range checkins {
		states[c.RoutineID] = c.State()
	}

	var lines []RoutineLine
	for _, r := range rs {
		required, err := requiredOn(r, oc, key.Day)
		if err != nil {
			return "", err
		}
		if !required {
			continue
		}
		state, ok := states[r.ID()]
		if !ok {
			state = routines.CheckinNeither
		}
		lines = append(lines, RoutineLine{Name: r.Name(), State: state})
	}

	composer := ComposerFor(settings.Locale)
	switch key.Kind {
	case KindDailyPrompt:
		if len(lines) == 0 {
			return "", nil
		}
		return composer.DailyPrompt(key.Day, lines), nil
	case KindDeadlineReminder:
		return s.composeDeadline(ctx, composer, oc, key, lines)
	default:
		return "", fmt.Errorf("unknown trigger kind %q", key.Kind)
	}
}

func (s *Scheduler) composeDeadline(ctx context.Context, composer Composer, oc *validity.OwnerCalendar, key TriggerKey, lines []RoutineLine) (string, error) {
	r, err := s.routines.FindByID(ctx, key.RoutineID)
	if err != nil {
		return "", err
	}
	if r == nil || !r.IsActive() || !r.IsOwnedBy(key.OwnerID) {
		return "", nil
	}
	required, err := requiredOn(r, oc, key.Day)
	if err != nil || !required {
		return "", err
	}
	checkin, err := s.checkins.Get(ctx, r.ID(), key.Day)
	if err != nil {
		return "", err
	}
	if checkin.State() != routines.CheckinNeither {
		return "", nil
	}

	var remaining []string
	for _, line := range lines {
		if line.State == routines.CheckinNeither && line.Name != r.Name() {
			remaining = append(remaining, line.Name)
		}
	}
	return composer.DeadlineReminder(key.Day, r.Name(), remaining), nil
}

// requiredOn reports whether r expects a checkin on d: a valid day that is not paused.
func requiredOn(r *routines.Routine, oc *validity.OwnerCalendar, d domain.Day) (bool, error) {
	valid, err := oc.IsValidDay(r.WeekendMode(), d)
	if err != nil || !valid {
		return false, err
	}
	return !r.IsPausedOn(d), nil
}

// Stats returns a snapshot of the scheduler counters.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	pending := len(s.pending)
	running := s.running
	s.mu.Unlock()

	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	stats := s.stats
	stats.IsRunning = running
	stats.Pending = pending
	return stats
}

func (s *Scheduler) recordScheduled(n int) {
	s.statsMu.Lock()
	s.stats.Scheduled += uint64(n)
	s.statsMu.Unlock()
	s.metrics.Counter(observability.MetricRemindersScheduled, int64(n))
}

func (s *Scheduler) recordFired(key TriggerKey) {
	s.statsMu.Lock()
	s.stats.Fired++
	s.statsMu.Unlock()
	s.metrics.Counter(observability.MetricRemindersFired, 1, observability.T("kind", string(key.Kind)))
}

func (s *Scheduler) recordSuppressed(key TriggerKey) {
	s.statsMu.Lock()
	s.stats.Suppressed++
	s.statsMu.Unlock()
	s.metrics.Counter(observability.MetricRemindersSuppressed, 1, observability.T("kind", string(key.Kind)))
}

func (s *Scheduler) recordFailed(err error) {
	s.statsMu.Lock()
	s.stats.Failed++
	s.statsMu.Unlock()
	s.recordError(err)
	s.metrics.Counter(observability.MetricRemindersFailed, 1)
}

func (s *Scheduler) recordError(err error) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	now := time.Now()
	s.stats.LastError = err.Error()
	s.stats.LastErrorAt = &now
}

func (s *Scheduler) recordSweep(at time.Time) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	s.stats.LastSweepAt = &at
}
