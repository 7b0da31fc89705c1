// Package services holds the season manager.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nemodouble/godlife/internal/seasons/domain"
	sharedApplication "github.com/nemodouble/godlife/internal/shared/application"
	sharedDomain "github.com/nemodouble/godlife/internal/shared/domain"
)

// DefaultListLimit is the number of seasons List returns when no limit is given.
const DefaultListLimit = 12

// OwnerClock resolves an owner's current local day.
type OwnerClock interface {
	Today(ctx context.Context, ownerID string) (sharedDomain.Day, error)
}

// Manager creates, closes and repairs report seasons.
type Manager struct {
	seasons  domain.Repository
	checkins domain.CheckinHistory
	days     OwnerClock
	uow      sharedApplication.UnitOfWork
	clock    sharedDomain.Clock
	logger   *slog.Logger
}

// NewManager creates a season manager.
func NewManager(
	seasons domain.Repository,
	checkins domain.CheckinHistory,
	days OwnerClock,
	uow sharedApplication.UnitOfWork,
	clock sharedDomain.Clock,
	logger *slog.Logger,
) *Manager {
	if clock == nil {
		clock = sharedDomain.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		seasons:  seasons,
		checkins: checkins,
		days:     days,
		uow:      uow,
		clock:    clock,
		logger:   logger,
	}
}

// EnsureDefaultSeason creates the first season of an owner without any and
// returns the current season. The first season starts on the earliest
// completed checkin day, or today when there is none.
func (m *Manager) EnsureDefaultSeason(ctx context.Context, ownerID string) (*domain.Season, error) {
	current, err := m.CurrentSeason(ctx, ownerID)
	if err != nil || current != nil {
		return current, err
	}

	start, err := m.checkins.FirstDoneDay(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("first checkin day: %w", err)
	}
	if start.IsZero() {
		if start, err = m.days.Today(ctx, ownerID); err != nil {
			return nil, err
		}
	}

	season, err := domain.NewSeason(ownerID, domain.DefaultTitle, start)
	if err != nil {
		return nil, err
	}
	if err := m.seasons.Save(ctx, season); err != nil {
		return nil, err
	}

	m.logger.Info("default season created",
		"owner_id", ownerID,
		"season_id", season.ID(),
		"start_day", start,
	)
	return season, nil
}

// CurrentSeason returns the season with the latest start, or nil.
func (m *Manager) CurrentSeason(ctx context.Context, ownerID string) (*domain.Season, error) {
	seasons, err := m.seasons.FindByOwner(ctx, ownerID, 1)
	if err != nil {
		return nil, err
	}
	if len(seasons) == 0 {
		return nil, nil
	}
	return seasons[0], nil
}

// GetOrCreateCurrent returns the current season, creating the default one first
// when the owner has none.
func (m *Manager) GetOrCreateCurrent(ctx context.Context, ownerID string) (*domain.Season, error) {
	return m.EnsureDefaultSeason(ctx, ownerID)
}

// CreateNewSeason inserts a season starting on start. A zero start means
// today and an empty title is derived from the start day.
//
// With autoClosePrev the season immediately preceding the new one is closed
// when it is still open. Its end day is the owner's last completed checkin day
// before start, else the day before start, and never earlier than its own start.
func (m *Manager) CreateNewSeason(ctx context.Context, ownerID, title string, start sharedDomain.Day, autoClosePrev bool) (*domain.Season, error) {
	if start.IsZero() {
		today, err := m.days.Today(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		start = today
	}
	if title == "" {
		title = "시즌 " + start.String()
	}

	season, err := domain.NewSeason(ownerID, title, start)
	if err != nil {
		return nil, err
	}

	var closed *domain.Season
	err = sharedApplication.WithUnitOfWork(ctx, m.uow, func(txCtx context.Context) error {
		existing, err := m.seasons.FindByOwner(txCtx, ownerID, 0)
		if err != nil {
			return err
		}
		if err := m.seasons.Save(txCtx, season); err != nil {
			return err
		}
		if !autoClosePrev {
			return nil
		}

		prev := predecessor(existing, season)
		if prev == nil || !prev.IsOpen() {
			return nil
		}
		end, err := m.checkins.LastDoneDayBefore(txCtx, ownerID, start)
		if err != nil {
			return fmt.Errorf("last checkin day: %w", err)
		}
		// No completion before the new start: the old season covers every
		// day up to it. The clamp keeps end on or after the old start.
		if end.IsZero() {
			end = start.AddDays(-1)
		}
		end = sharedDomain.MaxDay(end, prev.StartDay())
		if err := prev.Close(end, m.clock.Now()); err != nil {
			return err
		}
		closed = prev
		return m.seasons.Save(txCtx, prev)
	})
	if err != nil {
		return nil, fmt.Errorf("create season: %w", err)
	}

	attrs := []any{"owner_id", ownerID, "season_id", season.ID(), "start_day", start}
	if closed != nil {
		attrs = append(attrs, "closed_season_id", closed.ID(), "closed_end_day", closed.EndDay())
	}
	m.logger.Info("season created", attrs...)
	return season, nil
}

// predecessor returns the latest season in existing that sorts before s.
// existing was loaded before s was saved and is ordered newest first, so any
// season starting on or before s was also created before it.
func predecessor(existing []*domain.Season, s *domain.Season) *domain.Season {
	for _, candidate := range existing {
		if candidate.ID() != s.ID() && !candidate.StartDay().After(s.StartDay()) {
			return candidate
		}
	}
	return nil
}

// RepairStartDay moves the start of an owner's only season back to the first
// completed checkin when that season starts today but earlier checkins exist.
// It reports whether the season was changed and is safe to run repeatedly.
func (m *Manager) RepairStartDay(ctx context.Context, ownerID string, today sharedDomain.Day) (bool, error) {
	seasons, err := m.seasons.FindByOwner(ctx, ownerID, 2)
	if err != nil {
		return false, err
	}
	if len(seasons) != 1 || seasons[0].StartDay() != today {
		return false, nil
	}

	first, err := m.checkins.FirstDoneDay(ctx, ownerID)
	if err != nil {
		return false, fmt.Errorf("first checkin day: %w", err)
	}
	if first.IsZero() || !first.Before(today) {
		return false, nil
	}

	season := seasons[0]
	if err := season.MoveStart(first); err != nil {
		return false, err
	}
	if err := m.seasons.Save(ctx, season); err != nil {
		return false, err
	}

	m.logger.Info("season start repaired",
		"owner_id", ownerID,
		"season_id", season.ID(),
		"start_day", first,
	)
	return true, nil
}

// RepairResult summarises a RepairAll run.
type RepairResult struct {
	Checked  int
	Repaired int
	Errors   []error
}

// RepairAll runs RepairStartDay for every owner with seasons. A failure for
// one owner is logged and recorded without stopping the others.
func (m *Manager) RepairAll(ctx context.Context) (*RepairResult, error) {
	owners, err := m.seasons.ListOwners(ctx)
	if err != nil {
		return nil, fmt.Errorf("list season owners: %w", err)
	}

	result := &RepairResult{}
	for _, ownerID := range owners {
		result.Checked++
		repaired, err := m.repairOwner(ctx, ownerID)
		if err != nil {
			m.logger.Warn("season repair failed", "owner_id", ownerID, "error", err)
			result.Errors = append(result.Errors, fmt.Errorf("owner %s: %w", ownerID, err))
			continue
		}
		if repaired {
			result.Repaired++
		}
	}
	return result, nil
}

func (m *Manager) repairOwner(ctx context.Context, ownerID string) (bool, error) {
	today, err := m.days.Today(ctx, ownerID)
	if err != nil {
		return false, err
	}
	return m.RepairStartDay(ctx, ownerID, today)
}

// List returns the owner's seasons newest first, creating the default season
// when there is none.
func (m *Manager) List(ctx context.Context, ownerID string, limit int) ([]*domain.Season, error) {
	if _, err := m.EnsureDefaultSeason(ctx, ownerID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return m.seasons.FindByOwner(ctx, ownerID, limit)
}

// Get returns one of the owner's seasons.
func (m *Manager) Get(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Season, error) {
	season, err := m.seasons.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if season == nil {
		return nil, domain.ErrSeasonNotFound
	}
	return season, nil
}
