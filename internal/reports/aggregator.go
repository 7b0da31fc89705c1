package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	routines "github.com/nemodouble/godlife/internal/routines/domain"
	"github.com/nemodouble/godlife/internal/shared/domain"
	"github.com/nemodouble/godlife/internal/validity"
)

// CheckinReader loads a routine's checkins over a day range.
type CheckinReader interface {
	ListForRoutine(ctx context.Context, routineID uuid.UUID, from, to domain.Day) ([]*routines.Checkin, error)
}

// Aggregator computes report metrics.
type Aggregator struct {
	checkins CheckinReader
	calendar *validity.Calendar
	boundary domain.DayBoundary
	clock    domain.Clock
}

// NewAggregator creates an aggregator. boundary decides the local day of
// routine creation and, with clock, today's local day.
func NewAggregator(checkins CheckinReader, calendar *validity.Calendar, boundary domain.DayBoundary, clock domain.Clock) *Aggregator {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &Aggregator{
		checkins: checkins,
		calendar: calendar,
		boundary: boundary,
		clock:    clock,
	}
}

// In returns a copy of the aggregator whose local days are computed in loc.
func (a *Aggregator) In(loc *time.Location) *Aggregator {
	c := *a
	c.boundary = a.boundary.In(loc)
	return &c
}

// Today returns the current local day.
func (a *Aggregator) Today() domain.Day {
	return a.boundary.LocalDay(a.clock.Now())
}

// AggregateUserMetrics computes per-routine metrics and their summary as of
// the current local day. A zero season leaves the history unbounded.
func (a *Aggregator) AggregateUserMetrics(ctx context.Context, ownerID string, rs []*routines.Routine, scope Scope, season Period) (*UserMetrics, error) {
	return a.AggregateAsOf(ctx, ownerID, rs, scope, season, a.Today())
}

// AggregateAsOf is AggregateUserMetrics with an explicit today.
func (a *Aggregator) AggregateAsOf(ctx context.Context, ownerID string, rs []*routines.Routine, scope Scope, season Period, today domain.Day) (*UserMetrics, error) {
	oc, err := a.calendar.ForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	result := &UserMetrics{
		OwnerID:   ownerID,
		Scope:     scope,
		Today:     today,
		Season:    season,
		ByRoutine: make([]RoutineMetrics, 0, len(rs)),
	}
	for _, r := range rs {
		m, err := a.RoutineMetrics(ctx, oc, r, scope, season, today)
		if err != nil {
			return nil, fmt.Errorf("metrics for routine %s: %w", r.ID(), err)
		}
		result.ByRoutine = append(result.ByRoutine, m)
	}
	result.Summary = Summarize(result.ByRoutine)
	return result, nil
}

// RoutineMetrics computes the metrics of a single routine.
//
// Fixed windows (7d, 30d) are not clipped to the routine's effective start:
// days before it count as valid days without a check. Only the season clips
// them. Streaks scan from the effective start through today, clipped to the
// season.
func (a *Aggregator) RoutineMetrics(ctx context.Context, oc *validity.OwnerCalendar, r *routines.Routine, scope Scope, season Period, today domain.Day) (RoutineMetrics, error) {
	m := RoutineMetrics{RoutineID: r.ID(), Name: r.Name()}

	start := r.EffectiveStart(a.boundary, today.AddDays(-FallbackHistory))
	window := season.Filter(WindowDates(scope, today, start))
	histFrom, histTo := season.Clip(start, today)

	loadFrom := histFrom
	if len(window) > 0 {
		loadFrom = domain.MinDay(loadFrom, window[0])
	}
	loadTo := domain.MaxDay(histTo, loadFrom)
	rows, err := a.checkins.ListForRoutine(ctx, r.ID(), loadFrom, loadTo)
	if err != nil {
		return m, err
	}
	byDay := make(map[domain.Day]*routines.Checkin, len(rows))
	for _, c := range rows {
		byDay[c.Day] = c
	}

	h := history{routine: r, calendar: oc, checkins: byDay, today: today}

	if m.Done, m.Valid, m.Paused, err = h.windowCounts(window); err != nil {
		return m, err
	}
	m.Rate = Rate(m.Done, m.Valid)

	days := domain.DayRange(histFrom, histTo)
	if m.MaxStreak, err = h.maxStreak(days); err != nil {
		return m, err
	}
	if m.CurrentStreak, err = h.currentStreak(days); err != nil {
		return m, err
	}
	return m, nil
}
