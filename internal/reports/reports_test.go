package reports_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nemodouble/godlife/internal/reports"
	routines "github.com/nemodouble/godlife/internal/routines/domain"
	"github.com/nemodouble/godlife/internal/shared/domain"
	"github.com/nemodouble/godlife/internal/validity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) domain.Day {
	return domain.MustParseDay(s)
}

type fakeCheckins struct {
	rows map[uuid.UUID]map[domain.Day]*routines.Checkin
	err  error
}

func newFakeCheckins() *fakeCheckins {
	return &fakeCheckins{rows: make(map[uuid.UUID]map[domain.Day]*routines.Checkin)}
}

func (f *fakeCheckins) done(r *routines.Routine, days ...string) {
	for _, s := range days {
		f.put(r, &routines.Checkin{RoutineID: r.ID(), OwnerID: r.OwnerID(), Day: day(s), CheckedAt: ptrTime(time.Now())})
	}
}

func (f *fakeCheckins) skip(r *routines.Routine, days ...string) {
	for _, s := range days {
		f.put(r, &routines.Checkin{RoutineID: r.ID(), OwnerID: r.OwnerID(), Day: day(s), Skipped: true})
	}
}

func (f *fakeCheckins) put(r *routines.Routine, c *routines.Checkin) {
	if f.rows[r.ID()] == nil {
		f.rows[r.ID()] = make(map[domain.Day]*routines.Checkin)
	}
	f.rows[r.ID()][c.Day] = c
}

func (f *fakeCheckins) ListForRoutine(ctx context.Context, routineID uuid.UUID, from, to domain.Day) ([]*routines.Checkin, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*routines.Checkin
	for d, c := range f.rows[routineID] {
		if d.Between(from, to) {
			out = append(out, c)
		}
	}
	return out, nil
}

type fixedExemptions []validity.Window

func (e fixedExemptions) ExemptionWindows(ctx context.Context, ownerID string) ([]validity.Window, error) {
	return e, nil
}

type holidaySet map[domain.Day]bool

func (h holidaySet) IsHoliday(d domain.Day) bool { return h[d] }

func ptrTime(t time.Time) *time.Time { return &t }

func newRoutine(t *testing.T, mode validity.WeekendMode, start string) *routines.Routine {
	t.Helper()
	r, err := routines.NewRoutine("owner-1", "Stretch", mode)
	require.NoError(t, err)
	r.SetStartDay(day(start))
	return r
}

func newAggregator(checkins reports.CheckinReader, holidays validity.HolidayCalendar, windows ...validity.Window) *reports.Aggregator {
	cal := validity.NewCalendar(holidays, fixedExemptions(windows))
	return reports.NewAggregator(checkins, cal, domain.DefaultDayBoundary(), nil)
}

func TestParseScope(t *testing.T) {
	scope, err := reports.ParseScope("")
	require.NoError(t, err)
	assert.Equal(t, reports.Scope7d, scope)

	scope, err = reports.ParseScope(" ALL ")
	require.NoError(t, err)
	assert.Equal(t, reports.ScopeAll, scope)

	_, err = reports.ParseScope("90d")
	assert.ErrorIs(t, err, reports.ErrInvalidScope)
}

func TestWindowDates(t *testing.T) {
	today := day("2025-01-10")

	week := reports.WindowDates(reports.Scope7d, today, domain.Day{})
	require.Len(t, week, 7)
	assert.Equal(t, day("2025-01-03"), week[0])
	assert.Equal(t, day("2025-01-09"), week[6])

	month := reports.WindowDates(reports.Scope30d, today, domain.Day{})
	require.Len(t, month, 30)
	assert.Equal(t, day("2024-12-11"), month[0])

	all := reports.WindowDates(reports.ScopeAll, today, day("2025-01-07"))
	assert.Equal(t, []domain.Day{day("2025-01-07"), day("2025-01-08"), day("2025-01-09")}, all)

	assert.Empty(t, reports.WindowDates(reports.ScopeAll, today, today), "today is never part of the window")
}

func TestPeriod_Clip(t *testing.T) {
	p := reports.Period{Start: day("2025-01-05")}
	from, to := p.Clip(day("2025-01-01"), day("2025-01-10"))
	assert.Equal(t, day("2025-01-05"), from)
	assert.Equal(t, day("2025-01-10"), to)

	p = reports.Period{Start: day("2025-01-05"), End: day("2025-01-07")}
	assert.True(t, p.Contains(day("2025-01-07")))
	assert.False(t, p.Contains(day("2025-01-08")))
	assert.True(t, reports.Period{}.Contains(day("1999-01-01")))
}

func TestClassify_Order(t *testing.T) {
	r := newRoutine(t, validity.WeekendModeWeekday, "2025-01-01")
	require.NoError(t, r.Pause(day("2025-01-01"), day("2025-01-31")))

	oc := validity.NewOwnerCalendar(
		holidaySet{day("2025-01-13"): true},
		[]validity.Window{{Start: day("2025-01-10"), End: day("2025-01-10")}},
	)
	today := day("2025-02-10")
	done := &routines.Checkin{CheckedAt: ptrTime(time.Now())}

	tests := []struct {
		name     string
		d        string
		checkin  *routines.Checkin
		expected reports.DayStatus
	}{
		{"exempt beats pause", "2025-01-10", done, reports.StatusExempt},
		{"weekend", "2025-01-11", done, reports.StatusNotApplicable},
		{"holiday beats pause", "2025-01-13", nil, reports.StatusHoliday},
		{"paused beats done", "2025-01-14", done, reports.StatusPaused},
		{"skip", "2025-02-03", &routines.Checkin{Skipped: true, CheckedAt: ptrTime(time.Now())}, reports.StatusSkipped},
		{"done", "2025-02-04", done, reports.StatusDone},
		{"missed", "2025-02-05", nil, reports.StatusMissed},
		{"today pending", "2025-02-10", nil, reports.StatusPending},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, err := reports.Classify(r, oc, day(tc.d), today, tc.checkin)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, status, status.String())
		})
	}
}

func TestAggregate_CurrentStreakSpansExemption(t *testing.T) {
	r := newRoutine(t, validity.WeekendModeWeekday, "2025-01-01")
	checkins := newFakeCheckins()
	checkins.done(r, "2025-01-01", "2025-01-02", "2025-01-03", "2025-01-06", "2025-01-07", "2025-01-08", "2025-01-09")
	checkins.done(r, "2025-01-13", "2025-01-14", "2025-01-15")

	agg := newAggregator(checkins, validity.NoHolidays{}, validity.Window{Start: day("2025-01-10"), End: day("2025-01-12")})
	m, err := agg.AggregateAsOf(context.Background(), "owner-1", []*routines.Routine{r}, reports.Scope7d, reports.Period{}, day("2025-01-16"))
	require.NoError(t, err)
	require.Len(t, m.ByRoutine, 1)

	got := m.ByRoutine[0]
	assert.Equal(t, 10, got.CurrentStreak)
	assert.Equal(t, 10, got.MaxStreak)
	assert.Equal(t, 4, got.Done)
	assert.Equal(t, 4, got.Valid)
	assert.Equal(t, 1.0, got.Rate)
}

func TestAggregate_MissedDayBreaksStreak(t *testing.T) {
	r := newRoutine(t, validity.WeekendModeAll, "2025-01-01")
	checkins := newFakeCheckins()
	checkins.done(r, "2025-01-01", "2025-01-02", "2025-01-03", "2025-01-05")
	checkins.skip(r, "2025-01-06")

	agg := newAggregator(checkins, nil)
	m, err := agg.AggregateAsOf(context.Background(), "owner-1", []*routines.Routine{r}, reports.ScopeAll, reports.Period{}, day("2025-01-07"))
	require.NoError(t, err)

	got := m.ByRoutine[0]
	assert.Equal(t, 3, got.MaxStreak)
	assert.Equal(t, 1, got.CurrentStreak, "skip is neutral, the 4th missed")
	assert.Equal(t, 4, got.Done)
	assert.Equal(t, 5, got.Valid, "skipped day is not valid")
	assert.InDelta(t, 0.8, got.Rate, 1e-9)
}

func TestAggregate_PausedDaysCountedWhenOtherwiseValid(t *testing.T) {
	r := newRoutine(t, validity.WeekendModeWeekday, "2025-01-01")
	require.NoError(t, r.Pause(day("2025-01-04"), day("2025-01-08")))
	checkins := newFakeCheckins()
	checkins.done(r, "2025-01-03", "2025-01-09")

	agg := newAggregator(checkins, nil)
	m, err := agg.AggregateAsOf(context.Background(), "owner-1", []*routines.Routine{r}, reports.Scope7d, reports.Period{}, day("2025-01-10"))
	require.NoError(t, err)

	got := m.ByRoutine[0]
	assert.Equal(t, 3, got.Paused, "the weekend inside the pause is not counted")
	assert.Equal(t, 2, got.Done)
	assert.Equal(t, 2, got.Valid)
	assert.Equal(t, 3, m.Summary.TotalPaused)
}

func TestAggregate_ZeroValidDays(t *testing.T) {
	r := newRoutine(t, validity.WeekendModeAll, "2025-01-10")

	agg := newAggregator(newFakeCheckins(), nil, validity.Window{Start: day("2024-12-01"), End: day("2025-01-09")})
	m, err := agg.AggregateAsOf(context.Background(), "owner-1", []*routines.Routine{r}, reports.Scope30d, reports.Period{}, day("2025-01-10"))
	require.NoError(t, err)

	got := m.ByRoutine[0]
	assert.Equal(t, 0, got.Valid)
	assert.Equal(t, 0.0, got.Rate)
	assert.Equal(t, 0, got.CurrentStreak, "pending today is neutral")
}

func TestAggregate_RateBounds(t *testing.T) {
	r := newRoutine(t, validity.WeekendModeAll, "2024-12-01")
	checkins := newFakeCheckins()
	checkins.done(r, "2024-12-03", "2024-12-10", "2024-12-24", "2025-01-05", "2025-01-06")

	agg := newAggregator(checkins, nil)
	for _, scope := range []reports.Scope{reports.Scope7d, reports.Scope30d, reports.ScopeAll} {
		m, err := agg.AggregateAsOf(context.Background(), "owner-1", []*routines.Routine{r}, scope, reports.Period{}, day("2025-01-10"))
		require.NoError(t, err)
		got := m.ByRoutine[0]
		assert.GreaterOrEqual(t, got.Rate, 0.0, scope)
		assert.LessOrEqual(t, got.Rate, 1.0, scope)
		assert.LessOrEqual(t, got.Done, got.Valid, scope)
	}
}

func TestAggregate_SeasonClipsWindowAndHistory(t *testing.T) {
	r := newRoutine(t, validity.WeekendModeAll, "2025-01-01")
	checkins := newFakeCheckins()
	checkins.done(r, "2025-01-01", "2025-01-02", "2025-01-03", "2025-01-04", "2025-01-05")
	checkins.done(r, "2025-01-08", "2025-01-09")

	agg := newAggregator(checkins, nil)
	season := reports.Period{Start: day("2025-01-07")}
	m, err := agg.AggregateAsOf(context.Background(), "owner-1", []*routines.Routine{r}, reports.Scope30d, season, day("2025-01-10"))
	require.NoError(t, err)

	got := m.ByRoutine[0]
	assert.Equal(t, 2, got.Done)
	assert.Equal(t, 3, got.Valid)
	assert.Equal(t, 2, got.MaxStreak, "the 5-day run before the season is ignored")
	assert.Equal(t, 2, got.CurrentStreak)
}

func TestAggregate_Summary(t *testing.T) {
	a := newRoutine(t, validity.WeekendModeAll, "2025-01-06")
	b := newRoutine(t, validity.WeekendModeAll, "2025-01-06")
	checkins := newFakeCheckins()
	checkins.done(a, "2025-01-06", "2025-01-07", "2025-01-08", "2025-01-09")
	checkins.done(b, "2025-01-06", "2025-01-07")

	agg := newAggregator(checkins, nil)
	m, err := agg.AggregateAsOf(context.Background(), "owner-1", []*routines.Routine{a, b}, reports.Scope7d, reports.Period{}, day("2025-01-10"))
	require.NoError(t, err)

	assert.InDelta(t, 3.0/7.0, m.Summary.AvgRate, 1e-9, "(4/7 + 2/7) / 2")
	assert.Equal(t, 6, m.Summary.TotalDone)
	assert.Equal(t, 14, m.Summary.TotalValid)
}

func TestAggregate_FixedWindowIgnoresRoutineStart(t *testing.T) {
	r := newRoutine(t, validity.WeekendModeAll, "2025-01-08")
	checkins := newFakeCheckins()
	checkins.done(r, "2025-01-08", "2025-01-09")
	agg := newAggregator(checkins, nil)
	today := day("2025-01-10")

	m, err := agg.AggregateAsOf(context.Background(), "owner-1", []*routines.Routine{r}, reports.Scope7d, reports.Period{}, today)
	require.NoError(t, err)
	got := m.ByRoutine[0]
	assert.Equal(t, 2, got.Done)
	assert.Equal(t, 7, got.Valid, "window is 2025-01-03..2025-01-09")
	assert.InDelta(t, 2.0/7.0, got.Rate, 1e-9)
	assert.Equal(t, 2, got.CurrentStreak)

	m, err = agg.AggregateAsOf(context.Background(), "owner-1", []*routines.Routine{r}, reports.ScopeAll, reports.Period{}, today)
	require.NoError(t, err)
	assert.Equal(t, 2, m.ByRoutine[0].Valid, "all starts at the routine start")
	assert.Equal(t, 1.0, m.ByRoutine[0].Rate)
}

func TestAggregate_NoRoutines(t *testing.T) {
	agg := newAggregator(newFakeCheckins(), nil)
	m, err := agg.AggregateAsOf(context.Background(), "owner-1", nil, reports.Scope7d, reports.Period{}, day("2025-01-10"))
	require.NoError(t, err)

	assert.Empty(t, m.ByRoutine)
	assert.Equal(t, reports.Summary{}, m.Summary)
}

func TestAggregate_CheckinError(t *testing.T) {
	r := newRoutine(t, validity.WeekendModeAll, "2025-01-01")
	checkins := newFakeCheckins()
	checkins.err = errors.New("db down")

	agg := newAggregator(checkins, nil)
	_, err := agg.AggregateAsOf(context.Background(), "owner-1", []*routines.Routine{r}, reports.Scope7d, reports.Period{}, day("2025-01-10"))
	assert.Error(t, err)
}

func TestRate(t *testing.T) {
	assert.Equal(t, 0.0, reports.Rate(0, 0))
	assert.Equal(t, 0.5, reports.Rate(1, 2))
}
