package queries

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nemodouble/godlife/internal/routines/domain"
	sharedDomain "github.com/nemodouble/godlife/internal/shared/domain"
	"github.com/nemodouble/godlife/internal/validity"
)

type stubRoutines struct {
	domain.RoutineRepository
	routines []*domain.Routine
}

func (s *stubRoutines) FindActiveByOwner(_ context.Context, ownerID string) ([]*domain.Routine, error) {
	var out []*domain.Routine
	for _, r := range s.routines {
		if r.OwnerID() == ownerID && r.IsActive() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubRoutines) FindByOwner(_ context.Context, ownerID string) ([]*domain.Routine, error) {
	var out []*domain.Routine
	for _, r := range s.routines {
		if r.OwnerID() == ownerID {
			out = append(out, r)
		}
	}
	return out, nil
}

type stubCheckins struct {
	domain.CheckinRepository
	checkins []*domain.Checkin
}

func (s *stubCheckins) ListForOwnerDay(_ context.Context, ownerID string, d sharedDomain.Day) ([]*domain.Checkin, error) {
	var out []*domain.Checkin
	for _, c := range s.checkins {
		if c.OwnerID == ownerID && c.Day == d {
			out = append(out, c)
		}
	}
	return out, nil
}

type stubExemptions struct {
	windows []validity.Window
}

func (s stubExemptions) ExemptionWindows(context.Context, string) ([]validity.Window, error) {
	return s.windows, nil
}

func mustRoutine(t *testing.T, name string, mode validity.WeekendMode) *domain.Routine {
	t.Helper()
	r, err := domain.NewRoutine("owner-1", name, mode)
	require.NoError(t, err)
	return r
}

func TestDayBoardHandler(t *testing.T) {
	friday := sharedDomain.MustParseDay("2025-01-10")
	now := time.Now()

	read := mustRoutine(t, "Read", validity.WeekendModeWeekday)
	run := mustRoutine(t, "Run", validity.WeekendModeAll)
	weekend := mustRoutine(t, "Clean", validity.WeekendModeWeekend)
	paused := mustRoutine(t, "Guitar", validity.WeekendModeAll)
	require.NoError(t, paused.Pause(friday, sharedDomain.Day{}))

	routines := &stubRoutines{routines: []*domain.Routine{read, run, weekend, paused}}
	checkins := &stubCheckins{checkins: []*domain.Checkin{
		{ID: uuid.New(), RoutineID: read.ID(), OwnerID: "owner-1", Day: friday, CheckedAt: &now},
	}}
	handler := NewDayBoardHandler(routines, checkins, validity.NewCalendar(nil, stubExemptions{}))

	board, err := handler.Handle(context.Background(), DayBoardQuery{OwnerID: "owner-1", Day: friday})
	require.NoError(t, err)
	require.Len(t, board.Routines, 4)

	assert.Equal(t, domain.CheckinDone, board.Routines[0].State)
	assert.True(t, board.Routines[0].Required)
	assert.Equal(t, domain.CheckinNeither, board.Routines[1].State)
	assert.False(t, board.Routines[2].Required, "weekend routine on a friday")
	assert.True(t, board.Routines[3].Paused)
	assert.False(t, board.Routines[3].Required)

	open := board.Open()
	require.Len(t, open, 1)
	assert.Equal(t, "Run", open[0].Name)
}

func TestDayBoardHandler_ExemptDayRequiresNothing(t *testing.T) {
	friday := sharedDomain.MustParseDay("2025-01-10")
	routines := &stubRoutines{routines: []*domain.Routine{mustRoutine(t, "Read", validity.WeekendModeAll)}}
	calendar := validity.NewCalendar(nil, stubExemptions{windows: []validity.Window{{Start: friday, End: friday}}})

	board, err := NewDayBoardHandler(routines, &stubCheckins{}, calendar).Handle(context.Background(), DayBoardQuery{OwnerID: "owner-1", Day: friday})

	require.NoError(t, err)
	assert.Empty(t, board.Open())
}

func TestListRoutinesHandler(t *testing.T) {
	active := mustRoutine(t, "Read", validity.WeekendModeAll)
	deadline, err := sharedDomain.NewTimeOfDay(7, 5)
	require.NoError(t, err)
	active.SetDeadline(&deadline)
	inactive := mustRoutine(t, "Old", validity.WeekendModeAll)
	inactive.Deactivate()
	handler := NewListRoutinesHandler(&stubRoutines{routines: []*domain.Routine{active, inactive}})

	dtos, err := handler.Handle(context.Background(), ListRoutinesQuery{OwnerID: "owner-1"})
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	assert.Equal(t, "07:05", dtos[0].Deadline)
	assert.Equal(t, "all", dtos[0].WeekendMode)

	dtos, err = handler.Handle(context.Background(), ListRoutinesQuery{OwnerID: "owner-1", IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, dtos, 2)
}

type stubSettings struct {
	settings map[string]*domain.UserSettings
}

func (s *stubSettings) Get(_ context.Context, ownerID string) (*domain.UserSettings, error) {
	return s.settings[ownerID], nil
}

func (s *stubSettings) Save(_ context.Context, settings *domain.UserSettings) error {
	s.settings[settings.OwnerID] = settings
	return nil
}

func TestOwnerDays_UsesOwnerTimezone(t *testing.T) {
	repo := &stubSettings{settings: map[string]*domain.UserSettings{
		"owner-utc": {OwnerID: "owner-utc", Timezone: "UTC"},
	}}
	settings := NewGetSettingsHandler(repo, domain.SettingsDefaults{Timezone: "Asia/Seoul"})

	// 2025-01-10 20:30 UTC is 2025-01-11 05:30 in Seoul.
	clock := sharedDomain.FixedClock{At: time.Date(2025, 1, 10, 20, 30, 0, 0, time.UTC)}
	days := NewOwnerDays(settings, sharedDomain.DefaultDayOffset, clock)
	ctx := context.Background()

	today, err := days.Today(ctx, "owner-utc")
	require.NoError(t, err)
	assert.Equal(t, sharedDomain.MustParseDay("2025-01-10"), today)

	today, err = days.Today(ctx, "owner-new")
	require.NoError(t, err)
	assert.Equal(t, sharedDomain.MustParseDay("2025-01-11"), today, "owners without settings use the default zone")
}
