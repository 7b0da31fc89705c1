package reports_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nemodouble/godlife/internal/reports"
	routines "github.com/nemodouble/godlife/internal/routines/domain"
	seasons "github.com/nemodouble/godlife/internal/seasons/domain"
	"github.com/nemodouble/godlife/internal/shared/domain"
	"github.com/nemodouble/godlife/internal/validity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRoutineLister []*routines.Routine

func (s stubRoutineLister) FindActiveByOwner(context.Context, string) ([]*routines.Routine, error) {
	return s, nil
}

type stubSeasons struct {
	current *seasons.Season
	byID    map[uuid.UUID]*seasons.Season
}

func (s *stubSeasons) GetOrCreateCurrent(context.Context, string) (*seasons.Season, error) {
	return s.current, nil
}

func (s *stubSeasons) Get(_ context.Context, _ string, id uuid.UUID) (*seasons.Season, error) {
	if season, ok := s.byID[id]; ok {
		return season, nil
	}
	return nil, seasons.ErrSeasonNotFound
}

type stubSettings struct {
	settings *routines.UserSettings
}

func (s stubSettings) Handle(context.Context, string) (*routines.UserSettings, error) {
	return s.settings, nil
}

func newService(t *testing.T, checkins *fakeCheckins, rs []*routines.Routine, ss *stubSeasons) *reports.Service {
	t.Helper()
	// 2025-01-10 03:00 UTC is 12:00 in Seoul.
	clock := domain.FixedClock{At: time.Date(2025, 1, 10, 3, 0, 0, 0, time.UTC)}
	agg := reports.NewAggregator(checkins, validity.NewCalendar(nil, fixedExemptions(nil)), domain.DefaultDayBoundary(), clock)
	settings := stubSettings{settings: &routines.UserSettings{OwnerID: "owner-1", Timezone: "Asia/Seoul", Locale: routines.LocaleKorean}}
	return reports.NewService(stubRoutineLister(rs), ss, settings, agg, nil)
}

func TestService_GenerateCurrentSeason(t *testing.T) {
	strong := newRoutine(t, validity.WeekendModeAll, "2025-01-01")
	weak, err := routines.NewRoutine("owner-1", "Journal", validity.WeekendModeAll)
	require.NoError(t, err)
	weak.SetStartDay(day("2025-01-01"))

	checkins := newFakeCheckins()
	checkins.done(strong, "2025-01-03", "2025-01-04", "2025-01-05", "2025-01-06", "2025-01-07", "2025-01-08", "2025-01-09")
	checkins.done(weak, "2025-01-09")

	current, err := seasons.NewSeason("owner-1", "", day("2025-01-01"))
	require.NoError(t, err)
	svc := newService(t, checkins, []*routines.Routine{weak, strong}, &stubSeasons{current: current})

	report, err := svc.Generate(context.Background(), reports.GenerateRequest{OwnerID: "owner-1"})
	require.NoError(t, err)

	assert.Equal(t, day("2025-01-10"), report.Metrics.Today)
	assert.Equal(t, current.ID(), report.SeasonID)
	assert.Contains(t, report.Text, "시즌: 현재 시즌 (2025-01-01~진행중)")
	assert.Contains(t, report.Text, "기간: 최근 7일")
	assert.Contains(t, report.Text, "평균 달성률: 57.1%")
	assert.Less(t, strings.Index(report.Text, "Stretch"), strings.Index(report.Text, "Journal"), "sorted by rate")
	assert.Contains(t, report.Text, "최대 연속: 7일, 현재 연속: 7일")
}

func TestService_GenerateExplicitSeasonInEnglish(t *testing.T) {
	r := newRoutine(t, validity.WeekendModeAll, "2024-12-01")
	checkins := newFakeCheckins()
	checkins.done(r, "2024-12-30", "2024-12-31")

	old, err := seasons.NewSeason("owner-1", "Winter", day("2024-12-01"))
	require.NoError(t, err)
	require.NoError(t, old.Close(day("2024-12-31"), time.Now()))
	ss := &stubSeasons{byID: map[uuid.UUID]*seasons.Season{old.ID(): old}}
	svc := newService(t, checkins, []*routines.Routine{r}, ss)

	id := old.ID()
	report, err := svc.Generate(context.Background(), reports.GenerateRequest{
		OwnerID:  "owner-1",
		Scope:    reports.Scope30d,
		SeasonID: &id,
		Locale:   routines.LocaleEnglish,
	})
	require.NoError(t, err)

	got := report.Metrics.ByRoutine[0]
	assert.Equal(t, 2, got.Done)
	assert.Equal(t, 21, got.Valid, "window 12-11..01-09 clipped to the season end")
	assert.Equal(t, 2, got.CurrentStreak)
	assert.Contains(t, report.Text, "Season: Winter (2024-12-01~2024-12-31)")
	assert.Contains(t, report.Text, "Period: last 30 days")
}

func TestService_GenerateRejectsUnknownSeasonAndScope(t *testing.T) {
	svc := newService(t, newFakeCheckins(), nil, &stubSeasons{})

	id := uuid.New()
	_, err := svc.Generate(context.Background(), reports.GenerateRequest{OwnerID: "owner-1", SeasonID: &id})
	assert.ErrorIs(t, err, seasons.ErrSeasonNotFound)

	_, err = svc.Generate(context.Background(), reports.GenerateRequest{OwnerID: "owner-1", Scope: "90d"})
	assert.ErrorIs(t, err, reports.ErrInvalidScope)
}

func TestRender_EmptyReport(t *testing.T) {
	m := &reports.UserMetrics{Scope: reports.ScopeAll, Today: day("2025-01-10")}

	text, err := reports.Render(m, nil, routines.LocaleKorean)
	require.NoError(t, err)
	assert.Contains(t, text, "기간: 전체 기간")
	assert.Contains(t, text, "집계할 데이터가 없습니다")
	assert.True(t, strings.HasSuffix(text, "2025-01-10 기준"))
	assert.NotContains(t, text, "시즌:")

	text, err = reports.Render(m, nil, routines.Locale("fr"))
	require.NoError(t, err)
	assert.Contains(t, text, "전체 기간", "unknown locales fall back to Korean")
}

func TestSortByRate(t *testing.T) {
	in := []reports.RoutineMetrics{{Name: "b", Rate: 0.5}, {Name: "a", Rate: 0.5}, {Name: "c", Rate: 1}}
	out := reports.SortByRate(in)

	assert.Equal(t, []string{"c", "a", "b"}, []string{out[0].Name, out[1].Name, out[2].Name})
	assert.Equal(t, "b", in[0].Name, "input is not reordered")
}
