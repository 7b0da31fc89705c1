package validity_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nemodouble/godlife/internal/shared/domain"
	"github.com/nemodouble/godlife/internal/validity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExemptions struct {
	windows map[string][]validity.Window
	calls   int
	err     error
}

func (s *stubExemptions) ExemptionWindows(ctx context.Context, ownerID string) ([]validity.Window, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.windows[ownerID], nil
}

func day(s string) domain.Day {
	return domain.MustParseDay(s)
}

func TestParseWeekendMode(t *testing.T) {
	mode, err := validity.ParseWeekendMode(" Weekday ")
	require.NoError(t, err)
	assert.Equal(t, validity.WeekendModeWeekday, mode)

	_, err = validity.ParseWeekendMode("sometimes")
	assert.ErrorIs(t, err, validity.ErrInvalidWeekendMode)
}

func TestIsWeekend(t *testing.T) {
	assert.False(t, validity.IsWeekend(day("2025-01-10"))) // Friday
	assert.True(t, validity.IsWeekend(day("2025-01-11")))  // Saturday
	assert.True(t, validity.IsWeekend(day("2025-01-12")))  // Sunday
	assert.False(t, validity.IsWeekend(day("2025-01-13"))) // Monday
}

func TestIsApplicableDay(t *testing.T) {
	friday := day("2025-01-10")
	saturday := day("2025-01-11")

	tests := []struct {
		mode     validity.WeekendMode
		d        domain.Day
		expected bool
	}{
		{validity.WeekendModeAll, friday, true},
		{validity.WeekendModeAll, saturday, true},
		{validity.WeekendModeWeekday, friday, true},
		{validity.WeekendModeWeekday, saturday, false},
		{validity.WeekendModeWeekend, friday, false},
		{validity.WeekendModeWeekend, saturday, true},
	}

	for _, tc := range tests {
		t.Run(string(tc.mode)+"/"+tc.d.String(), func(t *testing.T) {
			got, err := validity.IsApplicableDay(tc.mode, tc.d)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestIsApplicableDay_InvalidMode(t *testing.T) {
	_, err := validity.IsApplicableDay(validity.WeekendMode("holiday"), day("2025-01-10"))
	assert.ErrorIs(t, err, validity.ErrInvalidWeekendMode)
}

func TestKoreanHolidays(t *testing.T) {
	cal, err := validity.LoadHolidayCalendar("KR", "")
	require.NoError(t, err)

	holidays := []string{"2025-01-01", "2025-01-28", "2025-03-01", "2025-03-03", "2025-05-06", "2025-10-06", "2025-10-09", "2025-12-25", "2031-08-15"}
	for _, h := range holidays {
		assert.True(t, cal.IsHoliday(day(h)), h)
	}

	workdays := []string{"2025-01-02", "2025-01-10", "2025-07-01", "2025-10-10"}
	for _, w := range workdays {
		assert.False(t, cal.IsHoliday(day(w)), w)
	}
}

func TestKoreanHolidays_ComputedOutsideCuratedYears(t *testing.T) {
	var logs bytes.Buffer
	table, err := validity.LoadHolidayCalendar("KR", "")
	require.NoError(t, err)
	kr := table.(*validity.TableHolidays).WithLogger(slog.New(slog.NewTextHandler(&logs, nil)))

	assert.True(t, kr.Curated(2025))
	assert.False(t, kr.Curated(2023))
	assert.False(t, kr.Curated(2028))

	tests := []struct {
		d    string
		name string
	}{
		{"2023-01-22", "Seollal"},
		{"2023-01-23", "Seollal"},
		{"2023-01-24", "Substitute holiday (Seollal)"},
		{"2023-05-27", "Buddha's Birthday"},
		{"2023-05-29", "Substitute holiday (Buddha's Birthday)"},
		{"2023-09-29", "Chuseok"},
		{"2028-01-27", "Seollal"},
		{"2028-05-02", "Buddha's Birthday"},
		{"2028-10-04", "Chuseok"},
		{"2028-10-05", "Substitute holiday (Chuseok)"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.name, kr.HolidayName(day(tc.d)), tc.d)
	}

	assert.False(t, kr.IsHoliday(day("2028-10-06")), "one substitute for the shared Oct 3")
	assert.False(t, kr.IsHoliday(day("2023-01-25")))

	assert.Equal(t, 2, strings.Count(logs.String(), "holidays computed from rules"), "one warning per computed year")
	kr.IsHoliday(day("2025-05-06"))
	assert.Equal(t, 2, strings.Count(logs.String(), "holidays computed from rules"), "curated years do not warn")
}

func TestTableHolidays_CachesPerYear(t *testing.T) {
	table, err := validity.ParseHolidayTable([]byte(`
country: xx
fixed:
  - date: "02-29"
    name: Leap day
  - date: "07-04"
    name: Summer
dates:
  - date: "2025-03-10"
    name: One-off
`))
	require.NoError(t, err)

	assert.Equal(t, "XX", table.Country())
	assert.True(t, table.IsHoliday(day("2024-02-29")))
	assert.False(t, table.IsHoliday(day("2025-03-01")), "Feb 29 must not roll into March")
	assert.Equal(t, "One-off", table.HolidayName(day("2025-03-10")))
	assert.Equal(t, []domain.Day{day("2025-03-10"), day("2025-07-04")}, table.Holidays(2025))
	assert.Equal(t, []domain.Day{day("2026-07-04")}, table.Holidays(2026))
}

func TestParseHolidayTable_Malformed(t *testing.T) {
	_, err := validity.ParseHolidayTable([]byte("fixed:\n  - date: \"13-45\"\n"))
	assert.ErrorIs(t, err, validity.ErrMalformedHolidayTable)

	_, err = validity.ParseHolidayTable([]byte("dates: [oops"))
	assert.ErrorIs(t, err, validity.ErrMalformedHolidayTable)

	_, err = validity.ParseHolidayTable([]byte("lunar:\n  - date: \"01-01\"\n    substitute: monday\n"))
	assert.ErrorIs(t, err, validity.ErrMalformedHolidayTable)
}

func TestLoadHolidayCalendar_UnknownCountryHasNoHolidays(t *testing.T) {
	cal, err := validity.LoadHolidayCalendar("ZZ", "")
	require.NoError(t, err)

	assert.False(t, cal.IsHoliday(day("2025-01-01")))
}

func TestLoadHolidayCalendar_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("country: custom\ndates:\n  - date: \"2025-04-01\"\n    name: Founders day\n"), 0o600))

	cal, err := validity.LoadHolidayCalendar("KR", path)
	require.NoError(t, err)

	assert.True(t, cal.IsHoliday(day("2025-04-01")))
	assert.False(t, cal.IsHoliday(day("2025-01-01")), "file replaces the embedded table")
}

func TestCalendar_IsExempt(t *testing.T) {
	source := &stubExemptions{windows: map[string][]validity.Window{
		"owner-1": {{Start: day("2025-01-10"), End: day("2025-01-12")}},
	}}
	cal := validity.NewCalendar(validity.NoHolidays{}, source)
	ctx := context.Background()

	for _, d := range []string{"2025-01-10", "2025-01-11", "2025-01-12"} {
		exempt, err := cal.IsExempt(ctx, "owner-1", day(d))
		require.NoError(t, err)
		assert.True(t, exempt, d)
	}

	exempt, err := cal.IsExempt(ctx, "owner-1", day("2025-01-13"))
	require.NoError(t, err)
	assert.False(t, exempt)

	exempt, err = cal.IsExempt(ctx, "owner-2", day("2025-01-10"))
	require.NoError(t, err)
	assert.False(t, exempt, "exemptions are per owner")
}

func TestCalendar_IsValidDay(t *testing.T) {
	holidays, err := validity.LoadHolidayCalendar("KR", "")
	require.NoError(t, err)
	source := &stubExemptions{windows: map[string][]validity.Window{
		"owner-1": {{Start: day("2025-01-20"), End: day("2025-01-21")}},
	}}
	cal := validity.NewCalendar(holidays, source)
	ctx := context.Background()

	tests := []struct {
		name     string
		mode     validity.WeekendMode
		d        string
		expected bool
	}{
		{"plain weekday", validity.WeekendModeWeekday, "2025-01-10", true},
		{"weekend for weekday routine", validity.WeekendModeWeekday, "2025-01-11", false},
		{"weekend routine on saturday", validity.WeekendModeWeekend, "2025-01-11", true},
		{"holiday", validity.WeekendModeAll, "2025-01-01", false},
		{"exempt weekday", validity.WeekendModeWeekday, "2025-01-20", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			valid, err := cal.IsValidDay(ctx, "owner-1", tc.mode, day(tc.d))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, valid)
		})
	}
}

func TestOwnerCalendar_ExemptionShortCircuits(t *testing.T) {
	oc := validity.NewOwnerCalendar(nil, []validity.Window{{Start: day("2025-01-10"), End: day("2025-01-10")}})

	valid, err := oc.IsValidDay(validity.WeekendMode("bogus"), day("2025-01-10"))
	require.NoError(t, err, "exemption is checked before the weekend mode")
	assert.False(t, valid)

	_, err = oc.IsValidDay(validity.WeekendMode("bogus"), day("2025-01-13"))
	assert.ErrorIs(t, err, validity.ErrInvalidWeekendMode)
}

func TestCalendar_ForOwnerLoadsOnce(t *testing.T) {
	source := &stubExemptions{}
	cal := validity.NewCalendar(nil, source)

	oc, err := cal.ForOwner(context.Background(), "owner-1")
	require.NoError(t, err)
	for _, d := range domain.DayRange(day("2025-01-01"), day("2025-01-31")) {
		_, _ = oc.IsValidDay(validity.WeekendModeAll, d)
	}

	assert.Equal(t, 1, source.calls)
}

func TestCalendar_ExemptionSourceError(t *testing.T) {
	source := &stubExemptions{err: errors.New("db down")}
	cal := validity.NewCalendar(nil, source)

	_, err := cal.IsValidDay(context.Background(), "owner-1", validity.WeekendModeAll, day("2025-01-10"))
	assert.Error(t, err)
}
