package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/nemodouble/godlife/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	d, err := domain.ParseDay("2025-01-10")
	require.NoError(t, err)

	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, time.January, d.Month())
	assert.Equal(t, 10, d.DayOfMonth())
	assert.Equal(t, "2025-01-10", d.String())
}

func TestParseDay_Invalid(t *testing.T) {
	for _, input := range []string{"", "2025-13-01", "10/01/2025", "yesterday"} {
		_, err := domain.ParseDay(input)
		assert.ErrorIs(t, err, domain.ErrInvalidDay, input)
	}
}

func TestDay_AddDaysAcrossMonthAndYear(t *testing.T) {
	d := domain.MustParseDay("2024-12-31")

	assert.Equal(t, "2025-01-01", d.AddDays(1).String())
	assert.Equal(t, "2024-12-01", d.AddDays(-30).String())
	assert.Equal(t, "2024-02-29", domain.MustParseDay("2024-03-01").AddDays(-1).String())
}

func TestDay_CompareAndDaysUntil(t *testing.T) {
	a := domain.MustParseDay("2025-01-03")
	b := domain.MustParseDay("2025-01-10")

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.Equal(t, 7, a.DaysUntil(b))
	assert.Equal(t, -7, b.DaysUntil(a))
	assert.True(t, domain.MustParseDay("2025-01-05").Between(a, b))
	assert.True(t, a.Between(a, b))
	assert.False(t, b.AddDays(1).Between(a, b))
}

func TestDay_IsComparableMapKey(t *testing.T) {
	seen := map[domain.Day]bool{domain.MustParseDay("2025-01-03"): true}

	assert.True(t, seen[domain.NewDay(2025, time.January, 3)])
	assert.False(t, seen[domain.NewDay(2025, time.January, 4)])
}

func TestDay_ZeroValue(t *testing.T) {
	var d domain.Day

	assert.True(t, d.IsZero())
	assert.Equal(t, "", d.String())
	assert.False(t, domain.MustParseDay("2025-01-01").IsZero())
}

func TestDay_Weekday(t *testing.T) {
	assert.Equal(t, time.Friday, domain.MustParseDay("2025-01-10").Weekday())
	assert.Equal(t, time.Saturday, domain.MustParseDay("2025-01-11").Weekday())
}

func TestDayRange(t *testing.T) {
	days := domain.DayRange(domain.MustParseDay("2025-01-30"), domain.MustParseDay("2025-02-02"))

	require.Len(t, days, 4)
	assert.Equal(t, "2025-01-30", days[0].String())
	assert.Equal(t, "2025-02-02", days[3].String())
	assert.Nil(t, domain.DayRange(domain.MustParseDay("2025-02-02"), domain.MustParseDay("2025-01-30")))
}

func TestDay_JSON(t *testing.T) {
	type payload struct {
		Day domain.Day `json:"day"`
	}

	raw, err := json.Marshal(payload{Day: domain.MustParseDay("2025-11-12")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"day":"2025-11-12"}`, string(raw))

	var decoded payload
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, domain.MustParseDay("2025-11-12"), decoded.Day)
}

func TestDayBoundary_LocalDayTransition(t *testing.T) {
	boundary := domain.DefaultDayBoundary()
	loc := boundary.Location

	beforeBoundary := time.Date(2025, 11, 11, 3, 59, 0, 0, loc)
	atBoundary := time.Date(2025, 11, 11, 4, 0, 0, 0, loc)

	assert.Equal(t, "2025-11-10", boundary.LocalDay(beforeBoundary).String())
	assert.Equal(t, "2025-11-11", boundary.LocalDay(atBoundary).String())
	assert.Equal(t, boundary.LocalDay(atBoundary).AddDays(-1), boundary.LocalDay(beforeBoundary))
}

func TestDayBoundary_LocalDayTransitionHoldsAcrossDates(t *testing.T) {
	boundary := domain.DefaultDayBoundary()
	start := domain.MustParseDay("2024-12-25")

	for i := 0; i < 400; i += 7 {
		d := start.AddDays(i)
		midnight := d.Time(boundary.Location)
		late := midnight.Add(3*time.Hour + 59*time.Minute)
		onTime := midnight.Add(4 * time.Hour)

		assert.Equal(t, boundary.LocalDay(onTime).AddDays(-1), boundary.LocalDay(late), d.String())
	}
}

func TestDayBoundary_ConvertsFromOtherZones(t *testing.T) {
	boundary := domain.DefaultDayBoundary()

	// 18:59 UTC is 03:59 the next morning in Seoul.
	utcInstant := time.Date(2025, 11, 10, 18, 59, 0, 0, time.UTC)
	assert.Equal(t, "2025-11-10", boundary.LocalDay(utcInstant).String())
	assert.Equal(t, "2025-11-11", boundary.LocalDay(utcInstant.Add(time.Minute)).String())
}

func TestDayBoundary_Start(t *testing.T) {
	boundary := domain.DefaultDayBoundary()
	d := domain.MustParseDay("2025-11-11")

	start := boundary.Start(d)

	assert.Equal(t, d, boundary.LocalDay(start))
	assert.Equal(t, d.AddDays(-1), boundary.LocalDay(start.Add(-time.Nanosecond)))
}

func TestNewDayBoundary_InvalidTimezone(t *testing.T) {
	_, err := domain.NewDayBoundary("Mars/Olympus", domain.DefaultDayOffset)
	assert.Error(t, err)
}
