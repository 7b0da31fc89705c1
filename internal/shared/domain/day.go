package domain

import (
	"errors"
	"fmt"
	"time"
)

// DayLayout is the storage and display layout of a Day.
const DayLayout = "2006-01-02"

// ErrInvalidDay is returned when a day string cannot be parsed.
var ErrInvalidDay = errors.New("invalid day, use YYYY-MM-DD")

// Day is a civil calendar date without time or location.
// The zero value represents "no day" and is reported by IsZero.
type Day struct {
	year  int
	month time.Month
	day   int
}

// NewDay creates a day, normalizing out-of-range values the way time.Date does.
func NewDay(year int, month time.Month, day int) Day {
	return DayOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DayOf returns the calendar date of t in t's own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{year: y, month: m, day: d}
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(value string) (Day, error) {
	t, err := time.Parse(DayLayout, value)
	if err != nil {
		return Day{}, fmt.Errorf("%w: %q", ErrInvalidDay, value)
	}
	return DayOf(t), nil
}

// MustParseDay parses a day and panics on malformed input. Intended for tests and constants.
func MustParseDay(value string) Day {
	d, err := ParseDay(value)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Day) Year() int             { return d.year }
func (d Day) Month() time.Month     { return d.month }
func (d Day) DayOfMonth() int       { return d.day }
func (d Day) IsZero() bool          { return d.year == 0 && d.month == 0 && d.day == 0 }
func (d Day) Weekday() time.Weekday { return d.utc().Weekday() }

// Time returns midnight of the day in loc.
func (d Day) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, loc)
}

// AddDays returns the day n days later (n may be negative).
func (d Day) AddDays(n int) Day {
	return DayOf(d.utc().AddDate(0, 0, n))
}

// DaysUntil returns the number of days from d to other (negative when other is earlier).
func (d Day) DaysUntil(other Day) int {
	return int(other.utc().Sub(d.utc()).Hours() / 24)
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after other.
func (d Day) Compare(other Day) int {
	switch {
	case d.year != other.year:
		return cmpInt(d.year, other.year)
	case d.month != other.month:
		return cmpInt(int(d.month), int(other.month))
	default:
		return cmpInt(d.day, other.day)
	}
}

func (d Day) Before(other Day) bool { return d.Compare(other) < 0 }
func (d Day) After(other Day) bool  { return d.Compare(other) > 0 }

// Between reports whether from <= d <= to.
func (d Day) Between(from, to Day) bool {
	return !d.Before(from) && !d.After(to)
}

// String formats the day as YYYY-MM-DD. The zero day formats as an empty string.
func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.utc().Format(DayLayout)
}

// MarshalText implements encoding.TextMarshaler.
func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Day) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = Day{}
		return nil
	}
	parsed, err := ParseDay(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DayRange returns every day from from to to inclusive. It returns nil when to is before from.
func DayRange(from, to Day) []Day {
	if to.Before(from) {
		return nil
	}
	days := make([]Day, 0, from.DaysUntil(to)+1)
	for d := from; !d.After(to); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// MaxDay returns the later of two days.
func MaxDay(a, b Day) Day {
	if a.After(b) {
		return a
	}
	return b
}

// MinDay returns the earlier of two days.
func MinDay(a, b Day) Day {
	if a.Before(b) {
		return a
	}
	return b
}

func (d Day) utc() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
