package domain

import (
	"fmt"
	"time"
)

const (
	// DefaultTimezone is the reference timezone used when an owner has not chosen one.
	DefaultTimezone = "Asia/Seoul"
	// DefaultDayOffset shifts the start of the operational day past midnight.
	DefaultDayOffset = 4 * time.Hour
)

// DayBoundary maps instants to operational local days.
// A local day starts Offset after midnight in Location, so with the default
// 4h offset activity at 03:59 still counts for the previous calendar date.
type DayBoundary struct {
	Location *time.Location
	Offset   time.Duration
}

// NewDayBoundary loads the named timezone and pairs it with offset.
func NewDayBoundary(timezone string, offset time.Duration) (DayBoundary, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return DayBoundary{}, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return DayBoundary{Location: loc, Offset: offset}, nil
}

// DefaultDayBoundary returns the Asia/Seoul boundary with a 4h offset.
// It falls back to a fixed UTC+9 zone when tzdata is unavailable.
func DefaultDayBoundary() DayBoundary {
	b, err := NewDayBoundary(DefaultTimezone, DefaultDayOffset)
	if err != nil {
		return DayBoundary{Location: time.FixedZone("KST", 9*60*60), Offset: DefaultDayOffset}
	}
	return b
}

// LocalDay returns the operational day t belongs to.
func (b DayBoundary) LocalDay(t time.Time) Day {
	return DayOf(t.In(b.location()).Add(-b.Offset))
}

// Start returns the instant the given local day begins.
func (b DayBoundary) Start(d Day) time.Time {
	return d.Time(b.location()).Add(b.Offset)
}

// In returns a copy of the boundary using loc, keeping the offset.
func (b DayBoundary) In(loc *time.Location) DayBoundary {
	return DayBoundary{Location: loc, Offset: b.Offset}
}

func (b DayBoundary) location() *time.Location {
	if b.Location == nil {
		return time.UTC
	}
	return b.Location
}

// Clock abstracts the current time so day math can be tested.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }
