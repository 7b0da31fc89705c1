package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ValueObject represents an immutable domain concept defined by its attributes.
type ValueObject interface {
	Equals(other ValueObject) bool
}

// ErrInvalidTimeOfDay is returned for malformed HH:MM strings.
var ErrInvalidTimeOfDay = errors.New("invalid time of day, use HH:MM")

// TimeOfDay is a wall-clock time with minute precision.
type TimeOfDay struct {
	hour   int
	minute int
}

// NewTimeOfDay validates and creates a time of day.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: %02d:%02d", ErrInvalidTimeOfDay, hour, minute)
	}
	return TimeOfDay{hour: hour, minute: minute}, nil
}

// ParseTimeOfDay parses "HH:MM". A bare hour ("8") is accepted as HH:00.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return TimeOfDay{}, fmt.Errorf("%w: empty", ErrInvalidTimeOfDay)
	}
	hourPart, minutePart, hasMinute := strings.Cut(value, ":")
	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, value)
	}
	minute := 0
	if hasMinute {
		minute, err = strconv.Atoi(minutePart)
		if err != nil {
			return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, value)
		}
	}
	return NewTimeOfDay(hour, minute)
}

func (t TimeOfDay) Hour() int   { return t.hour }
func (t TimeOfDay) Minute() int { return t.minute }

// String formats as HH:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.hour, t.minute)
}

// Equals checks if two times of day are equal.
func (t TimeOfDay) Equals(other ValueObject) bool {
	if o, ok := other.(TimeOfDay); ok {
		return t == o
	}
	return false
}
