// Package validity decides which local days require a routine checkin.
// A day is valid for a routine when the owner is not exempt, the routine's
// weekend mode applies and the day is not a public holiday.
package validity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nemodouble/godlife/internal/shared/domain"
)

// WeekendMode selects which days of the week a routine applies to.
type WeekendMode string

const (
	WeekendModeWeekday WeekendMode = "weekday"
	WeekendModeWeekend WeekendMode = "weekend"
	WeekendModeAll     WeekendMode = "all"
)

// ErrInvalidWeekendMode is returned for modes other than weekday, weekend and all.
var ErrInvalidWeekendMode = errors.New("invalid weekend mode")

// ParseWeekendMode normalizes and validates a weekend mode string.
func ParseWeekendMode(value string) (WeekendMode, error) {
	mode := WeekendMode(strings.ToLower(strings.TrimSpace(value)))
	if !mode.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidWeekendMode, value)
	}
	return mode, nil
}

// IsValid returns true for the three known modes.
func (m WeekendMode) IsValid() bool {
	switch m {
	case WeekendModeWeekday, WeekendModeWeekend, WeekendModeAll:
		return true
	default:
		return false
	}
}

// IsWeekend reports whether d is a Saturday or Sunday.
func IsWeekend(d domain.Day) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsApplicableDay reports whether a routine with the given mode applies on d.
func IsApplicableDay(mode WeekendMode, d domain.Day) (bool, error) {
	switch mode {
	case WeekendModeAll:
		return true, nil
	case WeekendModeWeekday:
		return !IsWeekend(d), nil
	case WeekendModeWeekend:
		return IsWeekend(d), nil
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidWeekendMode, string(mode))
	}
}
