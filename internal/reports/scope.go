// Package reports computes completion rates, streaks and paused-day counts
// for routines and renders them as owner reports.
package reports

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nemodouble/godlife/internal/shared/domain"
)

// ErrInvalidScope is returned for scopes other than 7d, 30d and all.
var ErrInvalidScope = errors.New("invalid report scope")

// Scope selects the report window.
type Scope string

const (
	Scope7d  Scope = "7d"
	Scope30d Scope = "30d"
	ScopeAll Scope = "all"
)

// FallbackHistory is how far back an "all" report reaches for routines
// without a known start.
const FallbackHistory = 365

// ParseScope validates a scope string. An empty string means 7d.
func ParseScope(value string) (Scope, error) {
	scope := Scope(strings.ToLower(strings.TrimSpace(value)))
	switch scope {
	case "":
		return Scope7d, nil
	case Scope7d, Scope30d, ScopeAll:
		return scope, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidScope, value)
	}
}

// Days returns the window length of fixed scopes and 0 for all.
func (s Scope) Days() int {
	switch s {
	case Scope7d:
		return 7
	case Scope30d:
		return 30
	default:
		return 0
	}
}

// WindowDates returns the days a report covers. Today is never included:
// 7d and 30d cover the N days strictly before today, all covers allStart
// through yesterday.
func WindowDates(scope Scope, today, allStart domain.Day) []domain.Day {
	yesterday := today.AddDays(-1)
	if n := scope.Days(); n > 0 {
		return domain.DayRange(today.AddDays(-n), yesterday)
	}
	return domain.DayRange(allStart, yesterday)
}

// Period is an optional inclusive day range. Zero bounds are open.
type Period struct {
	Start domain.Day
	End   domain.Day
}

// Clip narrows [from, to] to the period. The result may be empty (to < from).
func (p Period) Clip(from, to domain.Day) (domain.Day, domain.Day) {
	if !p.Start.IsZero() && from.Before(p.Start) {
		from = p.Start
	}
	if !p.End.IsZero() && to.After(p.End) {
		to = p.End
	}
	return from, to
}

// Contains reports whether d is inside the period.
func (p Period) Contains(d domain.Day) bool {
	if !p.Start.IsZero() && d.Before(p.Start) {
		return false
	}
	return p.End.IsZero() || !d.After(p.End)
}

// Filter keeps the days inside the period.
func (p Period) Filter(days []domain.Day) []domain.Day {
	out := make([]domain.Day, 0, len(days))
	for _, d := range days {
		if p.Contains(d) {
			out = append(out, d)
		}
	}
	return out
}
