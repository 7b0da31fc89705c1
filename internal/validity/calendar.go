package validity

import (
	"context"
	"fmt"

	"github.com/nemodouble/godlife/internal/shared/domain"
)

// Window is an inclusive range of days during which an owner is exempt.
type Window struct {
	Start domain.Day
	End   domain.Day
}

// Contains reports whether start <= d <= end.
func (w Window) Contains(d domain.Day) bool {
	return d.Between(w.Start, w.End)
}

// ExemptionSource loads an owner's exemption windows.
type ExemptionSource interface {
	ExemptionWindows(ctx context.Context, ownerID string) ([]Window, error)
}

// Calendar combines holidays with per-owner exemptions.
type Calendar struct {
	holidays   HolidayCalendar
	exemptions ExemptionSource
}

// NewCalendar creates a calendar. A nil holiday calendar means no holidays.
func NewCalendar(holidays HolidayCalendar, exemptions ExemptionSource) *Calendar {
	if holidays == nil {
		holidays = NoHolidays{}
	}
	return &Calendar{holidays: holidays, exemptions: exemptions}
}

// IsHoliday reports whether d is a public holiday.
func (c *Calendar) IsHoliday(d domain.Day) bool {
	return c.holidays.IsHoliday(d)
}

// IsExempt reports whether d falls inside any exemption window of the owner.
func (c *Calendar) IsExempt(ctx context.Context, ownerID string, d domain.Day) (bool, error) {
	oc, err := c.ForOwner(ctx, ownerID)
	if err != nil {
		return false, err
	}
	return oc.IsExempt(d), nil
}

// IsValidDay reports whether a routine with mode requires a checkin from ownerID on d.
func (c *Calendar) IsValidDay(ctx context.Context, ownerID string, mode WeekendMode, d domain.Day) (bool, error) {
	oc, err := c.ForOwner(ctx, ownerID)
	if err != nil {
		return false, err
	}
	return oc.IsValidDay(mode, d)
}

// ForOwner loads the owner's exemptions once so that many days can be checked
// without further queries.
func (c *Calendar) ForOwner(ctx context.Context, ownerID string) (*OwnerCalendar, error) {
	var windows []Window
	if c.exemptions != nil {
		var err error
		windows, err = c.exemptions.ExemptionWindows(ctx, ownerID)
		if err != nil {
			return nil, fmt.Errorf("load exemptions for %s: %w", ownerID, err)
		}
	}
	return NewOwnerCalendar(c.holidays, windows), nil
}

// OwnerCalendar answers validity questions for a single owner.
type OwnerCalendar struct {
	holidays HolidayCalendar
	windows  []Window
}

// NewOwnerCalendar binds holidays to a fixed set of exemption windows.
func NewOwnerCalendar(holidays HolidayCalendar, windows []Window) *OwnerCalendar {
	if holidays == nil {
		holidays = NoHolidays{}
	}
	return &OwnerCalendar{holidays: holidays, windows: windows}
}

// IsExempt reports whether d is inside an exemption window.
func (c *OwnerCalendar) IsExempt(d domain.Day) bool {
	for _, w := range c.windows {
		if w.Contains(d) {
			return true
		}
	}
	return false
}

// IsHoliday reports whether d is a public holiday.
func (c *OwnerCalendar) IsHoliday(d domain.Day) bool {
	return c.holidays.IsHoliday(d)
}

// IsValidDay requires a checkin only if the day is not exempt, the weekend
// mode applies and it is not a holiday. Exemption is checked first.
func (c *OwnerCalendar) IsValidDay(mode WeekendMode, d domain.Day) (bool, error) {
	if c.IsExempt(d) {
		return false, nil
	}
	applicable, err := IsApplicableDay(mode, d)
	if err != nil {
		return false, err
	}
	if !applicable {
		return false, nil
	}
	return !c.holidays.IsHoliday(d), nil
}
