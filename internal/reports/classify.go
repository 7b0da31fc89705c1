package reports

import (
	routines "github.com/nemodouble/godlife/internal/routines/domain"
	"github.com/nemodouble/godlife/internal/shared/domain"
	"github.com/nemodouble/godlife/internal/validity"
)

// DayStatus classifies one routine on one day.
type DayStatus int

const (
	StatusExempt DayStatus = iota
	StatusNotApplicable
	StatusHoliday
	StatusPaused
	StatusSkipped
	StatusDone
	StatusMissed
	StatusPending
)

var statusNames = map[DayStatus]string{
	StatusExempt:        "exempt",
	StatusNotApplicable: "not_applicable",
	StatusHoliday:       "holiday",
	StatusPaused:        "paused",
	StatusSkipped:       "skipped",
	StatusDone:          "done",
	StatusMissed:        "missed",
	StatusPending:       "pending",
}

func (s DayStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// Required reports whether the day counts in the denominator.
func (s DayStatus) Required() bool {
	return s == StatusDone || s == StatusMissed
}

// Neutral reports whether the day neither extends nor breaks a streak.
func (s DayStatus) Neutral() bool {
	return !s.Required()
}

// Classify decides the status of routine on d. The checks run in this order:
// exemption, weekend mode, holiday, pause, skip, done. An exempt day is never
// reported as paused. A day without action is pending on today and missed
// before it.
func Classify(routine *routines.Routine, oc *validity.OwnerCalendar, d, today domain.Day, checkin *routines.Checkin) (DayStatus, error) {
	if oc.IsExempt(d) {
		return StatusExempt, nil
	}
	applicable, err := validity.IsApplicableDay(routine.WeekendMode(), d)
	if err != nil {
		return 0, err
	}
	if !applicable {
		return StatusNotApplicable, nil
	}
	if oc.IsHoliday(d) {
		return StatusHoliday, nil
	}
	if routine.IsPausedOn(d) {
		return StatusPaused, nil
	}

	switch checkin.State() {
	case routines.CheckinSkipped:
		return StatusSkipped, nil
	case routines.CheckinDone:
		return StatusDone, nil
	}
	if !d.Before(today) {
		return StatusPending, nil
	}
	return StatusMissed, nil
}
