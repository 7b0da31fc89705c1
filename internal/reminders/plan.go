package reminders

import (
	"time"

	"github.com/google/uuid"
	routines "github.com/nemodouble/godlife/internal/routines/domain"
	"github.com/nemodouble/godlife/internal/shared/domain"
)

// PlanDay returns the triggers of an owner for one calendar date in the
// owner's timezone: the daily prompt at the reminder time and one deadline
// reminder per routine. Keys carry the local day each instant belongs to.
func PlanDay(settings *routines.UserSettings, rs []*routines.Routine, date domain.Day, offset time.Duration) []Trigger {
	loc := settings.Location()
	boundary := settings.Boundary(offset)

	at := func(t domain.TimeOfDay) time.Time {
		return time.Date(date.Year(), date.Month(), date.DayOfMonth(), t.Hour(), t.Minute(), 0, 0, loc)
	}

	prompt := at(settings.ReminderTime)
	triggers := make([]Trigger, 0, len(rs)+1)
	triggers = append(triggers, Trigger{
		Key: TriggerKey{OwnerID: settings.OwnerID, Day: boundary.LocalDay(prompt), Kind: KindDailyPrompt, RoutineID: uuid.Nil},
		At:  prompt,
	})

	for _, r := range rs {
		if !r.IsActive() {
			continue
		}
		due := at(r.ReminderTime(settings.ReminderTime))
		triggers = append(triggers, Trigger{
			Key: TriggerKey{OwnerID: settings.OwnerID, Day: boundary.LocalDay(due), Kind: KindDeadlineReminder, RoutineID: r.ID()},
			At:  due,
		})
	}
	return triggers
}

// calendarDates returns the owner's calendar dates touched by [now-window, now].
func calendarDates(loc *time.Location, now time.Time, window time.Duration) []domain.Day {
	today := domain.DayOf(now.In(loc))
	earliest := domain.DayOf(now.Add(-window).In(loc))
	if earliest == today {
		return []domain.Day{today}
	}
	return []domain.Day{earliest, today}
}
