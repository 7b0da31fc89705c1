package reports

import (
	"github.com/google/uuid"
	routines "github.com/nemodouble/godlife/internal/routines/domain"
	"github.com/nemodouble/godlife/internal/shared/domain"
	"github.com/nemodouble/godlife/internal/validity"
)

// RoutineMetrics holds the report numbers of one routine.
type RoutineMetrics struct {
	RoutineID     uuid.UUID `json:"routine_id"`
	Name          string    `json:"name"`
	Rate          float64   `json:"rate"`
	Done          int       `json:"done"`
	Valid         int       `json:"valid"`
	Paused        int       `json:"paused"`
	MaxStreak     int       `json:"max_streak"`
	CurrentStreak int       `json:"current_streak"`
}

// Summary rolls routine metrics up with equal weight per routine.
type Summary struct {
	AvgRate     float64 `json:"avg_rate"`
	TotalDone   int     `json:"total_done"`
	TotalValid  int     `json:"total_valid"`
	TotalPaused int     `json:"total_paused"`
}

// UserMetrics is the aggregate report of one owner.
type UserMetrics struct {
	OwnerID   string           `json:"owner_id"`
	Scope     Scope            `json:"scope"`
	Today     domain.Day       `json:"today"`
	Season    Period           `json:"-"`
	ByRoutine []RoutineMetrics `json:"by_routine"`
	Summary   Summary          `json:"summary"`
}

// Summarize computes the equal-weight summary of per-routine metrics.
func Summarize(byRoutine []RoutineMetrics) Summary {
	var s Summary
	if len(byRoutine) == 0 {
		return s
	}
	var rateSum float64
	for _, m := range byRoutine {
		rateSum += m.Rate
		s.TotalDone += m.Done
		s.TotalValid += m.Valid
		s.TotalPaused += m.Paused
	}
	s.AvgRate = rateSum / float64(len(byRoutine))
	return s
}

// Rate returns done/valid, or 0 when no day was valid.
func Rate(done, valid int) float64 {
	if valid <= 0 {
		return 0
	}
	return float64(done) / float64(valid)
}

// history is the classified day sequence of one routine.
type history struct {
	routine  *routines.Routine
	calendar *validity.OwnerCalendar
	checkins map[domain.Day]*routines.Checkin
	today    domain.Day
}

func (h history) status(d domain.Day) (DayStatus, error) {
	return Classify(h.routine, h.calendar, d, h.today, h.checkins[d])
}

// windowCounts counts done, valid and paused days over days.
func (h history) windowCounts(days []domain.Day) (done, valid, paused int, err error) {
	for _, d := range days {
		status, err := h.status(d)
		if err != nil {
			return 0, 0, 0, err
		}
		switch status {
		case StatusDone:
			done++
			valid++
		case StatusMissed:
			valid++
		case StatusPaused:
			paused++
		}
	}
	return done, valid, paused, nil
}

// maxStreak scans days forward. Done extends the run, missed resets it and
// every other status is neutral.
func (h history) maxStreak(days []domain.Day) (int, error) {
	best, run := 0, 0
	for _, d := range days {
		status, err := h.status(d)
		if err != nil {
			return 0, err
		}
		switch status {
		case StatusDone:
			run++
			if run > best {
				best = run
			}
		case StatusMissed:
			run = 0
		}
	}
	return best, nil
}

// currentStreak scans days backward and stops at the first missed day.
func (h history) currentStreak(days []domain.Day) (int, error) {
	streak := 0
	for i := len(days) - 1; i >= 0; i-- {
		status, err := h.status(days[i])
		if err != nil {
			return 0, err
		}
		if status == StatusMissed {
			break
		}
		if status == StatusDone {
			streak++
		}
	}
	return streak, nil
}
