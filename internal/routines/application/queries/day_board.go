package queries

import (
	"context"

	"github.com/google/uuid"
	"github.com/nemodouble/godlife/internal/routines/domain"
	sharedDomain "github.com/nemodouble/godlife/internal/shared/domain"
	"github.com/nemodouble/godlife/internal/validity"
)

// DayBoardQuery asks for the status of every active routine on one local day.
type DayBoardQuery struct {
	OwnerID string
	Day     sharedDomain.Day
}

// RoutineDayStatus is one row of the day board.
type RoutineDayStatus struct {
	RoutineID uuid.UUID           `json:"routine_id"`
	Name      string              `json:"name"`
	State     domain.CheckinState `json:"state"`
	Required  bool                `json:"required"`
	Paused    bool                `json:"paused"`
	Deadline  string              `json:"deadline,omitempty"`
}

// DayBoard is the owner's status board for one day.
type DayBoard struct {
	Day      sharedDomain.Day   `json:"day"`
	Routines []RoutineDayStatus `json:"routines"`
}

// Open returns the required routines that are neither done nor skipped.
func (b *DayBoard) Open() []RoutineDayStatus {
	var open []RoutineDayStatus
	for _, r := range b.Routines {
		if r.Required && r.State == domain.CheckinNeither {
			open = append(open, r)
		}
	}
	return open
}

// DayBoardHandler handles the DayBoardQuery.
type DayBoardHandler struct {
	routineRepo domain.RoutineRepository
	checkinRepo domain.CheckinRepository
	calendar    *validity.Calendar
}

// NewDayBoardHandler creates a new DayBoardHandler.
func NewDayBoardHandler(routineRepo domain.RoutineRepository, checkinRepo domain.CheckinRepository, calendar *validity.Calendar) *DayBoardHandler {
	return &DayBoardHandler{
		routineRepo: routineRepo,
		checkinRepo: checkinRepo,
		calendar:    calendar,
	}
}

// Handle executes the DayBoardQuery. A routine is required when it is not
// paused and the day is valid for it.
func (h *DayBoardHandler) Handle(ctx context.Context, query DayBoardQuery) (*DayBoard, error) {
	routines, err := h.routineRepo.FindActiveByOwner(ctx, query.OwnerID)
	if err != nil {
		return nil, err
	}
	checkins, err := h.checkinRepo.ListForOwnerDay(ctx, query.OwnerID, query.Day)
	if err != nil {
		return nil, err
	}
	byRoutine := make(map[uuid.UUID]*domain.Checkin, len(checkins))
	for _, c := range checkins {
		byRoutine[c.RoutineID] = c
	}
	oc, err := h.calendar.ForOwner(ctx, query.OwnerID)
	if err != nil {
		return nil, err
	}

	board := &DayBoard{Day: query.Day, Routines: make([]RoutineDayStatus, 0, len(routines))}
	for _, r := range routines {
		valid, err := oc.IsValidDay(r.WeekendMode(), query.Day)
		if err != nil {
			return nil, err
		}
		paused := r.IsPausedOn(query.Day)
		status := RoutineDayStatus{
			RoutineID: r.ID(),
			Name:      r.Name(),
			State:     byRoutine[r.ID()].State(),
			Required:  valid && !paused,
			Paused:    paused,
		}
		if r.Deadline() != nil {
			status.Deadline = r.Deadline().String()
		}
		board.Routines = append(board.Routines, status)
	}
	return board, nil
}
