package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nemodouble/godlife/internal/routines/domain"
	sharedDomain "github.com/nemodouble/godlife/internal/shared/domain"
)

// ErrUnknownCheckinAction is returned for actions other than done, undo, skip and clear.
var ErrUnknownCheckinAction = errors.New("unknown checkin action")

// CheckinAction is a single checkin mutation.
type CheckinAction string

const (
	ActionMarkDone CheckinAction = "done"
	ActionUndo     CheckinAction = "undo"
	ActionSkip     CheckinAction = "skip"
	ActionClear    CheckinAction = "clear"
)

// RecordCheckinCommand applies one action to a routine's local day.
type RecordCheckinCommand struct {
	RoutineID uuid.UUID
	OwnerID   string
	Day       sharedDomain.Day
	Action    CheckinAction
	Reason    string
}

// RecordCheckinHandler handles the RecordCheckinCommand.
type RecordCheckinHandler struct {
	routineRepo domain.RoutineRepository
	checkinRepo domain.CheckinRepository
}

// NewRecordCheckinHandler creates a new RecordCheckinHandler.
func NewRecordCheckinHandler(routineRepo domain.RoutineRepository, checkinRepo domain.CheckinRepository) *RecordCheckinHandler {
	return &RecordCheckinHandler{routineRepo: routineRepo, checkinRepo: checkinRepo}
}

// Handle executes the command and returns the resulting day state.
func (h *RecordCheckinHandler) Handle(ctx context.Context, cmd RecordCheckinCommand) (domain.CheckinState, error) {
	if cmd.Day.IsZero() {
		return "", sharedDomain.ErrInvalidDay
	}
	if _, err := loadOwnedRoutine(ctx, h.routineRepo, cmd.RoutineID, cmd.OwnerID); err != nil {
		return "", err
	}

	var err error
	switch cmd.Action {
	case ActionMarkDone:
		err = h.checkinRepo.MarkDone(ctx, cmd.RoutineID, cmd.OwnerID, cmd.Day)
	case ActionUndo:
		err = h.checkinRepo.Undo(ctx, cmd.RoutineID, cmd.Day)
	case ActionSkip:
		err = h.checkinRepo.Skip(ctx, cmd.RoutineID, cmd.OwnerID, cmd.Day, cmd.Reason)
	case ActionClear:
		err = h.checkinRepo.Clear(ctx, cmd.RoutineID, cmd.Day)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCheckinAction, cmd.Action)
	}
	if err != nil {
		return "", err
	}

	checkin, err := h.checkinRepo.Get(ctx, cmd.RoutineID, cmd.Day)
	if err != nil {
		return "", err
	}
	return checkin.State(), nil
}
