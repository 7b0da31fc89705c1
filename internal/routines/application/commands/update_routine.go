package commands

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/nemodouble/godlife/internal/routines/domain"
	sharedDomain "github.com/nemodouble/godlife/internal/shared/domain"
	"github.com/nemodouble/godlife/internal/validity"
)

// UpdateRoutineCommand changes routine fields. Nil fields are left as they are;
// an empty Deadline clears the routine deadline.
type UpdateRoutineCommand struct {
	RoutineID   uuid.UUID
	OwnerID     string
	Name        *string
	WeekendMode *string
	Deadline    *string
	Notes       *string
	StartDay    *sharedDomain.Day
}

// UpdateRoutineHandler handles the UpdateRoutineCommand.
type UpdateRoutineHandler struct {
	routineRepo domain.RoutineRepository
}

// NewUpdateRoutineHandler creates a new UpdateRoutineHandler.
func NewUpdateRoutineHandler(routineRepo domain.RoutineRepository) *UpdateRoutineHandler {
	return &UpdateRoutineHandler{routineRepo: routineRepo}
}

// Handle applies the changes and saves the routine.
func (h *UpdateRoutineHandler) Handle(ctx context.Context, cmd UpdateRoutineCommand) error {
	routine, err := loadOwnedRoutine(ctx, h.routineRepo, cmd.RoutineID, cmd.OwnerID)
	if err != nil {
		return err
	}

	if cmd.Name != nil {
		if err := routine.Rename(*cmd.Name); err != nil {
			return err
		}
	}
	if cmd.WeekendMode != nil {
		mode, err := validity.ParseWeekendMode(*cmd.WeekendMode)
		if err != nil {
			return err
		}
		if err := routine.SetWeekendMode(mode); err != nil {
			return err
		}
	}
	if cmd.Deadline != nil {
		if strings.TrimSpace(*cmd.Deadline) == "" {
			routine.SetDeadline(nil)
		} else {
			deadline, err := sharedDomain.ParseTimeOfDay(*cmd.Deadline)
			if err != nil {
				return err
			}
			routine.SetDeadline(&deadline)
		}
	}
	if cmd.Notes != nil {
		routine.SetNotes(*cmd.Notes)
	}
	if cmd.StartDay != nil {
		routine.SetStartDay(*cmd.StartDay)
	}

	return h.routineRepo.Save(ctx, routine)
}
