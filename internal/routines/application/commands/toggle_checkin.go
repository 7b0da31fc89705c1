package commands

import (
	"context"

	"github.com/google/uuid"
	"github.com/nemodouble/godlife/internal/routines/domain"
	sharedApplication "github.com/nemodouble/godlife/internal/shared/application"
	sharedDomain "github.com/nemodouble/godlife/internal/shared/domain"
)

// ToggleCheckinCommand advances a day through neither -> done -> skipped -> neither.
type ToggleCheckinCommand struct {
	RoutineID uuid.UUID
	OwnerID   string
	Day       sharedDomain.Day
}

// ToggleCheckinResult carries the state before and after the toggle.
type ToggleCheckinResult struct {
	RoutineName string
	Previous    domain.CheckinState
	State       domain.CheckinState
}

// ToggleCheckinHandler handles the ToggleCheckinCommand.
type ToggleCheckinHandler struct {
	routineRepo domain.RoutineRepository
	checkinRepo domain.CheckinRepository
	uow         sharedApplication.UnitOfWork
}

// NewToggleCheckinHandler creates a new ToggleCheckinHandler.
func NewToggleCheckinHandler(routineRepo domain.RoutineRepository, checkinRepo domain.CheckinRepository, uow sharedApplication.UnitOfWork) *ToggleCheckinHandler {
	return &ToggleCheckinHandler{
		routineRepo: routineRepo,
		checkinRepo: checkinRepo,
		uow:         uow,
	}
}

// Handle reads the current state and writes the next one in a single unit of work.
func (h *ToggleCheckinHandler) Handle(ctx context.Context, cmd ToggleCheckinCommand) (*ToggleCheckinResult, error) {
	if cmd.Day.IsZero() {
		return nil, sharedDomain.ErrInvalidDay
	}

	var result *ToggleCheckinResult
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		routine, err := loadOwnedRoutine(txCtx, h.routineRepo, cmd.RoutineID, cmd.OwnerID)
		if err != nil {
			return err
		}

		current, err := h.checkinRepo.Get(txCtx, cmd.RoutineID, cmd.Day)
		if err != nil {
			return err
		}
		previous := current.State()
		next := previous.NextToggle()

		switch next {
		case domain.CheckinDone:
			err = h.checkinRepo.MarkDone(txCtx, cmd.RoutineID, cmd.OwnerID, cmd.Day)
		case domain.CheckinSkipped:
			err = h.checkinRepo.Skip(txCtx, cmd.RoutineID, cmd.OwnerID, cmd.Day, "")
		default:
			err = h.checkinRepo.Clear(txCtx, cmd.RoutineID, cmd.Day)
		}
		if err != nil {
			return err
		}

		result = &ToggleCheckinResult{RoutineName: routine.Name(), Previous: previous, State: next}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
