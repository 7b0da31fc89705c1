package commands

import (
	"context"

	"github.com/google/uuid"
	"github.com/nemodouble/godlife/internal/routines/domain"
)

// DeactivateRoutineCommand removes a routine from scheduling. History is kept.
type DeactivateRoutineCommand struct {
	RoutineID uuid.UUID
	OwnerID   string
}

// DeactivateRoutineHandler handles the DeactivateRoutineCommand.
type DeactivateRoutineHandler struct {
	routineRepo domain.RoutineRepository
}

// NewDeactivateRoutineHandler creates a new DeactivateRoutineHandler.
func NewDeactivateRoutineHandler(routineRepo domain.RoutineRepository) *DeactivateRoutineHandler {
	return &DeactivateRoutineHandler{routineRepo: routineRepo}
}

// Handle executes the DeactivateRoutineCommand.
func (h *DeactivateRoutineHandler) Handle(ctx context.Context, cmd DeactivateRoutineCommand) error {
	routine, err := loadOwnedRoutine(ctx, h.routineRepo, cmd.RoutineID, cmd.OwnerID)
	if err != nil {
		return err
	}
	if !routine.IsActive() {
		return nil
	}
	routine.Deactivate()
	return h.routineRepo.Save(ctx, routine)
}
