package commands

import (
	"context"

	"github.com/google/uuid"
	"github.com/nemodouble/godlife/internal/routines/domain"
	sharedDomain "github.com/nemodouble/godlife/internal/shared/domain"
)

// PauseRoutineCommand pauses a routine from From. A zero Until pauses indefinitely.
type PauseRoutineCommand struct {
	RoutineID uuid.UUID
	OwnerID   string
	From      sharedDomain.Day
	Until     sharedDomain.Day
}

// ResumeRoutineCommand clears a routine's pause.
type ResumeRoutineCommand struct {
	RoutineID uuid.UUID
	OwnerID   string
}

// PauseRoutineHandler handles pausing and resuming routines.
type PauseRoutineHandler struct {
	routineRepo domain.RoutineRepository
}

// NewPauseRoutineHandler creates a new PauseRoutineHandler.
func NewPauseRoutineHandler(routineRepo domain.RoutineRepository) *PauseRoutineHandler {
	return &PauseRoutineHandler{routineRepo: routineRepo}
}

// Pause executes the PauseRoutineCommand.
func (h *PauseRoutineHandler) Pause(ctx context.Context, cmd PauseRoutineCommand) error {
	if cmd.From.IsZero() {
		return sharedDomain.ErrInvalidDay
	}
	routine, err := loadOwnedRoutine(ctx, h.routineRepo, cmd.RoutineID, cmd.OwnerID)
	if err != nil {
		return err
	}
	if err := routine.Pause(cmd.From, cmd.Until); err != nil {
		return err
	}
	return h.routineRepo.Save(ctx, routine)
}

// Resume executes the ResumeRoutineCommand.
func (h *PauseRoutineHandler) Resume(ctx context.Context, cmd ResumeRoutineCommand) error {
	routine, err := loadOwnedRoutine(ctx, h.routineRepo, cmd.RoutineID, cmd.OwnerID)
	if err != nil {
		return err
	}
	if err := routine.Resume(); err != nil {
		return err
	}
	return h.routineRepo.Save(ctx, routine)
}
