package commands

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/nemodouble/godlife/internal/routines/domain"
	sharedDomain "github.com/nemodouble/godlife/internal/shared/domain"
	"github.com/nemodouble/godlife/internal/validity"
)

// CreateRoutineCommand contains the data needed to create a routine.
type CreateRoutineCommand struct {
	OwnerID     string
	Name        string
	WeekendMode string
	Deadline    string // HH:MM, empty for the owner's reminder time
	Notes       string
	StartDay    sharedDomain.Day
}

// CreateRoutineResult contains the result of creating a routine.
type CreateRoutineResult struct {
	RoutineID  uuid.UUID
	OrderIndex int
}

// CreateRoutineHandler handles the CreateRoutineCommand.
type CreateRoutineHandler struct {
	routineRepo domain.RoutineRepository
}

// NewCreateRoutineHandler creates a new CreateRoutineHandler.
func NewCreateRoutineHandler(routineRepo domain.RoutineRepository) *CreateRoutineHandler {
	return &CreateRoutineHandler{routineRepo: routineRepo}
}

// Handle validates the input, appends the routine to the owner's list and saves it.
func (h *CreateRoutineHandler) Handle(ctx context.Context, cmd CreateRoutineCommand) (*CreateRoutineResult, error) {
	modeValue := cmd.WeekendMode
	if strings.TrimSpace(modeValue) == "" {
		modeValue = string(validity.WeekendModeWeekday)
	}
	mode, err := validity.ParseWeekendMode(modeValue)
	if err != nil {
		return nil, err
	}

	routine, err := domain.NewRoutine(cmd.OwnerID, cmd.Name, mode)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(cmd.Deadline) != "" {
		deadline, err := sharedDomain.ParseTimeOfDay(cmd.Deadline)
		if err != nil {
			return nil, err
		}
		routine.SetDeadline(&deadline)
	}
	if cmd.Notes != "" {
		routine.SetNotes(cmd.Notes)
	}
	if !cmd.StartDay.IsZero() {
		routine.SetStartDay(cmd.StartDay)
	}

	index, err := h.routineRepo.NextOrderIndex(ctx, routine.OwnerID())
	if err != nil {
		return nil, err
	}
	routine.SetOrderIndex(index)

	if err := h.routineRepo.Save(ctx, routine); err != nil {
		return nil, err
	}

	return &CreateRoutineResult{RoutineID: routine.ID(), OrderIndex: index}, nil
}
