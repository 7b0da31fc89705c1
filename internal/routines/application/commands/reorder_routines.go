package commands

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nemodouble/godlife/internal/routines/domain"
	sharedApplication "github.com/nemodouble/godlife/internal/shared/application"
)

// ErrEmptyOrder is returned when a reorder names no routines.
var ErrEmptyOrder = errors.New("reorder needs at least one routine")

// ReorderRoutinesCommand assigns order indexes following RoutineIDs.
type ReorderRoutinesCommand struct {
	OwnerID    string
	RoutineIDs []uuid.UUID
}

// ReorderRoutinesHandler handles the ReorderRoutinesCommand.
type ReorderRoutinesHandler struct {
	routineRepo domain.RoutineRepository
	uow         sharedApplication.UnitOfWork
}

// NewReorderRoutinesHandler creates a new ReorderRoutinesHandler.
func NewReorderRoutinesHandler(routineRepo domain.RoutineRepository, uow sharedApplication.UnitOfWork) *ReorderRoutinesHandler {
	return &ReorderRoutinesHandler{routineRepo: routineRepo, uow: uow}
}

// Handle saves every listed routine with its new index, all or nothing.
func (h *ReorderRoutinesHandler) Handle(ctx context.Context, cmd ReorderRoutinesCommand) error {
	if len(cmd.RoutineIDs) == 0 {
		return ErrEmptyOrder
	}

	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		for index, id := range cmd.RoutineIDs {
			routine, err := loadOwnedRoutine(txCtx, h.routineRepo, id, cmd.OwnerID)
			if err != nil {
				return err
			}
			routine.SetOrderIndex(index)
			if err := h.routineRepo.Save(txCtx, routine); err != nil {
				return err
			}
		}
		return nil
	})
}
