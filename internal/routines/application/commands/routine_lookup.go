package commands

import (
	"context"

	"github.com/google/uuid"
	"github.com/nemodouble/godlife/internal/routines/domain"
)

// loadOwnedRoutine fetches a routine and verifies its owner.
func loadOwnedRoutine(ctx context.Context, repo domain.RoutineRepository, id uuid.UUID, ownerID string) (*domain.Routine, error) {
	routine, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if routine == nil {
		return nil, domain.ErrRoutineNotFound
	}
	if !routine.IsOwnedBy(ownerID) {
		return nil, domain.ErrNotOwner
	}
	return routine, nil
}
