package queries

import (
	"context"

	"github.com/nemodouble/godlife/internal/routines/domain"
)

// ListRoutinesQuery contains the parameters for listing an owner's routines.
type ListRoutinesQuery struct {
	OwnerID         string
	IncludeInactive bool
}

// ListRoutinesHandler handles the ListRoutinesQuery.
type ListRoutinesHandler struct {
	routineRepo domain.RoutineRepository
}

// NewListRoutinesHandler creates a new ListRoutinesHandler.
func NewListRoutinesHandler(routineRepo domain.RoutineRepository) *ListRoutinesHandler {
	return &ListRoutinesHandler{routineRepo: routineRepo}
}

// Handle executes the ListRoutinesQuery.
func (h *ListRoutinesHandler) Handle(ctx context.Context, query ListRoutinesQuery) ([]RoutineDTO, error) {
	var (
		routines []*domain.Routine
		err      error
	)
	if query.IncludeInactive {
		routines, err = h.routineRepo.FindByOwner(ctx, query.OwnerID)
	} else {
		routines, err = h.routineRepo.FindActiveByOwner(ctx, query.OwnerID)
	}
	if err != nil {
		return nil, err
	}

	dtos := make([]RoutineDTO, 0, len(routines))
	for _, r := range routines {
		dtos = append(dtos, toRoutineDTO(r))
	}
	return dtos, nil
}
