package queries

import (
	"context"

	"github.com/google/uuid"
	"github.com/nemodouble/godlife/internal/routines/domain"
)

// ExemptionDTO is a read model of an exemption.
type ExemptionDTO struct {
	ID       uuid.UUID `json:"id"`
	StartDay string    `json:"start_day"`
	EndDay   string    `json:"end_day"`
	Reason   string    `json:"reason,omitempty"`
}

// ListExemptionsHandler lists an owner's exemptions.
type ListExemptionsHandler struct {
	exemptionRepo domain.ExemptionRepository
}

// NewListExemptionsHandler creates a new ListExemptionsHandler.
func NewListExemptionsHandler(exemptionRepo domain.ExemptionRepository) *ListExemptionsHandler {
	return &ListExemptionsHandler{exemptionRepo: exemptionRepo}
}

// Handle returns exemptions ordered by start day.
func (h *ListExemptionsHandler) Handle(ctx context.Context, ownerID string) ([]ExemptionDTO, error) {
	exemptions, err := h.exemptionRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	dtos := make([]ExemptionDTO, 0, len(exemptions))
	for _, e := range exemptions {
		dtos = append(dtos, ExemptionDTO{
			ID:       e.ID,
			StartDay: e.StartDay.String(),
			EndDay:   e.EndDay.String(),
			Reason:   e.Reason,
		})
	}
	return dtos, nil
}
