package commands

import (
	"context"

	"github.com/google/uuid"
	"github.com/nemodouble/godlife/internal/routines/domain"
	sharedDomain "github.com/nemodouble/godlife/internal/shared/domain"
)

// AddExemptionCommand declares an owner-wide exempt range.
type AddExemptionCommand struct {
	OwnerID  string
	StartDay sharedDomain.Day
	EndDay   sharedDomain.Day
	Reason   string
}

// RemoveExemptionCommand deletes an exemption.
type RemoveExemptionCommand struct {
	OwnerID     string
	ExemptionID uuid.UUID
}

// ExemptionHandler handles adding and removing exemptions.
type ExemptionHandler struct {
	exemptionRepo domain.ExemptionRepository
}

// NewExemptionHandler creates a new ExemptionHandler.
func NewExemptionHandler(exemptionRepo domain.ExemptionRepository) *ExemptionHandler {
	return &ExemptionHandler{exemptionRepo: exemptionRepo}
}

// Add executes the AddExemptionCommand and returns the new exemption id.
func (h *ExemptionHandler) Add(ctx context.Context, cmd AddExemptionCommand) (uuid.UUID, error) {
	exemption, err := domain.NewExemption(cmd.OwnerID, cmd.StartDay, cmd.EndDay, cmd.Reason)
	if err != nil {
		return uuid.Nil, err
	}
	if err := h.exemptionRepo.Save(ctx, exemption); err != nil {
		return uuid.Nil, err
	}
	return exemption.ID, nil
}

// Remove executes the RemoveExemptionCommand.
func (h *ExemptionHandler) Remove(ctx context.Context, cmd RemoveExemptionCommand) error {
	return h.exemptionRepo.Delete(ctx, cmd.OwnerID, cmd.ExemptionID)
}
