package queries

import (
	"context"

	"github.com/nemodouble/godlife/internal/routines/domain"
)

// GetSettingsHandler returns stored settings or the defaults.
type GetSettingsHandler struct {
	settingsRepo domain.SettingsRepository
	defaults     domain.SettingsDefaults
}

// NewGetSettingsHandler creates a new GetSettingsHandler.
func NewGetSettingsHandler(settingsRepo domain.SettingsRepository, defaults domain.SettingsDefaults) *GetSettingsHandler {
	return &GetSettingsHandler{settingsRepo: settingsRepo, defaults: defaults}
}

// Handle returns the owner's settings, never nil on success.
func (h *GetSettingsHandler) Handle(ctx context.Context, ownerID string) (*domain.UserSettings, error) {
	settings, err := h.settingsRepo.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return domain.DefaultSettings(ownerID, h.defaults), nil
	}
	return settings, nil
}
