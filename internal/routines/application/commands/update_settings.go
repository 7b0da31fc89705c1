package commands

import (
	"context"

	"github.com/nemodouble/godlife/internal/routines/domain"
	sharedDomain "github.com/nemodouble/godlife/internal/shared/domain"
)

// SettingsObserver is told after an owner's settings were saved, so that
// reminders can be rescheduled.
type SettingsObserver interface {
	SettingsChanged(ctx context.Context, ownerID string)
}

// UpdateSettingsCommand changes owner settings. Nil fields are left as they are.
type UpdateSettingsCommand struct {
	OwnerID      string
	Timezone     *string
	ReminderTime *string
	Locale       *string
	Email        *string
	SuggestGoals *bool
}

// UpdateSettingsHandler handles the UpdateSettingsCommand.
type UpdateSettingsHandler struct {
	settingsRepo domain.SettingsRepository
	defaults     domain.SettingsDefaults
	observer     SettingsObserver
}

// NewUpdateSettingsHandler creates a new UpdateSettingsHandler. observer may be nil.
func NewUpdateSettingsHandler(settingsRepo domain.SettingsRepository, defaults domain.SettingsDefaults, observer SettingsObserver) *UpdateSettingsHandler {
	return &UpdateSettingsHandler{
		settingsRepo: settingsRepo,
		defaults:     defaults,
		observer:     observer,
	}
}

// Handle validates every field before saving anything.
func (h *UpdateSettingsHandler) Handle(ctx context.Context, cmd UpdateSettingsCommand) (*domain.UserSettings, error) {
	settings, err := h.settingsRepo.Get(ctx, cmd.OwnerID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = domain.DefaultSettings(cmd.OwnerID, h.defaults)
	}

	if cmd.Timezone != nil {
		if err := settings.SetTimezone(*cmd.Timezone); err != nil {
			return nil, err
		}
	}
	if cmd.ReminderTime != nil {
		tod, err := sharedDomain.ParseTimeOfDay(*cmd.ReminderTime)
		if err != nil {
			return nil, err
		}
		settings.ReminderTime = tod
	}
	if cmd.Locale != nil {
		locale, err := domain.ParseLocale(*cmd.Locale)
		if err != nil {
			return nil, err
		}
		settings.Locale = locale
	}
	if cmd.Email != nil {
		if err := settings.SetEmail(*cmd.Email); err != nil {
			return nil, err
		}
	}
	if cmd.SuggestGoals != nil {
		settings.SuggestGoals = *cmd.SuggestGoals
	}

	if err := h.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}
	if h.observer != nil {
		h.observer.SettingsChanged(ctx, settings.OwnerID)
	}
	return settings, nil
}
