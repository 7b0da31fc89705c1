package mcp

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/nemodouble/godlife/internal/routines/application/commands"
	"github.com/nemodouble/godlife/internal/routines/application/queries"
	routines "github.com/nemodouble/godlife/internal/routines/domain"
)

type settingsUpdateInput struct {
	Timezone     *string `json:"timezone,omitempty"`
	ReminderTime *string `json:"reminder_time,omitempty"`
	Locale       *string `json:"locale,omitempty"`
	Email        *string `json:"email,omitempty"`
	SuggestGoals *bool   `json:"suggest_goals,omitempty"`
}

type exemptionAddInput struct {
	StartDay string `json:"start_day" jsonschema:"required"`
	EndDay   string `json:"end_day,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

type exemptionIDInput struct {
	ExemptionID string `json:"exemption_id" jsonschema:"required"`
}

func settingsView(s *routines.UserSettings) map[string]any {
	return map[string]any{
		"timezone":      s.Timezone,
		"reminder_time": s.ReminderTime.String(),
		"locale":        s.Locale,
		"email":         s.Email,
		"suggest_goals": s.SuggestGoals,
	}
}

func registerSettingsTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("settings.get").
		Description("Get timezone, reminder time and language").
		Handler(func(ctx context.Context, input struct{}) (map[string]any, error) {
			if err := requireOwner(app); err != nil {
				return nil, err
			}
			if app.GetSettingsHandler == nil {
				return nil, errNoDatabase
			}
			settings, err := app.GetSettingsHandler.Handle(ctx, app.OwnerID)
			if err != nil {
				return nil, err
			}
			return settingsView(settings), nil
		})

	srv.Tool("settings.update").
		Description("Update settings. Omitted fields are unchanged and today's reminders are replanned").
		Handler(func(ctx context.Context, input settingsUpdateInput) (map[string]any, error) {
			if err := requireOwner(app); err != nil {
				return nil, err
			}
			if app.UpdateSettingsHandler == nil {
				return nil, errNoDatabase
			}
			settings, err := app.UpdateSettingsHandler.Handle(ctx, commands.UpdateSettingsCommand{
				OwnerID:      app.OwnerID,
				Timezone:     input.Timezone,
				ReminderTime: input.ReminderTime,
				Locale:       input.Locale,
				Email:        input.Email,
				SuggestGoals: input.SuggestGoals,
			})
			if err != nil {
				return nil, err
			}
			return settingsView(settings), nil
		})

	srv.Tool("exemption.add").
		Description("Add an inclusive exemption window. end_day defaults to start_day").
		Handler(func(ctx context.Context, input exemptionAddInput) (map[string]any, error) {
			if err := requireOwner(app); err != nil {
				return nil, err
			}
			if app.ExemptionHandler == nil {
				return nil, errNoDatabase
			}
			start, err := parseOptionalDay(input.StartDay)
			if err != nil {
				return nil, err
			}
			end := start
			if input.EndDay != "" {
				if end, err = parseOptionalDay(input.EndDay); err != nil {
					return nil, err
				}
			}

			id, err := app.ExemptionHandler.Add(ctx, commands.AddExemptionCommand{
				OwnerID:  app.OwnerID,
				StartDay: start,
				EndDay:   end,
				Reason:   input.Reason,
			})
			if err != nil {
				return nil, err
			}
			return map[string]any{"exemption_id": id, "start_day": start, "end_day": end}, nil
		})

	srv.Tool("exemption.list").
		Description("List exemption windows").
		Handler(func(ctx context.Context, input struct{}) ([]queries.ExemptionDTO, error) {
			if err := requireOwner(app); err != nil {
				return nil, err
			}
			if app.ListExemptionsHandler == nil {
				return nil, errNoDatabase
			}
			return app.ListExemptionsHandler.Handle(ctx, app.OwnerID)
		})

	srv.Tool("exemption.remove").
		Description("Remove an exemption window").
		Handler(func(ctx context.Context, input exemptionIDInput) (map[string]any, error) {
			if err := requireOwner(app); err != nil {
				return nil, err
			}
			if app.ExemptionHandler == nil {
				return nil, errNoDatabase
			}
			id, err := parseUUID(input.ExemptionID)
			if err != nil {
				return nil, err
			}
			if err := app.ExemptionHandler.Remove(ctx, commands.RemoveExemptionCommand{
				OwnerID:     app.OwnerID,
				ExemptionID: id,
			}); err != nil {
				return nil, err
			}
			return map[string]any{"exemption_id": id, "removed": true}, nil
		})

	return nil
}
