package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/google/uuid"
	"github.com/nemodouble/godlife/internal/routines/application/commands"
	"github.com/nemodouble/godlife/internal/routines/application/queries"
)

type routineCreateInput struct {
	Name        string `json:"name" jsonschema:"required"`
	WeekendMode string `json:"weekend_mode,omitempty"`
	Deadline    string `json:"deadline,omitempty"`
	Notes       string `json:"notes,omitempty"`
	StartDay    string `json:"start_day,omitempty"`
}

type routineListInput struct {
	IncludeInactive bool `json:"include_inactive,omitempty"`
}

type routineUpdateInput struct {
	RoutineID   string  `json:"routine_id" jsonschema:"required"`
	Name        *string `json:"name,omitempty"`
	WeekendMode *string `json:"weekend_mode,omitempty"`
	Deadline    *string `json:"deadline,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

type routinePauseInput struct {
	RoutineID string `json:"routine_id" jsonschema:"required"`
	From      string `json:"from,omitempty"`
	Until     string `json:"until,omitempty"`
}

type routineIDInput struct {
	RoutineID string `json:"routine_id" jsonschema:"required"`
}

type routineReorderInput struct {
	RoutineIDs []string `json:"routine_ids" jsonschema:"required"`
}

func registerRoutineTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("routine.create").
		Description("Create a daily routine. weekend_mode is all, weekday or weekend").
		Handler(func(ctx context.Context, input routineCreateInput) (*commands.CreateRoutineResult, error) {
			if err := requireOwner(app); err != nil {
				return nil, err
			}
			if app.CreateRoutineHandler == nil {
				return nil, errNoDatabase
			}
			if input.Name == "" {
				return nil, errors.New("name is required")
			}
			if input.WeekendMode == "" {
				input.WeekendMode = "all"
			}
			start, err := parseOptionalDay(input.StartDay)
			if err != nil {
				return nil, err
			}

			return app.CreateRoutineHandler.Handle(ctx, commands.CreateRoutineCommand{
				OwnerID:     app.OwnerID,
				Name:        input.Name,
				WeekendMode: input.WeekendMode,
				Deadline:    input.Deadline,
				Notes:       input.Notes,
				StartDay:    start,
			})
		})

	srv.Tool("routine.list").
		Description("List routines in display order").
		Handler(func(ctx context.Context, input routineListInput) ([]queries.RoutineDTO, error) {
			if err := requireOwner(app); err != nil {
				return nil, err
			}
			if app.ListRoutinesHandler == nil {
				return nil, errNoDatabase
			}
			return app.ListRoutinesHandler.Handle(ctx, queries.ListRoutinesQuery{
				OwnerID:         app.OwnerID,
				IncludeInactive: input.IncludeInactive,
			})
		})

	srv.Tool("routine.update").
		Description("Update fields of a routine. Omitted fields are unchanged").
		Handler(func(ctx context.Context, input routineUpdateInput) (map[string]any, error) {
			if err := requireOwner(app); err != nil {
				return nil, err
			}
			if app.UpdateRoutineHandler == nil {
				return nil, errNoDatabase
			}
			routineID, err := parseUUID(input.RoutineID)
			if err != nil {
				return nil, err
			}

			if err := app.UpdateRoutineHandler.Handle(ctx, commands.UpdateRoutineCommand{
				RoutineID:   routineID,
				OwnerID:     app.OwnerID,
				Name:        input.Name,
				WeekendMode: input.WeekendMode,
				Deadline:    input.Deadline,
				Notes:       input.Notes,
			}); err != nil {
				return nil, err
			}
			return map[string]any{"routine_id": routineID, "updated": true}, nil
		})

	srv.Tool("routine.pause").
		Description("Pause a routine from a day (default today) until a day, or indefinitely").
		Handler(func(ctx context.Context, input routinePauseInput) (map[string]any, error) {
			if err := requireOwner(app); err != nil {
				return nil, err
			}
			if app.PauseRoutineHandler == nil {
				return nil, errNoDatabase
			}
			routineID, err := parseUUID(input.RoutineID)
			if err != nil {
				return nil, err
			}
			from, err := resolveDay(ctx, app, input.From)
			if err != nil {
				return nil, err
			}
			until, err := parseOptionalDay(input.Until)
			if err != nil {
				return nil, err
			}

			if err := app.PauseRoutineHandler.Pause(ctx, commands.PauseRoutineCommand{
				RoutineID: routineID,
				OwnerID:   app.OwnerID,
				From:      from,
				Until:     until,
			}); err != nil {
				return nil, err
			}
			return map[string]any{"routine_id": routineID, "paused_from": from, "paused_until": until}, nil
		})

	srv.Tool("routine.resume").
		Description("Resume a paused routine").
		Handler(func(ctx context.Context, input routineIDInput) (map[string]any, error) {
			if err := requireOwner(app); err != nil {
				return nil, err
			}
			if app.PauseRoutineHandler == nil {
				return nil, errNoDatabase
			}
			routineID, err := parseUUID(input.RoutineID)
			if err != nil {
				return nil, err
			}

			if err := app.PauseRoutineHandler.Resume(ctx, commands.ResumeRoutineCommand{
				RoutineID: routineID,
				OwnerID:   app.OwnerID,
			}); err != nil {
				return nil, err
			}
			return map[string]any{"routine_id": routineID, "resumed": true}, nil
		})

	srv.Tool("routine.deactivate").
		Description("Deactivate a routine, keeping its history").
		Handler(func(ctx context.Context, input routineIDInput) (map[string]any, error) {
			if err := requireOwner(app); err != nil {
				return nil, err
			}
			if app.DeactivateRoutineHandler == nil {
				return nil, errNoDatabase
			}
			routineID, err := parseUUID(input.RoutineID)
			if err != nil {
				return nil, err
			}

			if err := app.DeactivateRoutineHandler.Handle(ctx, commands.DeactivateRoutineCommand{
				RoutineID: routineID,
				OwnerID:   app.OwnerID,
			}); err != nil {
				return nil, err
			}
			return map[string]any{"routine_id": routineID, "active": false}, nil
		})

	srv.Tool("routine.reorder").
		Description("Set the display order of routines").
		Handler(func(ctx context.Context, input routineReorderInput) (map[string]any, error) {
			if err := requireOwner(app); err != nil {
				return nil, err
			}
			if app.ReorderRoutinesHandler == nil {
				return nil, errNoDatabase
			}
			ids := make([]uuid.UUID, 0, len(input.RoutineIDs))
			for _, raw := range input.RoutineIDs {
				id, err := parseUUID(raw)
				if err != nil {
					return nil, err
				}
				ids = append(ids, id)
			}

			if err := app.ReorderRoutinesHandler.Handle(ctx, commands.ReorderRoutinesCommand{
				OwnerID:    app.OwnerID,
				RoutineIDs: ids,
			}); err != nil {
				return nil, err
			}
			return map[string]any{"reordered": len(ids)}, nil
		})

	return nil
}
