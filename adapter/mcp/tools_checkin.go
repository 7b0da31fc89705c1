package mcp

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/nemodouble/godlife/internal/routines/application/commands"
	"github.com/nemodouble/godlife/internal/routines/application/queries"
)

type checkinToggleInput struct {
	RoutineID string `json:"routine_id" jsonschema:"required"`
	Day       string `json:"day,omitempty"`
}

type checkinRecordInput struct {
	RoutineID string `json:"routine_id" jsonschema:"required"`
	Action    string `json:"action" jsonschema:"required"`
	Day       string `json:"day,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

type dayInput struct {
	Day string `json:"day,omitempty"`
}

func registerCheckinTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("checkin.toggle").
		Description("Cycle a routine's day state: neither -> done -> skipped -> neither. Day defaults to today").
		Handler(func(ctx context.Context, input checkinToggleInput) (*commands.ToggleCheckinResult, error) {
			if err := requireOwner(app); err != nil {
				return nil, err
			}
			if app.ToggleCheckinHandler == nil {
				return nil, errNoDatabase
			}
			routineID, err := parseUUID(input.RoutineID)
			if err != nil {
				return nil, err
			}
			day, err := resolveDay(ctx, app, input.Day)
			if err != nil {
				return nil, err
			}

			return app.ToggleCheckinHandler.Handle(ctx, commands.ToggleCheckinCommand{
				RoutineID: routineID,
				OwnerID:   app.OwnerID,
				Day:       day,
			})
		})

	srv.Tool("checkin.record").
		Description("Apply one checkin action (done, undo, skip, clear) to a routine's day").
		Handler(func(ctx context.Context, input checkinRecordInput) (map[string]any, error) {
			if err := requireOwner(app); err != nil {
				return nil, err
			}
			if app.RecordCheckinHandler == nil {
				return nil, errNoDatabase
			}
			routineID, err := parseUUID(input.RoutineID)
			if err != nil {
				return nil, err
			}
			day, err := resolveDay(ctx, app, input.Day)
			if err != nil {
				return nil, err
			}

			state, err := app.RecordCheckinHandler.Handle(ctx, commands.RecordCheckinCommand{
				RoutineID: routineID,
				OwnerID:   app.OwnerID,
				Day:       day,
				Action:    commands.CheckinAction(input.Action),
				Reason:    input.Reason,
			})
			if err != nil {
				return nil, err
			}
			return map[string]any{"routine_id": routineID, "day": day, "state": state}, nil
		})

	srv.Tool("day.board").
		Description("Show every active routine with its state for a day (default today)").
		Handler(func(ctx context.Context, input dayInput) (*queries.DayBoard, error) {
			if err := requireOwner(app); err != nil {
				return nil, err
			}
			if app.DayBoardHandler == nil {
				return nil, errNoDatabase
			}
			day, err := resolveDay(ctx, app, input.Day)
			if err != nil {
				return nil, err
			}
			return app.DayBoardHandler.Handle(ctx, queries.DayBoardQuery{OwnerID: app.OwnerID, Day: day})
		})

	return nil
}
