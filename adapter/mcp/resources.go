package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/nemodouble/godlife/internal/reports"
	"github.com/nemodouble/godlife/internal/routines/application/queries"
)

// RegisterResources registers MCP resources that expose godlife data.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}
	app := deps.App

	// Active routines
	srv.Resource("godlife://routines").
		Name("Routines").
		Description("Active routines of the current owner in display order").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if err := requireOwner(app); err != nil {
				return nil, err
			}
			if app.ListRoutinesHandler == nil {
				return nil, errNoDatabase
			}
			routines, err := app.ListRoutinesHandler.Handle(ctx, queries.ListRoutinesQuery{OwnerID: app.OwnerID})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, routines)
		})

	// Today's board
	srv.Resource("godlife://today").
		Name("Today").
		Description("Day board for the owner's current local day").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if err := requireOwner(app); err != nil {
				return nil, err
			}
			if app.DayBoardHandler == nil {
				return nil, errNoDatabase
			}
			day, err := resolveDay(ctx, app, "")
			if err != nil {
				return nil, err
			}
			board, err := app.DayBoardHandler.Handle(ctx, queries.DayBoardQuery{OwnerID: app.OwnerID, Day: day})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, board)
		})

	// Weekly report text
	srv.Resource("godlife://report/week").
		Name("Weekly Report").
		Description("Achievement report for the last 7 days of the current season").
		MimeType("text/plain").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if err := requireOwner(app); err != nil {
				return nil, err
			}
			if app.ReportService == nil {
				return nil, errNoDatabase
			}
			report, err := app.ReportService.Generate(ctx, reports.GenerateRequest{OwnerID: app.OwnerID, Scope: reports.Scope7d})
			if err != nil {
				return nil, err
			}
			return &mcp.ResourceContent{URI: uri, MimeType: "text/plain", Text: report.Text}, nil
		})

	return nil
}

func jsonResource(uri string, v any) (*mcp.ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}
