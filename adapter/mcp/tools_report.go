package mcp

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/nemodouble/godlife/internal/reports"
	routines "github.com/nemodouble/godlife/internal/routines/domain"
)

type reportInput struct {
	Scope    string `json:"scope,omitempty"`
	SeasonID string `json:"season_id,omitempty"`
	Locale   string `json:"locale,omitempty"`
}

type reportOutput struct {
	SeasonID string               `json:"season_id"`
	Text     string               `json:"text"`
	Metrics  *reports.UserMetrics `json:"metrics"`
}

type seasonCreateInput struct {
	Title        string `json:"title,omitempty"`
	StartDay     string `json:"start_day,omitempty"`
	KeepPrevious bool   `json:"keep_previous,omitempty"`
}

type seasonListInput struct {
	Limit int `json:"limit,omitempty"`
}

type seasonOutput struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	StartDay string `json:"start_day"`
	EndDay   string `json:"end_day,omitempty"`
}

func registerReportTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("report.generate").
		Description("Generate an achievement report. scope is 7d, 30d or all; season defaults to the current one").
		Handler(func(ctx context.Context, input reportInput) (*reportOutput, error) {
			if err := requireOwner(app); err != nil {
				return nil, err
			}
			if app.ReportService == nil {
				return nil, errNoDatabase
			}
			req := reports.GenerateRequest{OwnerID: app.OwnerID}
			if input.Scope != "" {
				scope, err := reports.ParseScope(input.Scope)
				if err != nil {
					return nil, err
				}
				req.Scope = scope
			}
			if input.SeasonID != "" {
				id, err := parseUUID(input.SeasonID)
				if err != nil {
					return nil, err
				}
				req.SeasonID = &id
			}
			if input.Locale != "" {
				locale, err := routines.ParseLocale(input.Locale)
				if err != nil {
					return nil, err
				}
				req.Locale = locale
			}

			report, err := app.ReportService.Generate(ctx, req)
			if err != nil {
				return nil, err
			}
			return &reportOutput{SeasonID: report.SeasonID.String(), Text: report.Text, Metrics: report.Metrics}, nil
		})

	srv.Tool("season.create").
		Description("Start a new season, closing the previous open one unless keep_previous is set").
		Handler(func(ctx context.Context, input seasonCreateInput) (*seasonOutput, error) {
			if err := requireOwner(app); err != nil {
				return nil, err
			}
			if app.SeasonManager == nil {
				return nil, errNoDatabase
			}
			start, err := parseOptionalDay(input.StartDay)
			if err != nil {
				return nil, err
			}

			season, err := app.SeasonManager.CreateNewSeason(ctx, app.OwnerID, input.Title, start, !input.KeepPrevious)
			if err != nil {
				return nil, err
			}
			return &seasonOutput{ID: season.ID().String(), Title: season.Title(), StartDay: season.StartDay().String()}, nil
		})

	srv.Tool("season.list").
		Description("List seasons, newest first").
		Handler(func(ctx context.Context, input seasonListInput) ([]seasonOutput, error) {
			if err := requireOwner(app); err != nil {
				return nil, err
			}
			if app.SeasonManager == nil {
				return nil, errNoDatabase
			}
			seasons, err := app.SeasonManager.List(ctx, app.OwnerID, input.Limit)
			if err != nil {
				return nil, err
			}

			out := make([]seasonOutput, 0, len(seasons))
			for _, s := range seasons {
				out = append(out, seasonOutput{
					ID:       s.ID().String(),
					Title:    s.Title(),
					StartDay: s.StartDay().String(),
					EndDay:   s.EndDay().String(),
				})
			}
			return out, nil
		})

	return nil
}
