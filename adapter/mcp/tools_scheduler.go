package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/nemodouble/godlife/internal/reminders"
)

var errNoScheduler = errors.New("scheduler not configured")

func registerSchedulerTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("scheduler.sweep").
		Description("Run one correction sweep and return the scheduler counters").
		Handler(func(ctx context.Context, input struct{}) (*reminders.Stats, error) {
			if app == nil || app.Scheduler == nil {
				return nil, errNoScheduler
			}
			if err := app.Scheduler.RunCorrectionSweepOnce(ctx); err != nil {
				return nil, err
			}
			stats := app.Scheduler.Stats()
			return &stats, nil
		})

	srv.Tool("scheduler.stats").
		Description("Get reminder scheduler counters").
		Handler(func(ctx context.Context, input struct{}) (*reminders.Stats, error) {
			if app == nil || app.Scheduler == nil {
				return nil, errNoScheduler
			}
			stats := app.Scheduler.Stats()
			return &stats, nil
		})

	return nil
}
