package mcp

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/nemodouble/godlife/adapter/cli"
	"github.com/nemodouble/godlife/pkg/observability"
)

func registerCoreTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("cli.health").
		Description("Report database, cache and reminder delivery health").
		Handler(func(ctx context.Context, input struct{}) (observability.OverallHealth, error) {
			if app.Health == nil {
				return observability.OverallHealth{}, errNoDatabase
			}
			return app.Health.GetOverallHealth(ctx), nil
		})

	srv.Tool("cli.version").
		Description("Report the server build").
		Handler(func(ctx context.Context, input struct{}) (cli.BuildInfo, error) {
			return cli.CurrentBuild(), nil
		})

	return nil
}
