// Command godlife-mcp serves the godlife tools over MCP for one owner.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nemodouble/godlife/adapter/cli"
	"github.com/nemodouble/godlife/internal/app"
	mcpserver "github.com/nemodouble/godlife/internal/mcp"
	"github.com/nemodouble/godlife/pkg/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "godlife-mcp:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.OwnerID == "" {
		return errors.New("GODLIFE_OWNER_ID is required")
	}
	// Chat toggles belong to the worker; this process only serves tools.
	cfg.ConsumerEnabled = false

	logger := app.NewLogger(cfg, os.Stderr, cli.Version)
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init container: %w", err)
	}
	defer container.Close()

	err = mcpserver.Serve(ctx, cfg, mcpserver.NewCLIApp(container, cfg.OwnerID), logger)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
