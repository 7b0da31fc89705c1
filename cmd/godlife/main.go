package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nemodouble/godlife/adapter/cli"
	"github.com/nemodouble/godlife/adapter/cli/checkin"
	"github.com/nemodouble/godlife/adapter/cli/exemption"
	"github.com/nemodouble/godlife/adapter/cli/mcp"
	"github.com/nemodouble/godlife/adapter/cli/reminder"
	"github.com/nemodouble/godlife/adapter/cli/report"
	"github.com/nemodouble/godlife/adapter/cli/routine"
	cliSettings "github.com/nemodouble/godlife/adapter/cli/settings"
	"github.com/nemodouble/godlife/internal/app"
	"github.com/nemodouble/godlife/pkg/config"
)

func main() {
	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Interactive output stays quiet unless LOG_LEVEL asks for more.
	logCfg := *cfg
	if logCfg.LogLevel == "info" {
		logCfg.LogLevel = "warn"
	}
	logger := app.NewLogger(&logCfg, os.Stderr, cli.Version)
	cli.SetLogger(logger)
	cli.SetConfig(cfg)

	// The CLI only reads and writes; the worker owns delivery and consumption.
	cfg.ConsumerEnabled = false

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	if cfg.OutboxEnabled && container.OutboxProcessor != nil {
		if err := container.OutboxProcessor.Start(ctx); err != nil {
			logger.Warn("outbox processor not started", "error", err)
		}
	}

	cli.SetApp(cli.NewApp(container))

	// Register commands
	cli.AddCommand(routine.Cmd)
	cli.AddCommand(checkin.Cmd)
	cli.AddCommand(report.Cmd)
	cli.AddCommand(report.SeasonCmd)
	cli.AddCommand(exemption.Cmd)
	cli.AddCommand(cliSettings.Cmd)
	cli.AddCommand(reminder.Cmd)
	cli.AddCommand(mcp.Cmd)

	// Execute CLI
	cli.Execute(ctx)
}
