package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nemodouble/godlife/pkg/observability"
)

var (
	ownerFlag string
	verbose   bool
	logger    *slog.Logger
)

type startedAtKey struct{}

var rootCmd = &cobra.Command{
	Use:   "godlife",
	Short: "Daily routine tracker with a 4 AM day boundary",
	Long: `godlife tracks daily routines. A day runs from 04:00 to 04:00 in
the owner's timezone, so a check made at 1 AM still counts for yesterday.

Check routines off, skip them on purpose, and read streak and achievement
reports per season. The worker sends reminders for routines that are
still open near their deadline.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx = observability.WithCorrelationID(ctx, "")
		if app != nil && app.OwnerID != "" {
			ctx = observability.WithOwnerID(ctx, app.OwnerID)
		}
		ctx = context.WithValue(ctx, startedAtKey{}, time.Now())
		cmd.SetContext(ctx)
		cliLogger().DebugContext(ctx, "command start", "command", cmd.CommandPath())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		started, ok := ctx.Value(startedAtKey{}).(time.Time)
		if !ok {
			return
		}
		cliLogger().DebugContext(ctx, "command end",
			"command", cmd.CommandPath(),
			"duration_ms", time.Since(started).Milliseconds(),
		)
	},
}

// Execute runs the command tree and exits non-zero on error.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&ownerFlag, "owner", "o", "", "owner id (overrides GODLIFE_OWNER_ID)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show ids and extra detail")
}

// Verbose reports whether --verbose was passed.
func Verbose() bool {
	return verbose
}

// AddCommand registers a command group under the root.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// SetLogger sets the logger used for command tracing.
func SetLogger(l *slog.Logger) {
	logger = l
}

func cliLogger() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
