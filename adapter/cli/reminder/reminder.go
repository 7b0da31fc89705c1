package reminder

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nemodouble/godlife/adapter/cli"
	"github.com/spf13/cobra"
)

var statsJSON bool

// Cmd is the reminder command group
var Cmd = &cobra.Command{
	Use:   "reminder",
	Short: "Inspect and drive reminder delivery",
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run one correction sweep",
	Long: `Run one correction sweep. Every owner's open routines whose
reminder time fell inside the sweep window get their reminder, unless
it was already sent. Running it twice sends nothing new.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Scheduler == nil {
			return cli.ErrNotConfigured
		}
		if err := app.Scheduler.RunCorrectionSweepOnce(cmd.Context()); err != nil {
			return fmt.Errorf("sweep failed: %w", err)
		}
		return printStats(cmd)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show scheduler counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Scheduler == nil {
			return errors.New("scheduler not configured")
		}
		return printStats(cmd)
	},
}

func printStats(cmd *cobra.Command) error {
	stats := cli.GetApp().Scheduler.Stats()
	out := cmd.OutOrStdout()
	if statsJSON {
		return json.NewEncoder(out).Encode(stats)
	}
	fmt.Fprintf(out, "Fired: %d  Suppressed: %d  Failed: %d  Pending: %d\n",
		stats.Fired, stats.Suppressed, stats.Failed, stats.Pending)
	if stats.LastSweepAt != nil {
		fmt.Fprintf(out, "Last sweep: %s\n", stats.LastSweepAt.Format(time.RFC3339))
	}
	if stats.LastError != "" {
		fmt.Fprintf(out, "Last error: %s\n", stats.LastError)
	}
	return nil
}

func init() {
	sweepCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")

	Cmd.AddCommand(sweepCmd)
	Cmd.AddCommand(statsCmd)
}
