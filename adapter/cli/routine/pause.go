package routine

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/nemodouble/godlife/adapter/cli"
	"github.com/nemodouble/godlife/internal/routines/application/commands"
	sharedDomain "github.com/nemodouble/godlife/internal/shared/domain"
	"github.com/spf13/cobra"
)

var (
	pauseFrom  string
	pauseUntil string
)

var pauseCmd = &cobra.Command{
	Use:   "pause [routine-id]",
	Short: "Pause a routine",
	Long: `Pause a routine. Paused days count neither as done nor as missed,
so streaks carry over the pause.

Without --until the pause lasts until you resume.

Examples:
  godlife routine pause abc123
  godlife routine pause abc123 --until 2025-02-01`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		routineID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid routine ID: %w", err)
		}
		from, err := app.ResolveDay(cmd.Context(), pauseFrom)
		if err != nil {
			return err
		}
		var until sharedDomain.Day
		if pauseUntil != "" {
			until, err = sharedDomain.ParseDay(pauseUntil)
			if err != nil {
				return err
			}
		}

		if err := app.PauseRoutineHandler.Pause(cmd.Context(), commands.PauseRoutineCommand{
			RoutineID: routineID,
			OwnerID:   app.OwnerID,
			From:      from,
			Until:     until,
		}); err != nil {
			return fmt.Errorf("failed to pause routine: %w", err)
		}

		out := cmd.OutOrStdout()
		if until.IsZero() {
			fmt.Fprintf(out, "Paused routine %s from %s\n", routineID, from)
		} else {
			fmt.Fprintf(out, "Paused routine %s from %s until %s\n", routineID, from, until)
		}
		return nil
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume [routine-id]",
	Short: "Resume a paused routine",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		routineID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid routine ID: %w", err)
		}
		if err := app.PauseRoutineHandler.Resume(cmd.Context(), commands.ResumeRoutineCommand{
			RoutineID: routineID,
			OwnerID:   app.OwnerID,
		}); err != nil {
			return fmt.Errorf("failed to resume routine: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Resumed routine %s\n", routineID)
		return nil
	},
}

func init() {
	pauseCmd.Flags().StringVar(&pauseFrom, "from", "", "first paused day (defaults to today)")
	pauseCmd.Flags().StringVar(&pauseUntil, "until", "", "last paused day, inclusive (YYYY-MM-DD)")
}
