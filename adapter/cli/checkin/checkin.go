package checkin

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/nemodouble/godlife/adapter/cli"
	"github.com/nemodouble/godlife/internal/routines/application/commands"
	"github.com/spf13/cobra"
)

var (
	checkinDay string
	skipReason string
)

// Cmd is the checkin command group
var Cmd = &cobra.Command{
	Use:     "checkin",
	Aliases: []string{"c"},
	Short:   "Check routines off",
	Long: `Record what happened to a routine on a day. A day ends at the
configured boundary (4 AM by default), so a checkin at 1 AM still
counts for the previous date.`,
}

var toggleCmd = &cobra.Command{
	Use:   "toggle [routine-id]",
	Short: "Cycle a routine through not done, done and skipped",
	Long: `Cycle the day state: not done -> done -> skipped -> not done.

Examples:
  godlife checkin toggle abc123
  godlife checkin toggle abc123 --day 2025-01-10`,
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
		day, err := app.ResolveDay(cmd.Context(), checkinDay)
		if err != nil {
			return err
		}

		result, err := app.ToggleCheckinHandler.Handle(cmd.Context(), commands.ToggleCheckinCommand{
			RoutineID: routineID,
			OwnerID:   app.OwnerID,
			Day:       day,
		})
		if err != nil {
			return fmt.Errorf("failed to toggle checkin: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s on %s: %s -> %s\n",
			stateMark(string(result.State)), result.RoutineName, day, result.Previous, result.State)
		return nil
	},
}

func newRecordCmd(action commands.CheckinAction, short string, aliases ...string) *cobra.Command {
	return &cobra.Command{
		Use:     string(action) + " [routine-id]",
		Aliases: aliases,
		Short:   short,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := cli.RequireApp()
			if err != nil {
				return err
			}

			routineID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid routine ID: %w", err)
			}
			day, err := app.ResolveDay(cmd.Context(), checkinDay)
			if err != nil {
				return err
			}

			state, err := app.RecordCheckinHandler.Handle(cmd.Context(), commands.RecordCheckinCommand{
				RoutineID: routineID,
				OwnerID:   app.OwnerID,
				Day:       day,
				Action:    action,
				Reason:    skipReason,
			})
			if err != nil {
				return fmt.Errorf("failed to record checkin: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", stateMark(string(state)), day, state)
			return nil
		},
	}
}

func stateMark(state string) string {
	switch state {
	case "done":
		return "[x]"
	case "skipped":
		return "[-]"
	default:
		return "[ ]"
	}
}

func init() {
	doneCmd := newRecordCmd(commands.ActionMarkDone, "Mark a routine done", "d")
	skipCmd := newRecordCmd(commands.ActionSkip, "Skip a routine on purpose")
	skipCmd.Flags().StringVarP(&skipReason, "reason", "r", "", "why the day was skipped")
	undoCmd := newRecordCmd(commands.ActionUndo, "Undo a done mark")
	clearCmd := newRecordCmd(commands.ActionClear, "Reset a day to not done")

	Cmd.PersistentFlags().StringVar(&checkinDay, "day", "", "local day YYYY-MM-DD (defaults to today)")

	Cmd.AddCommand(toggleCmd)
	Cmd.AddCommand(doneCmd)
	Cmd.AddCommand(skipCmd)
	Cmd.AddCommand(undoCmd)
	Cmd.AddCommand(clearCmd)
	Cmd.AddCommand(todayCmd)
}
