package routine

import (
	"fmt"

	"github.com/nemodouble/godlife/adapter/cli"
	"github.com/nemodouble/godlife/internal/routines/application/commands"
	sharedDomain "github.com/nemodouble/godlife/internal/shared/domain"
	"github.com/spf13/cobra"
)

var (
	weekendMode string
	deadline    string
	notes       string
	startDay    string
)

var addCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a new routine",
	Long: `Add a routine to check off every valid day.

Weekend modes:
  weekday  - Monday through Friday (default)
  weekend  - Saturday and Sunday
  all      - Every day

Holidays and exemption days never require a checkin.

Examples:
  godlife routine add "운동" -w all
  godlife routine add "Stretch" --deadline 22:30
  godlife routine add "Read" --start 2025-01-01`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		var start sharedDomain.Day
		if startDay != "" {
			start, err = sharedDomain.ParseDay(startDay)
			if err != nil {
				return err
			}
		}

		result, err := app.CreateRoutineHandler.Handle(cmd.Context(), commands.CreateRoutineCommand{
			OwnerID:     app.OwnerID,
			Name:        args[0],
			WeekendMode: weekendMode,
			Deadline:    deadline,
			Notes:       notes,
			StartDay:    start,
		})
		if err != nil {
			return fmt.Errorf("failed to add routine: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Added routine: %s\n", args[0])
		fmt.Fprintf(out, "  ID: %s\n", result.RoutineID)
		if weekendMode != "" {
			fmt.Fprintf(out, "  Weekend mode: %s\n", weekendMode)
		}
		if deadline != "" {
			fmt.Fprintf(out, "  Deadline: %s\n", deadline)
		}
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&weekendMode, "weekend", "w", "", "weekend mode (weekday, weekend, all)")
	addCmd.Flags().StringVarP(&deadline, "deadline", "d", "", "daily deadline HH:MM (defaults to the reminder time)")
	addCmd.Flags().StringVarP(&notes, "notes", "n", "", "free-form notes")
	addCmd.Flags().StringVar(&startDay, "start", "", "first day counted in reports (YYYY-MM-DD)")
}
