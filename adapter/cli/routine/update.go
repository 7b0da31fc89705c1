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
	updateName     string
	updateWeekend  string
	updateDeadline string
	updateNotes    string
	updateStart    string
)

var updateCmd = &cobra.Command{
	Use:   "update [routine-id]",
	Short: "Update a routine",
	Long: `Change a routine's name, weekend mode, deadline, notes or start day.
Only the flags you pass are changed. Pass --deadline "" to fall back
to the reminder time.

Examples:
  godlife routine update abc123 --name "Morning run"
  godlife routine update abc123 --weekend weekday --deadline 07:00`,
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

		update := commands.UpdateRoutineCommand{
			RoutineID: routineID,
			OwnerID:   app.OwnerID,
		}
		flags := cmd.Flags()
		if flags.Changed("name") {
			update.Name = &updateName
		}
		if flags.Changed("weekend") {
			update.WeekendMode = &updateWeekend
		}
		if flags.Changed("deadline") {
			update.Deadline = &updateDeadline
		}
		if flags.Changed("notes") {
			update.Notes = &updateNotes
		}
		if flags.Changed("start") {
			start, err := sharedDomain.ParseDay(updateStart)
			if err != nil {
				return err
			}
			update.StartDay = &start
		}

		if err := app.UpdateRoutineHandler.Handle(cmd.Context(), update); err != nil {
			return fmt.Errorf("failed to update routine: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated routine %s\n", routineID)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateName, "name", "", "new name")
	updateCmd.Flags().StringVarP(&updateWeekend, "weekend", "w", "", "weekend mode (all, weekday, weekend)")
	updateCmd.Flags().StringVarP(&updateDeadline, "deadline", "d", "", "daily deadline HH:MM")
	updateCmd.Flags().StringVarP(&updateNotes, "notes", "n", "", "free-form notes")
	updateCmd.Flags().StringVar(&updateStart, "start", "", "first day counted in reports (YYYY-MM-DD)")
}
