package routine

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/nemodouble/godlife/adapter/cli"
	"github.com/nemodouble/godlife/internal/routines/application/commands"
	"github.com/spf13/cobra"
)

var deactivateCmd = &cobra.Command{
	Use:     "deactivate [routine-id]",
	Aliases: []string{"rm"},
	Short:   "Deactivate a routine",
	Long: `Deactivate a routine. It stops appearing on the day board and in
reports, but its checkin history is kept.`,
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
		if err := app.DeactivateRoutineHandler.Handle(cmd.Context(), commands.DeactivateRoutineCommand{
			RoutineID: routineID,
			OwnerID:   app.OwnerID,
		}); err != nil {
			return fmt.Errorf("failed to deactivate routine: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deactivated routine %s\n", routineID)
		return nil
	},
}
