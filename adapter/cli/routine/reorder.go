package routine

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/nemodouble/godlife/adapter/cli"
	"github.com/nemodouble/godlife/internal/routines/application/commands"
	"github.com/spf13/cobra"
)

var reorderCmd = &cobra.Command{
	Use:   "reorder [routine-id...]",
	Short: "Set the display order of routines",
	Long: `Set the display order. The listed routines are numbered in the
given order, all or nothing.

Example:
  godlife routine reorder abc123 def456 ghi789`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		ids := make([]uuid.UUID, 0, len(args))
		for _, arg := range args {
			id, err := uuid.Parse(arg)
			if err != nil {
				return fmt.Errorf("invalid routine ID %q: %w", arg, err)
			}
			ids = append(ids, id)
		}

		if err := app.ReorderRoutinesHandler.Handle(cmd.Context(), commands.ReorderRoutinesCommand{
			OwnerID:    app.OwnerID,
			RoutineIDs: ids,
		}); err != nil {
			return fmt.Errorf("failed to reorder routines: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Reordered %d routines\n", len(ids))
		return nil
	},
}
