package routine

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nemodouble/godlife/adapter/cli"
	"github.com/nemodouble/godlife/internal/routines/application/queries"
	"github.com/spf13/cobra"
)

var (
	includeInactive bool
	listJSON        bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List routines",
	Long: `List routines in display order.

Examples:
  godlife routine list
  godlife routine list --all
  godlife routine list --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		routines, err := app.ListRoutinesHandler.Handle(cmd.Context(), queries.ListRoutinesQuery{
			OwnerID:         app.OwnerID,
			IncludeInactive: includeInactive,
		})
		if err != nil {
			return fmt.Errorf("failed to list routines: %w", err)
		}

		out := cmd.OutOrStdout()
		if listJSON {
			return json.NewEncoder(out).Encode(routines)
		}
		if len(routines) == 0 {
			fmt.Fprintln(out, `No routines found. Add one with: godlife routine add "Routine name"`)
			return nil
		}

		fmt.Fprintf(out, "Routines (%d):\n", len(routines))
		fmt.Fprintln(out, strings.Repeat("-", 60))
		for _, r := range routines {
			fmt.Fprintf(out, "%2d. %s (%s)%s\n", r.OrderIndex+1, r.Name, r.WeekendMode, routineFlags(r))
			fmt.Fprintf(out, "    ID: %s\n", r.ID)
		}
		return nil
	},
}

func routineFlags(r queries.RoutineDTO) string {
	var flags []string
	if r.Deadline != "" {
		flags = append(flags, "until "+r.Deadline)
	}
	switch {
	case r.Paused:
		flags = append(flags, "paused")
	case r.PausedUntil != "":
		flags = append(flags, "paused until "+r.PausedUntil)
	}
	if !r.Active {
		flags = append(flags, "inactive")
	}
	if len(flags) == 0 {
		return ""
	}
	return " [" + strings.Join(flags, ", ") + "]"
}

func init() {
	listCmd.Flags().BoolVarP(&includeInactive, "all", "a", false, "include inactive routines")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
}
