package routine

import (
	"github.com/spf13/cobra"
)

// Cmd is the routine command group
var Cmd = &cobra.Command{
	Use:     "routine",
	Aliases: []string{"r"},
	Short:   "Manage routines",
	Long:    `Add, list, update, pause and reorder your daily routines.`,
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(updateCmd)
	Cmd.AddCommand(pauseCmd)
	Cmd.AddCommand(resumeCmd)
	Cmd.AddCommand(deactivateCmd)
	Cmd.AddCommand(reorderCmd)
}
