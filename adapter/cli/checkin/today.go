package checkin

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nemodouble/godlife/adapter/cli"
	"github.com/nemodouble/godlife/internal/routines/application/queries"
	"github.com/spf13/cobra"
)

var todayJSON bool

var todayCmd = &cobra.Command{
	Use:     "today",
	Aliases: []string{"board"},
	Short:   "Show the day board",
	Long: `Show every active routine with its state for the day.

  [x] done   [-] skipped   [ ] open   (rest) not required`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		day, err := app.ResolveDay(cmd.Context(), checkinDay)
		if err != nil {
			return err
		}
		board, err := app.DayBoardHandler.Handle(cmd.Context(), queries.DayBoardQuery{
			OwnerID: app.OwnerID,
			Day:     day,
		})
		if err != nil {
			return fmt.Errorf("failed to load day board: %w", err)
		}

		out := cmd.OutOrStdout()
		if todayJSON {
			return json.NewEncoder(out).Encode(board)
		}
		if len(board.Routines) == 0 {
			fmt.Fprintln(out, "No active routines.")
			return nil
		}

		fmt.Fprintf(out, "%s (%d open)\n", board.Day, len(board.Open()))
		fmt.Fprintln(out, strings.Repeat("-", 40))
		for _, r := range board.Routines {
			line := fmt.Sprintf("%s %s", stateMark(string(r.State)), r.Name)
			switch {
			case r.Paused:
				line += " (paused)"
			case !r.Required:
				line += " (rest)"
			case r.Deadline != "":
				line += " until " + r.Deadline
			}
			fmt.Fprintln(out, line)
			if cli.Verbose() {
				fmt.Fprintf(out, "    ID: %s\n", r.RoutineID)
			}
		}
		return nil
	},
}

func init() {
	todayCmd.Flags().BoolVar(&todayJSON, "json", false, "output as JSON")
}
