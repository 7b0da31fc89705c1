package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/nemodouble/godlife/internal/routines/application/commands"
	"github.com/nemodouble/godlife/internal/routines/application/queries"
	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:   "done [id-prefix|name]",
	Short: "Mark one of today's routines done",
	Long: `Quickly mark a routine done for today using the first few characters
of its ID or a case-insensitive prefix of its name.

If several open routines match, you'll be shown the options.

Examples:
  godlife done 3f2a     # Routine whose ID starts with 3f2a
  godlife done 운동      # Routine whose name starts with 운동
  godlife done          # Show today's open routines`,
	Aliases: []string{"x"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}

		board, err := app.todayBoard(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			showOpenRoutines(out, board)
			return nil
		}
		return app.completeByPrefix(cmd.Context(), out, board, strings.ToLower(args[0]))
	},
}

func (a *App) todayBoard(ctx context.Context) (*queries.DayBoard, error) {
	today, err := a.OwnerDays.Today(ctx, a.OwnerID)
	if err != nil {
		return nil, err
	}
	return a.DayBoardHandler.Handle(ctx, queries.DayBoardQuery{OwnerID: a.OwnerID, Day: today})
}

func showOpenRoutines(out io.Writer, board *queries.DayBoard) {
	open := board.Open()
	if len(open) == 0 {
		fmt.Fprintf(out, "Nothing open on %s.\n", board.Day)
		return
	}
	fmt.Fprintf(out, "Open on %s:\n", board.Day)
	for _, r := range open {
		fmt.Fprintf(out, "  [%s] %s\n", r.RoutineID.String()[:8], r.Name)
	}
	fmt.Fprintln(out, "\n  Usage: godlife done <id-prefix|name>")
}

func (a *App) completeByPrefix(ctx context.Context, out io.Writer, board *queries.DayBoard, prefix string) error {
	var matches []queries.RoutineDayStatus
	for _, r := range board.Routines {
		if r.State == "done" {
			continue
		}
		if strings.HasPrefix(r.RoutineID.String(), prefix) || strings.HasPrefix(strings.ToLower(r.Name), prefix) {
			matches = append(matches, r)
		}
	}

	switch len(matches) {
	case 0:
		return fmt.Errorf("no open routine matches %q", prefix)
	case 1:
	default:
		fmt.Fprintln(out, "Multiple routines match. Be more specific:")
		for _, r := range matches {
			fmt.Fprintf(out, "  [%s] %s\n", r.RoutineID.String()[:8], r.Name)
		}
		return nil
	}

	r := matches[0]
	if _, err := a.RecordCheckinHandler.Handle(ctx, commands.RecordCheckinCommand{
		RoutineID: r.RoutineID,
		OwnerID:   a.OwnerID,
		Day:       board.Day,
		Action:    commands.ActionMarkDone,
	}); err != nil {
		return fmt.Errorf("failed to mark routine done: %w", err)
	}
	fmt.Fprintf(out, "[x] %s done for %s\n", r.Name, board.Day)
	return nil
}

func init() {
	rootCmd.AddCommand(doneCmd)
}
