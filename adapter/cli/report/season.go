package report

import (
	"fmt"
	"strings"

	"github.com/nemodouble/godlife/adapter/cli"
	sharedDomain "github.com/nemodouble/godlife/internal/shared/domain"
	"github.com/spf13/cobra"
)

var (
	seasonTitle   string
	seasonStart   string
	keepPrevious  bool
	seasonLimit   int
	seasonVerbose bool
)

// SeasonCmd is the season command group
var SeasonCmd = &cobra.Command{
	Use:   "season",
	Short: "Manage report seasons",
	Long:  `Seasons split your history into periods that are reported separately.`,
}

var seasonNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Start a new season",
	Long: `Start a new season. The previous open season is closed on the last
day you completed a routine before the new start.

Examples:
  godlife season new
  godlife season new --title "2025 상반기" --start 2025-01-01`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		var start sharedDomain.Day
		if seasonStart != "" {
			start, err = sharedDomain.ParseDay(seasonStart)
			if err != nil {
				return err
			}
		}

		season, err := app.SeasonManager.CreateNewSeason(cmd.Context(), app.OwnerID, seasonTitle, start, !keepPrevious)
		if err != nil {
			return fmt.Errorf("failed to start season: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Started season: %s\n", season.Title())
		fmt.Fprintf(out, "  ID: %s\n", season.ID())
		fmt.Fprintf(out, "  Start: %s\n", season.StartDay())
		return nil
	},
}

var seasonListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List seasons, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		seasons, err := app.SeasonManager.List(cmd.Context(), app.OwnerID, seasonLimit)
		if err != nil {
			return fmt.Errorf("failed to list seasons: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Seasons (%d):\n", len(seasons))
		fmt.Fprintln(out, strings.Repeat("-", 50))
		for _, s := range seasons {
			end := "ongoing"
			if !s.EndDay().IsZero() {
				end = s.EndDay().String()
			}
			fmt.Fprintf(out, "%s  %s ~ %s\n", s.Title(), s.StartDay(), end)
			if seasonVerbose || cli.Verbose() {
				fmt.Fprintf(out, "    ID: %s\n", s.ID())
			}
		}
		return nil
	},
}

func init() {
	seasonNewCmd.Flags().StringVarP(&seasonTitle, "title", "t", "", "season title (defaults to \"시즌 <start>\")")
	seasonNewCmd.Flags().StringVar(&seasonStart, "start", "", "first day YYYY-MM-DD (defaults to today)")
	seasonNewCmd.Flags().BoolVar(&keepPrevious, "keep-previous", false, "leave the previous season open")

	seasonListCmd.Flags().IntVarP(&seasonLimit, "limit", "n", 0, "maximum number of seasons")
	seasonListCmd.Flags().BoolVar(&seasonVerbose, "ids", false, "show season IDs")

	SeasonCmd.AddCommand(seasonNewCmd)
	SeasonCmd.AddCommand(seasonListCmd)
}
