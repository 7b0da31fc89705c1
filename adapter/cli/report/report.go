package report

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/nemodouble/godlife/adapter/cli"
	"github.com/nemodouble/godlife/internal/reports"
	routines "github.com/nemodouble/godlife/internal/routines/domain"
	"github.com/spf13/cobra"
)

var (
	scope      string
	seasonID   string
	locale     string
	reportJSON bool
)

// Cmd shows an achievement report.
var Cmd = &cobra.Command{
	Use:   "report",
	Short: "Show achievement rates and streaks",
	Long: `Show achievement rates and streaks for the last 7 days, the last
30 days or the whole season.

Examples:
  godlife report
  godlife report --scope 30d
  godlife report --scope all --season abc123 --locale en`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		parsedScope, err := reports.ParseScope(scope)
		if err != nil {
			return err
		}
		req := reports.GenerateRequest{
			OwnerID: app.OwnerID,
			Scope:   parsedScope,
		}
		if seasonID != "" {
			id, err := uuid.Parse(seasonID)
			if err != nil {
				return fmt.Errorf("invalid season ID: %w", err)
			}
			req.SeasonID = &id
		}
		if locale != "" {
			parsed, err := routines.ParseLocale(locale)
			if err != nil {
				return err
			}
			req.Locale = parsed
		}

		report, err := app.ReportService.Generate(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("failed to generate report: %w", err)
		}

		out := cmd.OutOrStdout()
		if reportJSON {
			return json.NewEncoder(out).Encode(map[string]any{
				"season_id": report.SeasonID,
				"season":    report.Season,
				"metrics":   report.Metrics,
			})
		}
		fmt.Fprintln(out, report.Text)
		return nil
	},
}

func init() {
	Cmd.Flags().StringVarP(&scope, "scope", "s", string(reports.Scope7d), "report window (7d, 30d, all)")
	Cmd.Flags().StringVar(&seasonID, "season", "", "season ID (defaults to the current season)")
	Cmd.Flags().StringVarP(&locale, "locale", "l", "", "report language (ko, en)")
	Cmd.Flags().BoolVar(&reportJSON, "json", false, "output metrics as JSON")
}
