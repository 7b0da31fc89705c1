package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var healthJSON bool

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check database, cache and delivery health",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Health == nil {
			return ErrNotConfigured
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()
		health := app.Health.GetOverallHealth(ctx)

		if healthJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(health)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", health.Status)
		for _, name := range app.Health.Names() {
			check, ok := health.Checks[name]
			if !ok {
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %-18s %-9s %s\n", name, check.Status, check.Message)
		}
		if app.OwnerID == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "  (no owner configured)")
		}
		return nil
	},
}

func init() {
	healthCmd.Flags().BoolVar(&healthJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(healthCmd)
}
