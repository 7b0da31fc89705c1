package exemption

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/nemodouble/godlife/adapter/cli"
	"github.com/nemodouble/godlife/internal/routines/application/commands"
	sharedDomain "github.com/nemodouble/godlife/internal/shared/domain"
	"github.com/spf13/cobra"
)

var (
	exemptionEnd    string
	exemptionReason string
	exemptionJSON   bool
)

// Cmd is the exemption command group
var Cmd = &cobra.Command{
	Use:     "exemption",
	Aliases: []string{"vacation"},
	Short:   "Manage exemption days",
	Long: `Exemption days are personal days off such as vacations or sick
days. No routine requires a checkin on them and streaks carry over.`,
}

var addCmd = &cobra.Command{
	Use:   "add [start-day]",
	Short: "Add an exemption window",
	Long: `Add an exemption from start-day to --end, both inclusive.

Examples:
  godlife exemption add 2025-02-03
  godlife exemption add 2025-07-28 --end 2025-08-01 --reason "Summer vacation"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		start, err := sharedDomain.ParseDay(args[0])
		if err != nil {
			return err
		}
		end := start
		if exemptionEnd != "" {
			end, err = sharedDomain.ParseDay(exemptionEnd)
			if err != nil {
				return err
			}
		}

		id, err := app.ExemptionHandler.Add(cmd.Context(), commands.AddExemptionCommand{
			OwnerID:  app.OwnerID,
			StartDay: start,
			EndDay:   end,
			Reason:   exemptionReason,
		})
		if err != nil {
			return fmt.Errorf("failed to add exemption: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added exemption %s ~ %s\n  ID: %s\n", start, end, id)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List exemption windows",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		exemptions, err := app.ListExemptionsHandler.Handle(cmd.Context(), app.OwnerID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if exemptionJSON {
			return json.NewEncoder(out).Encode(exemptions)
		}
		if len(exemptions) == 0 {
			fmt.Fprintln(out, "No exemptions.")
			return nil
		}
		for _, e := range exemptions {
			fmt.Fprintf(out, "%s ~ %s  %s\n    ID: %s\n", e.StartDay, e.EndDay, e.Reason, e.ID)
		}
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:     "remove [exemption-id]",
	Aliases: []string{"rm"},
	Short:   "Remove an exemption window",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid exemption ID: %w", err)
		}
		if err := app.ExemptionHandler.Remove(cmd.Context(), commands.RemoveExemptionCommand{
			OwnerID:     app.OwnerID,
			ExemptionID: id,
		}); err != nil {
			return fmt.Errorf("failed to remove exemption: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed exemption %s\n", id)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&exemptionEnd, "end", "", "last exempt day, inclusive (defaults to the start day)")
	addCmd.Flags().StringVarP(&exemptionReason, "reason", "r", "", "reason for the exemption")
	listCmd.Flags().BoolVar(&exemptionJSON, "json", false, "output as JSON")

	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(removeCmd)
}
