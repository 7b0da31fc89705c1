package settings

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nemodouble/godlife/adapter/cli"
	"github.com/nemodouble/godlife/internal/routines/application/commands"
	routines "github.com/nemodouble/godlife/internal/routines/domain"
	"github.com/spf13/cobra"
)

var (
	settingsJSON bool

	timezone     string
	reminderTime string
	locale       string
	email        string
	suggestGoals bool
)

// Cmd is the settings command group
var Cmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage owner settings",
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show timezone, reminder time and language",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		settings, err := app.GetSettingsHandler.Handle(cmd.Context(), app.OwnerID)
		if err != nil {
			return err
		}
		return printSettings(cmd, settings)
	},
}

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Change settings",
	Long: `Change settings. Only the flags you pass are changed, and reminders
for today are planned again right away.

Examples:
  godlife settings set --timezone Asia/Seoul --reminder 21:30
  godlife settings set --locale en --email me@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		update := commands.UpdateSettingsCommand{OwnerID: app.OwnerID}
		flags := cmd.Flags()
		if flags.Changed("timezone") {
			update.Timezone = &timezone
		}
		if flags.Changed("reminder") {
			update.ReminderTime = &reminderTime
		}
		if flags.Changed("locale") {
			update.Locale = &locale
		}
		if flags.Changed("email") {
			update.Email = &email
		}
		if flags.Changed("suggest-goals") {
			update.SuggestGoals = &suggestGoals
		}
		if update == (commands.UpdateSettingsCommand{OwnerID: app.OwnerID}) {
			return errors.New("nothing to change, pass at least one flag")
		}

		settings, err := app.UpdateSettingsHandler.Handle(cmd.Context(), update)
		if err != nil {
			return err
		}
		return printSettings(cmd, settings)
	},
}

func printSettings(cmd *cobra.Command, settings *routines.UserSettings) error {
	out := cmd.OutOrStdout()
	if settingsJSON {
		return json.NewEncoder(out).Encode(map[string]any{
			"timezone":      settings.Timezone,
			"reminder_time": settings.ReminderTime.String(),
			"locale":        settings.Locale,
			"email":         settings.Email,
			"suggest_goals": settings.SuggestGoals,
		})
	}
	fmt.Fprintf(out, "Timezone:      %s\n", settings.Timezone)
	fmt.Fprintf(out, "Reminder time: %s\n", settings.ReminderTime)
	fmt.Fprintf(out, "Locale:        %s\n", settings.Locale)
	if settings.Email != "" {
		fmt.Fprintf(out, "Email:         %s\n", settings.Email)
	}
	fmt.Fprintf(out, "Suggest goals: %t\n", settings.SuggestGoals)
	return nil
}

func init() {
	setCmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone, e.g. Asia/Seoul")
	setCmd.Flags().StringVar(&reminderTime, "reminder", "", "default reminder time HH:MM")
	setCmd.Flags().StringVar(&locale, "locale", "", "message language (ko, en)")
	setCmd.Flags().StringVar(&email, "email", "", "email address for SMTP reminders")
	setCmd.Flags().BoolVar(&suggestGoals, "suggest-goals", false, "include goal suggestions in reports")

	showCmd.Flags().BoolVar(&settingsJSON, "json", false, "output as JSON")
	setCmd.Flags().BoolVar(&settingsJSON, "json", false, "output as JSON")

	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(setCmd)
}
