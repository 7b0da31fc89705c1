package settings

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nemodouble/godlife/adapter/cli"
	internalApp "github.com/nemodouble/godlife/internal/app"
	"github.com/nemodouble/godlife/pkg/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOwner = "owner-1"

// setupLocalModeTestApp creates a test application with SQLite for integration tests.
func setupLocalModeTestApp(t *testing.T) *cli.App {
	t.Helper()

	cfg := &config.Config{
		AppEnv:                  "test",
		OwnerID:                 testOwner,
		LocalMode:               true,
		DatabaseDriver:          "sqlite",
		SQLitePath:              filepath.Join(t.TempDir(), "test.db"),
		SentStore:               config.SentStoreMemory,
		Messenger:               config.MessengerLog,
		BreakerFailureThreshold: 5,
		BreakerOpenTimeout:      time.Minute,
		DefaultTimezone:         "Asia/Seoul",
		DayBoundaryOffset:       4 * time.Hour,
		DefaultReminderTime:     "21:00",
		HolidayCountry:          "KR",
		MessageLocale:           "ko",
		SweepInterval:           5 * time.Minute,
		SweepWindow:             5 * time.Minute,
		ReplanSchedule:          "@hourly",
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	container, err := internalApp.NewLocalContainer(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(container.Close)

	app := cli.NewApp(container)
	cli.SetApp(app)
	t.Cleanup(func() { cli.SetApp(nil) })
	return app
}

func run(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	require.NoError(t, cmd.RunE(cmd, args))
	return out.String()
}

func TestShowCmd_Defaults(t *testing.T) {
	setupLocalModeTestApp(t)

	settingsJSON = false
	out := run(t, showCmd)
	assert.Contains(t, out, "Timezone:      Asia/Seoul")
	assert.Contains(t, out, "Reminder time: 21:00")
	assert.Contains(t, out, "Locale:        ko")
}

func TestSetCmd_UpdatesChangedFields(t *testing.T) {
	app := setupLocalModeTestApp(t)

	require.NoError(t, setCmd.Flags().Set("reminder", "07:30"))
	require.NoError(t, setCmd.Flags().Set("locale", "en"))
	settingsJSON = false
	out := run(t, setCmd)
	assert.Contains(t, out, "Reminder time: 07:30")

	settings, err := app.GetSettingsHandler.Handle(context.Background(), app.OwnerID)
	require.NoError(t, err)
	assert.Equal(t, "07:30", settings.ReminderTime.String())
	assert.Equal(t, "Asia/Seoul", settings.Timezone)
}
