package cli

import (
	"context"
	"errors"

	internalApp "github.com/nemodouble/godlife/internal/app"
	"github.com/nemodouble/godlife/internal/reminders"
	"github.com/nemodouble/godlife/internal/reports"
	"github.com/nemodouble/godlife/internal/routines/application/commands"
	"github.com/nemodouble/godlife/internal/routines/application/queries"
	seasonServices "github.com/nemodouble/godlife/internal/seasons/application/services"
	sharedDomain "github.com/nemodouble/godlife/internal/shared/domain"
	"github.com/nemodouble/godlife/pkg/config"
	"github.com/nemodouble/godlife/pkg/observability"
)

// ErrNotConfigured is returned by commands that need a database connection.
var ErrNotConfigured = errors.New("godlife is not initialized, check DATABASE_URL or GODLIFE_LOCAL_MODE")

// ErrNoOwner is returned when no owner is configured.
var ErrNoOwner = errors.New("owner not configured, set GODLIFE_OWNER_ID or pass --owner")

// App holds the CLI application dependencies.
type App struct {
	// Routine Command Handlers
	CreateRoutineHandler     *commands.CreateRoutineHandler
	UpdateRoutineHandler     *commands.UpdateRoutineHandler
	DeactivateRoutineHandler *commands.DeactivateRoutineHandler
	PauseRoutineHandler      *commands.PauseRoutineHandler
	ReorderRoutinesHandler   *commands.ReorderRoutinesHandler
	RecordCheckinHandler     *commands.RecordCheckinHandler
	ToggleCheckinHandler     *commands.ToggleCheckinHandler
	ExemptionHandler         *commands.ExemptionHandler
	UpdateSettingsHandler    *commands.UpdateSettingsHandler

	// Routine Query Handlers
	ListRoutinesHandler   *queries.ListRoutinesHandler
	DayBoardHandler       *queries.DayBoardHandler
	ListExemptionsHandler *queries.ListExemptionsHandler
	GetSettingsHandler    *queries.GetSettingsHandler
	OwnerDays             *queries.OwnerDays

	// Seasons, reports and reminders
	SeasonManager *seasonServices.Manager
	ReportService *reports.Service
	Scheduler     *reminders.Scheduler
	Health        *observability.HealthRegistry

	// Current owner (configured per environment)
	OwnerID string
}

// NewApp creates a CLI application from a wired container.
func NewApp(c *internalApp.Container) *App {
	return &App{
		CreateRoutineHandler:     c.CreateRoutineHandler,
		UpdateRoutineHandler:     c.UpdateRoutineHandler,
		DeactivateRoutineHandler: c.DeactivateRoutineHandler,
		PauseRoutineHandler:      c.PauseRoutineHandler,
		ReorderRoutinesHandler:   c.ReorderRoutinesHandler,
		RecordCheckinHandler:     c.RecordCheckinHandler,
		ToggleCheckinHandler:     c.ToggleCheckinHandler,
		ExemptionHandler:         c.ExemptionHandler,
		UpdateSettingsHandler:    c.UpdateSettingsHandler,
		ListRoutinesHandler:      c.ListRoutinesHandler,
		DayBoardHandler:          c.DayBoardHandler,
		ListExemptionsHandler:    c.ListExemptionsHandler,
		GetSettingsHandler:       c.GetSettingsHandler,
		OwnerDays:                c.OwnerDays,
		SeasonManager:            c.SeasonManager,
		ReportService:            c.ReportService,
		Scheduler:                c.Scheduler,
		Health:                   c.Health,
		OwnerID:                  c.Config.OwnerID,
	}
}

// SetOwnerID updates the current owner.
func (a *App) SetOwnerID(ownerID string) {
	a.OwnerID = ownerID
}

// ResolveDay parses value as YYYY-MM-DD, or returns the owner's current local
// day when value is empty.
func (a *App) ResolveDay(ctx context.Context, value string) (sharedDomain.Day, error) {
	if value != "" {
		return sharedDomain.ParseDay(value)
	}
	return a.OwnerDays.Today(ctx, a.OwnerID)
}

// app is the global CLI application instance
var app *App

// cfg is the configuration the application was built from
var cfg *config.Config

// SetConfig records the loaded configuration for commands that start servers.
func SetConfig(c *config.Config) {
	cfg = c
}

// GetConfig returns the loaded configuration.
func GetConfig() *config.Config {
	return cfg
}

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}

// RequireApp returns the application with a configured owner.
func RequireApp() (*App, error) {
	if app == nil {
		return nil, ErrNotConfigured
	}
	if ownerFlag != "" {
		app.OwnerID = ownerFlag
	}
	if app.OwnerID == "" {
		return nil, ErrNoOwner
	}
	return app, nil
}
