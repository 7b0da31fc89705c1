package reports

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	routines "github.com/nemodouble/godlife/internal/routines/domain"
	seasons "github.com/nemodouble/godlife/internal/seasons/domain"
)

// RoutineLister loads the routines a report covers.
type RoutineLister interface {
	FindActiveByOwner(ctx context.Context, ownerID string) ([]*routines.Routine, error)
}

// SeasonSource resolves report seasons.
type SeasonSource interface {
	GetOrCreateCurrent(ctx context.Context, ownerID string) (*seasons.Season, error)
	Get(ctx context.Context, ownerID string, id uuid.UUID) (*seasons.Season, error)
}

// OwnerSettings loads an owner's settings, falling back to defaults.
type OwnerSettings interface {
	Handle(ctx context.Context, ownerID string) (*routines.UserSettings, error)
}

// GenerateRequest selects what a report covers. A nil SeasonID means the
// current season and an empty Locale uses the owner's setting.
type GenerateRequest struct {
	OwnerID  string
	Scope    Scope
	SeasonID *uuid.UUID
	Locale   routines.Locale
}

// Report is a generated owner report.
type Report struct {
	Metrics  *UserMetrics
	Season   *SeasonInfo
	SeasonID uuid.UUID
	Text     string
}

// Service generates owner reports.
type Service struct {
	routines   RoutineLister
	seasons    SeasonSource
	settings   OwnerSettings
	aggregator *Aggregator
	logger     *slog.Logger
}

// NewService creates a report service.
func NewService(routineLister RoutineLister, seasonSource SeasonSource, settings OwnerSettings, aggregator *Aggregator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		routines:   routineLister,
		seasons:    seasonSource,
		settings:   settings,
		aggregator: aggregator,
		logger:     logger,
	}
}

// Generate aggregates the owner's active routines over the scope, clipped to
// the requested season, and renders the report text.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*Report, error) {
	scope := req.Scope
	if scope == "" {
		scope = Scope7d
	}
	if _, err := ParseScope(string(scope)); err != nil {
		return nil, err
	}

	settings, err := s.settings.Handle(ctx, req.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	locale := req.Locale
	if locale == "" {
		locale = settings.Locale
	}

	season, err := s.resolveSeason(ctx, req)
	if err != nil {
		return nil, err
	}

	rs, err := s.routines.FindActiveByOwner(ctx, req.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("load routines: %w", err)
	}

	agg := s.aggregator.In(settings.Location())
	period := Period{Start: season.StartDay(), End: season.EndDay()}
	metrics, err := agg.AggregateAsOf(ctx, req.OwnerID, rs, scope, period, agg.Today())
	if err != nil {
		return nil, err
	}

	info := &SeasonInfo{Title: season.Title(), Start: season.StartDay(), End: season.EndDay()}
	text, err := Render(metrics, info, locale)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("report generated",
		"owner_id", req.OwnerID,
		"scope", scope,
		"season_id", season.ID(),
		"routines", len(rs),
	)
	return &Report{Metrics: metrics, Season: info, SeasonID: season.ID(), Text: text}, nil
}

func (s *Service) resolveSeason(ctx context.Context, req GenerateRequest) (*seasons.Season, error) {
	if req.SeasonID != nil {
		return s.seasons.Get(ctx, req.OwnerID, *req.SeasonID)
	}
	return s.seasons.GetOrCreateCurrent(ctx, req.OwnerID)
}
