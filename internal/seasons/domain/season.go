package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	sharedDomain "github.com/nemodouble/godlife/internal/shared/domain"
)

// DefaultTitle names the season created automatically for a new owner.
const DefaultTitle = "현재 시즌"

var (
	ErrSeasonNotFound   = errors.New("season not found")
	ErrSeasonEmptyOwner = errors.New("season owner cannot be empty")
	ErrInvalidStartDay  = errors.New("season start day is required")
	ErrInvalidEndDay    = errors.New("season end day is before its start")
)

// Season is a named report period of one owner. A zero end day means the
// season is still running.
type Season struct {
	sharedDomain.BaseEntity
	ownerID  string
	title    string
	startDay sharedDomain.Day
	endDay   sharedDomain.Day
	closedAt *time.Time
	active   bool
}

// NewSeason creates an open season. An empty title becomes DefaultTitle.
func NewSeason(ownerID, title string, start sharedDomain.Day) (*Season, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, ErrSeasonEmptyOwner
	}
	if start.IsZero() {
		return nil, ErrInvalidStartDay
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultTitle
	}
	return &Season{
		BaseEntity: sharedDomain.NewBaseEntity(),
		ownerID:    ownerID,
		title:      title,
		startDay:   start,
		active:     true,
	}, nil
}

// SeasonSnapshot carries persisted season state.
type SeasonSnapshot struct {
	ID        uuid.UUID
	OwnerID   string
	Title     string
	StartDay  sharedDomain.Day
	EndDay    sharedDomain.Day
	CreatedAt time.Time
	ClosedAt  *time.Time
	Active    bool
}

// RehydrateSeason recreates a season from persisted state.
func RehydrateSeason(s SeasonSnapshot) *Season {
	return &Season{
		BaseEntity: sharedDomain.RehydrateBaseEntity(s.ID, s.CreatedAt, s.CreatedAt),
		ownerID:    s.OwnerID,
		title:      s.Title,
		startDay:   s.StartDay,
		endDay:     s.EndDay,
		closedAt:   s.ClosedAt,
		active:     s.Active,
	}
}

func (s *Season) OwnerID() string            { return s.ownerID }
func (s *Season) Title() string              { return s.title }
func (s *Season) StartDay() sharedDomain.Day { return s.startDay }
func (s *Season) EndDay() sharedDomain.Day   { return s.endDay }
func (s *Season) ClosedAt() *time.Time       { return s.closedAt }
func (s *Season) IsActive() bool             { return s.active }
func (s *Season) IsOpen() bool               { return s.endDay.IsZero() }

// Snapshot exports the season for persistence.
func (s *Season) Snapshot() SeasonSnapshot {
	return SeasonSnapshot{
		ID:        s.ID(),
		OwnerID:   s.ownerID,
		Title:     s.title,
		StartDay:  s.startDay,
		EndDay:    s.endDay,
		CreatedAt: s.CreatedAt(),
		ClosedAt:  s.closedAt,
		Active:    s.active,
	}
}

// Close ends the season on end, which must not precede the start.
func (s *Season) Close(end sharedDomain.Day, at time.Time) error {
	if end.Before(s.startDay) {
		return ErrInvalidEndDay
	}
	s.endDay = end
	closed := at.UTC()
	s.closedAt = &closed
	s.active = false
	s.Touch()
	return nil
}

// MoveStart rewrites the start day. Used by the startup repair only.
func (s *Season) MoveStart(d sharedDomain.Day) error {
	if d.IsZero() {
		return ErrInvalidStartDay
	}
	if !s.endDay.IsZero() && s.endDay.Before(d) {
		return ErrInvalidEndDay
	}
	s.startDay = d
	s.Touch()
	return nil
}

// Precedes reports whether s sorts before other by (start day, created at).
func (s *Season) Precedes(other *Season) bool {
	if c := s.startDay.Compare(other.startDay); c != 0 {
		return c < 0
	}
	return s.CreatedAt().Before(other.CreatedAt())
}

// Repository persists seasons.
type Repository interface {
	Save(ctx context.Context, s *Season) error
	// FindByID returns nil when the owner has no such season.
	FindByID(ctx context.Context, ownerID string, id uuid.UUID) (*Season, error)
	// FindByOwner returns the newest seasons first, ordered by start day then
	// created at. limit <= 0 returns all.
	FindByOwner(ctx context.Context, ownerID string, limit int) ([]*Season, error)
	ListOwners(ctx context.Context) ([]string, error)
}

// CheckinHistory answers questions about an owner's completed checkins.
// Zero days mean no completed checkin matched.
type CheckinHistory interface {
	FirstDoneDay(ctx context.Context, ownerID string) (sharedDomain.Day, error)
	LastDoneDayBefore(ctx context.Context, ownerID string, before sharedDomain.Day) (sharedDomain.Day, error)
}
