package domain

import (
	"context"

	"github.com/google/uuid"
	sharedDomain "github.com/nemodouble/godlife/internal/shared/domain"
)

// RoutineRepository defines the interface for routine persistence.
type RoutineRepository interface {
	// Save persists a routine (create or update).
	Save(ctx context.Context, routine *Routine) error

	// FindByID finds a routine by its ID. Returns nil when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*Routine, error)

	// FindByOwner finds every routine of an owner, inactive ones included.
	FindByOwner(ctx context.Context, ownerID string) ([]*Routine, error)

	// FindActiveByOwner finds active routines ordered by order index, then creation.
	FindActiveByOwner(ctx context.Context, ownerID string) ([]*Routine, error)

	// ListOwners returns every owner that has at least one active routine.
	ListOwners(ctx context.Context) ([]string, error)

	// NextOrderIndex returns the order index for a newly created routine.
	NextOrderIndex(ctx context.Context, ownerID string) (int, error)
}

// CheckinRepository stores one checkin row per (routine, local day).
// Every mutation is an idempotent upsert on that pair.
type CheckinRepository interface {
	MarkDone(ctx context.Context, routineID uuid.UUID, ownerID string, day sharedDomain.Day) error
	Undo(ctx context.Context, routineID uuid.UUID, day sharedDomain.Day) error
	Skip(ctx context.Context, routineID uuid.UUID, ownerID string, day sharedDomain.Day, reason string) error
	Clear(ctx context.Context, routineID uuid.UUID, day sharedDomain.Day) error

	// Get returns the checkin or nil when the day was never touched.
	Get(ctx context.Context, routineID uuid.UUID, day sharedDomain.Day) (*Checkin, error)

	// ListForRoutine returns checkins with from <= day <= to ordered by day.
	ListForRoutine(ctx context.Context, routineID uuid.UUID, from, to sharedDomain.Day) ([]*Checkin, error)

	// ListForOwnerDay returns the owner's checkins of one day.
	ListForOwnerDay(ctx context.Context, ownerID string, day sharedDomain.Day) ([]*Checkin, error)

	// FirstDoneDay returns the earliest completed checkin day, or the zero day.
	FirstDoneDay(ctx context.Context, ownerID string) (sharedDomain.Day, error)

	// LastDoneDayBefore returns the latest completed checkin day strictly before
	// before, or the zero day.
	LastDoneDayBefore(ctx context.Context, ownerID string, before sharedDomain.Day) (sharedDomain.Day, error)
}

// ExemptionRepository stores owner exemption windows.
type ExemptionRepository interface {
	Save(ctx context.Context, exemption *Exemption) error
	Delete(ctx context.Context, ownerID string, id uuid.UUID) error
	FindByOwner(ctx context.Context, ownerID string) ([]*Exemption, error)
}

// SettingsRepository stores per-owner settings.
type SettingsRepository interface {
	// Get returns nil when the owner has no stored settings.
	Get(ctx context.Context, ownerID string) (*UserSettings, error)
	Save(ctx context.Context, settings *UserSettings) error
}
