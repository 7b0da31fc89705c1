package queries

import (
	"context"
	"time"

	sharedDomain "github.com/nemodouble/godlife/internal/shared/domain"
)

// OwnerDays resolves an owner's day boundary and current local day from their
// timezone setting.
type OwnerDays struct {
	settings *GetSettingsHandler
	offset   time.Duration
	clock    sharedDomain.Clock
}

// NewOwnerDays creates an OwnerDays. A nil clock reads the wall clock.
func NewOwnerDays(settings *GetSettingsHandler, offset time.Duration, clock sharedDomain.Clock) *OwnerDays {
	if clock == nil {
		clock = sharedDomain.SystemClock{}
	}
	return &OwnerDays{settings: settings, offset: offset, clock: clock}
}

// Boundary returns the owner's day boundary.
func (o *OwnerDays) Boundary(ctx context.Context, ownerID string) (sharedDomain.DayBoundary, error) {
	s, err := o.settings.Handle(ctx, ownerID)
	if err != nil {
		return sharedDomain.DayBoundary{}, err
	}
	return s.Boundary(o.offset), nil
}

// Today returns the owner's current local day.
func (o *OwnerDays) Today(ctx context.Context, ownerID string) (sharedDomain.Day, error) {
	b, err := o.Boundary(ctx, ownerID)
	if err != nil {
		return sharedDomain.Day{}, err
	}
	return b.LocalDay(o.clock.Now()), nil
}
