package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	sharedDomain "github.com/nemodouble/godlife/internal/shared/domain"
	"github.com/nemodouble/godlife/internal/validity"
)

var (
	ErrExemptionInvalidRange = errors.New("exemption end day is before its start day")
	ErrExemptionNotFound     = errors.New("exemption not found")
)

// Exemption is an owner-wide range of days during which no routine requires a checkin.
type Exemption struct {
	ID        uuid.UUID
	OwnerID   string
	StartDay  sharedDomain.Day
	EndDay    sharedDomain.Day
	Reason    string
	CreatedAt time.Time
}

// NewExemption validates the inclusive range [start, end].
func NewExemption(ownerID string, start, end sharedDomain.Day, reason string) (*Exemption, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, ErrRoutineEmptyOwner
	}
	if start.IsZero() || end.IsZero() {
		return nil, sharedDomain.ErrInvalidDay
	}
	if end.Before(start) {
		return nil, ErrExemptionInvalidRange
	}
	return &Exemption{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		StartDay:  start,
		EndDay:    end,
		Reason:    strings.TrimSpace(reason),
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Window converts the exemption into a validity window.
func (e *Exemption) Window() validity.Window {
	return validity.Window{Start: e.StartDay, End: e.EndDay}
}

// Covers reports whether d lies inside the exemption.
func (e *Exemption) Covers(d sharedDomain.Day) bool {
	return d.Between(e.StartDay, e.EndDay)
}
