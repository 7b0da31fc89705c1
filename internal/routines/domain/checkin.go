package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	sharedDomain "github.com/nemodouble/godlife/internal/shared/domain"
)

var ErrInvalidCheckinState = errors.New("invalid checkin state")

// CheckinState is the single state describing a routine on one local day.
type CheckinState string

const (
	CheckinNeither CheckinState = "neither"
	CheckinDone    CheckinState = "done"
	CheckinSkipped CheckinState = "skipped"
)

// ParseCheckinState validates a state name.
func ParseCheckinState(value string) (CheckinState, error) {
	state := CheckinState(strings.ToLower(strings.TrimSpace(value)))
	switch state {
	case CheckinNeither, CheckinDone, CheckinSkipped:
		return state, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCheckinState, value)
	}
}

// NextToggle returns the state that follows s in the toggle cycle
// neither -> done -> skipped -> neither.
func (s CheckinState) NextToggle() CheckinState {
	switch s {
	case CheckinNeither:
		return CheckinDone
	case CheckinDone:
		return CheckinSkipped
	default:
		return CheckinNeither
	}
}

// Checkin is the completion record of one routine on one local day.
type Checkin struct {
	ID         uuid.UUID
	RoutineID  uuid.UUID
	OwnerID    string
	Day        sharedDomain.Day
	CheckedAt  *time.Time
	UndoneAt   *time.Time
	Skipped    bool
	SkipReason string
}

// State derives the day state. A skip wins over a stale checked timestamp.
func (c *Checkin) State() CheckinState {
	if c == nil {
		return CheckinNeither
	}
	if c.Skipped {
		return CheckinSkipped
	}
	if c.CheckedAt != nil {
		return CheckinDone
	}
	return CheckinNeither
}

// IsDone reports whether the day has a completed, non-skipped checkin.
func (c *Checkin) IsDone() bool {
	return c.State() == CheckinDone
}

// IsSkipped reports whether the day was explicitly skipped.
func (c *Checkin) IsSkipped() bool {
	return c.State() == CheckinSkipped
}
