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
	ErrRoutineEmptyName  = errors.New("routine name cannot be empty")
	ErrRoutineEmptyOwner = errors.New("routine owner cannot be empty")
	ErrRoutineInactive   = errors.New("routine is inactive")
	ErrRoutineNotFound   = errors.New("routine not found")
	ErrNotOwner          = errors.New("owner does not own this routine")
	ErrInvalidPauseUntil = errors.New("pause end day is before the pause start")
	ErrRoutineNotPaused  = errors.New("routine is not paused")
)

// Routine is a recurring task the owner checks off on valid days.
type Routine struct {
	sharedDomain.BaseEntity
	ownerID     string
	name        string
	weekendMode validity.WeekendMode
	deadline    *sharedDomain.TimeOfDay
	notes       string
	active      bool
	orderIndex  int
	paused      bool
	pausedFrom  sharedDomain.Day
	pausedUntil sharedDomain.Day
	startDay    sharedDomain.Day
}

// NewRoutine creates an active routine.
func NewRoutine(ownerID, name string, mode validity.WeekendMode) (*Routine, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, ErrRoutineEmptyOwner
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrRoutineEmptyName
	}
	if !mode.IsValid() {
		return nil, validity.ErrInvalidWeekendMode
	}

	return &Routine{
		BaseEntity:  sharedDomain.NewBaseEntity(),
		ownerID:     ownerID,
		name:        name,
		weekendMode: mode,
		active:      true,
	}, nil
}

// RoutineSnapshot carries persisted routine state.
type RoutineSnapshot struct {
	ID          uuid.UUID
	OwnerID     string
	Name        string
	WeekendMode validity.WeekendMode
	Deadline    *sharedDomain.TimeOfDay
	Notes       string
	Active      bool
	OrderIndex  int
	Paused      bool
	PausedFrom  sharedDomain.Day
	PausedUntil sharedDomain.Day
	StartDay    sharedDomain.Day
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RehydrateRoutine recreates a routine from persisted state.
func RehydrateRoutine(s RoutineSnapshot) *Routine {
	return &Routine{
		BaseEntity:  sharedDomain.RehydrateBaseEntity(s.ID, s.CreatedAt, s.UpdatedAt),
		ownerID:     s.OwnerID,
		name:        s.Name,
		weekendMode: s.WeekendMode,
		deadline:    s.Deadline,
		notes:       s.Notes,
		active:      s.Active,
		orderIndex:  s.OrderIndex,
		paused:      s.Paused,
		pausedFrom:  s.PausedFrom,
		pausedUntil: s.PausedUntil,
		startDay:    s.StartDay,
	}
}

// Getters
func (r *Routine) OwnerID() string                   { return r.ownerID }
func (r *Routine) Name() string                      { return r.name }
func (r *Routine) WeekendMode() validity.WeekendMode { return r.weekendMode }
func (r *Routine) Deadline() *sharedDomain.TimeOfDay { return r.deadline }
func (r *Routine) Notes() string                     { return r.notes }
func (r *Routine) IsActive() bool                    { return r.active }
func (r *Routine) OrderIndex() int                   { return r.orderIndex }
func (r *Routine) Paused() bool                      { return r.paused }
func (r *Routine) PausedFrom() sharedDomain.Day      { return r.pausedFrom }
func (r *Routine) PausedUntil() sharedDomain.Day     { return r.pausedUntil }
func (r *Routine) StartDay() sharedDomain.Day        { return r.startDay }

// IsOwnedBy reports whether ownerID owns the routine.
func (r *Routine) IsOwnedBy(ownerID string) bool {
	return r.ownerID == ownerID
}

// Snapshot exports the routine state for persistence.
func (r *Routine) Snapshot() RoutineSnapshot {
	return RoutineSnapshot{
		ID:          r.ID(),
		OwnerID:     r.ownerID,
		Name:        r.name,
		WeekendMode: r.weekendMode,
		Deadline:    r.deadline,
		Notes:       r.notes,
		Active:      r.active,
		OrderIndex:  r.orderIndex,
		Paused:      r.paused,
		PausedFrom:  r.pausedFrom,
		PausedUntil: r.pausedUntil,
		StartDay:    r.startDay,
		CreatedAt:   r.CreatedAt(),
		UpdatedAt:   r.UpdatedAt(),
	}
}

// Rename changes the display name.
func (r *Routine) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrRoutineEmptyName
	}
	r.name = name
	r.Touch()
	return nil
}

// SetWeekendMode changes which days of the week the routine applies to.
func (r *Routine) SetWeekendMode(mode validity.WeekendMode) error {
	if !mode.IsValid() {
		return validity.ErrInvalidWeekendMode
	}
	r.weekendMode = mode
	r.Touch()
	return nil
}

// SetDeadline sets the per-day deadline. Nil falls back to the owner's reminder time.
func (r *Routine) SetDeadline(deadline *sharedDomain.TimeOfDay) {
	r.deadline = deadline
	r.Touch()
}

// SetNotes replaces the free-form notes.
func (r *Routine) SetNotes(notes string) {
	r.notes = strings.TrimSpace(notes)
	r.Touch()
}

// SetStartDay sets the explicit first day counted in reports.
func (r *Routine) SetStartDay(d sharedDomain.Day) {
	r.startDay = d
	r.Touch()
}

// SetOrderIndex moves the routine in the owner's list.
func (r *Routine) SetOrderIndex(index int) {
	r.orderIndex = index
	r.Touch()
}

// Deactivate removes the routine from scheduling while keeping its history.
func (r *Routine) Deactivate() {
	r.active = false
	r.Touch()
}

// Activate puts an inactive routine back into scheduling.
func (r *Routine) Activate() {
	r.active = true
	r.Touch()
}

// Pause pauses the routine starting on from. A zero until means an indefinite pause.
func (r *Routine) Pause(from, until sharedDomain.Day) error {
	if !r.active {
		return ErrRoutineInactive
	}
	if !until.IsZero() && until.Before(from) {
		return ErrInvalidPauseUntil
	}
	r.pausedFrom = from
	r.pausedUntil = until
	r.paused = until.IsZero()
	r.Touch()
	return nil
}

// Resume clears any pause.
func (r *Routine) Resume() error {
	if !r.paused && r.pausedUntil.IsZero() {
		return ErrRoutineNotPaused
	}
	r.paused = false
	r.pausedFrom = sharedDomain.Day{}
	r.pausedUntil = sharedDomain.Day{}
	r.Touch()
	return nil
}

// IsPausedOn reports whether d is a paused day: an indefinite pause, or d on or
// before pausedUntil. Days before a recorded pause start are never paused.
func (r *Routine) IsPausedOn(d sharedDomain.Day) bool {
	if !r.pausedFrom.IsZero() && d.Before(r.pausedFrom) {
		return false
	}
	if r.paused {
		return true
	}
	return !r.pausedUntil.IsZero() && !d.After(r.pausedUntil)
}

// EffectiveStart returns the first day counted in reports: the explicit start
// day, else the local day of creation, else fallback.
func (r *Routine) EffectiveStart(boundary sharedDomain.DayBoundary, fallback sharedDomain.Day) sharedDomain.Day {
	if !r.startDay.IsZero() {
		return r.startDay
	}
	if !r.CreatedAt().IsZero() {
		return boundary.LocalDay(r.CreatedAt())
	}
	return fallback
}

// ReminderTime returns the routine deadline or the owner's default reminder time.
func (r *Routine) ReminderTime(ownerDefault sharedDomain.TimeOfDay) sharedDomain.TimeOfDay {
	if r.deadline != nil {
		return *r.deadline
	}
	return ownerDefault
}
