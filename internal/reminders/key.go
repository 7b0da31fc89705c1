// Package reminders schedules daily prompts and deadline reminders and
// guarantees at most one send per trigger key.
package reminders

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nemodouble/godlife/internal/shared/domain"
)

// Kind identifies what a trigger sends.
type Kind string

const (
	KindDailyPrompt      Kind = "daily_prompt"
	KindDeadlineReminder Kind = "deadline_reminder"
)

// TriggerKey identifies one logical send. RoutineID is uuid.Nil for daily prompts.
type TriggerKey struct {
	OwnerID   string
	Day       domain.Day
	Kind      Kind
	RoutineID uuid.UUID
}

// String renders the key as "owner|day|kind|routine".
func (k TriggerKey) String() string {
	routine := "-"
	if k.RoutineID != uuid.Nil {
		routine = k.RoutineID.String()
	}
	return fmt.Sprintf("%s|%s|%s|%s", k.OwnerID, k.Day, k.Kind, routine)
}

// Trigger is a key due at an instant.
type Trigger struct {
	Key TriggerKey
	At  time.Time
}

// Due reports whether the trigger falls inside [now-window, now].
func (t Trigger) Due(now time.Time, window time.Duration) bool {
	return !t.At.After(now) && !t.At.Before(now.Add(-window))
}
