package domain

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the identity and audit timestamps of routines, seasons
// and the other stored records. Timestamps are always UTC.
type BaseEntity struct {
	id        uuid.UUID
	createdAt time.Time
	updatedAt time.Time
}

// NewBaseEntity assigns a fresh ID stamped with the current time.
func NewBaseEntity() BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{id: uuid.New(), createdAt: now, updatedAt: now}
}

// RehydrateBaseEntity restores a stored identity.
func RehydrateBaseEntity(id uuid.UUID, createdAt, updatedAt time.Time) BaseEntity {
	return BaseEntity{id: id, createdAt: createdAt.UTC(), updatedAt: updatedAt.UTC()}
}

func (e BaseEntity) ID() uuid.UUID        { return e.id }
func (e BaseEntity) CreatedAt() time.Time { return e.createdAt }
func (e BaseEntity) UpdatedAt() time.Time { return e.updatedAt }

// Touch moves updatedAt forward. It never moves it before createdAt, which
// keeps rehydrated records with future-skewed clocks consistent.
func (e *BaseEntity) Touch() {
	now := time.Now().UTC()
	if now.Before(e.createdAt) {
		now = e.createdAt
	}
	e.updatedAt = now
}
