package queries

import (
	"time"

	"github.com/google/uuid"
	"github.com/nemodouble/godlife/internal/routines/domain"
)

// RoutineDTO is a read model of a routine.
type RoutineDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	WeekendMode string    `json:"weekend_mode"`
	Deadline    string    `json:"deadline,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Active      bool      `json:"active"`
	OrderIndex  int       `json:"order_index"`
	Paused      bool      `json:"paused"`
	PausedFrom  string    `json:"paused_from,omitempty"`
	PausedUntil string    `json:"paused_until,omitempty"`
	StartDay    string    `json:"start_day,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toRoutineDTO(r *domain.Routine) RoutineDTO {
	dto := RoutineDTO{
		ID:          r.ID(),
		Name:        r.Name(),
		WeekendMode: string(r.WeekendMode()),
		Notes:       r.Notes(),
		Active:      r.IsActive(),
		OrderIndex:  r.OrderIndex(),
		Paused:      r.Paused(),
		PausedFrom:  r.PausedFrom().String(),
		PausedUntil: r.PausedUntil().String(),
		StartDay:    r.StartDay().String(),
		CreatedAt:   r.CreatedAt(),
	}
	if r.Deadline() != nil {
		dto.Deadline = r.Deadline().String()
	}
	return dto
}
