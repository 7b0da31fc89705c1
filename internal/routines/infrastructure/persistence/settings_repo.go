package persistence

import (
	"context"
	"fmt"

	"github.com/nemodouble/godlife/internal/routines/domain"
	sharedDomain "github.com/nemodouble/godlife/internal/shared/domain"
	"github.com/nemodouble/godlife/internal/shared/infrastructure/database"
)

// SQLSettingsRepository implements domain.SettingsRepository.
type SQLSettingsRepository struct {
	sqlStore
}

// NewSQLSettingsRepository creates a settings repository on conn.
func NewSQLSettingsRepository(conn database.Connection) *SQLSettingsRepository {
	return &SQLSettingsRepository{sqlStore{conn: conn}}
}

// Get returns the stored settings or nil.
func (r *SQLSettingsRepository) Get(ctx context.Context, ownerID string) (*domain.UserSettings, error) {
	var (
		owner, timezone, reminder, email, locale, createdAt string
		suggest                                             int64
	)
	err := r.queryRow(ctx, `SELECT owner_id, timezone, reminder_time, suggest_goals, email, locale, created_at
		FROM user_settings WHERE owner_id = ?`, ownerID).
		Scan(&owner, &timezone, &reminder, &suggest, &email, &locale, &createdAt)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get settings for %s: %w", ownerID, err)
	}

	tod, err := sharedDomain.ParseTimeOfDay(reminder)
	if err != nil {
		return nil, fmt.Errorf("settings for %s: %w", ownerID, err)
	}
	created, err := database.ParseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &domain.UserSettings{
		OwnerID:      owner,
		Timezone:     timezone,
		ReminderTime: tod,
		SuggestGoals: suggest != 0,
		Email:        email,
		Locale:       domain.Locale(locale),
		CreatedAt:    created,
	}, nil
}

// Save upserts the settings row.
func (r *SQLSettingsRepository) Save(ctx context.Context, s *domain.UserSettings) error {
	_, err := r.exec(ctx, `
		INSERT INTO user_settings (owner_id, timezone, reminder_time, suggest_goals, email, locale, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (owner_id) DO UPDATE SET
			timezone = excluded.timezone,
			reminder_time = excluded.reminder_time,
			suggest_goals = excluded.suggest_goals,
			email = excluded.email,
			locale = excluded.locale`,
		s.OwnerID, s.Timezone, s.ReminderTime.String(), database.BoolToInt(s.SuggestGoals),
		s.Email, string(s.Locale), database.FormatTime(s.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("save settings for %s: %w", s.OwnerID, err)
	}
	return nil
}
