package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedDomain "github.com/nemodouble/godlife/internal/shared/domain"
)

func TestNewExemption(t *testing.T) {
	e, err := NewExemption("owner-1", day("2025-01-10"), day("2025-01-12"), " trip ")
	require.NoError(t, err)
	assert.Equal(t, "trip", e.Reason)
	assert.True(t, e.Covers(day("2025-01-12")))
	assert.False(t, e.Covers(day("2025-01-13")))

	_, err = NewExemption("owner-1", day("2025-01-12"), day("2025-01-10"), "")
	assert.ErrorIs(t, err, ErrExemptionInvalidRange)

	_, err = NewExemption("owner-1", sharedDomain.Day{}, day("2025-01-10"), "")
	assert.ErrorIs(t, err, sharedDomain.ErrInvalidDay)
}

func TestUserSettings(t *testing.T) {
	reminder, err := sharedDomain.NewTimeOfDay(8, 0)
	require.NoError(t, err)
	settings := DefaultSettings("owner-1", SettingsDefaults{ReminderTime: reminder})

	assert.Equal(t, sharedDomain.DefaultTimezone, settings.Timezone)
	assert.Equal(t, LocaleKorean, settings.Locale)

	assert.ErrorIs(t, settings.SetTimezone("Mars/Olympus"), ErrInvalidTimezone)
	assert.ErrorIs(t, settings.SetTimezone(""), ErrInvalidTimezone)
	require.NoError(t, settings.SetTimezone("UTC"))
	assert.Equal(t, "UTC", settings.Location().String())

	assert.ErrorIs(t, settings.SetEmail("not-an-address"), ErrInvalidEmail)
	require.NoError(t, settings.SetEmail("Owner <owner@example.com>"))
	assert.Equal(t, "owner@example.com", settings.Email)
	require.NoError(t, settings.SetEmail(""))
	assert.Empty(t, settings.Email)

	_, err = ParseLocale("fr")
	assert.ErrorIs(t, err, ErrInvalidLocale)
}
