package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebind(t *testing.T) {
	tests := []struct {
		name     string
		driver   Driver
		query    string
		expected string
	}{
		{
			name:     "sqlite keeps question marks",
			driver:   DriverSQLite,
			query:    "SELECT * FROM routine WHERE owner_id = ? AND active = ?",
			expected: "SELECT * FROM routine WHERE owner_id = ? AND active = ?",
		},
		{
			name:     "postgres numbers placeholders",
			driver:   DriverPostgres,
			query:    "SELECT * FROM routine WHERE owner_id = ? AND active = ?",
			expected: "SELECT * FROM routine WHERE owner_id = $1 AND active = $2",
		},
		{
			name:     "literals are untouched",
			driver:   DriverPostgres,
			query:    "SELECT '?' FROM routine WHERE id = ?",
			expected: "SELECT '?' FROM routine WHERE id = $1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Rebind(tt.driver, tt.query))
		})
	}
}

func TestParseNullableTime(t *testing.T) {
	got, err := ParseNullableTime(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	at := time.Date(2025, 1, 10, 12, 30, 0, 0, time.UTC)
	stored := FormatTime(at)
	got, err = ParseNullableTime(&stored)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, at.Equal(*got))

	assert.Nil(t, NullableTime(nil))
	assert.Equal(t, stored, NullableTime(&at))
}

func TestFormatTime_SortsAsText(t *testing.T) {
	earlier := FormatTime(time.Date(2025, 1, 10, 12, 0, 5, 100_000_000, time.UTC))
	later := FormatTime(time.Date(2025, 1, 10, 12, 0, 5, 120_000_000, time.UTC))

	assert.Less(t, earlier, later)
	assert.Equal(t, "2025-01-10T12:00:05.100000000Z", earlier)
}
