package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedDomain "github.com/nemodouble/godlife/internal/shared/domain"
)

func TestNewSeason(t *testing.T) {
	s, err := NewSeason(" owner-1 ", "  ", sharedDomain.MustParseDay("2025-01-01"))
	require.NoError(t, err)
	assert.Equal(t, "owner-1", s.OwnerID())
	assert.Equal(t, DefaultTitle, s.Title())
	assert.True(t, s.IsOpen())
	assert.True(t, s.IsActive())

	_, err = NewSeason("", "x", sharedDomain.MustParseDay("2025-01-01"))
	assert.ErrorIs(t, err, ErrSeasonEmptyOwner)

	_, err = NewSeason("owner-1", "x", sharedDomain.Day{})
	assert.ErrorIs(t, err, ErrInvalidStartDay)
}

func TestSeason_Close(t *testing.T) {
	s, err := NewSeason("owner-1", "Winter", sharedDomain.MustParseDay("2025-01-10"))
	require.NoError(t, err)

	assert.ErrorIs(t, s.Close(sharedDomain.MustParseDay("2025-01-09"), time.Now()), ErrInvalidEndDay)
	assert.True(t, s.IsOpen())

	require.NoError(t, s.Close(sharedDomain.MustParseDay("2025-01-10"), time.Now()))
	assert.False(t, s.IsOpen())
	assert.False(t, s.IsActive())
	assert.NotNil(t, s.ClosedAt())
}

func TestSeason_MoveStart(t *testing.T) {
	s, err := NewSeason("owner-1", "Winter", sharedDomain.MustParseDay("2025-01-10"))
	require.NoError(t, err)
	require.NoError(t, s.Close(sharedDomain.MustParseDay("2025-01-20"), time.Now()))

	require.NoError(t, s.MoveStart(sharedDomain.MustParseDay("2025-01-01")))
	assert.Equal(t, sharedDomain.MustParseDay("2025-01-01"), s.StartDay())
	assert.ErrorIs(t, s.MoveStart(sharedDomain.MustParseDay("2025-01-21")), ErrInvalidEndDay)
}

func TestSeason_Precedes(t *testing.T) {
	a, err := NewSeason("owner-1", "", sharedDomain.MustParseDay("2025-01-01"))
	require.NoError(t, err)
	b, err := NewSeason("owner-1", "", sharedDomain.MustParseDay("2025-02-01"))
	require.NoError(t, err)

	assert.True(t, a.Precedes(b))
	assert.False(t, b.Precedes(a))

	earlier := RehydrateSeason(SeasonSnapshot{StartDay: a.StartDay(), CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)})
	later := RehydrateSeason(SeasonSnapshot{StartDay: a.StartDay(), CreatedAt: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)})
	assert.True(t, earlier.Precedes(later), "same start orders by creation")
}
