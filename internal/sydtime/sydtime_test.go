package sydtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUsesSydneyOffset(t *testing.T) {
	// August is outside daylight saving: AEST, UTC+10.
	parsed, err := Parse("2025-08-15T10:00")
	require.NoError(t, err)

	utc := parsed.UTC()
	assert.Equal(t, time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC), utc)
}

func TestParseAcrossDaylightSavingBoundary(t *testing.T) {
	// Sydney switches to AEDT (UTC+11) on 2025-10-05 at 02:00.
	before, err := Parse("2025-10-04T10:00")
	require.NoError(t, err)
	after, err := Parse("2025-10-06T10:00")
	require.NoError(t, err)

	_, beforeOffset := before.Zone()
	_, afterOffset := after.Zone()
	assert.Equal(t, 10*3600, beforeOffset)
	assert.Equal(t, 11*3600, afterOffset)

	// Same wall-clock time two days apart is 47 elapsed hours, not 48.
	assert.Equal(t, 47*time.Hour, after.Sub(before))
}

func TestParseRejectsMalformedInput(t *testing.T) {
	_, err := Parse("15/08/2025 10:00")
	assert.Error(t, err)
}

func TestFormatRoundTrip(t *testing.T) {
	parsed, err := Parse("2025-12-01T19:30")
	require.NoError(t, err)
	assert.Equal(t, "2025-12-01T19:30", Format(parsed))
}

func TestHasExpired(t *testing.T) {
	start := "2025-08-15T10:00"

	at := func(value string) time.Time {
		now, err := Parse(value)
		require.NoError(t, err)
		return now
	}

	expired, err := HasExpired(start, 60, at("2025-08-15T10:59"))
	require.NoError(t, err)
	assert.False(t, expired)

	expired, err = HasExpired(start, 60, at("2025-08-15T11:00"))
	require.NoError(t, err)
	assert.True(t, expired)

	expired, err = HasExpired(start, 60, at("2025-08-16T09:00"))
	require.NoError(t, err)
	assert.True(t, expired)
}

func TestHasStarted(t *testing.T) {
	start := "2025-08-15T10:00"

	now, err := Parse("2025-08-15T09:59")
	require.NoError(t, err)
	started, err := HasStarted(start, now)
	require.NoError(t, err)
	assert.False(t, started)

	now, err = Parse("2025-08-15T10:00")
	require.NoError(t, err)
	started, err = HasStarted(start, now)
	require.NoError(t, err)
	assert.True(t, started)
}
