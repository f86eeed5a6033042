package ids

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewULID_MonotonicWithinMillisecond(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	prev := ""
	for i := 0; i < 100; i++ {
		id, err := NewULID(now)
		require.NoError(t, err)
		require.Len(t, id, 26)
		assert.Greater(t, id, prev)
		prev = id
	}

	parsed, err := ulid.ParseStrict(prev)
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(now), parsed.Time())
}

func TestNewULID_ZeroTime(t *testing.T) {
	id, err := NewULID(time.Time{})
	require.NoError(t, err)

	parsed, err := ulid.ParseStrict(id)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), ulid.Time(parsed.Time()), time.Minute)
}
