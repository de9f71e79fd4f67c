package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CountsPerKey(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()

	for i := 1; i <= 3; i++ {
		count, err := store.Incr("10.0.0.1", time.Minute)
		require.NoError(t, err)
		assert.EqualValues(t, i, count)
	}

	count, err := store.Incr("10.0.0.2", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestMemoryStore_WindowExpires(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	current := time.Now()
	store.now = func() time.Time { return current }

	count, err := store.Incr("client", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	count, err = store.Incr("client", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	// Past the TTL the window restarts from one.
	current = current.Add(61 * time.Second)
	count, err = store.Incr("client", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
