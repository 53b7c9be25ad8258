package utils_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/marketloop/supportd/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLMapSetGet(t *testing.T) {
	t.Parallel()

	m := utils.NewTTLMap[string, int](time.Minute)

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()

		_, ok := m.Get("absent")
		assert.False(t, ok)
	})

	t.Run("stored value comes back", func(t *testing.T) {
		t.Parallel()

		m.Set("client-a", 42)
		value, ok := m.Get("client-a")
		require.True(t, ok)
		assert.Equal(t, 42, value)
	})

	t.Run("set overwrites", func(t *testing.T) {
		t.Parallel()

		m.Set("client-b", 1)
		m.Set("client-b", 2)
		value, ok := m.Get("client-b")
		require.True(t, ok)
		assert.Equal(t, 2, value)
	})

	t.Run("delete removes", func(t *testing.T) {
		t.Parallel()

		m.Set("client-c", 7)
		m.Delete("client-c")
		_, ok := m.Get("client-c")
		assert.False(t, ok)
	})
}

func TestTTLMapExpiry(t *testing.T) {
	t.Parallel()

	ttl := 50 * time.Millisecond
	m := utils.NewTTLMap[string, string](ttl)

	m.Set("session", "token")

	value, ok := m.Get("session")
	require.True(t, ok)
	assert.Equal(t, "token", value)

	// Entries read after the TTL elapses are treated as gone even if the
	// cleanup pass has not run yet.
	time.Sleep(ttl + 20*time.Millisecond)

	_, ok = m.Get("session")
	assert.False(t, ok)
}

func TestTTLMapConcurrentAccess(t *testing.T) {
	t.Parallel()

	m := utils.NewTTLMap[string, int](time.Minute)

	var wg sync.WaitGroup
	for worker := range 4 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			key := fmt.Sprintf("worker-%d", worker)
			for i := range 200 {
				m.Set(key, i)
				m.Get(key)
			}

			m.Delete(key)
		}()
	}

	wg.Wait()

	for worker := range 4 {
		_, ok := m.Get(fmt.Sprintf("worker-%d", worker))
		assert.False(t, ok)
	}
}
