package cache

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreate(t *testing.T) {
	t.Parallel()

	t.Run("computes on miss and caches", func(t *testing.T) {
		t.Parallel()
		c := NewBasicCache[int]()

		calls := 0
		value, created, err := GetOrCreate(t.Context(), c, "key", func() (int, error) {
			calls++
			return 42, nil
		})
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, 42, value)
		assert.Equal(t, 1, calls)

		value, created, err = GetOrCreate(t.Context(), c, "key", func() (int, error) {
			calls++
			return -1, nil
		})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, 42, value)
		assert.Equal(t, 1, calls, "create should not run on a hit")
	})

	t.Run("failed create releases the claim", func(t *testing.T) {
		t.Parallel()
		c := NewBasicCache[int]()

		createErr := errors.New("boom")
		_, _, err := GetOrCreate(t.Context(), c, "key", func() (int, error) {
			return 0, createErr
		})
		require.ErrorIs(t, err, createErr)

		// Next caller gets a fresh claim instead of waiting forever
		value, created, err := GetOrCreate(t.Context(), c, "key", func() (int, error) {
			return 7, nil
		})
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, 7, value)
	})

	t.Run("keys are independent", func(t *testing.T) {
		t.Parallel()
		c := NewBasicCache[string]()

		a, _, err := GetOrCreate(t.Context(), c, "a", func() (string, error) { return "A", nil })
		require.NoError(t, err)
		b, _, err := GetOrCreate(t.Context(), c, "b", func() (string, error) { return "B", nil })
		require.NoError(t, err)

		assert.Equal(t, "A", a)
		assert.Equal(t, "B", b)
	})

	t.Run("concurrent callers collapse into one create", func(t *testing.T) {
		t.Parallel()
		c := NewBasicCache[int]()

		var mu sync.Mutex
		calls := 0

		var wg sync.WaitGroup
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				value, _, err := GetOrCreate(t.Context(), c, "key", func() (int, error) {
					mu.Lock()
					calls++
					mu.Unlock()
					return 1337, nil
				})
				assert.NoError(t, err)
				assert.Equal(t, 1337, value)
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, calls)
	})
}
