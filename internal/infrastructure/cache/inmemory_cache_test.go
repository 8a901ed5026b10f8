package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryCache_GetSet(t *testing.T) {
	c := NewInMemoryCache(time.Hour)
	defer c.Close()
	ctx := context.Background()

	t.Run("miss is not an error", func(t *testing.T) {
		v, ok, err := c.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, v)
	})

	t.Run("returns stored value", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "home:hero_slides", []byte(`{"a":1}`), time.Minute))

		v, ok, err := c.Get(ctx, "home:hero_slides")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.JSONEq(t, `{"a":1}`, string(v))
	})

	t.Run("stored bytes are copied", func(t *testing.T) {
		buf := []byte("original")
		require.NoError(t, c.Set(ctx, "copy", buf, time.Minute))
		buf[0] = 'X'

		v, _, _ := c.Get(ctx, "copy")
		assert.Equal(t, "original", string(v))

		v[0] = 'Y'
		again, _, _ := c.Get(ctx, "copy")
		assert.Equal(t, "original", string(again))
	})

	t.Run("delete removes keys", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
		require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
		require.NoError(t, c.Delete(ctx, "a", "b", "never-set"))

		_, ok, _ := c.Get(ctx, "a")
		assert.False(t, ok)
		_, ok, _ = c.Get(ctx, "b")
		assert.False(t, ok)
	})
}

func TestInMemoryCache_Expiry(t *testing.T) {
	c := NewInMemoryCache(time.Hour)
	defer c.Close()
	ctx := context.Background()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "short", []byte("x"), time.Second))
	require.NoError(t, c.Set(ctx, "forever", []byte("y"), 0))

	now = now.Add(2 * time.Second)

	_, ok, _ := c.Get(ctx, "short")
	assert.False(t, ok, "expired entry must not be returned")
	_, ok, _ = c.Get(ctx, "forever")
	assert.True(t, ok)

	assert.Equal(t, 2, c.Len())
	c.cleanup()
	assert.Equal(t, 1, c.Len())
}

func TestInMemoryCache_ConcurrentAccess(t *testing.T) {
	c := NewInMemoryCache(time.Hour)
	defer c.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = c.Set(ctx, "k", []byte("v"), time.Minute)
				_, _, _ = c.Get(ctx, "k")
				_ = c.Delete(ctx, "k")
			}
		}()
	}
	wg.Wait()
}

func TestInMemoryCache_CloseIsIdempotent(t *testing.T) {
	c := NewInMemoryCache(time.Millisecond)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}
