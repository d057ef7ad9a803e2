package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *time.Time) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	c := New(ctx, ttl)
	clock := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }
	return c, &clock
}

func TestSetAndExpire(t *testing.T) {
	c, clock := newTestCache(t, time.Minute)

	c.Set("session:a", "u1")
	c.Set("reset:a", "u1", time.Hour)

	v, ok := c.GetValue("session:a")
	require.True(t, ok)
	assert.Equal(t, "u1", v)

	*clock = clock.Add(2 * time.Minute)
	_, ok = c.GetValue("session:a")
	assert.False(t, ok)
	_, ok = c.GetValue("reset:a")
	assert.True(t, ok)

	assert.Equal(t, 2, c.Size())
	c.sweep()
	assert.Equal(t, 1, c.Size())
}

func TestDeleteByPrefix(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	c.Set("reset:u1:x", 1)
	c.Set("reset:u1:y", 2)
	c.Set("reset:u2:z", 3)
	c.Set("session:t", 4)

	c.DeleteByPrefix("reset:u1:")

	assert.Equal(t, 2, c.Size())
	_, ok := c.GetValue("reset:u2:z")
	assert.True(t, ok)

	c.Delete("session:t")
	c.Clear()
	assert.Zero(t, c.Size())
}
