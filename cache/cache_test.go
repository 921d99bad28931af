package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrFill(t *testing.T) {
	c := NewTTL[string, int](8, time.Minute)

	calls := 0
	fill := func() int {
		calls++
		return 42
	}

	assert.Equal(t, 42, c.GetOrFill("a", fill))
	assert.Equal(t, 42, c.GetOrFill("a", fill))
	assert.Equal(t, 1, calls)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestTTLExpiry(t *testing.T) {
	c := NewTTL[string, string](8, 20*time.Millisecond)
	c.Set("k", "v")

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	time.Sleep(60 * time.Millisecond)
	_, ok = c.Get("k")
	assert.False(t, ok)
}
