package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Code  string `json:"code"`
	Count int    `json:"count"`
}

func TestMemoryCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	var got payload
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "k", payload{Code: "SAVE10", Count: 2}, time.Minute))
	found, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Code: "SAVE10", Count: 2}, got)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", 1, time.Second))
	now = now.Add(2 * time.Second)

	var v int
	found, err := c.Get(ctx, "k", &v)
	require.NoError(t, err)
	assert.False(t, found)

	ok, err := c.SetNX(ctx, "k", 2, time.Second)
	require.NoError(t, err)
	assert.True(t, ok, "expired key can be reserved again")
}

func TestMemoryCache_SetNX(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	ok, err := c.SetNX(ctx, "idem:1", "a", 0)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.SetNX(ctx, "idem:1", "b", 0)
	require.NoError(t, err)
	assert.False(t, ok)

	var v string
	_, _ = c.Get(ctx, "idem:1", &v)
	assert.Equal(t, "a", v)
}

func TestMemoryCache_DeletePattern(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	require.NoError(t, c.Set(ctx, "coupon:catalog:u1", 1, 0))
	require.NoError(t, c.Set(ctx, "coupon:catalog:u2", 1, 0))
	require.NoError(t, c.Set(ctx, "checkout:session:u1", 1, 0))

	require.NoError(t, c.DeletePattern(ctx, "coupon:catalog:*"))

	var v int
	found, _ := c.Get(ctx, "coupon:catalog:u1", &v)
	assert.False(t, found)
	found, _ = c.Get(ctx, "checkout:session:u1", &v)
	assert.True(t, found)
}
