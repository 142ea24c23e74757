package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mystick682/X-TremeData/internal/config"
)

func setupTestCache(t *testing.T) *Cache {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(func() { mr.Close() })

	cfg := config.RedisConnection{
		AddressRedis: mr.Addr(),
	}

	cache, err := InitServer(context.Background(), cfg)
	require.NoError(t, err)
	return cache
}

func TestSetAndGet(t *testing.T) {
	cache := setupTestCache(t)

	expected := decimal.New(5000, -2) // 50.00
	err := cache.Set("balance:user@example.com", expected, time.Minute)
	require.NoError(t, err)

	var actual decimal.Decimal
	found, err := cache.Get("balance:user@example.com", &actual)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, expected.Equal(actual))
}

func TestGetNotFound(t *testing.T) {
	cache := setupTestCache(t)

	var out decimal.Decimal
	found, err := cache.Get("no_such_key", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	cache := setupTestCache(t)

	require.NoError(t, cache.Set("balance:user@example.com", decimal.New(100, -2), time.Minute))
	require.NoError(t, cache.Invalidate("balance:user@example.com"))

	var out decimal.Decimal
	found, err := cache.Get("balance:user@example.com", &out)
	require.NoError(t, err)
	assert.False(t, found)
}
