package ratelimit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiterPerKey(t *testing.T) {
	l := NewMemoryLimiter(3, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "request %d", i)
	}
	d, _ := l.Allow(ctx, "1.2.3.4")
	assert.False(t, d.Allowed)
	assert.InDelta(t, float64(20*time.Second), float64(d.RetryAfter), float64(time.Millisecond))

	other, _ := l.Allow(ctx, "5.6.7.8")
	assert.True(t, other.Allowed)

	now = now.Add(21 * time.Second)
	d, _ = l.Allow(ctx, "1.2.3.4")
	assert.True(t, d.Allowed)
}

func TestMemoryLimiterDisabled(t *testing.T) {
	l := NewMemoryLimiter(0, time.Minute)
	for i := 0; i < 100; i++ {
		d, err := l.Allow(context.Background(), "k")
		require.NoError(t, err)
		require.True(t, d.Allowed)
	}
}

func TestMemoryLimiterSweepsIdleKeys(t *testing.T) {
	l := NewMemoryLimiter(1, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	_, _ = l.Allow(context.Background(), "a")
	now = now.Add(idleTTL + time.Minute)
	_, _ = l.Allow(context.Background(), "b")

	_, ok := l.buckets["a"]
	assert.False(t, ok)
	assert.Len(t, l.buckets, 1)
}

func TestRedisLimiterIntegration(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	client, err := NewRedisClient(url)
	require.NoError(t, err)
	defer client.Close()

	l := NewRedisLimiter(client, "test", 2, time.Minute)
	key := uuid.NewString()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		d, err := l.Allow(ctx, key)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	}
	d, err := l.Allow(ctx, key)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Greater(t, d.RetryAfter, time.Duration(0))
}
