package ratelimit_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lyricsmith/internal/ratelimit"
)

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	store := ratelimit.NewRedisStore(client, time.Hour)
	t.Cleanup(func() { _ = store.Close() })

	clock := newClock()
	limiter := ratelimit.New(store, ratelimit.WithClock(clock.Now))
	ctx := context.Background()
	clientID := "test-" + uuid.NewString()

	for i := 0; i < 3; i++ {
		d, err := limiter.Allow(ctx, general, clientID, "chat")
		require.NoError(t, err)
		require.True(t, d.Allowed)
	}
	d, err := limiter.Allow(ctx, general, clientID, "chat")
	require.NoError(t, err)
	assert.False(t, d.Allowed)

	clock.Advance(time.Minute + time.Millisecond)
	d, err = limiter.Allow(ctx, general, clientID, "chat")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}
