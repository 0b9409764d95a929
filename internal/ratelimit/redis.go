package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "lyricsmith:ratelimit"

// RedisStore keeps one sorted set per key, scored by unix milliseconds.
// Keys expire after the retention period instead of being purged.
type RedisStore struct {
	client    redis.UniversalClient
	retention time.Duration
}

// NewRedisStore wraps client. Each write refreshes the key expiry to retention.
func NewRedisStore(client redis.UniversalClient, retention time.Duration) *RedisStore {
	if retention <= 0 {
		retention = time.Hour
	}
	return &RedisStore{client: client, retention: retention}
}

// DialRedis parses url and verifies the server answers.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

func redisKey(key Key) string {
	return redisKeyPrefix + ":" + key.Endpoint + ":" + key.Client
}

// Count implements Store.
func (r *RedisStore) Count(ctx context.Context, key Key, since time.Time) (int, error) {
	lower := "(" + strconv.FormatInt(since.UnixMilli(), 10)
	n, err := r.client.ZCount(ctx, redisKey(key), lower, "+inf").Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Record implements Store.
func (r *RedisStore) Record(ctx context.Context, key Key, at time.Time) error {
	k := redisKey(key)
	pipe := r.client.TxPipeline()
	pipe.ZAdd(ctx, k, redis.Z{Score: float64(at.UnixMilli()), Member: uuid.NewString()})
	pipe.ZRemRangeByScore(ctx, k, "-inf", "("+strconv.FormatInt(at.Add(-r.retention).UnixMilli(), 10))
	pipe.Expire(ctx, k, r.retention)
	_, err := pipe.Exec(ctx)
	return err
}

// Close releases the client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
