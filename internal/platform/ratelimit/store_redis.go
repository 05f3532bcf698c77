package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

// RedisStore shares the sliding window between instances. Each window is a
// sorted set of hits scored by their unix-millisecond time.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

// Allow adds the hit first and counts afterwards. A hit that lands over the
// limit is removed again, so concurrent callers can only be under-admitted.
func (s *RedisStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	now := s.now()
	nowMs := now.UnixMilli()
	member := strconv.FormatInt(nowMs, 10) + "-" + uuid.NewString()
	zkey := keyPrefix + key

	var (
		count  *redis.IntCmd
		oldest *redis.ZSliceCmd
	)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, zkey, "-inf", strconv.FormatInt(now.Add(-window).UnixMilli(), 10))
		pipe.ZAdd(ctx, zkey, redis.Z{Score: float64(nowMs), Member: member})
		count = pipe.ZCard(ctx, zkey)
		oldest = pipe.ZRangeWithScores(ctx, zkey, 0, 0)
		pipe.PExpire(ctx, zkey, window)
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("rate limit check: %w", err)
	}

	reset := now.Add(window)
	if first := oldest.Val(); len(first) > 0 {
		reset = time.UnixMilli(int64(first[0].Score)).Add(window)
	}

	n := int(count.Val())
	if n > limit {
		if err := s.client.ZRem(ctx, zkey, member).Err(); err != nil {
			return Result{}, fmt.Errorf("rate limit rollback: %w", err)
		}
		return Result{Allowed: false, Limit: limit, Remaining: 0, ResetAt: reset}, nil
	}
	return Result{Allowed: true, Limit: limit, Remaining: limit - n, ResetAt: reset}, nil
}
