package ratelimit

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is the shared sliding-window counter store. Hits are members of
// a per-key sorted set scored by hit time in milliseconds; trimming members
// older than the window and counting the rest happens in a single
// transactional pipeline, so concurrent callers are serialized by Redis.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisStore wraps a connected Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		now:    time.Now,
	}
}

// NewRedisStoreWithClock is NewRedisStore with an injected time source for
// tests.
func NewRedisStoreWithClock(client *redis.Client, now func() time.Time) *RedisStore {
	return &RedisStore{
		client: client,
		now:    now,
	}
}

// Incr records a hit and returns the in-window count including it, plus the
// oldest hit still inside the window.
func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	nowMs := s.now().UnixMilli()
	cutoff := nowMs - window.Milliseconds()

	member, err := hitMember(nowMs)
	if err != nil {
		return 0, time.Time{}, err
	}

	pipe := s.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(cutoff, 10))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(nowMs), Member: member})
	countCmd := pipe.ZCard(ctx, key)
	oldestCmd := pipe.ZRangeWithScores(ctx, key, 0, 0)
	pipe.Expire(ctx, key, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, time.Time{}, fmt.Errorf("counter store incr: %w", err)
	}

	return countCmd.Val(), oldestFrom(oldestCmd.Val()), nil
}

// Count reads the in-window count without recording a hit.
func (s *RedisStore) Count(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	nowMs := s.now().UnixMilli()
	cutoff := nowMs - window.Milliseconds()

	pipe := s.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(cutoff, 10))
	countCmd := pipe.ZCard(ctx, key)
	oldestCmd := pipe.ZRangeWithScores(ctx, key, 0, 0)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, time.Time{}, fmt.Errorf("counter store count: %w", err)
	}

	return countCmd.Val(), oldestFrom(oldestCmd.Val()), nil
}

// hitMember builds a unique member for one hit. The random suffix keeps two
// hits landing on the same millisecond from collapsing into one set member.
func hitMember(nowMs int64) (string, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("counter store member: %w", err)
	}
	return strconv.FormatInt(nowMs, 10) + "-" + hex.EncodeToString(buf[:]), nil
}

func oldestFrom(zs []redis.Z) time.Time {
	if len(zs) == 0 {
		return time.Time{}
	}
	return time.UnixMilli(int64(zs[0].Score)).UTC()
}
