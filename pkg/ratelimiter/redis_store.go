package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// consumeScript performs refill and consumption in one atomic step so that
// concurrent consumers of the same key never over-admit. Bucket state lives
// in a hash {tokens, last_refill_ms} that expires once the bucket has been
// idle long enough to be full again.
//
// KEYS[1] bucket key
// ARGV[1] capacity, ARGV[2] refill rate, ARGV[3] interval ms,
// ARGV[4] tokens requested, ARGV[5] now ms
var consumeScript = redis.NewScript(`
local capacity = tonumber(ARGV[1])
local refill_rate = tonumber(ARGV[2])
local interval_ms = tonumber(ARGV[3])
local requested = tonumber(ARGV[4])
local now_ms = tonumber(ARGV[5])

local state = redis.call("HMGET", KEYS[1], "tokens", "last_refill_ms")
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])

if tokens == nil or last_refill == nil then
  tokens = capacity
  last_refill = now_ms
end

local max_intervals = math.floor(capacity / refill_rate) + 1
local intervals = math.floor((now_ms - last_refill) / interval_ms)
if intervals > max_intervals then
  intervals = max_intervals
end

if intervals > 0 then
  tokens = math.min(tokens + intervals * refill_rate, capacity)
  last_refill = now_ms
end

-- A denial leaves the stored balance untouched so retries cannot drive the
-- bucket into debt; the negative remainder is only reported to the caller.
local remaining = tokens - requested
if remaining >= 0 then
  tokens = remaining
end

redis.call("HSET", KEYS[1], "tokens", tokens, "last_refill_ms", last_refill)
redis.call("PEXPIRE", KEYS[1], interval_ms * (max_intervals + 1))

return {remaining, last_refill + interval_ms}
`)

const redisKeyPrefix = "ratelimit:"

// RedisStore implements Store on a shared Redis instance, making the counter
// authoritative across processes.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a Redis-backed rate limit store.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (rs *RedisStore) ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (int, time.Time, error) {
	res, err := consumeScript.Run(ctx, rs.client,
		[]string{redisKeyPrefix + key},
		config.Capacity,
		config.RefillRate,
		config.RefillInterval.Milliseconds(),
		tokens,
		time.Now().UnixMilli(),
	).Int64Slice()
	if err != nil {
		return 0, time.Time{}, errors.Join(ErrStoreUnavailable, err)
	}
	if len(res) != 2 {
		return 0, time.Time{}, fmt.Errorf("%w: unexpected script reply", ErrStoreUnavailable)
	}

	return int(res[0]), time.UnixMilli(res[1]), nil
}

func (rs *RedisStore) Reset(ctx context.Context, key string) error {
	if err := rs.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
