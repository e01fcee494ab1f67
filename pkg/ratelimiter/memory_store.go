package ratelimiter

import (
	"context"
	"sync"
	"time"
)

type bucketState struct {
	tokens     int
	lastRefill time.Time
	lastAccess time.Time
}

// MemoryStore implements Store with in-process storage. Intended for tests
// and single-instance deployments; shared deployments should use RedisStore.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucketState

	staleAfter time.Duration
	lastSweep  time.Time
}

// NewMemoryStore creates an in-memory store. Buckets untouched for longer
// than staleAfter are swept lazily on access; zero disables sweeping.
func NewMemoryStore(staleAfter time.Duration) *MemoryStore {
	return &MemoryStore{
		buckets:    make(map[string]*bucketState),
		staleAfter: staleAfter,
		lastSweep:  time.Now(),
	}
}

func (ms *MemoryStore) ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (int, time.Time, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()
	ms.sweep(now)

	b, exists := ms.buckets[key]
	if !exists {
		b = &bucketState{tokens: config.Capacity, lastRefill: now}
		ms.buckets[key] = b
	}

	// Refill whole elapsed intervals, capped so a long-idle bucket cannot
	// overflow the arithmetic or exceed capacity.
	elapsed := now.Sub(b.lastRefill)
	maxIntervals := int64(config.Capacity/config.RefillRate + 1)
	intervals := int(min(int64(elapsed/config.RefillInterval), maxIntervals))

	if intervals > 0 {
		b.tokens = min(b.tokens+intervals*config.RefillRate, config.Capacity)
		b.lastRefill = now
	}

	// A denied request must not drive the stored balance negative: retries
	// would otherwise deepen the debt and extend the lockout past the window.
	remaining := b.tokens - tokens
	if remaining >= 0 {
		b.tokens = remaining
	}
	b.lastAccess = now

	return remaining, b.lastRefill.Add(config.RefillInterval), nil
}

func (ms *MemoryStore) Reset(ctx context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.buckets, key)
	return nil
}

// sweep drops stale buckets at most once per staleAfter period.
// Caller must hold ms.mu.
func (ms *MemoryStore) sweep(now time.Time) {
	if ms.staleAfter <= 0 || now.Sub(ms.lastSweep) < ms.staleAfter {
		return
	}
	for key, b := range ms.buckets {
		if now.Sub(b.lastAccess) > ms.staleAfter {
			delete(ms.buckets, key)
		}
	}
	ms.lastSweep = now
}
