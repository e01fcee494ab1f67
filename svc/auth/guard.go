package auth

import (
	"context"

	"github.com/cybergaz/Hashira/pkg/ratelimiter"
)

// GuardConfig controls sign-in admission.
type GuardConfig struct {
	Enabled           bool `env:"ENABLE_RATE_LIMITING" envDefault:"false"`
	RequestsPerSecond int  `env:"RATE_LIMITING_REQUESTS_PER_SECOND" envDefault:"50"`
}

// Guard gates sign-in traffic with a token bucket keyed by caller identity.
// It never blocks: a request is admitted or rejected synchronously, and the
// caller owns any backoff.
type Guard struct {
	enabled bool
	limiter ratelimiter.RateLimiter
}

// NewGuard builds admission control from config and a counter store. When
// limiting is disabled the store is never consulted.
func NewGuard(cfg GuardConfig, store ratelimiter.Store) (*Guard, error) {
	if !cfg.Enabled {
		return &Guard{}, nil
	}

	bucket, err := ratelimiter.NewBucket(store, ratelimiter.PerSecond(cfg.RequestsPerSecond))
	if err != nil {
		return nil, err
	}
	return &Guard{enabled: true, limiter: bucket}, nil
}

// Admit decides whether a sign-in attempt for the given caller key may
// proceed. Rejections carry a retry-after hint derived from the bucket's
// reset time; they are never silently dropped.
func (g *Guard) Admit(ctx context.Context, key string) error {
	if !g.enabled {
		return nil
	}

	res, err := g.limiter.Allow(ctx, key)
	if err != nil {
		return err
	}
	if !res.Allowed() {
		return &RateLimitError{RetryAfter: res.RetryAfter()}
	}
	return nil
}
