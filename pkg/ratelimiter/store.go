package ratelimiter

import (
	"context"
	"time"
)

// Store defines the interface for rate limit storage backends.
//
// Implementations must make the read-refill-consume sequence atomic per key:
// concurrent consumers observing the same bucket may never admit more
// requests than the bucket holds tokens.
type Store interface {
	// ConsumeTokens attempts to consume tokens from the bucket for key,
	// refilling elapsed intervals first. A negative remaining count means
	// the request must be denied; denials leave the stored balance
	// untouched, so the quota never goes negative and a full window always
	// restores admission. Consuming zero tokens reads the state.
	ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error)

	// Reset clears the bucket state for the given key.
	Reset(ctx context.Context, key string) error
}
