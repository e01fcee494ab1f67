package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cybergaz/Hashira/pkg/ratelimiter"
	"github.com/cybergaz/Hashira/svc/auth"
)

func TestGuard(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("disabled guard admits everything without a store", func(t *testing.T) {
		t.Parallel()

		guard, err := auth.NewGuard(auth.GuardConfig{Enabled: false}, nil)
		require.NoError(t, err)

		for range 100 {
			assert.NoError(t, guard.Admit(ctx, "203.0.113.7"))
		}
	})

	t.Run("enabled guard rejects once the bucket drains", func(t *testing.T) {
		t.Parallel()

		store := ratelimiter.NewMemoryStore(time.Minute)
		guard, err := auth.NewGuard(auth.GuardConfig{Enabled: true, RequestsPerSecond: 1}, store)
		require.NoError(t, err)

		require.NoError(t, guard.Admit(ctx, "203.0.113.7"))

		err = guard.Admit(ctx, "203.0.113.7")
		require.Error(t, err)

		rejected, ok := auth.IsRateLimited(err)
		require.True(t, ok)
		assert.Greater(t, rejected.RetryAfter, time.Duration(0))
	})

	t.Run("callers drain independent buckets", func(t *testing.T) {
		t.Parallel()

		store := ratelimiter.NewMemoryStore(time.Minute)
		guard, err := auth.NewGuard(auth.GuardConfig{Enabled: true, RequestsPerSecond: 1}, store)
		require.NoError(t, err)

		require.NoError(t, guard.Admit(ctx, "203.0.113.7"))
		assert.Error(t, guard.Admit(ctx, "203.0.113.7"))
		assert.NoError(t, guard.Admit(ctx, "198.51.100.4"))
	})

	t.Run("invalid rate fails construction", func(t *testing.T) {
		t.Parallel()

		store := ratelimiter.NewMemoryStore(time.Minute)
		_, err := auth.NewGuard(auth.GuardConfig{Enabled: true, RequestsPerSecond: 0}, store)
		assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
	})
}
