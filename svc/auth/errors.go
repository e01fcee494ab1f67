package auth

import (
	"errors"
	"fmt"
	"time"
)

var (
	// Store failures.
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already taken")
	ErrStoreFailure = errors.New("user store unavailable")

	// Provider failures. Details are logged, never shown to the client.
	ErrUnknownProvider = errors.New("unknown auth provider")
	ErrInvalidCode     = errors.New("invalid authorization code")
	ErrNoPrimaryEmail  = errors.New("provider returned no usable email")

	// Magic link failures.
	ErrLinkExpired     = errors.New("sign-in link has expired")
	ErrLinkAlreadyUsed = errors.New("sign-in link has already been used")
	ErrInvalidLink     = errors.New("invalid sign-in link")

	// Verification messaging failures.
	ErrMissingTemplate = errors.New("verification email template is not configured")
	ErrDeliveryFailed  = errors.New("verification email delivery failed")

	// Token failures.
	ErrInvalidSession = errors.New("invalid session token")
)

// RateLimitError is returned when admission control rejects a sign-in
// attempt. RetryAfter is a hint derived from the bucket's reset time.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter)
}

// IsRateLimited reports whether the error chain contains a RateLimitError.
func IsRateLimited(err error) (*RateLimitError, bool) {
	var rle *RateLimitError
	if errors.As(err, &rle) {
		return rle, true
	}
	return nil, false
}
