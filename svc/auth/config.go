package auth

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Config is the auth core's startup configuration. It is loaded once,
// validated eagerly, and passed by reference; no component reads ambient
// process state after construction.
type Config struct {
	SessionSecret string `env:"SESSION_SECRET,required"`
	BaseURL       string `env:"BASE_URL,required"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID,required"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET,required"`

	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"720h"`
	MagicLinkTTL time.Duration `env:"MAGIC_LINK_TTL" envDefault:"24h"`

	// StrictSessionRefresh makes token refresh fail when the user record no
	// longer exists, instead of carrying stale claims to natural expiry.
	StrictSessionRefresh bool `env:"STRICT_SESSION_REFRESH" envDefault:"false"`

	Guard        GuardConfig
	Verification VerificationConfig
}

// Validate checks the invariants the env tags cannot express. Call it once
// at process start and treat failure as fatal.
func (c Config) Validate() error {
	if len(c.SessionSecret) < 32 {
		return errors.New("auth config: SESSION_SECRET must be at least 32 bytes")
	}

	base, err := url.Parse(c.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return fmt.Errorf("auth config: BASE_URL %q is not an absolute URL", c.BaseURL)
	}

	if c.SessionTTL <= 0 {
		return errors.New("auth config: SESSION_TTL must be positive")
	}
	if c.MagicLinkTTL <= 0 {
		return errors.New("auth config: MAGIC_LINK_TTL must be positive")
	}
	if c.Guard.Enabled && c.Guard.RequestsPerSecond <= 0 {
		return errors.New("auth config: rate limiting enabled with non-positive requests per second")
	}

	return nil
}
