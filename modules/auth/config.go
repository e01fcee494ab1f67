package auth

import "time"

// Config controls cookie transport and post-sign-in navigation for the HTTP
// surface. The session itself is defined by svc/auth; this layer only decides
// how the signed token travels between browser and server.
type Config struct {
	CookieName   string        `env:"SESSION_COOKIE_NAME" envDefault:"hashira_session"`
	CookieDomain string        `env:"SESSION_COOKIE_DOMAIN"`
	CookieSecure bool          `env:"SESSION_COOKIE_SECURE" envDefault:"true"`
	CookieMaxAge time.Duration `env:"SESSION_COOKIE_MAX_AGE" envDefault:"720h"`

	// Browser flows land here after a callback; API errors stay JSON.
	SignInRedirect string `env:"SIGNIN_REDIRECT_URL" envDefault:"/"`
	ErrorRedirect  string `env:"AUTH_ERROR_REDIRECT_URL" envDefault:"/login"`
}
