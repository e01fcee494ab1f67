package auth

// Provider identifiers used across the auth system.
const (
	ProviderGoogle = "google"
	ProviderEmail  = "email"
)

// Identity is the verified external identity produced by a provider adapter
// for a single request. It is never persisted as-is; reconciliation maps it
// onto a durable User.
type Identity struct {
	// Provider is the stable provider identifier, e.g. "google", "email".
	Provider string

	// ProviderAccountID is the provider's stable user identifier. The email
	// provider uses the address itself.
	ProviderAccountID string

	// Email is the address asserted by the provider, already normalized.
	Email string

	// EmailVerified indicates whether the provider asserts the address is
	// verified at the source.
	EmailVerified bool

	// Name is the display name from the provider (optional).
	Name string

	// AvatarURL is the URL to the user's avatar image (optional).
	AvatarURL string
}
