package auth

import "context"

// ProviderAdapter abstracts provider-specific OAuth behavior behind a
// minimal, provider-agnostic interface. Implementations encapsulate all
// protocol details (token exchange, profile API calls) and expose only the
// primitives the core service needs.
type ProviderAdapter interface {
	// ProviderID returns a stable provider identifier used for storage and
	// logging, e.g. "google".
	ProviderID() string

	// AuthURL builds the provider authorization URL for the given state token.
	AuthURL(state string) (string, error)

	// ResolveProfile performs the end-to-end flow for an authorization code:
	// exchanges the code for an access token, calls the provider's profile
	// endpoint, and returns a normalized Identity.
	//
	// On invalid code or token exchange failure, return ErrInvalidCode.
	// If the provider cannot produce an email, return ErrNoPrimaryEmail.
	ResolveProfile(ctx context.Context, code string) (Identity, error)
}
