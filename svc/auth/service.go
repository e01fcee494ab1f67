package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Service wires admission control, provider adapters, reconciliation, and
// the token lifecycle into the sign-in entry points exposed to the
// presentation layer.
//
// Within one request, reconciliation always completes before the token
// lifecycle reads the store for claim hydration. No lock is taken across
// concurrent requests for the same email; the store's uniqueness constraint
// arbitrates first-login races.
type Service struct {
	cfg        Config
	guard      *Guard
	providers  map[string]ProviderAdapter
	magic      *MagicLink
	reconciler *Reconciler
	tokens     *TokenService
	log        *slog.Logger
}

// NewService assembles the auth core from its collaborators.
func NewService(cfg Config, guard *Guard, magic *MagicLink, reconciler *Reconciler, tokens *TokenService, log *slog.Logger, adapters ...ProviderAdapter) *Service {
	providers := make(map[string]ProviderAdapter, len(adapters))
	for _, adapter := range adapters {
		providers[adapter.ProviderID()] = adapter
	}

	return &Service{
		cfg:        cfg,
		guard:      guard,
		providers:  providers,
		magic:      magic,
		reconciler: reconciler,
		tokens:     tokens,
		log:        log,
	}
}

// AuthCodeURL returns the provider's authorization URL for a redirect.
func (s *Service) AuthCodeURL(provider, state string) (string, error) {
	adapter, ok := s.providers[provider]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
	return adapter.AuthURL(state)
}

// SignInWithOAuth runs the full OAuth sign-in path and returns a signed
// session token. callerKey identifies the caller for admission control.
func (s *Service) SignInWithOAuth(ctx context.Context, provider, code, callerKey string) (string, error) {
	if err := s.guard.Admit(ctx, callerKey); err != nil {
		return "", err
	}

	adapter, ok := s.providers[provider]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}

	identity, err := adapter.ResolveProfile(ctx, code)
	if err != nil {
		s.log.ErrorContext(ctx, "provider rejected sign-in",
			slog.String("provider", provider), slog.Any("error", err))
		return "", err
	}

	return s.completeSignIn(ctx, identity)
}

// RequestEmailSignIn validates the address, admits the attempt, and delivers
// a magic sign-in link. No user record is created or mutated; reconciliation
// happens only when the link is activated.
func (s *Service) RequestEmailSignIn(ctx context.Context, emailAddr, callerKey string) error {
	in := SignInInput{Email: strings.ToLower(strings.TrimSpace(emailAddr))}
	if err := in.Validate(); err != nil {
		return err
	}

	if err := s.guard.Admit(ctx, callerKey); err != nil {
		return err
	}

	if err := s.magic.Request(ctx, in.Email); err != nil {
		s.log.ErrorContext(ctx, "magic link delivery failed",
			slog.String("email", in.Email), slog.Any("error", err))
		return err
	}
	return nil
}

// CompleteEmailSignIn activates a magic link and returns a signed session
// token. Activation confirms mailbox control, so reconciliation records the
// email as verified.
func (s *Service) CompleteEmailSignIn(ctx context.Context, rawLink string) (string, error) {
	identity, err := s.magic.Activate(ctx, rawLink)
	if err != nil {
		return "", err
	}
	return s.completeSignIn(ctx, identity)
}

// Refresh re-reads the store and issues a token with rehydrated claims.
func (s *Service) Refresh(ctx context.Context, rawToken string) (string, error) {
	claims, err := s.tokens.Read(rawToken)
	if err != nil {
		return "", err
	}

	next, err := s.tokens.IssueOrRefresh(ctx, claims, "")
	if err != nil {
		return "", err
	}
	return s.tokens.Sign(next)
}

// Session materializes the read-only session view for the presentation
// layer. Absent or invalid tokens produce an anonymous session, never an
// error.
func (s *Service) Session(ctx context.Context, rawToken string) Session {
	claims, err := s.tokens.Read(rawToken)
	if err != nil {
		return Session{}
	}
	return Materialize(claims)
}

// ValidateSignUp runs the pure credential validators over a sign-up form.
func (s *Service) ValidateSignUp(in SignUpInput) error {
	return in.Validate()
}

// completeSignIn reconciles the identity and issues the session token.
// Reconciliation errors abort the sign-in; no token is issued.
func (s *Service) completeSignIn(ctx context.Context, identity Identity) (string, error) {
	user, err := s.reconciler.Reconcile(ctx, identity)
	if err != nil {
		s.log.ErrorContext(ctx, "reconciliation failed",
			slog.String("provider", identity.Provider), slog.Any("error", err))
		return "", err
	}

	seed := Claims{Email: user.Email}
	claims, err := s.tokens.IssueOrRefresh(ctx, &seed, user.ID.String())
	if err != nil {
		return "", err
	}
	return s.tokens.Sign(claims)
}
