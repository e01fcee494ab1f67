package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cybergaz/Hashira/pkg/token"
)

// linkPayload is the signed content of a magic sign-in link.
type linkPayload struct {
	Email string `json:"email"`
	Nonce string `json:"nonce"`
	Exp   int64  `json:"exp"`
}

// NonceStore marks sign-in link nonces as consumed so each link activates at
// most once. Consume returns false when the nonce was already spent.
type NonceStore interface {
	Consume(ctx context.Context, nonce string, ttl time.Duration) (bool, error)
}

// MagicLink is the passwordless email-link provider. It never authenticates
// synchronously: Request only delivers a link, and the sign-in succeeds when
// the user later activates it.
type MagicLink struct {
	secret      string
	ttl         time.Duration
	callbackURL string
	mailer      *VerificationMailer
	nonces      NonceStore
	now         func() time.Time
}

// NewMagicLink builds the email-link provider. The callback URL is derived
// from the public base URL once at construction.
func NewMagicLink(secret, baseURL string, ttl time.Duration, mailer *VerificationMailer, nonces NonceStore) (*MagicLink, error) {
	if secret == "" {
		return nil, errors.New("magic link: signing secret is required")
	}
	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("magic link: invalid base URL %q", baseURL)
	}

	return &MagicLink{
		secret:      secret,
		ttl:         ttl,
		callbackURL: base.JoinPath("/api/auth/callback/email").String(),
		mailer:      mailer,
		nonces:      nonces,
		now:         time.Now,
	}, nil
}

// Request generates a single-use sign-in link bound to the address and hands
// it to verification messaging. A delivery failure aborts the whole attempt;
// no user record is created or mutated here.
func (m *MagicLink) Request(ctx context.Context, email string) error {
	nonce, err := newNonce()
	if err != nil {
		return fmt.Errorf("magic link: %w", err)
	}

	tok, err := token.Generate(linkPayload{
		Email: email,
		Nonce: nonce,
		Exp:   m.now().Add(m.ttl).Unix(),
	}, m.secret)
	if err != nil {
		return fmt.Errorf("magic link: %w", err)
	}

	actionURL := m.callbackURL + "?token=" + url.QueryEscape(tok)
	return m.mailer.Send(ctx, email, actionURL)
}

// Activate verifies a link token and spends its nonce, producing the
// external identity for reconciliation. Activating proves control of the
// mailbox, so the identity is verified at source.
func (m *MagicLink) Activate(ctx context.Context, raw string) (Identity, error) {
	payload, err := token.Parse[linkPayload](raw, m.secret)
	if err != nil {
		return Identity{}, errors.Join(ErrInvalidLink, err)
	}
	if payload.Email == "" || payload.Nonce == "" {
		return Identity{}, ErrInvalidLink
	}
	if m.now().Unix() > payload.Exp {
		return Identity{}, ErrLinkExpired
	}

	// Hold the nonce slightly past the link expiry so a replay cannot slip
	// in after the ledger entry lapses.
	ok, err := m.nonces.Consume(ctx, payload.Nonce, m.ttl+time.Minute)
	if err != nil {
		return Identity{}, fmt.Errorf("magic link: nonce ledger failed: %w", err)
	}
	if !ok {
		return Identity{}, ErrLinkAlreadyUsed
	}

	return Identity{
		Provider:          ProviderEmail,
		ProviderAccountID: payload.Email,
		Email:             payload.Email,
		EmailVerified:     true,
	}, nil
}

func newNonce() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

const nonceKeyPrefix = "magiclink:nonce:"

// RedisNonceStore implements NonceStore on the shared Redis instance, making
// single-use enforcement hold across processes.
type RedisNonceStore struct {
	client redis.UniversalClient
}

func NewRedisNonceStore(client redis.UniversalClient) *RedisNonceStore {
	return &RedisNonceStore{client: client}
}

// Consume claims the nonce with SETNX; exactly one caller wins.
func (s *RedisNonceStore) Consume(ctx context.Context, nonce string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, nonceKeyPrefix+nonce, "1", ttl).Result()
}
