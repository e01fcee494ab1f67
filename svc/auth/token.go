package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/cybergaz/Hashira/pkg/jwt"
)

// Claims is the compact claim set carried by the client-held session token.
// It is a cache of the durable User record, never the source of truth.
type Claims struct {
	ID              string     `json:"id,omitempty"`
	Name            string     `json:"name,omitempty"`
	Email           string     `json:"email,omitempty"`
	Picture         string     `json:"picture,omitempty"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	jwt.StandardClaims
}

// TokenService owns the session token lifecycle: issuing and refreshing
// signed tokens hydrated from the user store, and reading tokens back.
type TokenService struct {
	signer *jwt.Service
	users  UserStore
	ttl    time.Duration

	// strict makes a refresh fail when the claims no longer resolve to a
	// store record, revoking tokens of deleted accounts immediately instead
	// of letting them ride out their natural expiry.
	strict bool

	now func() time.Time
}

// NewTokenService builds the session token lifecycle around the signing
// secret and the user store.
func NewTokenService(secret string, users UserStore, ttl time.Duration, strict bool) (*TokenService, error) {
	signer, err := jwt.NewFromString(secret)
	if err != nil {
		return nil, err
	}
	return &TokenService{signer: signer, users: users, ttl: ttl, strict: strict, now: time.Now}, nil
}

// IssueOrRefresh rebuilds the claim set from the user store and returns the
// claims for a fresh token. prev carries the claims of the inbound token, if
// any; freshUserID carries the reconciled user's id on login events.
//
// The store always wins over stale token claims. The single exception is a
// missing record in non-strict mode: the previous claims survive unchanged
// (adopting freshUserID when the login event carried one) until the next
// reconciled login. A store read failure refuses to issue a token at all.
func (s *TokenService) IssueOrRefresh(ctx context.Context, prev *Claims, freshUserID string) (Claims, error) {
	user, err := s.lookup(ctx, prev)
	switch {
	case err == nil:
		return s.stamp(claimsFromUser(user)), nil

	case errors.Is(err, ErrUserNotFound):
		if s.strict {
			return Claims{}, errors.Join(ErrInvalidSession, ErrUserNotFound)
		}
		next := Claims{}
		if prev != nil {
			next = *prev
		}
		if freshUserID != "" {
			next.ID = freshUserID
		}
		return s.stamp(next), nil

	default:
		return Claims{}, errors.Join(ErrStoreFailure, err)
	}
}

// Sign serializes claims into a signed compact token.
func (s *TokenService) Sign(claims Claims) (string, error) {
	return s.signer.Generate(claims)
}

// Read verifies a raw token and returns its claims. Absent, malformed,
// tampered, and expired tokens all yield ErrInvalidSession: the caller
// treats the request as anonymous.
func (s *TokenService) Read(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrInvalidSession
	}

	var claims Claims
	if err := s.signer.Parse(raw, &claims); err != nil {
		return nil, errors.Join(ErrInvalidSession, err)
	}
	return &claims, nil
}

func (s *TokenService) lookup(ctx context.Context, prev *Claims) (User, error) {
	if prev == nil {
		return User{}, ErrUserNotFound
	}

	if id, err := uuid.Parse(prev.ID); err == nil {
		return s.users.FindUserByID(ctx, id)
	}
	if prev.Email != "" {
		// The id claim is absent on the first pass; the reconciled record is
		// reachable by the identity's email.
		return s.users.FindUserByEmail(ctx, prev.Email)
	}
	return User{}, ErrUserNotFound
}

// stamp applies the temporal claims for a fresh token.
func (s *TokenService) stamp(claims Claims) Claims {
	now := s.now()
	claims.Subject = claims.ID
	claims.IssuedAt = now.Unix()
	claims.ExpiresAt = now.Add(s.ttl).Unix()
	claims.NotBefore = 0
	return claims
}

func claimsFromUser(user User) Claims {
	return Claims{
		ID:              user.ID.String(),
		Name:            user.Name,
		Email:           user.Email,
		Picture:         user.Image,
		EmailVerifiedAt: user.EmailVerifiedAt,
	}
}
