package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// GoogleAdapter implements ProviderAdapter for Google OAuth.
type GoogleAdapter struct {
	oauth *oauth2.Config
}

// NewGoogleAdapter builds the Google adapter. Missing client credentials are
// a configuration defect and fail construction, not individual requests.
func NewGoogleAdapter(clientID, clientSecret, redirectURL string) (*GoogleAdapter, error) {
	if clientID == "" || clientSecret == "" {
		return nil, errors.New("google oauth: client id and secret are required")
	}

	return &GoogleAdapter{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
	}, nil
}

func (a *GoogleAdapter) ProviderID() string {
	return ProviderGoogle
}

func (a *GoogleAdapter) AuthURL(state string) (string, error) {
	if state == "" {
		return "", errors.New("google oauth: state is required")
	}
	return a.oauth.AuthCodeURL(state), nil
}

// ResolveProfile exchanges the authorization code and fetches the userinfo
// endpoint. Google asserts email verification for accounts it issues, so the
// returned identity carries the provider's email_verified claim.
func (a *GoogleAdapter) ResolveProfile(ctx context.Context, code string) (Identity, error) {
	tok, err := a.oauth.Exchange(ctx, code)
	if err != nil {
		return Identity{}, errors.Join(ErrInvalidCode, err)
	}

	resp, err := a.oauth.Client(ctx, tok).Get(googleUserinfoURL)
	if err != nil {
		return Identity{}, fmt.Errorf("google oauth: userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Identity{}, fmt.Errorf("google oauth: userinfo returned status %d", resp.StatusCode)
	}

	var profile struct {
		Sub           string `json:"sub"`
		Name          string `json:"name"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Picture       string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return Identity{}, fmt.Errorf("google oauth: failed to decode userinfo: %w", err)
	}

	if profile.Email == "" {
		return Identity{}, ErrNoPrimaryEmail
	}

	return Identity{
		Provider:          ProviderGoogle,
		ProviderAccountID: profile.Sub,
		Email:             strings.ToLower(strings.TrimSpace(profile.Email)),
		EmailVerified:     profile.EmailVerified,
		Name:              profile.Name,
		AvatarURL:         profile.Picture,
	}, nil
}
