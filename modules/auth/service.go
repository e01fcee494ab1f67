package auth

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cybergaz/Hashira/pkg/clientip"
	core "github.com/cybergaz/Hashira/svc/auth"
)

const stateCookieAge = 10 * time.Minute

// Service is the HTTP surface over the auth core. It owns cookie transport
// and status-code mapping; all sign-in decisions live in svc/auth.
type Service struct {
	cfg  Config
	core *core.Service
	log  *slog.Logger
}

func NewService(cfg Config, authCore *core.Service, log *slog.Logger) *Service {
	return &Service{cfg: cfg, core: authCore, log: log}
}

func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/signin/{provider}", s.beginOAuth)
	r.Post("/signin/email", s.requestEmailLink)

	// The static email route wins over the provider wildcard.
	r.Get("/callback/email", s.emailCallback)
	r.Get("/callback/{provider}", s.oauthCallback)

	r.Get("/session", s.session)
	r.Post("/refresh", s.refresh)
	r.Post("/signout", s.signOut)
	r.Post("/validate", s.validate)

	return r
}

// Middleware resolves the session cookie into the request context so
// downstream handlers can read the caller's identity without re-parsing.
func (s *Service) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := s.core.Session(r.Context(), s.sessionToken(r))
			next.ServeHTTP(w, r.WithContext(core.SetSessionToContext(r.Context(), sess)))
		})
	}
}

func (s *Service) beginOAuth(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")

	state, err := newState()
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	redirect, err := s.core.AuthCodeURL(provider, state)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	http.SetCookie(w, s.stateCookie(state, stateCookieAge))
	http.Redirect(w, r, redirect, http.StatusFound)
}

func (s *Service) oauthCallback(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	query := r.URL.Query()

	if denied := query.Get("error"); denied != "" {
		s.log.WarnContext(r.Context(), "provider denied authorization",
			slog.String("provider", provider), slog.String("error", denied))
		s.redirectError(w, r, "AccessDenied")
		return
	}

	state, err := r.Cookie(s.stateCookieName())
	if err != nil || state.Value == "" || state.Value != query.Get("state") {
		s.redirectError(w, r, "OAuthSignin")
		return
	}
	http.SetCookie(w, s.stateCookie("", -time.Second))

	signed, err := s.core.SignInWithOAuth(r.Context(), provider, query.Get("code"), clientip.GetIP(r))
	if err != nil {
		s.log.ErrorContext(r.Context(), "oauth sign-in failed",
			slog.String("provider", provider), slog.Any("error", err))
		s.redirectError(w, r, "OAuthSignin")
		return
	}

	http.SetCookie(w, s.sessionCookie(signed, s.cfg.CookieMaxAge))
	http.Redirect(w, r, s.cfg.SignInRedirect, http.StatusSeeOther)
}

type emailSignInRequest struct {
	Email string `json:"email"`
}

func (s *Service) requestEmailLink(w http.ResponseWriter, r *http.Request) {
	var req emailSignInRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed request body"})
		return
	}

	if err := s.core.RequestEmailSignIn(r.Context(), req.Email, clientip.GetIP(r)); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

func (s *Service) emailCallback(w http.ResponseWriter, r *http.Request) {
	signed, err := s.core.CompleteEmailSignIn(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		s.log.WarnContext(r.Context(), "magic link activation failed", slog.Any("error", err))
		s.redirectError(w, r, "Verification")
		return
	}

	http.SetCookie(w, s.sessionCookie(signed, s.cfg.CookieMaxAge))
	http.Redirect(w, r, s.cfg.SignInRedirect, http.StatusSeeOther)
}

func (s *Service) session(w http.ResponseWriter, r *http.Request) {
	sess := s.core.Session(r.Context(), s.sessionToken(r))
	writeJSON(w, http.StatusOK, sess)
}

func (s *Service) refresh(w http.ResponseWriter, r *http.Request) {
	raw := s.sessionToken(r)
	if raw == "" {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "authentication required"})
		return
	}

	signed, err := s.core.Refresh(r.Context(), raw)
	if err != nil {
		// Only a token the core itself rejected warrants dropping the
		// cookie; a transient store failure must not sign the user out.
		if errors.Is(err, core.ErrInvalidSession) {
			http.SetCookie(w, s.sessionCookie("", -time.Second))
		}
		s.respondError(w, r, err)
		return
	}

	http.SetCookie(w, s.sessionCookie(signed, s.cfg.CookieMaxAge))
	writeJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

func (s *Service) signOut(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, s.sessionCookie("", -time.Second))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) validate(w http.ResponseWriter, r *http.Request) {
	var req core.SignUpInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed request body"})
		return
	}

	if err := s.core.ValidateSignUp(req); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

func (s *Service) sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(s.cfg.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (s *Service) sessionCookie(value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    value,
		Path:     "/",
		Domain:   s.cfg.CookieDomain,
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		Secure:   s.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (s *Service) stateCookieName() string {
	return s.cfg.CookieName + "_state"
}

func (s *Service) stateCookie(value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     s.stateCookieName(),
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		Secure:   s.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

func newState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
