package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cybergaz/Hashira/pkg/validator"
	core "github.com/cybergaz/Hashira/svc/auth"
)

type errorBody struct {
	Error string `json:"error"`
}

type validationBody struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError maps domain failures to JSON responses. Field validation
// errors pass through verbatim so forms can render them; everything else is
// an opaque message with the detail kept in logs.
func (s *Service) respondError(w http.ResponseWriter, r *http.Request, err error) {
	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
		fields := make(map[string][]string, len(verrs.Fields()))
		for _, field := range verrs.Fields() {
			fields[field] = verrs.Get(field)
		}
		writeJSON(w, http.StatusUnprocessableEntity, validationBody{
			Error:  "validation failed",
			Fields: fields,
		})
		return
	}

	if limited, ok := core.IsRateLimited(err); ok {
		seconds := int64((limited.RetryAfter + time.Second - 1) / time.Second)
		if seconds < 1 {
			seconds = 1
		}
		w.Header().Set("Retry-After", strconv.FormatInt(seconds, 10))
		writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "too many requests"})
		return
	}

	switch {
	case errors.Is(err, core.ErrInvalidSession),
		errors.Is(err, core.ErrInvalidCode),
		errors.Is(err, core.ErrInvalidLink),
		errors.Is(err, core.ErrLinkExpired),
		errors.Is(err, core.ErrLinkAlreadyUsed),
		errors.Is(err, core.ErrUnknownProvider):
		s.log.WarnContext(r.Context(), "sign-in rejected", slog.Any("error", err))
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "authentication failed"})
	default:
		s.log.ErrorContext(r.Context(), "auth request failed", slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

// redirectError sends browser flows back to the sign-in page with an opaque
// error code, never the underlying detail.
func (s *Service) redirectError(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, s.cfg.ErrorRedirect+"?error="+code, http.StatusSeeOther)
}
