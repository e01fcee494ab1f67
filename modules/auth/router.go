package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Mountable interface {
	Handle() http.Handler
}

// Router mounts the auth module under the path prefix the sign-in links and
// email callbacks are built against.
//
// Example:
//
//	svc := authmodule.NewService(cfg, core, logger)
//
//	r := chi.NewRouter()
//	r.Mount("/", authmodule.Router(svc))
func Router(svc Mountable) chi.Router {
	r := chi.NewRouter()
	r.Mount("/api/auth", svc.Handle())
	return r
}
