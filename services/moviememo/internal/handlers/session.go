package handlers

import (
	"net/http"

	"github.com/example/movie-memo/internal/platform/api"
	"github.com/example/movie-memo/internal/platform/httpserver"
	"github.com/example/movie-memo/internal/platform/session"
)

// CreateSession handles POST /v1/session.
//
// It mints a fresh anonymous client token. Clients persist it locally and
// send it as a bearer token; there is nothing to register and nothing to
// verify beyond the signature.
func CreateSession(mgr session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		token, err := mgr.Issue()
		if err != nil {
			api.Internal(w, rid)
			return
		}
		api.WriteJSON(w, http.StatusCreated, map[string]any{"token": token})
	}
}
