package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/example/movie-memo/internal/platform/api"
	"github.com/example/movie-memo/internal/platform/httpserver"
	"github.com/example/movie-memo/internal/platform/session"
	"github.com/example/movie-memo/services/moviememo/internal/prefs"
)

// GetPrefs handles GET /v1/prefs
//
// Reads are best effort: a broken prefs backend serves defaults instead
// of failing the page load.
func GetPrefs(store prefs.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, ok := session.ClientIDFromContext(r.Context())
		if !ok {
			rid := httpserver.RequestIDFromContext(r.Context())
			api.Unauthorized(w, "SESSION_REQUIRED", "a session token is required", rid)
			return
		}

		p, err := store.Get(r.Context(), clientID)
		if err != nil {
			log.Warn("prefs: read failed, serving defaults", zap.Error(err))
			p = prefs.Defaults()
		}
		api.WriteJSON(w, http.StatusOK, p)
	}
}

// PutPrefs handles PUT /v1/prefs
func PutPrefs(store prefs.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		clientID, ok := session.ClientIDFromContext(r.Context())
		if !ok {
			api.Unauthorized(w, "SESSION_REQUIRED", "a session token is required", rid)
			return
		}

		var p prefs.Preferences
		if !decodeJSON(w, r, rid, &p) {
			return
		}

		if err := store.Put(r.Context(), clientID, p); err != nil {
			log.Warn("prefs: write failed", zap.Error(err))
			api.Internal(w, rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, p)
	}
}
