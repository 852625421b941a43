package handlers

import (
	"net/http"

	"github.com/example/movie-memo/internal/platform/api"
	"github.com/example/movie-memo/internal/platform/httpserver"
	"github.com/example/movie-memo/services/moviememo/internal/activity"
)

// RecentActivity handles GET /v1/activity/recent
func RecentActivity(feed *activity.Feed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		entries, err := feed.Recent(r.Context())
		if err != nil {
			api.Internal(w, rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, map[string]any{"movies": entries})
	}
}
