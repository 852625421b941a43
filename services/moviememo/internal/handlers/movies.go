package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-chi/chi/v5"

	"github.com/example/movie-memo/internal/platform/analytics"
	"github.com/example/movie-memo/internal/platform/api"
	"github.com/example/movie-memo/internal/platform/httpserver"
	"github.com/example/movie-memo/internal/platform/session"
	"github.com/example/movie-memo/services/moviememo/internal/tmdb"
)

type movieResponse struct {
	tmdb.Movie
	PosterURL   string `json:"poster_url,omitempty"`
	BackdropURL string `json:"backdrop_url,omitempty"`
	// JapaneseOverview is false when the localized overview came back in
	// another language, so clients can swap in placeholder copy.
	JapaneseOverview bool `json:"japanese_overview"`
}

type providerResponse struct {
	ProviderID   int    `json:"provider_id"`
	ProviderName string `json:"provider_name"`
	LogoURL      string `json:"logo_url,omitempty"`
}

type providersResponse struct {
	Link      string             `json:"link,omitempty"`
	Flatrate  []providerResponse `json:"flatrate"`
	Available bool               `json:"available"`
}

func movieIDParam(r *http.Request) (int, bool) {
	raw := strings.TrimSpace(chi.URLParam(r, "movie_id"))
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// containsJapanese reports whether s has at least one hiragana, katakana
// or kanji rune.
func containsJapanese(s string) bool {
	for _, r := range s {
		if unicode.In(r, unicode.Hiragana, unicode.Katakana, unicode.Han) {
			return true
		}
	}
	return false
}

// GetMovie handles GET /v1/movies/{movie_id}
func GetMovie(catalog tmdb.Catalog, cache Cache, events *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		movieID, ok := movieIDParam(r)
		if !ok {
			api.BadRequest(w, "INVALID_ID", "movie_id must be a positive integer", rid, nil)
			return
		}

		clientID, _ := session.ClientIDFromContext(r.Context())
		events.Publish(analytics.SubjectMovieViewed, "movie_viewed", clientID, map[string]any{
			"movie_id": movieID,
		})

		key := "GetMovie:" + strconv.Itoa(movieID)
		if cached, ok := cache.Get(key); ok {
			api.WriteJSON(w, http.StatusOK, cached)
			return
		}

		m, err := catalog.GetMovie(r.Context(), movieID)
		if err != nil {
			writeCatalogError(w, rid, err)
			return
		}

		out := movieResponse{
			Movie:            *m,
			PosterURL:        catalog.PosterURL(m),
			BackdropURL:      catalog.BackdropURL(m),
			JapaneseOverview: containsJapanese(m.Overview),
		}
		cache.Set(key, out)
		api.WriteJSON(w, http.StatusOK, out)
	}
}

// GetWatchProviders handles GET /v1/movies/{movie_id}/providers
func GetWatchProviders(catalog tmdb.Catalog, cache Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		movieID, ok := movieIDParam(r)
		if !ok {
			api.BadRequest(w, "INVALID_ID", "movie_id must be a positive integer", rid, nil)
			return
		}

		key := "GetWatchProviders:" + strconv.Itoa(movieID)
		if cached, ok := cache.Get(key); ok {
			api.WriteJSON(w, http.StatusOK, cached)
			return
		}

		listing, err := catalog.GetWatchProviders(r.Context(), movieID)
		if err != nil {
			writeCatalogError(w, rid, err)
			return
		}

		out := providersResponse{Flatrate: []providerResponse{}}
		if listing != nil {
			out.Available = len(listing.Flatrate) > 0
			out.Link = listing.Link
			for _, p := range listing.Flatrate {
				out.Flatrate = append(out.Flatrate, providerResponse{
					ProviderID:   p.ProviderID,
					ProviderName: p.ProviderName,
					LogoURL:      catalog.LogoURL(p.LogoPath),
				})
			}
		}
		cache.Set(key, out)
		api.WriteJSON(w, http.StatusOK, out)
	}
}
