package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/example/movie-memo/internal/platform/analytics"
	"github.com/example/movie-memo/internal/platform/api"
	"github.com/example/movie-memo/internal/platform/httpserver"
	"github.com/example/movie-memo/internal/platform/session"
	"github.com/example/movie-memo/services/moviememo/internal/tmdb"
)

// suggestMinQueryLen keeps one-keystroke queries from hitting the catalog.
const suggestMinQueryLen = 2

// SearchMovies handles GET /v1/movies/search?q=&page=
func SearchMovies(catalog tmdb.Catalog, cache Cache, events *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		q := strings.TrimSpace(r.URL.Query().Get("q"))
		if q == "" {
			api.BadRequest(w, "MISSING_QUERY", "q is required", rid, nil)
			return
		}
		page := parsePage(r.URL.Query().Get("page"))

		clientID, _ := session.ClientIDFromContext(r.Context())
		events.Publish(analytics.SubjectSearchPerformed, "search_performed", clientID, map[string]any{
			"query": q,
			"page":  page,
		})

		key := "SearchMovies:" + strconv.Itoa(page) + ":" + q
		if cached, ok := cache.Get(key); ok {
			api.WriteJSON(w, http.StatusOK, cached)
			return
		}

		result, err := catalog.Search(r.Context(), q, page)
		if err != nil {
			writeCatalogError(w, rid, err)
			return
		}
		cache.Set(key, result)
		api.WriteJSON(w, http.StatusOK, result)
	}
}

// SuggestMovies handles GET /v1/movies/suggest?q=
//
// Queries shorter than two characters return an empty list rather than an
// error; the type-ahead box fires on every keystroke.
func SuggestMovies(catalog tmdb.Catalog, cache Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		q := strings.TrimSpace(r.URL.Query().Get("q"))
		if utf8.RuneCountInString(q) < suggestMinQueryLen {
			api.WriteJSON(w, http.StatusOK, map[string]any{"suggestions": []tmdb.Suggestion{}})
			return
		}

		key := "SuggestMovies:" + q
		if cached, ok := cache.Get(key); ok {
			api.WriteJSON(w, http.StatusOK, cached)
			return
		}

		suggestions, err := catalog.Suggest(r.Context(), q)
		if err != nil {
			writeCatalogError(w, rid, err)
			return
		}
		out := map[string]any{"suggestions": suggestions}
		cache.Set(key, out)
		api.WriteJSON(w, http.StatusOK, out)
	}
}

func parsePage(v string) int {
	if strings.TrimSpace(v) == "" {
		return 1
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 1
	}
	if n > 500 {
		return 500
	}
	return n
}
