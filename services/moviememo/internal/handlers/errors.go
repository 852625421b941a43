package handlers

import (
	"errors"
	"net/http"

	"github.com/example/movie-memo/internal/platform/api"
	"github.com/example/movie-memo/services/moviememo/internal/comments"
	"github.com/example/movie-memo/services/moviememo/internal/store"
	"github.com/example/movie-memo/services/moviememo/internal/tmdb"
)

// writeServiceError maps service-layer failures onto the error envelope.
// Unknown errors become opaque 500s; upstream catalog failures become 502
// so clients can distinguish "we broke" from "TMDB is down".
func writeServiceError(w http.ResponseWriter, rid string, err error) {
	var verr *comments.ValidationError
	switch {
	case errors.As(err, &verr):
		api.BadRequest(w, "INVALID_INPUT", verr.Error(), rid, map[string]any{"field": verr.Field})
	case errors.Is(err, comments.ErrAlreadyLiked):
		api.Conflict(w, "ALREADY_LIKED", "comment already liked", rid, nil)
	case errors.Is(err, store.ErrNotFound):
		api.NotFound(w, "NOT_FOUND", "comment not found", rid)
	case errors.Is(err, tmdb.ErrNotFound):
		api.NotFound(w, "NOT_FOUND", "movie not found", rid)
	default:
		api.Internal(w, rid)
	}
}

// writeCatalogError is the mapping for endpoints whose only collaborator
// is the upstream catalog.
func writeCatalogError(w http.ResponseWriter, rid string, err error) {
	if errors.Is(err, tmdb.ErrNotFound) {
		api.NotFound(w, "NOT_FOUND", "movie not found", rid)
		return
	}
	api.BadGateway(w, "UPSTREAM_UNAVAILABLE", "movie catalog is unavailable", rid)
}
