package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/movie-memo/internal/platform/api"
	"github.com/example/movie-memo/internal/platform/httpserver"
	"github.com/example/movie-memo/internal/platform/session"
	"github.com/example/movie-memo/services/moviememo/internal/comments"
)

type reportReq struct {
	Reason string `json:"reason"`
}

func commentIDParam(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "comment_id"))
}

// ListComments handles GET /v1/movies/{movie_id}/comments
func ListComments(svc *comments.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		movieID, ok := movieIDParam(r)
		if !ok {
			api.BadRequest(w, "INVALID_ID", "movie_id must be a positive integer", rid, nil)
			return
		}

		clientID, _ := session.ClientIDFromContext(r.Context())
		views, err := svc.List(r.Context(), clientID, movieID)
		if err != nil {
			writeServiceError(w, rid, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, map[string]any{"comments": views})
	}
}

// PostComment handles POST /v1/movies/{movie_id}/comments
func PostComment(svc *comments.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		movieID, ok := movieIDParam(r)
		if !ok {
			api.BadRequest(w, "INVALID_ID", "movie_id must be a positive integer", rid, nil)
			return
		}

		var in comments.PostInput
		if !decodeJSON(w, r, rid, &in) {
			return
		}

		clientID, _ := session.ClientIDFromContext(r.Context())
		views, err := svc.Post(r.Context(), clientID, movieID, in)
		if err != nil {
			writeServiceError(w, rid, err)
			return
		}
		api.WriteJSON(w, http.StatusCreated, map[string]any{"comments": views})
	}
}

// LikeComment handles POST /v1/comments/{comment_id}/like
//
// Requires a session; holding the token is what makes "one like per
// client" mean anything.
func LikeComment(svc *comments.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		commentID := commentIDParam(r)
		if commentID == "" {
			api.BadRequest(w, "MISSING_ID", "comment_id is required", rid, nil)
			return
		}

		clientID, ok := session.ClientIDFromContext(r.Context())
		if !ok {
			api.Unauthorized(w, "SESSION_REQUIRED", "a session token is required to like", rid)
			return
		}

		views, err := svc.Like(r.Context(), clientID, commentID)
		if err != nil {
			writeServiceError(w, rid, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, map[string]any{"liked": true, "comments": views})
	}
}

// ReportComment handles POST /v1/comments/{comment_id}/report
//
// Accepted with 202: the report is queued for human review, nothing is
// hidden or deleted synchronously.
func ReportComment(svc *comments.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		commentID := commentIDParam(r)
		if commentID == "" {
			api.BadRequest(w, "MISSING_ID", "comment_id is required", rid, nil)
			return
		}

		var in reportReq
		if !decodeJSON(w, r, rid, &in) {
			return
		}

		clientID, _ := session.ClientIDFromContext(r.Context())
		report, err := svc.Report(r.Context(), clientID, commentID, in.Reason)
		if err != nil {
			writeServiceError(w, rid, err)
			return
		}
		api.WriteJSON(w, http.StatusAccepted, map[string]any{"report_id": report.ID})
	}
}
