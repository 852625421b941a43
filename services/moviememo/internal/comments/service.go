// Package comments layers validation, the per-client like guard and
// analytics on top of the comment store. Every write is followed by a
// refetch so callers always render exactly what the store now holds.
package comments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/example/movie-memo/internal/platform/analytics"
	"github.com/example/movie-memo/services/moviememo/internal/ledger"
	"github.com/example/movie-memo/services/moviememo/internal/store"
	"github.com/example/movie-memo/services/moviememo/internal/timeago"
)

// NicknameMaxLen caps nicknames in characters, not bytes.
const NicknameMaxLen = 20

// ErrAlreadyLiked signals the duplicate-like guard fired. No store call
// has happened when this is returned.
var ErrAlreadyLiked = errors.New("comment already liked")

// ValidationError rejects input before any store call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// View is a stored comment decorated for the calling client.
type View struct {
	store.Comment
	Liked   bool   `json:"liked"`
	TimeAgo string `json:"time_ago"`
}

// PostInput carries client-supplied comment fields. Movie is the
// catalog snapshot captured at posting time.
type PostInput struct {
	Nickname string              `json:"nickname"`
	Rating   int                 `json:"rating"`
	Body     string              `json:"comment"`
	Movie    store.MovieSnapshot `json:"movie"`
}

type Service struct {
	store  store.CommentStore
	ledger ledger.Ledger
	events *analytics.Publisher
	now    func() time.Time
}

func NewService(s store.CommentStore, l ledger.Ledger, events *analytics.Publisher) *Service {
	return &Service{store: s, ledger: l, events: events, now: time.Now}
}

// List returns the movie's comments newest first, with liked flags for
// clientID. An empty clientID leaves every flag false.
func (s *Service) List(ctx context.Context, clientID string, movieID int) ([]View, error) {
	cs, err := s.store.ListByMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, clientID, cs)
}

// Post validates, creates, then refetches the movie's comments. There is
// no optimistic insert; the returned list is what the store now holds.
func (s *Service) Post(ctx context.Context, clientID string, movieID int, in PostInput) ([]View, error) {
	c, err := buildComment(movieID, in)
	if err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, c)
	if err != nil {
		return nil, err
	}

	s.events.Publish(analytics.SubjectCommentPosted, "comment_posted", clientID, map[string]any{
		"comment_id": created.ID,
		"movie_id":   movieID,
		"rating":     created.Rating,
	})

	return s.List(ctx, clientID, movieID)
}

// Like bumps the comment's like counter unless the client already liked
// it. On the duplicate path it returns ErrAlreadyLiked before touching
// the store. On success it returns the refreshed list for the comment's
// movie.
func (s *Service) Like(ctx context.Context, clientID, commentID string) ([]View, error) {
	liked, err := s.ledger.HasLiked(ctx, clientID, commentID)
	if err != nil {
		return nil, err
	}
	if liked {
		return nil, ErrAlreadyLiked
	}

	c, err := s.store.Get(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if err := s.store.IncrementLikes(ctx, commentID); err != nil {
		return nil, err
	}
	if err := s.ledger.RecordLiked(ctx, clientID, commentID); err != nil {
		return nil, err
	}

	s.events.Publish(analytics.SubjectCommentLiked, "comment_liked", clientID, map[string]any{
		"comment_id": commentID,
		"movie_id":   c.MovieID,
	})

	return s.List(ctx, clientID, c.MovieID)
}

// Report files a moderation flag and bumps the denormalized counter.
// The two writes are separate calls; a crash between them leaves the
// report record authoritative and the counter one behind, which
// moderation tooling tolerates.
func (s *Service) Report(ctx context.Context, clientID, commentID, reason string) (store.Report, error) {
	if !store.ValidReason(reason) {
		return store.Report{}, &ValidationError{Field: "reason", Message: "unknown report reason"}
	}

	r, err := s.store.CreateReport(ctx, store.Report{CommentID: commentID, Reason: reason})
	if err != nil {
		return store.Report{}, err
	}
	if err := s.store.IncrementReportCount(ctx, commentID); err != nil {
		return store.Report{}, err
	}

	s.events.Publish(analytics.SubjectCommentReported, "comment_reported", clientID, map[string]any{
		"comment_id": commentID,
		"reason":     reason,
	})

	return r, nil
}

func (s *Service) decorate(ctx context.Context, clientID string, cs []store.Comment) ([]View, error) {
	now := s.now().UTC()
	out := make([]View, 0, len(cs))
	for _, c := range cs {
		v := View{Comment: c, TimeAgo: timeago.Format(c.CreatedAt, now)}
		if clientID != "" {
			liked, err := s.ledger.HasLiked(ctx, clientID, c.ID)
			if err != nil {
				return nil, err
			}
			v.Liked = liked
		}
		out = append(out, v)
	}
	return out, nil
}

func buildComment(movieID int, in PostInput) (store.Comment, error) {
	if movieID <= 0 {
		return store.Comment{}, &ValidationError{Field: "movie_id", Message: "must be positive"}
	}
	if in.Rating < 1 || in.Rating > 5 {
		return store.Comment{}, &ValidationError{Field: "rating", Message: "must be between 1 and 5"}
	}

	body := strings.TrimSpace(in.Body)
	if body == "" {
		return store.Comment{}, &ValidationError{Field: "comment", Message: "must not be blank"}
	}

	nickname := strings.TrimSpace(in.Nickname)
	if nickname == "" {
		nickname = store.DefaultNickname
	}
	if utf8.RuneCountInString(nickname) > NicknameMaxLen {
		return store.Comment{}, &ValidationError{Field: "nickname", Message: "too long"}
	}

	return store.Comment{
		MovieID:  movieID,
		Nickname: nickname,
		Rating:   in.Rating,
		Body:     body,
		Movie:    in.Movie,
	}, nil
}
