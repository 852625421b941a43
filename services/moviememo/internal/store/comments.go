package store

import (
	"context"
	"errors"
	"time"
)

// DefaultNickname is stored when a comment is posted without one.
const DefaultNickname = "匿名希望くん"

// RecentLimit is how many comments the recent feed scans across all movies.
const RecentLimit = 30

// MovieSnapshot is the metadata captured at posting time so historical
// listings render without a live catalog lookup.
type MovieSnapshot struct {
	Title       string `json:"title" bson:"title"`
	PosterPath  string `json:"poster_path,omitempty" bson:"poster_path,omitempty"`
	ReleaseDate string `json:"release_date,omitempty" bson:"release_date,omitempty"`
}

// Comment is a single anonymous star-rated review.
type Comment struct {
	ID          string        `json:"id" bson:"_id,omitempty"`
	MovieID     int           `json:"movie_id" bson:"movie_id"`
	Nickname    string        `json:"nickname" bson:"nickname"`
	Rating      int           `json:"rating" bson:"rating"`
	Body        string        `json:"comment" bson:"comment"`
	Movie       MovieSnapshot `json:"movie" bson:"movie"`
	Likes       int           `json:"likes" bson:"likes"`
	ReportCount int           `json:"report_count" bson:"report_count"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at"`
}

// Report reasons form a closed set.
const (
	ReasonInappropriate = "inappropriate"
	ReasonSpam          = "spam"
	ReasonSpoiler       = "spoiler"
	ReasonOther         = "other"
)

// ValidReason reports whether reason belongs to the closed reason set.
func ValidReason(reason string) bool {
	switch reason {
	case ReasonInappropriate, ReasonSpam, ReasonSpoiler, ReasonOther:
		return true
	}
	return false
}

// Report is one moderation flag against a comment. Reports are append-only;
// they are never mutated, deleted, and never hide the comment.
type Report struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	CommentID string    `json:"comment_id" bson:"comment_id"`
	Reason    string    `json:"reason" bson:"reason"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// CommentStore defines the contract for comment/report persistence.
//
// Likes and report counts move only by atomic increment; there is no
// absolute-value write path, so concurrent clients cannot lose updates.
type CommentStore interface {
	// Create persists a comment and returns it with the store-assigned
	// id and timestamp. likes and report_count start at zero.
	Create(ctx context.Context, c Comment) (Comment, error)
	// Get returns one comment by id, or ErrNotFound.
	Get(ctx context.Context, commentID string) (Comment, error)
	// ListByMovie returns the movie's comments newest first.
	ListByMovie(ctx context.Context, movieID int) ([]Comment, error)
	// ListRecent returns up to limit comments across all movies, newest first.
	ListRecent(ctx context.Context, limit int) ([]Comment, error)
	// IncrementLikes bumps the like counter by one.
	IncrementLikes(ctx context.Context, commentID string) error
	// CreateReport records a report. The report-count increment is a
	// separate call; the pair is deliberately non-transactional.
	CreateReport(ctx context.Context, r Report) (Report, error)
	// IncrementReportCount bumps the denormalized report counter by one.
	IncrementReportCount(ctx context.Context, commentID string) error
}

// Sentinel errors
var ErrNotFound = errors.New("comment not found")
