package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/example/movie-memo/services/moviememo/internal/store"
)

var _ store.CommentStore = (*Store)(nil)

// commentDoc mirrors store.Comment with a native ObjectID primary key.
type commentDoc struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty"`
	MovieID     int                 `bson:"movie_id"`
	Nickname    string              `bson:"nickname"`
	Rating      int                 `bson:"rating"`
	Body        string              `bson:"comment"`
	Movie       store.MovieSnapshot `bson:"movie"`
	Likes       int                 `bson:"likes"`
	ReportCount int                 `bson:"report_count"`
	CreatedAt   time.Time           `bson:"created_at"`
}

type reportDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	CommentID string             `bson:"comment_id"`
	Reason    string             `bson:"reason"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d commentDoc) toComment() store.Comment {
	return store.Comment{
		ID:          d.ID.Hex(),
		MovieID:     d.MovieID,
		Nickname:    d.Nickname,
		Rating:      d.Rating,
		Body:        d.Body,
		Movie:       d.Movie,
		Likes:       d.Likes,
		ReportCount: d.ReportCount,
		CreatedAt:   d.CreatedAt,
	}
}

// Mongo DateTime keeps millisecond precision; truncate before writing so
// what we return matches what a refetch will read.
func nowMS() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (s *Store) Create(ctx context.Context, c store.Comment) (store.Comment, error) {
	const op = "store/mongo/Create"

	doc := commentDoc{
		MovieID:   c.MovieID,
		Nickname:  c.Nickname,
		Rating:    c.Rating,
		Body:      c.Body,
		Movie:     c.Movie,
		CreatedAt: nowMS(),
	}
	res, err := s.comments.InsertOne(ctx, doc)
	if err != nil {
		return store.Comment{}, fmt.Errorf("%s: insert: %w", op, err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return store.Comment{}, fmt.Errorf("%s: inserted id type", op)
	}
	doc.ID = oid
	return doc.toComment(), nil
}

func (s *Store) Get(ctx context.Context, commentID string) (store.Comment, error) {
	const op = "store/mongo/Get"

	oid, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return store.Comment{}, fmt.Errorf("%s: %w", op, store.ErrNotFound)
	}
	var d commentDoc
	if err := s.comments.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&d); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return store.Comment{}, fmt.Errorf("%s: %w", op, store.ErrNotFound)
		}
		return store.Comment{}, fmt.Errorf("%s: find: %w", op, err)
	}
	return d.toComment(), nil
}

func (s *Store) ListByMovie(ctx context.Context, movieID int) ([]store.Comment, error) {
	const op = "store/mongo/ListByMovie"

	filter := bson.D{{Key: "movie_id", Value: movieID}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	return s.findComments(ctx, op, filter, opts)
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]store.Comment, error) {
	const op = "store/mongo/ListRecent"

	if limit <= 0 {
		limit = store.RecentLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))
	return s.findComments(ctx, op, bson.D{}, opts)
}

func (s *Store) findComments(ctx context.Context, op string, filter bson.D, opts *options.FindOptions) ([]store.Comment, error) {
	cur, err := s.comments.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	out := make([]store.Comment, 0)
	for cur.Next(ctx) {
		var d commentDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}
		out = append(out, d.toComment())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}
	return out, nil
}

func (s *Store) IncrementLikes(ctx context.Context, commentID string) error {
	return s.incrementCounter(ctx, "store/mongo/IncrementLikes", commentID, "likes")
}

func (s *Store) IncrementReportCount(ctx context.Context, commentID string) error {
	return s.incrementCounter(ctx, "store/mongo/IncrementReportCount", commentID, "report_count")
}

// incrementCounter is the only write path for counters: a server-side $inc,
// never an absolute overwrite, so concurrent bumps cannot lose updates.
func (s *Store) incrementCounter(ctx context.Context, op, commentID, field string) error {
	oid, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, store.ErrNotFound)
	}

	res, err := s.comments.UpdateByID(ctx, oid, bson.D{
		{Key: "$inc", Value: bson.D{{Key: field, Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, store.ErrNotFound)
	}
	return nil
}

func (s *Store) CreateReport(ctx context.Context, r store.Report) (store.Report, error) {
	const op = "store/mongo/CreateReport"

	// Reject reports against ids the collection has never seen.
	oid, err := primitive.ObjectIDFromHex(r.CommentID)
	if err != nil {
		return store.Report{}, fmt.Errorf("%s: %w", op, store.ErrNotFound)
	}
	if err := s.comments.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Err(); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return store.Report{}, fmt.Errorf("%s: %w", op, store.ErrNotFound)
		}
		return store.Report{}, fmt.Errorf("%s: find comment: %w", op, err)
	}

	doc := reportDoc{
		CommentID: r.CommentID,
		Reason:    r.Reason,
		CreatedAt: nowMS(),
	}
	res, err := s.reports.InsertOne(ctx, doc)
	if err != nil {
		return store.Report{}, fmt.Errorf("%s: insert: %w", op, err)
	}
	rid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return store.Report{}, fmt.Errorf("%s: inserted id type", op)
	}
	return store.Report{
		ID:        rid.Hex(),
		CommentID: doc.CommentID,
		Reason:    doc.Reason,
		CreatedAt: doc.CreatedAt,
	}, nil
}
