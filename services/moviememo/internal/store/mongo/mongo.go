// Package mongo is the production CommentStore backed by a MongoDB
// document collection pair (comments, reports).
package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	commentsCollection = "comments"
	reportsCollection  = "reports"
	defaultDBName      = "moviememo"
)

// Store holds the client and collection handles.
type Store struct {
	client   *mongodriver.Client
	comments *mongodriver.Collection
	reports  *mongodriver.Collection
}

// New connects, pings, and ensures the indexes the list queries rely on.
func New(ctx context.Context, uri string) (*Store, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, fmt.Errorf("mongo: empty uri")
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := cli.Database(databaseFromURI(uri))
	s := &Store{
		client:   cli,
		comments: db.Collection(commentsCollection),
		reports:  db.Collection(reportsCollection),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = s.Close(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ping reports store reachability; wired into /readyz.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// ensureIndexes creates the indexes behind the two list shapes:
// per-movie newest-first, and the global recent scan.
func (s *Store) ensureIndexes(ctx context.Context) error {
	models := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "movie_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("movie_created_desc"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("created_desc"),
		},
	}
	if _, err := s.comments.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("mongo ensure indexes: %w", err)
	}

	reportModels := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "comment_id", Value: 1}},
			Options: options.Index().SetName("report_comment"),
		},
	}
	if _, err := s.reports.Indexes().CreateMany(ctx, reportModels); err != nil {
		return fmt.Errorf("mongo ensure report indexes: %w", err)
	}
	return nil
}

// databaseFromURI extracts the database name from the mongodb URI path,
// falling back to a default when absent.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}
	return defaultDBName
}
