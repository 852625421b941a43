// Package activity builds the home-page feed of recently commented movies.
package activity

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/movie-memo/services/moviememo/internal/store"
	"github.com/example/movie-memo/services/moviememo/internal/tmdb"
)

// MaxEntries caps the feed after per-movie deduplication.
const MaxEntries = 10

// Entry pairs live catalog metadata with the movie's newest comment.
type Entry struct {
	Movie     tmdb.Movie    `json:"movie"`
	PosterURL string        `json:"poster_url,omitempty"`
	Comment   store.Comment `json:"comment"`
}

type Feed struct {
	store   store.CommentStore
	catalog tmdb.Catalog
	log     *zap.Logger
}

func NewFeed(s store.CommentStore, c tmdb.Catalog, log *zap.Logger) *Feed {
	return &Feed{store: s, catalog: c, log: log}
}

// Recent scans the newest comments, keeps one comment per movie (the
// first seen, which is the newest), caps the batch, then joins in catalog
// metadata one movie at a time. The join is all or nothing: if any catalog
// lookup fails the whole feed degrades to empty rather than showing a
// partial ranking.
func (f *Feed) Recent(ctx context.Context) ([]Entry, error) {
	recent, err := f.store.ListRecent(ctx, store.RecentLimit)
	if err != nil {
		return nil, err
	}

	featured := dedupeByMovie(recent)
	if len(featured) > MaxEntries {
		featured = featured[:MaxEntries]
	}

	out := make([]Entry, 0, len(featured))
	for _, c := range featured {
		m, err := f.catalog.GetMovie(ctx, c.MovieID)
		if err != nil {
			f.log.Warn("activity: catalog lookup failed, dropping feed",
				zap.Int("movie_id", c.MovieID), zap.Error(err))
			return []Entry{}, nil
		}
		out = append(out, Entry{
			Movie:     *m,
			PosterURL: f.catalog.PosterURL(m),
			Comment:   c,
		})
	}
	return out, nil
}

// dedupeByMovie keeps the first comment seen for each movie id,
// preserving order. Input is newest first, so the survivor is the
// movie's newest comment.
func dedupeByMovie(cs []store.Comment) []store.Comment {
	seen := make(map[int]struct{}, len(cs))
	out := make([]store.Comment, 0, len(cs))
	for _, c := range cs {
		if _, ok := seen[c.MovieID]; ok {
			continue
		}
		seen[c.MovieID] = struct{}{}
		out = append(out, c)
	}
	return out
}
