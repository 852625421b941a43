package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryCommentStore is a development-only in-memory implementation.
type InMemoryCommentStore struct {
	mu       sync.RWMutex
	comments map[string]Comment // id -> comment
	reports  map[string]Report  // id -> report
	seq      int64              // breaks creation-time ties in ordering
	order    map[string]int64   // id -> insertion sequence
}

func NewInMemoryCommentStore() *InMemoryCommentStore {
	return &InMemoryCommentStore{
		comments: make(map[string]Comment),
		reports:  make(map[string]Report),
		order:    make(map[string]int64),
	}
}

func (s *InMemoryCommentStore) Create(_ context.Context, c Comment) (Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = uuid.New().String()
	c.CreatedAt = time.Now().UTC()
	c.Likes = 0
	c.ReportCount = 0
	s.seq++
	s.order[c.ID] = s.seq
	s.comments[c.ID] = c
	return c, nil
}

func (s *InMemoryCommentStore) Get(_ context.Context, commentID string) (Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[commentID]
	if !ok {
		return Comment{}, ErrNotFound
	}
	return c, nil
}

func (s *InMemoryCommentStore) ListByMovie(_ context.Context, movieID int) ([]Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Comment, 0)
	for _, c := range s.comments {
		if c.MovieID == movieID {
			out = append(out, c)
		}
	}
	s.sortNewestFirst(out)
	return out, nil
}

func (s *InMemoryCommentStore) ListRecent(_ context.Context, limit int) ([]Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = RecentLimit
	}
	out := make([]Comment, 0, len(s.comments))
	for _, c := range s.comments {
		out = append(out, c)
	}
	s.sortNewestFirst(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *InMemoryCommentStore) IncrementLikes(_ context.Context, commentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[commentID]
	if !ok {
		return ErrNotFound
	}
	c.Likes++
	s.comments[commentID] = c
	return nil
}

func (s *InMemoryCommentStore) CreateReport(_ context.Context, r Report) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = uuid.New().String()
	r.CreatedAt = time.Now().UTC()
	s.reports[r.ID] = r
	return r, nil
}

func (s *InMemoryCommentStore) IncrementReportCount(_ context.Context, commentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[commentID]
	if !ok {
		return ErrNotFound
	}
	c.ReportCount++
	s.comments[commentID] = c
	return nil
}

// ReportsFor returns the reports filed against a comment. Test helper; the
// HTTP surface never lists reports.
func (s *InMemoryCommentStore) ReportsFor(commentID string) []Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Report
	for _, r := range s.reports {
		if r.CommentID == commentID {
			out = append(out, r)
		}
	}
	return out
}

func (s *InMemoryCommentStore) sortNewestFirst(cs []Comment) {
	sort.Slice(cs, func(i, j int) bool {
		if !cs[i].CreatedAt.Equal(cs[j].CreatedAt) {
			return cs[i].CreatedAt.After(cs[j].CreatedAt)
		}
		return s.order[cs[i].ID] > s.order[cs[j].ID]
	})
}
