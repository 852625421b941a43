package comments

import (
	"context"
	"errors"
	"testing"

	"github.com/example/movie-memo/services/moviememo/internal/ledger"
	"github.com/example/movie-memo/services/moviememo/internal/store"
)

func newTestService() (*Service, *store.InMemoryCommentStore) {
	st := store.NewInMemoryCommentStore()
	return NewService(st, ledger.NewMemoryLedger(), nil), st
}

func TestPost_ReturnsRefetchedListWithNewCommentFirst(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Post(ctx, "client-1", 550, PostInput{
		Nickname: "ねこ",
		Rating:   4,
		Body:     "最高だった",
		Movie:    store.MovieSnapshot{Title: "Fight Club"},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	views, err := svc.Post(ctx, "client-1", 550, PostInput{
		Rating: 5,
		Body:   "二回目も良い",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 comments after second post, got %d", len(views))
	}
	if views[0].Body != "二回目も良い" {
		t.Fatalf("newest comment should be first, got %q", views[0].Body)
	}
	if views[0].Likes != 0 || views[0].ReportCount != 0 {
		t.Fatalf("fresh comment counters should be zero, got %+v", views[0].Comment)
	}
	if views[0].TimeAgo == "" {
		t.Fatal("expected a relative-time label")
	}
}

func TestPost_OmittedNicknameFallsBack(t *testing.T) {
	svc, _ := newTestService()

	views, err := svc.Post(context.Background(), "client-1", 550, PostInput{
		Nickname: "   ",
		Rating:   3,
		Body:     "ふつう",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if views[0].Nickname != store.DefaultNickname {
		t.Fatalf("expected fallback nickname %q, got %q", store.DefaultNickname, views[0].Nickname)
	}
}

func TestPost_InvalidInputNeverReachesStore(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()

	cases := []struct {
		name string
		in   PostInput
	}{
		{"zero rating", PostInput{Rating: 0, Body: "x"}},
		{"rating too high", PostInput{Rating: 6, Body: "x"}},
		{"blank body", PostInput{Rating: 3, Body: "   "}},
		{"nickname too long", PostInput{Rating: 3, Body: "x", Nickname: "あいうえおかきくけこあいうえおかきくけこあ"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Post(ctx, "client-1", 550, tc.in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}

	stored, err := st.ListByMovie(ctx, 550)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stored) != 0 {
		t.Fatalf("rejected input reached the store: %d comments", len(stored))
	}
}

func TestLike_FirstSucceedsSecondIsGuarded(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()

	views, err := svc.Post(ctx, "client-1", 550, PostInput{Rating: 4, Body: "good"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id := views[0].ID

	views, err = svc.Like(ctx, "client-1", id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if views[0].Likes != 1 {
		t.Fatalf("expected likes=1 after first like, got %d", views[0].Likes)
	}
	if !views[0].Liked {
		t.Fatal("refreshed list should mark the comment liked for this client")
	}

	if _, err := svc.Like(ctx, "client-1", id); !errors.Is(err, ErrAlreadyLiked) {
		t.Fatalf("expected ErrAlreadyLiked, got %v", err)
	}

	c, err := st.Get(ctx, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Likes != 1 {
		t.Fatalf("guarded like must not change the store, likes=%d", c.Likes)
	}
}

func TestLike_DifferentClientsStack(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	views, err := svc.Post(ctx, "client-1", 550, PostInput{Rating: 4, Body: "good"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id := views[0].ID

	if _, err := svc.Like(ctx, "client-1", id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	views, err = svc.Like(ctx, "client-2", id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if views[0].Likes != 2 {
		t.Fatalf("expected likes=2 across clients, got %d", views[0].Likes)
	}
}

func TestLike_UnknownComment(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Like(context.Background(), "client-1", "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestList_LikedFlagsArePerClient(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	views, err := svc.Post(ctx, "client-1", 550, PostInput{Rating: 4, Body: "good"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Like(ctx, "client-1", views[0].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mine, err := svc.List(ctx, "client-1", 550)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mine[0].Liked {
		t.Fatal("liking client should see liked=true")
	}

	theirs, err := svc.List(ctx, "client-2", 550)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if theirs[0].Liked {
		t.Fatal("other clients should see liked=false")
	}

	anon, err := svc.List(ctx, "", 550)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if anon[0].Liked {
		t.Fatal("anonymous listing should see liked=false")
	}
}

func TestReport_OneRecordAndOneCounterBump(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()

	views, err := svc.Post(ctx, "client-1", 550, PostInput{Rating: 4, Body: "good"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id := views[0].ID

	r, err := svc.Report(ctx, "client-2", id, store.ReasonSpam)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.ID == "" || r.Reason != store.ReasonSpam {
		t.Fatalf("unexpected report: %+v", r)
	}

	if got := st.ReportsFor(id); len(got) != 1 {
		t.Fatalf("expected exactly one report record, got %d", len(got))
	}
	c, err := st.Get(ctx, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ReportCount != 1 {
		t.Fatalf("expected report_count=1, got %d", c.ReportCount)
	}
}

func TestReport_UnknownReason(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Report(context.Background(), "client-1", "whatever", "rude")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
