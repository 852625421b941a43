package ledger

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestMemoryLedger_UnlikedCommentIsNotLiked(t *testing.T) {
	l := NewMemoryLedger()
	liked, err := l.HasLiked(context.Background(), "client-1", "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if liked {
		t.Fatal("fresh ledger should not report a like")
	}
}

func TestMemoryLedger_RecordThenHas(t *testing.T) {
	l := NewMemoryLedger()
	ctx := context.Background()

	if err := l.RecordLiked(ctx, "client-1", "c1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	liked, err := l.HasLiked(ctx, "client-1", "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !liked {
		t.Fatal("recorded like should be reported")
	}
}

func TestMemoryLedger_ClientsAreIndependent(t *testing.T) {
	l := NewMemoryLedger()
	ctx := context.Background()

	_ = l.RecordLiked(ctx, "client-1", "c1")

	liked, err := l.HasLiked(ctx, "client-2", "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if liked {
		t.Fatal("like should not leak across clients")
	}
}

func TestMemoryLedger_RecordIsIdempotent(t *testing.T) {
	l := NewMemoryLedger()
	ctx := context.Background()

	_ = l.RecordLiked(ctx, "client-1", "c1")
	if err := l.RecordLiked(ctx, "client-1", "c1"); err != nil {
		t.Fatalf("re-recording should be a no-op, got %v", err)
	}
}

func TestRedisLedger_RecordThenHas(t *testing.T) {
	srv := miniredis.RunT(t)
	l := newRedisLedgerFromClient(redis.NewClient(&redis.Options{Addr: srv.Addr()}))
	ctx := context.Background()

	liked, err := l.HasLiked(ctx, "client-1", "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if liked {
		t.Fatal("fresh ledger should not report a like")
	}

	if err := l.RecordLiked(ctx, "client-1", "c1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	liked, err = l.HasLiked(ctx, "client-1", "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !liked {
		t.Fatal("recorded like should be reported")
	}

	liked, err = l.HasLiked(ctx, "client-2", "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if liked {
		t.Fatal("like should not leak across clients")
	}
}

func TestNew_DefaultsToMemory(t *testing.T) {
	l, err := New("", "", "", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := l.(*memoryLedger); !ok {
		t.Fatalf("expected memoryLedger for empty backend, got %T", l)
	}
}

func TestNew_RejectsMemoryInProd(t *testing.T) {
	l, err := New("memory", "", "", true)
	if err == nil {
		t.Fatalf("expected error in production, got ledger %T", l)
	}
}

func TestNew_RequiresBackendURL(t *testing.T) {
	if _, err := New("redis", "", "", false); err == nil {
		t.Fatal("redis backend without REDIS_URL should fail")
	}
	if _, err := New("postgres", "", "", false); err == nil {
		t.Fatal("postgres backend without DATABASE_URL should fail")
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	if _, err := New("etcd", "", "", false); err == nil {
		t.Fatal("unknown backend should fail")
	}
}
