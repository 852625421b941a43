package ledger

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/movie-memo/internal/platform/db"
)

type postgresLedger struct {
	dsn string
	// pool is lazily initialised on first use.
	pool *pgxpool.Pool
}

func newPostgresLedger(dsn string) *postgresLedger {
	return &postgresLedger{dsn: dsn}
}

func (l *postgresLedger) ensurePool(ctx context.Context) error {
	if l.pool != nil {
		return nil
	}
	pool, err := db.Open(ctx, l.dsn)
	if err != nil {
		return err
	}
	l.pool = pool
	return nil
}

// Table `liked_comments (client_id text, comment_id text, created_at
// timestamptz, primary key (client_id, comment_id))` must exist.

func (l *postgresLedger) HasLiked(ctx context.Context, clientID, commentID string) (bool, error) {
	if err := l.ensurePool(ctx); err != nil {
		return false, err
	}

	const q = `SELECT EXISTS(SELECT 1 FROM liked_comments WHERE client_id = $1 AND comment_id = $2)`
	var exists bool
	err := l.pool.QueryRow(ctx, q, clientID, commentID).Scan(&exists)
	return exists, err
}

// RecordLiked inserts with ON CONFLICT DO NOTHING so re-recording is a no-op.
func (l *postgresLedger) RecordLiked(ctx context.Context, clientID, commentID string) error {
	if err := l.ensurePool(ctx); err != nil {
		return err
	}

	const q = `INSERT INTO liked_comments (client_id, comment_id, created_at)
	           VALUES ($1, $2, now())
	           ON CONFLICT (client_id, comment_id) DO NOTHING`
	_, err := l.pool.Exec(ctx, q, clientID, commentID)
	return err
}
