// Package ledger tracks which comments a client has already liked.
//
// Primary backend: Redis per-client sets (env REDIS_URL).
// Fallback: Postgres INSERT ... ON CONFLICT (env DATABASE_URL).
// If neither is available, an in-memory ledger is used (development only).
//
// The ledger is a best-effort duplicate guard, not an integrity
// mechanism: a client that discards its token can like again.
package ledger

import (
	"context"
	"errors"
)

// Ledger records and answers "has this client liked this comment".
type Ledger interface {
	// HasLiked reports whether clientID has already liked commentID.
	HasLiked(ctx context.Context, clientID, commentID string) (bool, error)
	// RecordLiked adds commentID to the client's liked set.
	// Recording an already-present id is a no-op.
	RecordLiked(ctx context.Context, clientID, commentID string) error
}

// New creates the ledger backend named by backend ("memory", "redis",
// "postgres"). When isProd is true the in-memory backend is refused.
func New(backend, redisURL, databaseURL string, isProd bool) (Ledger, error) {
	switch backend {
	case "redis":
		if redisURL == "" {
			return nil, errors.New("ledger: redis backend requires REDIS_URL")
		}
		return newRedisLedger(redisURL), nil
	case "postgres":
		if databaseURL == "" {
			return nil, errors.New("ledger: postgres backend requires DATABASE_URL")
		}
		return newPostgresLedger(databaseURL), nil
	case "", "memory":
		if isProd {
			return nil, errors.New("ledger: in-memory backend is not allowed in production")
		}
		return NewMemoryLedger(), nil
	}
	return nil, errors.New("ledger: unknown backend " + backend)
}
