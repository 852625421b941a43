package ledger

import (
	"context"

	"github.com/redis/go-redis/v9"
)

type redisLedger struct {
	client *redis.Client
}

func newRedisLedger(url string) *redisLedger {
	opts, err := redis.ParseURL(url)
	if err != nil {
		opts = &redis.Options{Addr: url}
	}
	return &redisLedger{client: redis.NewClient(opts)}
}

// newRedisLedgerFromClient is used by tests running against miniredis.
func newRedisLedgerFromClient(c *redis.Client) *redisLedger {
	return &redisLedger{client: c}
}

func likedKey(clientID string) string {
	return "moviememo:liked:" + clientID
}

func (l *redisLedger) HasLiked(ctx context.Context, clientID, commentID string) (bool, error) {
	return l.client.SIsMember(ctx, likedKey(clientID), commentID).Result()
}

// RecordLiked uses SADD, which is a no-op for already-present members.
// No TTL: the liked set persists for the lifetime of the client identity.
func (l *redisLedger) RecordLiked(ctx context.Context, clientID, commentID string) error {
	return l.client.SAdd(ctx, likedKey(clientID), commentID).Err()
}
