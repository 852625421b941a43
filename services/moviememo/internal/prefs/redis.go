package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	client *redis.Client
}

func newRedisStore(url string) *redisStore {
	opts, err := redis.ParseURL(url)
	if err != nil {
		opts = &redis.Options{Addr: url}
	}
	return &redisStore{client: redis.NewClient(opts)}
}

// newRedisStoreFromClient is used by tests running against miniredis.
func newRedisStoreFromClient(c *redis.Client) *redisStore {
	return &redisStore{client: c}
}

func prefsKey(clientID string) string {
	return "moviememo:prefs:" + clientID
}

func (s *redisStore) Get(ctx context.Context, clientID string) (Preferences, error) {
	raw, err := s.client.Get(ctx, prefsKey(clientID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Defaults(), nil
	}
	if err != nil {
		return Defaults(), fmt.Errorf("prefs: get: %w", err)
	}

	var p Preferences
	if err := json.Unmarshal(raw, &p); err != nil {
		// A corrupt value is indistinguishable from no value to the UI.
		return Defaults(), fmt.Errorf("prefs: decode: %w", err)
	}
	return p, nil
}

// Put stores the state without a TTL; preferences live as long as the
// client identity does.
func (s *redisStore) Put(ctx context.Context, clientID string, p Preferences) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("prefs: encode: %w", err)
	}
	if err := s.client.Set(ctx, prefsKey(clientID), raw, 0).Err(); err != nil {
		return fmt.Errorf("prefs: set: %w", err)
	}
	return nil
}
