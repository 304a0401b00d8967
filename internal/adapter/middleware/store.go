package middleware

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// replayEntry is what Redis holds under an idempotency key: first an
// in-progress marker, then the finished response.
type replayEntry struct {
	InProgress  bool      `json:"in_progress"`
	Code        int       `json:"code"`
	Body        []byte    `json:"body"`
	BodySHA256  string    `json:"body_sha256"`
	RequestID   string    `json:"request_id"`
	RequestAtMS int64     `json:"request_at_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

func (e replayEntry) replayable() bool { return !e.InProgress && e.Code != 0 && len(e.Body) > 0 }

type replayStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// reserve claims key for one in-flight request. false means someone else holds it.
func (s replayStore) reserve(ctx context.Context, key string, e replayEntry) (bool, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return false, err
	}
	return s.rdb.SetNX(ctx, key, payload, provisionalLockTTL).Result()
}

func (s replayStore) load(ctx context.Context, key string) (replayEntry, error) {
	var e replayEntry
	v, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return e, err
	}
	err = json.Unmarshal(v, &e)
	return e, err
}

// finish replaces the marker with the stored response for the full ttl.
func (s replayStore) finish(ctx context.Context, key string, e replayEntry) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, payload, s.ttl).Err()
}

// release drops the key so the client may retry.
func (s replayStore) release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
