package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bizfilings/pkg/platform/sentinel"
	"bizfilings/pkg/requestcontext"
)

const sessionKeyPrefix = "bizfilings:session:"

// RedisStore keeps session records in Redis so every instance behind the load
// balancer sees the same sessions. Expiry is delegated to Redis TTLs.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Save(ctx context.Context, rec *Record, ttl time.Duration) error {
	if rec == nil || rec.Key == "" {
		return fmt.Errorf("save session: missing key")
	}
	stored := *rec
	stored.ExpiresAt = requestcontext.Now(ctx).Add(ttl)

	payload, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+rec.Key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Find(ctx context.Context, key string) (*Record, error) {
	payload, err := s.client.Get(ctx, sessionKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w: %w", sentinel.ErrUnavailable, err)
	}

	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &rec, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
