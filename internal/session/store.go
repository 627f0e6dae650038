package session

import (
	"context"
	"time"
)

// Store persists session records. Find returns sentinel.ErrNotFound for
// unknown or expired keys.
type Store interface {
	Save(ctx context.Context, rec *Record, ttl time.Duration) error
	Find(ctx context.Context, key string) (*Record, error)
	Delete(ctx context.Context, key string) error
}
