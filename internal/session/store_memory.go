package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bizfilings/pkg/platform/sentinel"
	"bizfilings/pkg/requestcontext"
)

// InMemoryStore is a Store for single-instance deployments and tests.
// Expiry is checked lazily against the request time.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]Record)}
}

func (s *InMemoryStore) Save(ctx context.Context, rec *Record, ttl time.Duration) error {
	if rec == nil || rec.Key == "" {
		return fmt.Errorf("save session: missing key")
	}
	stored := *rec
	stored.ExpiresAt = requestcontext.Now(ctx).Add(ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.Key] = stored
	return nil
}

func (s *InMemoryStore) Find(ctx context.Context, key string) (*Record, error) {
	s.mu.RLock()
	rec, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if !requestcontext.Now(ctx).Before(rec.ExpiresAt) {
		_ = s.Delete(ctx, key)
		return nil, sentinel.ErrNotFound
	}
	return &rec, nil
}

func (s *InMemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}
