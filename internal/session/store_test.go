package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"bizfilings/internal/authz"
	"bizfilings/pkg/platform/sentinel"
	"bizfilings/pkg/requestcontext"
)

// StoreSuite runs the same contract against every Store implementation.
type StoreSuite struct {
	suite.Suite
	newStore func() Store
	advance  func(d time.Duration)
	now      time.Time
	store    Store
}

func (s *StoreSuite) SetupTest() {
	s.now = time.Date(2023, 2, 1, 9, 0, 0, 0, time.UTC)
	s.store = s.newStore()
}

func (s *StoreSuite) ctx() context.Context {
	return requestcontext.WithTime(context.Background(), s.now)
}

func (s *StoreSuite) record(key string) *Record {
	return &Record{
		Key:         key,
		Credential:  "a.b.c",
		AccountID:   "2617",
		AccountType: authz.AccountTypePremium,
		CreatedAt:   s.now,
	}
}

func (s *StoreSuite) TestSaveAndFind() {
	s.Require().NoError(s.store.Save(s.ctx(), s.record("k1"), time.Hour))

	got, err := s.store.Find(s.ctx(), "k1")
	s.Require().NoError(err)
	s.Equal("a.b.c", got.Credential)
	s.Equal(authz.AccountTypePremium, got.AccountType)
	s.True(got.ExpiresAt.Equal(s.now.Add(time.Hour)))
}

func (s *StoreSuite) TestFindUnknown() {
	_, err := s.store.Find(s.ctx(), "missing")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *StoreSuite) TestExpiry() {
	s.Require().NoError(s.store.Save(s.ctx(), s.record("k1"), time.Minute))

	s.advance(2 * time.Minute)
	s.now = s.now.Add(2 * time.Minute)

	_, err := s.store.Find(s.ctx(), "k1")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *StoreSuite) TestDelete() {
	s.Require().NoError(s.store.Save(s.ctx(), s.record("k1"), time.Hour))
	s.Require().NoError(s.store.Delete(s.ctx(), "k1"))
	s.Require().NoError(s.store.Delete(s.ctx(), "k1"), "deleting twice is fine")

	_, err := s.store.Find(s.ctx(), "k1")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *StoreSuite) TestRejectsMissingKey() {
	s.Error(s.store.Save(s.ctx(), &Record{}, time.Hour))
}

func TestInMemoryStore(t *testing.T) {
	suite.Run(t, &StoreSuite{
		newStore: func() Store { return NewInMemoryStore() },
		advance:  func(time.Duration) {},
	})
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	suite.Run(t, &StoreSuite{
		newStore: func() Store {
			mr.FlushAll()
			return NewRedisStore(client)
		},
		advance: mr.FastForward,
	})
}

func TestRedisStoreKeysAndTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := NewRedisStore(client)

	err := store.Save(context.Background(), &Record{Key: "abc", Credential: "a.b.c"}, 10*time.Minute)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if !mr.Exists(sessionKeyPrefix + "abc") {
		t.Fatalf("expected key %q", sessionKeyPrefix+"abc")
	}
	if ttl := mr.TTL(sessionKeyPrefix + "abc"); ttl != 10*time.Minute {
		t.Fatalf("expected ttl 10m, got %v", ttl)
	}
}
