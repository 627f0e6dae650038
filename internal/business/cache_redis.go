package business

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"bizfilings/internal/filing"
	"bizfilings/internal/platform/metrics"
	"bizfilings/pkg/platform/circuit"
	"bizfilings/pkg/platform/sentinel"
	"bizfilings/pkg/requestcontext"
)

const (
	snapshotKeyPrefix = "bizfilings:snapshot:"

	// The cache is bypassed after five consecutive Redis errors and trusted
	// again after three successful writes.
	cacheFailureThreshold  = 5
	cacheRecoveryThreshold = 3

	defaultFetchTimeout = 10 * time.Second
)

// BatchSource is implemented by sources that can load many snapshots in one
// round trip. Missing identifiers are absent from the result.
type BatchSource interface {
	Snapshots(ctx context.Context, identifiers []string) (map[string]*filing.EntitySnapshot, error)
}

// CachedSource is a read-through Redis cache in front of another source.
// Concurrent misses for one business share a single upstream fetch, which
// runs detached from any one caller so a cancelled request does not fail the
// others waiting on it. Redis failures degrade to the upstream source
// instead of failing the request; after repeated failures the breaker opens
// and reads skip Redis entirely while writes keep trying it.
type CachedSource struct {
	next         SnapshotSource
	client       *redis.Client
	ttl          time.Duration
	fetchTimeout time.Duration
	group        singleflight.Group
	breaker      *circuit.Breaker
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

// CacheOption configures a CachedSource.
type CacheOption func(*CachedSource)

func WithCacheMetrics(m *metrics.Metrics) CacheOption {
	return func(c *CachedSource) {
		c.metrics = m
	}
}

func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *CachedSource) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithCacheBreaker(b *circuit.Breaker) CacheOption {
	return func(c *CachedSource) {
		if b != nil {
			c.breaker = b
		}
	}
}

// WithFetchTimeout bounds a shared upstream fetch.
func WithFetchTimeout(d time.Duration) CacheOption {
	return func(c *CachedSource) {
		if d > 0 {
			c.fetchTimeout = d
		}
	}
}

func NewCachedSource(next SnapshotSource, client *redis.Client, ttl time.Duration, opts ...CacheOption) *CachedSource {
	c := &CachedSource{
		next:         next,
		client:       client,
		ttl:          ttl,
		fetchTimeout: defaultFetchTimeout,
		breaker: circuit.New("snapshot-cache",
			circuit.WithFailureThreshold(cacheFailureThreshold),
			circuit.WithSuccessThreshold(cacheRecoveryThreshold),
		),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *CachedSource) Snapshot(ctx context.Context, identifier string) (*filing.EntitySnapshot, error) {
	if snap, ok := c.cached(ctx, identifier); ok {
		c.metrics.IncrementSnapshotLookup("hit")
		return snap, nil
	}

	flight := c.group.DoChan(identifier, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()
		snap, err := c.next.Snapshot(fetchCtx, identifier)
		if err != nil {
			return nil, err
		}
		c.store(fetchCtx, snap)
		return snap, nil
	})

	var res singleflight.Result
	select {
	case res = <-flight:
	case <-ctx.Done():
		c.metrics.IncrementSnapshotLookup("error")
		return nil, ctx.Err()
	}
	if res.Err != nil {
		c.metrics.IncrementSnapshotLookup("error")
		return nil, res.Err
	}
	c.metrics.IncrementSnapshotLookup("miss")

	// callers sharing a flight must not share the pointer
	snap := *res.Val.(*filing.EntitySnapshot)
	return &snap, nil
}

// Warm loads the given businesses from upstream and writes them to Redis,
// returning how many were cached. Unknown identifiers are skipped.
func (c *CachedSource) Warm(ctx context.Context, identifiers []string) (int, error) {
	snaps, err := c.loadAll(ctx, identifiers)
	if err != nil {
		return 0, err
	}
	warmed := 0
	for _, id := range identifiers {
		snap, ok := snaps[id]
		if !ok {
			continue
		}
		if c.store(ctx, snap) {
			warmed++
		}
	}
	return warmed, nil
}

func (c *CachedSource) loadAll(ctx context.Context, identifiers []string) (map[string]*filing.EntitySnapshot, error) {
	if batch, ok := c.next.(BatchSource); ok {
		snaps, err := batch.Snapshots(ctx, identifiers)
		if err != nil {
			return nil, fmt.Errorf("warm snapshot cache: %w", err)
		}
		return snaps, nil
	}
	out := make(map[string]*filing.EntitySnapshot, len(identifiers))
	for _, id := range identifiers {
		snap, err := c.next.Snapshot(ctx, id)
		if errors.Is(err, sentinel.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("warm snapshot cache: %w", err)
		}
		out[id] = snap
	}
	return out, nil
}

// Invalidate drops the cached snapshot for a business.
func (c *CachedSource) Invalidate(ctx context.Context, identifier string) error {
	if err := c.client.Del(ctx, snapshotKeyPrefix+identifier).Err(); err != nil {
		return fmt.Errorf("invalidate snapshot %s: %w", identifier, err)
	}
	return nil
}

func (c *CachedSource) cached(ctx context.Context, identifier string) (*filing.EntitySnapshot, bool) {
	if c.breaker.IsOpen() {
		return nil, false
	}
	payload, err := c.client.Get(ctx, snapshotKeyPrefix+identifier).Bytes()
	if errors.Is(err, redis.Nil) {
		c.recordSuccess(ctx)
		return nil, false
	}
	if err != nil {
		c.logger.WarnContext(ctx, "snapshot cache read failed",
			"request_id", requestcontext.RequestID(ctx),
			"business", identifier,
			"error", err,
		)
		c.recordFailure(ctx)
		return nil, false
	}
	c.recordSuccess(ctx)

	var snap filing.EntitySnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		c.logger.WarnContext(ctx, "discarding corrupt cached snapshot",
			"business", identifier,
			"error", err,
		)
		return nil, false
	}
	return &snap, true
}

func (c *CachedSource) store(ctx context.Context, snap *filing.EntitySnapshot) bool {
	payload, err := json.Marshal(snap)
	if err != nil {
		return false
	}
	if err := c.client.Set(ctx, snapshotKeyPrefix+snap.Identifier, payload, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "snapshot cache write failed",
			"request_id", requestcontext.RequestID(ctx),
			"business", snap.Identifier,
			"error", err,
		)
		c.recordFailure(ctx)
		return false
	}
	c.recordSuccess(ctx)
	return true
}

func (c *CachedSource) recordFailure(ctx context.Context) {
	if _, change := c.breaker.RecordFailure(); change.Opened {
		c.logger.ErrorContext(ctx, "snapshot cache disabled after repeated failures",
			"breaker", c.breaker.Name(),
		)
	}
}

func (c *CachedSource) recordSuccess(ctx context.Context) {
	if _, change := c.breaker.RecordSuccess(); change.Closed {
		c.logger.InfoContext(ctx, "snapshot cache re-enabled",
			"breaker", c.breaker.Name(),
		)
	}
}
