// Package business supplies entity snapshots to the filing evaluator.
// Sources are read-only; the registry of record owns the data.
package business

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"bizfilings/internal/filing"
	"bizfilings/pkg/platform/sentinel"
)

// SnapshotSource returns the current state of a business. Unknown
// identifiers yield sentinel.ErrNotFound.
type SnapshotSource interface {
	Snapshot(ctx context.Context, identifier string) (*filing.EntitySnapshot, error)
}

var identifierPattern = regexp.MustCompile(`^[A-Z]{1,3}[0-9]{7}$`)

// NormalizeIdentifier upper-cases and validates a registry identifier such
// as BC0871227 or FM1000123.
func NormalizeIdentifier(raw string) (string, error) {
	id := strings.ToUpper(strings.TrimSpace(raw))
	if !identifierPattern.MatchString(id) {
		return "", fmt.Errorf("invalid business identifier %q", raw)
	}
	return id, nil
}

// InMemoryStore is a SnapshotSource backed by a map. The dev server seeds it
// with sample businesses; tests use it as the source of truth.
type InMemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]filing.EntitySnapshot
}

func NewInMemoryStore(snapshots ...filing.EntitySnapshot) *InMemoryStore {
	s := &InMemoryStore{snapshots: make(map[string]filing.EntitySnapshot, len(snapshots))}
	for _, snap := range snapshots {
		s.snapshots[snap.Identifier] = snap
	}
	return s
}

// Put adds or replaces a snapshot.
func (s *InMemoryStore) Put(snap filing.EntitySnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snap.Identifier] = snap
}

func (s *InMemoryStore) Snapshot(_ context.Context, identifier string) (*filing.EntitySnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[identifier]
	if !ok {
		return nil, fmt.Errorf("business %s: %w", identifier, sentinel.ErrNotFound)
	}
	return &snap, nil
}

// Snapshots returns the known businesses among identifiers.
func (s *InMemoryStore) Snapshots(_ context.Context, identifiers []string) (map[string]*filing.EntitySnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*filing.EntitySnapshot, len(identifiers))
	for _, id := range identifiers {
		if snap, ok := s.snapshots[id]; ok {
			out[id] = &snap
		}
	}
	return out, nil
}
