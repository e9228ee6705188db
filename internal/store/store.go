// Package store is the durable, fail-soft persistence layer. Every value is
// written inside an Envelope; reads that cannot fetch or parse a value
// report it as absent instead of failing.
package store

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/rfpmonitor/internal/common"
	"github.com/dmitrijs2005/rfpmonitor/internal/logging"
	"github.com/dmitrijs2005/rfpmonitor/internal/store/kv"
)

type Store struct {
	repo    kv.Repository
	version string
	log     logging.Logger
	now     func() time.Time
}

type Option func(*Store)

// WithClock overrides the envelope timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(repo kv.Repository, schemaVersion string, log logging.Logger, opts ...Option) *Store {
	s := &Store{
		repo:    repo,
		version: schemaVersion,
		log:     log.With("component", "store"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) SchemaVersion() string {
	return s.version
}

// Write persists value under key. A nil error means the value is durable;
// failures wrap common.ErrStoreUnavailable and leave the caller free to
// carry on in memory.
func (s *Store) Write(ctx context.Context, key Key, value any) error {
	raw, err := Encode(value, s.now(), s.version)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := s.repo.Set(ctx, string(key), raw); err != nil {
		s.log.Warn(ctx, "write failed", "key", key, logging.Err(err))
		return fmt.Errorf("write %s: %w: %w", key, common.ErrStoreUnavailable, err)
	}
	return nil
}

// WriteMany persists several keys in one batch.
func (s *Store) WriteMany(ctx context.Context, values map[Key]any) error {
	ts := s.now()
	batch := make(map[string][]byte, len(values))
	for key, value := range values {
		raw, err := Encode(value, ts, s.version)
		if err != nil {
			return fmt.Errorf("write %s: %w", key, err)
		}
		batch[string(key)] = raw
	}
	if err := s.repo.SetMany(ctx, batch); err != nil {
		s.log.Warn(ctx, "batch write failed", "keys", len(batch), logging.Err(err))
		return fmt.Errorf("write batch: %w: %w", common.ErrStoreUnavailable, err)
	}
	return nil
}

// Read decodes the value under key into dst and reports whether it was
// found. Fetch and parse failures are logged and reported as absent.
func (s *Store) Read(ctx context.Context, key Key, dst any) bool {
	raw, err := s.repo.Get(ctx, string(key))
	if err != nil {
		s.log.Warn(ctx, "read failed", "key", key, logging.Err(err))
		return false
	}
	if raw == nil {
		return false
	}
	if _, err := Decode(raw, dst); err != nil {
		s.log.Warn(ctx, "discarding unreadable value", "key", key, logging.Err(err))
		return false
	}
	return true
}

func (s *Store) Delete(ctx context.Context, key Key) error {
	if err := s.repo.Delete(ctx, string(key)); err != nil {
		s.log.Warn(ctx, "delete failed", "key", key, logging.Err(err))
		return fmt.Errorf("delete %s: %w: %w", key, common.ErrStoreUnavailable, err)
	}
	return nil
}

// Prune removes every stored key not listed in keep and returns how many
// keys were removed.
func (s *Store) Prune(ctx context.Context, keep []Key) (int, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("prune: %w: %w", common.ErrStoreUnavailable, err)
	}
	removed := 0
	for key := range all {
		if slices.Contains(keep, Key(key)) {
			continue
		}
		if err := s.repo.Delete(ctx, key); err != nil {
			return removed, fmt.Errorf("prune %s: %w: %w", key, common.ErrStoreUnavailable, err)
		}
		removed++
	}
	return removed, nil
}
