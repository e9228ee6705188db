// Package syncer periodically flushes the full application state to the
// (simulated) remote while the client is online.
//
// Online transitions trigger an immediate sync and start the ticker;
// offline transitions stop it. At most one flush runs at a time and
// concurrent callers share its result. Failures are reported and retried on
// the next tick; there is no backoff and no terminal failure state.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/rfpmonitor/internal/common"
	"github.com/dmitrijs2005/rfpmonitor/internal/logging"
	"github.com/dmitrijs2005/rfpmonitor/internal/metrics"
	"github.com/dmitrijs2005/rfpmonitor/internal/notify"
	"golang.org/x/sync/singleflight"
)

const FailureMessage = "Sync failed. Will retry later."

// Flusher writes every collection and refreshes the last sync time. It
// must be idempotent.
type Flusher interface {
	Flush(ctx context.Context) error
}

type FlusherFunc func(ctx context.Context) error

func (f FlusherFunc) Flush(ctx context.Context) error { return f(ctx) }

type Coordinator struct {
	flusher  Flusher
	interval time.Duration
	clock    Clock
	log      logging.Logger
	notify   notify.Notifier
	metrics  *metrics.Metrics

	group singleflight.Group

	mu       sync.Mutex
	base     context.Context
	online   bool
	cancel   context.CancelFunc
	done     chan struct{}
	lastErr  error
	lastSync time.Time
}

type Option func(*Coordinator)

func WithClock(c Clock) Option {
	return func(s *Coordinator) { s.clock = c }
}

func WithNotifier(n notify.Notifier) Option {
	return func(s *Coordinator) { s.notify = n }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Coordinator) { s.metrics = m }
}

// New creates a stopped, offline coordinator.
func New(f Flusher, interval time.Duration, log logging.Logger, opts ...Option) *Coordinator {
	c := &Coordinator{
		flusher:  f,
		interval: interval,
		clock:    realClock{},
		log:      log.With("component", "syncer"),
		notify:   notify.Discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start records ctx as the parent of the periodic loop and, if already
// online, starts it. Cancelling ctx stops the loop.
func (c *Coordinator) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.base = ctx
	if c.online {
		c.startLocked()
	}
}

// Stop cancels the ticker and waits for the loop to exit. A flush already
// in progress finishes normally. The loop stays down until Start is called
// again.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	done := c.stopLocked()
	c.base = nil
	c.mu.Unlock()

	if done != nil {
		<-done
	}
}

// SetOnline records a connectivity change. Going online runs one sync
// immediately and (re)starts the periodic loop; every online event syncs,
// even when already online. Going offline stops the loop.
func (c *Coordinator) SetOnline(ctx context.Context, online bool) error {
	c.mu.Lock()
	changed := c.online != online
	c.online = online
	c.metrics.Online(online)

	var done <-chan struct{}
	if online {
		if c.base != nil && c.cancel == nil {
			c.startLocked()
		}
	} else {
		done = c.stopLocked()
	}
	c.mu.Unlock()

	if done != nil {
		<-done
	}
	if changed {
		c.log.Info(ctx, "connectivity changed", "online", online)
	}
	if !online {
		return nil
	}
	return c.SyncNow(ctx)
}

func (c *Coordinator) Online() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.online
}

// Running reports whether the periodic loop is active.
func (c *Coordinator) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}

// LastError is the result of the most recent completed sync.
func (c *Coordinator) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// LastSync is when the most recent successful sync finished.
func (c *Coordinator) LastSync() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSync
}

// SyncNow flushes immediately. Offline it returns common.ErrOffline without
// touching storage. Concurrent calls share one flush. The flush is detached
// from ctx cancellation so a started sync always completes.
func (c *Coordinator) SyncNow(ctx context.Context) error {
	if !c.Online() {
		c.metrics.Sync(metrics.SyncOffline, 0)
		return fmt.Errorf("sync: %w", common.ErrOffline)
	}

	_, err, shared := c.group.Do("sync", func() (any, error) {
		return nil, c.flush(context.WithoutCancel(ctx))
	})
	if shared {
		c.log.Debug(ctx, "joined in-flight sync")
	}
	return err
}

func (c *Coordinator) flush(ctx context.Context) error {
	started := c.clock.Now()
	err := c.flusher.Flush(ctx)
	took := c.clock.Now().Sub(started)

	c.mu.Lock()
	c.lastErr = err
	if err == nil {
		c.lastSync = c.clock.Now()
	}
	c.mu.Unlock()

	if err != nil {
		c.metrics.Sync(metrics.SyncFailure, took)
		c.log.Warn(ctx, "sync failed", logging.Err(err))
		c.notify.Notify(ctx, notify.Warning, FailureMessage)
		return fmt.Errorf("sync: %w", err)
	}
	c.metrics.Sync(metrics.SyncSuccess, took)
	c.log.Debug(ctx, "sync finished", "took", took)
	return nil
}

// startLocked launches the loop. c.mu must be held.
func (c *Coordinator) startLocked() {
	ctx, cancel := context.WithCancel(c.base)
	done := make(chan struct{})
	c.cancel, c.done = cancel, done

	ticker := c.clock.NewTicker(c.interval)
	go c.loop(ctx, ticker, done)
}

// stopLocked cancels the loop and returns the channel closed when it exits,
// or nil if nothing was running. c.mu must be held; wait after unlocking.
func (c *Coordinator) stopLocked() <-chan struct{} {
	if c.cancel == nil {
		return nil
	}
	c.cancel()
	done := c.done
	c.cancel, c.done = nil, nil
	return done
}

func (c *Coordinator) loop(ctx context.Context, ticker Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			if err := c.SyncNow(ctx); err != nil && !errors.Is(err, common.ErrOffline) {
				c.log.Debug(ctx, "periodic sync will retry on next tick")
			}
		}
	}
}
