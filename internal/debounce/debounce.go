// Package debounce delays an action until input has been quiet for a fixed
// interval. Each Trigger replaces the pending action.
package debounce

import (
	"sync"
	"time"
)

// Timer is the part of *time.Timer the debouncer needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d, like time.AfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

type Debouncer struct {
	delay     time.Duration
	afterFunc AfterFunc

	mu      sync.Mutex
	pending Timer
	gen     uint64
}

type Option func(*Debouncer)

// WithAfterFunc replaces time.AfterFunc. Tests fire scheduled callbacks by hand.
func WithAfterFunc(f AfterFunc) Option {
	return func(d *Debouncer) { d.afterFunc = f }
}

func New(delay time.Duration, opts ...Option) *Debouncer {
	d := &Debouncer{
		delay: delay,
		afterFunc: func(d time.Duration, f func()) Timer {
			return time.AfterFunc(d, f)
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Trigger schedules fn, cancelling whatever was pending. A non-positive
// delay runs fn synchronously.
func (d *Debouncer) Trigger(fn func()) {
	if d.delay <= 0 {
		d.Cancel()
		fn()
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.pending.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = d.afterFunc(d.delay, func() {
		d.mu.Lock()
		stale := gen != d.gen
		if !stale {
			d.pending = nil
		}
		d.mu.Unlock()
		if !stale {
			fn()
		}
	})
}

// Cancel drops the pending action, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
	d.gen++
}

// Pending reports whether an action is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}
