// Package notify carries user-visible, non-blocking messages from the engine
// to whatever front end is attached.
package notify

import (
	"context"
	"sync"
)

type Level string

const (
	Info    Level = "info"
	Success Level = "success"
	Warning Level = "warning"
	Error   Level = "error"
)

type Notification struct {
	Level   Level
	Message string
}

// Notifier must not block the caller.
type Notifier interface {
	Notify(ctx context.Context, level Level, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, level Level, message string)

func (f NotifierFunc) Notify(ctx context.Context, level Level, message string) {
	f(ctx, level, message)
}

// Discard drops every notification.
var Discard Notifier = NotifierFunc(func(context.Context, Level, string) {})

// Recorder keeps notifications in memory. Tests and the CLI status line
// read them back.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(ctx context.Context, level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Level: level, Message: message})
}

// All returns everything recorded so far.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// Drain returns and forgets everything recorded so far.
func (r *Recorder) Drain() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.items
	r.items = nil
	return out
}
