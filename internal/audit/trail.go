// Package audit keeps the bounded, newest-first trail of mutations.
package audit

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/rfpmonitor/internal/models"
	"github.com/dmitrijs2005/rfpmonitor/internal/store"
	"github.com/google/uuid"
)

const DefaultCapacity = 5000

// Labels of the recorded actions.
const (
	ActionUserLogin           = "User Login"
	ActionUserLogout          = "User Logout"
	ActionUserRegistration    = "User Registration"
	ActionOnboardingCompleted = "Onboarding Completed"

	ActionSearchAreaToggled     = "Search Area Toggled"
	ActionSearchAreaActivated   = "Search Area Activated"
	ActionSearchAreaDeactivated = "Search Area Deactivated"
	ActionSearchAreaCreated     = "Search Area Created"
	ActionSearchAreaDeleted     = "Search Area Deleted"

	ActionRFPStatusUpdated = "RFP Status Updated"
	ActionRFPBulkUpdate    = "RFP Bulk Update"

	ActionUserInvited       = "User Invited"
	ActionUserStatusChanged = "User Status Changed"
	ActionUserDeleted       = "User Deleted"

	ActionDataExport   = "Data Export"
	ActionSystemBackup = "System Backup"
	ActionCacheCleared = "Cache Cleared"
	ActionSyncFailed   = "Sync Failed"
)

// Writer is the part of the persistence store the trail needs.
type Writer interface {
	Write(ctx context.Context, key store.Key, value any) error
}

type Trail struct {
	mu       sync.RWMutex
	entries  []models.AuditEntry
	capacity int
	now      func() time.Time
	newID    func() string
}

type Option func(*Trail)

func WithClock(now func() time.Time) Option {
	return func(t *Trail) { t.now = now }
}

func WithIDs(newID func() string) Option {
	return func(t *Trail) { t.newID = newID }
}

// New creates an empty trail; capacity <= 0 means DefaultCapacity.
func New(capacity int, opts ...Option) *Trail {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	t := &Trail{
		capacity: capacity,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Load replaces the trail with entries (newest first), dropping anything
// past capacity.
func (t *Trail) Load(entries []models.AuditEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(entries) > t.capacity {
		entries = entries[:t.capacity]
	}
	t.entries = slices.Clone(entries)
}

// Record prepends a new entry and silently drops the oldest ones beyond capacity.
func (t *Trail) Record(action, details string, actor int64) models.AuditEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	e := models.AuditEntry{
		ID:        t.newID(),
		Timestamp: t.now(),
		Action:    action,
		Details:   details,
		UserID:    actor,
	}
	t.entries = slices.Insert(t.entries, 0, e)
	if len(t.entries) > t.capacity {
		clear(t.entries[t.capacity:])
		t.entries = t.entries[:t.capacity]
	}
	return e
}

// Entries returns a copy of the whole trail, newest first.
func (t *Trail) Entries() []models.AuditEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.entries)
}

// Recent returns at most n newest entries. n <= 0 returns all.
func (t *Trail) Recent(n int) []models.AuditEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if n <= 0 || n > len(t.entries) {
		n = len(t.entries)
	}
	return slices.Clone(t.entries[:n])
}

func (t *Trail) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

func (t *Trail) Capacity() int {
	return t.capacity
}

// Save persists the trail under store.KeyAuditLog.
func (t *Trail) Save(ctx context.Context, w Writer) error {
	entries := t.Entries()
	if entries == nil {
		entries = []models.AuditEntry{}
	}
	return w.Write(ctx, store.KeyAuditLog, entries)
}
