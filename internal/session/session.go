// Package session implements the sign-in and onboarding state machine:
//
//	Anonymous -> Authenticating -> Onboarding(1..3) | Active -> Anonymous
//
// At most one session exists per Manager. Lock order is session, then
// application state, then audit trail.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/dmitrijs2005/rfpmonitor/internal/audit"
	"github.com/dmitrijs2005/rfpmonitor/internal/common"
	"github.com/dmitrijs2005/rfpmonitor/internal/logging"
	"github.com/dmitrijs2005/rfpmonitor/internal/models"
	"github.com/dmitrijs2005/rfpmonitor/internal/notify"
	"github.com/dmitrijs2005/rfpmonitor/internal/state"
	"github.com/dmitrijs2005/rfpmonitor/internal/store"
)

type Phase string

const (
	PhaseAnonymous      Phase = "anonymous"
	PhaseAuthenticating Phase = "authenticating"
	PhaseOnboarding     Phase = "onboarding"
	PhaseActive         Phase = "active"
)

// OnboardingSteps is the number of onboarding screens.
const OnboardingSteps = 3

const (
	DefaultAvatar     = "👤"
	DefaultDepartment = "Demo Department"
	DefaultTimezone   = "America/Toronto"
)

// Persister is the part of the persistence store the session writes to.
type Persister interface {
	Write(ctx context.Context, key store.Key, value any) error
	Read(ctx context.Context, key store.Key, dst any) bool
	Delete(ctx context.Context, key store.Key) error
}

type Manager struct {
	mu sync.RWMutex

	phase  Phase
	userID int64
	step   int

	state  *state.State
	store  Persister
	trail  *audit.Trail
	notify notify.Notifier
	log    logging.Logger
	now    func() time.Time
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithNotifier(n notify.Notifier) Option {
	return func(m *Manager) { m.notify = n }
}

func NewManager(st *state.State, p Persister, trail *audit.Trail, log logging.Logger, opts ...Option) *Manager {
	m := &Manager{
		phase:  PhaseAnonymous,
		state:  st,
		store:  p,
		trail:  trail,
		notify: notify.Discard,
		log:    log.With("component", "session"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Phase() Phase {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.phase
}

// Step is the current onboarding step, or 0 outside onboarding.
func (m *Manager) Step() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.step
}

// Current returns the signed-in user as currently stored in the user
// collection.
func (m *Manager) Current() (models.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentLocked()
}

func (m *Manager) currentLocked() (models.User, bool) {
	if m.phase != PhaseActive && m.phase != PhaseOnboarding {
		return models.User{}, false
	}
	var (
		u  models.User
		ok bool
	)
	m.state.View(func(d *state.Data) {
		var p *models.User
		if p, ok = d.UserByID(m.userID); ok {
			u = p.Clone()
		}
	})
	return u, ok
}

// Actor is the id to attribute audit entries to.
func (m *Manager) Actor() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.phase == PhaseAnonymous || m.phase == PhaseAuthenticating {
		return models.SystemActor
	}
	return m.userID
}

// Restore re-binds a session persisted by an earlier run. It reports
// whether a session was resumed.
func (m *Manager) Restore(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	var saved models.User
	if !m.store.Read(ctx, store.KeyCurrentUser, &saved) {
		return false
	}

	var (
		u  models.User
		ok bool
	)
	m.state.View(func(d *state.Data) {
		var p *models.User
		if p, ok = d.UserByID(saved.ID); ok {
			u = *p
		}
	})
	if !ok {
		m.log.Warn(ctx, "persisted session refers to unknown user; dropping it", "user_id", saved.ID)
		_ = m.store.Delete(ctx, store.KeyCurrentUser)
		return false
	}

	m.bind(u)
	m.log.Info(ctx, "session restored", "user_id", u.ID, "phase", m.phase)
	return true
}

func (m *Manager) bind(u models.User) {
	m.userID = u.ID
	if u.OnboardingCompleted {
		m.phase, m.step = PhaseActive, 0
	} else {
		m.phase, m.step = PhaseOnboarding, 1
	}
}

func (m *Manager) clear() {
	m.phase, m.userID, m.step = PhaseAnonymous, 0, 0
}

// record appends to the trail and persists it; a failed save only warns.
func (m *Manager) record(ctx context.Context, action, details string, actor int64) {
	m.trail.Record(action, details, actor)
	if err := m.trail.Save(ctx, m.store); err != nil {
		m.log.Warn(ctx, "audit trail not persisted", logging.Err(err))
	}
}

// persist writes key and warns on failure; the in-memory change stands.
func (m *Manager) persist(ctx context.Context, key store.Key, value any) {
	if err := m.store.Write(ctx, key, value); err != nil {
		m.log.Warn(ctx, "write-through failed", "key", key, logging.Err(err))
		m.notify.Notify(ctx, notify.Warning, "Changes are kept in memory but could not be saved.")
	}
}

// DisplayNameFromEmail turns "jane.doe_smith@x.io" into "Jane Doe Smith".
func DisplayNameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	local = strings.NewReplacer(".", " ", "_", " ").Replace(local)

	var b strings.Builder
	prevWord := false
	for _, r := range local {
		isWord := unicode.IsLetter(r) || unicode.IsDigit(r)
		if isWord && !prevWord {
			r = unicode.ToUpper(r)
		}
		b.WriteRune(r)
		prevWord = isWord
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func invalidState(op string, phase Phase) error {
	return fmt.Errorf("%s: %w: session is %s", op, common.ErrInvalidState, phase)
}
