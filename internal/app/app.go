// Package app is the engine's front door. Service gates every domain
// mutation through the permission resolver, applies it to the in-memory
// state, writes the touched collection through to the persistence store,
// records one audit entry and notifies the user.
//
// A mutator whose target does not exist is a silent no-op. A refused
// mutator changes nothing and records nothing.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/rfpmonitor/internal/audit"
	"github.com/dmitrijs2005/rfpmonitor/internal/backup"
	"github.com/dmitrijs2005/rfpmonitor/internal/common"
	"github.com/dmitrijs2005/rfpmonitor/internal/logging"
	"github.com/dmitrijs2005/rfpmonitor/internal/metrics"
	"github.com/dmitrijs2005/rfpmonitor/internal/models"
	"github.com/dmitrijs2005/rfpmonitor/internal/notify"
	"github.com/dmitrijs2005/rfpmonitor/internal/permission"
	"github.com/dmitrijs2005/rfpmonitor/internal/session"
	"github.com/dmitrijs2005/rfpmonitor/internal/state"
	"github.com/dmitrijs2005/rfpmonitor/internal/store"
)

// DeniedMessage is shown whenever the current role lacks a capability.
const DeniedMessage = "Insufficient permissions for this action"

const persistFailedMessage = "Changes are kept in memory but could not be saved."

// Persister is the slice of the persistence store the service uses.
type Persister interface {
	Write(ctx context.Context, key store.Key, value any) error
	WriteMany(ctx context.Context, values map[store.Key]any) error
	Read(ctx context.Context, key store.Key, dst any) bool
	Prune(ctx context.Context, keep []store.Key) (int, error)
	SchemaVersion() string
}

// Session tells the service who is acting.
type Session interface {
	Current() (models.User, bool)
	Phase() session.Phase
	// Actor is the id audit entries default to when no user performed the
	// action directly.
	Actor() int64
}

// Seeder fills collections that are missing from the store and supplies
// the search area template catalogue.
type Seeder interface {
	Templates() []models.SearchAreaTemplate
	Entities() []models.Entity
	SearchAreas() []models.SearchArea
	Users() []models.User
	RFPs(entities []models.Entity, areas []models.SearchArea, users []models.User) []models.RFP
}

type Service struct {
	state   *state.State
	store   Persister
	session Session
	trail   *audit.Trail
	perms   *permission.Resolver
	seeder  Seeder
	sink    backup.Sink

	notify  notify.Notifier
	metrics *metrics.Metrics
	log     logging.Logger
	now     func() time.Time

	syncLatency      time.Duration
	exportAuditLimit int
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) { s.notify = n }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithResolver(r *permission.Resolver) Option {
	return func(s *Service) { s.perms = r }
}

// WithSink sets where exports and backups go. Without one they fail.
func WithSink(sink backup.Sink) Option {
	return func(s *Service) { s.sink = sink }
}

// WithSyncLatency simulates the remote round trip inside Flush.
func WithSyncLatency(d time.Duration) Option {
	return func(s *Service) { s.syncLatency = d }
}

// WithExportAuditLimit caps how many audit entries an export carries.
func WithExportAuditLimit(n int) Option {
	return func(s *Service) { s.exportAuditLimit = n }
}

func New(st *state.State, p Persister, sess Session, trail *audit.Trail, seeder Seeder, log logging.Logger, opts ...Option) *Service {
	s := &Service{
		state:            st,
		store:            p,
		session:          sess,
		trail:            trail,
		perms:            permission.Default(),
		seeder:           seeder,
		notify:           notify.Discard,
		log:              log.With("component", "app"),
		now:              time.Now,
		exportAuditLimit: 1000,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bootstrap loads every collection from the store. Collections that are
// absent or empty are seeded and saved; stored ones are never replaced.
// Running it again is harmless.
func (s *Service) Bootstrap(ctx context.Context) error {
	var (
		entities []models.Entity
		areas    []models.SearchArea
		users    []models.User
		rfps     []models.RFP
		entries  []models.AuditEntry
		prefs    map[string]string
		lastSync time.Time
		idSeq    int64
	)

	seeded := map[store.Key]any{}

	if !s.store.Read(ctx, store.KeyEntities, &entities) || len(entities) == 0 {
		entities = s.seeder.Entities()
		seeded[store.KeyEntities] = entities
	}
	if !s.store.Read(ctx, store.KeySearchAreas, &areas) || len(areas) == 0 {
		areas = s.seeder.SearchAreas()
		seeded[store.KeySearchAreas] = areas
	}
	if !s.store.Read(ctx, store.KeyUsers, &users) || len(users) == 0 {
		users = s.seeder.Users()
		seeded[store.KeyUsers] = users
	}
	if !s.store.Read(ctx, store.KeyRFPs, &rfps) || len(rfps) == 0 {
		rfps = s.seeder.RFPs(entities, areas, users)
		seeded[store.KeyRFPs] = rfps
	}
	if s.store.Read(ctx, store.KeyAuditLog, &entries) {
		s.trail.Load(entries)
	}
	s.store.Read(ctx, store.KeyUserPreferences, &prefs)
	hasSync := s.store.Read(ctx, store.KeyLastSyncTime, &lastSync)
	s.store.Read(ctx, store.KeyUserIDSeq, &idSeq)

	err := s.state.Mutate(func(d *state.Data) error {
		d.Entities, d.SearchAreas, d.Users, d.RFPs = entities, areas, users, rfps
		d.UserIDSeq = idSeq
		if prefs != nil {
			d.Preferences = prefs
		}
		if hasSync {
			d.LastSyncTime = &lastSync
		}
		for key, value := range seeded {
			s.persist(ctx, key, value)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	s.metrics.AuditSize(s.trail.Len())
	s.log.Info(ctx, "application initialised",
		"entities", len(entities),
		"search_areas", len(areas),
		"users", len(users),
		"rfps", len(rfps),
		"seeded", len(seeded),
	)
	return nil
}

// actor returns the signed-in user allowed to perform action. The denial
// is surfaced to the user before ErrForbidden is returned.
func (s *Service) actor(ctx context.Context, action permission.Action) (models.User, error) {
	u, err := s.signedIn(string(action))
	if err != nil {
		return models.User{}, err
	}
	if !s.perms.Authorize(u.Role, action) {
		s.metrics.Denied(string(action))
		s.notify.Notify(ctx, notify.Error, DeniedMessage)
		s.log.Info(ctx, "permission denied", "user_id", u.ID, "role", u.Role, "action", action)
		return models.User{}, fmt.Errorf("%s: %w", action, common.ErrForbidden)
	}
	return u, nil
}

// signedIn returns the session user once onboarding is complete.
func (s *Service) signedIn(op string) (models.User, error) {
	u, ok := s.session.Current()
	if !ok {
		return models.User{}, fmt.Errorf("%s: %w", op, common.ErrUnauthorized)
	}
	if phase := s.session.Phase(); phase != session.PhaseActive {
		return models.User{}, fmt.Errorf("%s: %w: session is %s", op, common.ErrInvalidState, phase)
	}
	return u, nil
}

// persist writes one collection through. Failure is logged and reported
// but the in-memory change stands.
func (s *Service) persist(ctx context.Context, key store.Key, value any) {
	if err := s.store.Write(ctx, key, value); err != nil {
		s.metrics.WriteFailed(string(key))
		s.log.Warn(ctx, "write-through failed", "key", key, logging.Err(err))
		s.notify.Notify(ctx, notify.Warning, persistFailedMessage)
	}
}

// record appends the audit entry for a completed mutation and persists the trail.
func (s *Service) record(ctx context.Context, action, details string, actor int64) {
	s.trail.Record(action, details, actor)
	s.metrics.Mutation(action)
	s.metrics.AuditSize(s.trail.Len())
	if err := s.trail.Save(ctx, s.store); err != nil {
		s.metrics.WriteFailed(string(store.KeyAuditLog))
		s.log.Warn(ctx, "audit trail not persisted", logging.Err(err))
	}
}
