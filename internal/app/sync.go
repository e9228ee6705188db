package app

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/rfpmonitor/internal/audit"
	"github.com/dmitrijs2005/rfpmonitor/internal/models"
	"github.com/dmitrijs2005/rfpmonitor/internal/state"
	"github.com/dmitrijs2005/rfpmonitor/internal/store"
)

// Flush writes every collection and the audit trail in one batch and
// refreshes lastSyncTime. It satisfies syncer.Flusher and is idempotent.
func (s *Service) Flush(ctx context.Context) error {
	if s.syncLatency > 0 {
		t := time.NewTimer(s.syncLatency)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}

	now := s.now()
	snap := s.state.Snapshot()
	entries := s.trail.Entries()
	if entries == nil {
		entries = []models.AuditEntry{}
	}
	batch := map[store.Key]any{
		store.KeyEntities:        snap.Entities,
		store.KeyRFPs:            snap.RFPs,
		store.KeySearchAreas:     snap.SearchAreas,
		store.KeyUsers:           snap.Users,
		store.KeyAuditLog:        entries,
		store.KeyUserPreferences: snap.Preferences,
		store.KeyLastSyncTime:    now,
		store.KeyUserIDSeq:       snap.UserIDSeq,
	}
	if err := s.store.WriteMany(ctx, batch); err != nil {
		for key := range batch {
			s.metrics.WriteFailed(string(key))
		}
		// kept in memory only; the next successful flush stores it
		s.trail.Record(audit.ActionSyncFailed, fmt.Sprintf("Sync failed: %v", err), s.session.Actor())
		s.metrics.AuditSize(s.trail.Len())
		return fmt.Errorf("flush: %w", err)
	}

	_ = s.state.Mutate(func(d *state.Data) error {
		d.LastSyncTime = &now
		return nil
	})
	s.log.Debug(ctx, "state flushed", "keys", len(batch))
	return nil
}
