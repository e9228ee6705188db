package app

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/rfpmonitor/internal/audit"
	"github.com/dmitrijs2005/rfpmonitor/internal/common"
	"github.com/dmitrijs2005/rfpmonitor/internal/logging"
	"github.com/dmitrijs2005/rfpmonitor/internal/models"
	"github.com/dmitrijs2005/rfpmonitor/internal/notify"
	"github.com/dmitrijs2005/rfpmonitor/internal/permission"
	"github.com/dmitrijs2005/rfpmonitor/internal/store"
)

// Snapshot is the document written by Export and Backup.
type Snapshot struct {
	Entities    []models.Entity     `json:"entities"`
	RFPs        []models.RFP        `json:"rfps"`
	SearchAreas []models.SearchArea `json:"searchAreas"`
	Users       []models.User       `json:"users"`
	AuditLog    []models.AuditEntry `json:"auditLog"`
	ExportDate  time.Time           `json:"exportDate"`
	Version     string              `json:"version"`
}

// ExportFileName is rfp-platform-export-YYYY-MM-DD.json for the UTC day of t.
func ExportFileName(t time.Time) string {
	return fmt.Sprintf("rfp-platform-export-%s.json", t.UTC().Format(time.DateOnly))
}

// BackupFileName is rfp-platform-backup-<unix millis>.json.
func BackupFileName(t time.Time) string {
	return fmt.Sprintf("rfp-platform-backup-%d.json", t.UnixMilli())
}

// snapshot collects the exportable state. Users are redacted and the audit
// log is cut to the newest exportAuditLimit entries.
func (s *Service) snapshot(now time.Time) Snapshot {
	data := s.state.Snapshot()

	users := make([]models.User, len(data.Users))
	for i, u := range data.Users {
		users[i] = u.Redacted()
	}

	return Snapshot{
		Entities:    data.Entities,
		RFPs:        data.RFPs,
		SearchAreas: data.SearchAreas,
		Users:       users,
		AuditLog:    s.trail.Recent(s.exportAuditLimit),
		ExportDate:  now,
		Version:     s.store.SchemaVersion(),
	}
}

func (s *Service) deliver(ctx context.Context, name string, snap Snapshot) error {
	if s.sink == nil {
		return fmt.Errorf("deliver %s: %w: no export destination configured", name, common.ErrStoreUnavailable)
	}
	body, err := store.Encode(snap, snap.ExportDate, snap.Version)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := s.sink.Put(ctx, name, body); err != nil {
		return fmt.Errorf("deliver %s to %s: %w", name, s.sink.Name(), err)
	}
	return nil
}

// Export writes a full data export and returns its file name.
func (s *Service) Export(ctx context.Context) (string, error) {
	u, err := s.actor(ctx, permission.SystemManage)
	if err != nil {
		return "", err
	}

	now := s.now()
	name := ExportFileName(now)
	if err := s.deliver(ctx, name, s.snapshot(now)); err != nil {
		s.log.Error(ctx, "export failed", logging.Err(err))
		s.notify.Notify(ctx, notify.Error, "Data export failed")
		return "", err
	}

	s.record(ctx, audit.ActionDataExport, "System data exported", u.ID)
	s.notify.Notify(ctx, notify.Success, "Data exported successfully")
	return name, nil
}

// Backup writes a timestamped snapshot to the configured sinks and returns
// its file name.
func (s *Service) Backup(ctx context.Context) (string, error) {
	u, err := s.actor(ctx, permission.SystemManage)
	if err != nil {
		return "", err
	}
	s.notify.Notify(ctx, notify.Info, "Creating system backup...")

	now := s.now()
	name := BackupFileName(now)
	if err := s.deliver(ctx, name, s.snapshot(now)); err != nil {
		s.log.Error(ctx, "backup failed", logging.Err(err))
		s.notify.Notify(ctx, notify.Error, "System backup failed")
		return "", err
	}

	s.record(ctx, audit.ActionSystemBackup, "System backup created", u.ID)
	s.notify.Notify(ctx, notify.Success, "System backup created successfully")
	return name, nil
}

// ClearCache removes every stored key that is neither a durable collection
// nor the persisted session, and returns how many were removed.
func (s *Service) ClearCache(ctx context.Context) (int, error) {
	u, err := s.actor(ctx, permission.SystemManage)
	if err != nil {
		return 0, err
	}

	keep := append(slices.Clone(store.DurableKeys), store.KeyCurrentUser)
	removed, err := s.store.Prune(ctx, keep)
	if err != nil {
		s.log.Warn(ctx, "cache not fully cleared", "removed", removed, logging.Err(err))
		s.notify.Notify(ctx, notify.Error, "Cache could not be cleared")
		return removed, fmt.Errorf("clear cache: %w", err)
	}

	s.record(ctx, audit.ActionCacheCleared, "Application cache cleared", u.ID)
	s.notify.Notify(ctx, notify.Success, "Cache cleared successfully")
	return removed, nil
}
