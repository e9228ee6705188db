package cli

import (
	"context"
	"errors"
	"strconv"

	"github.com/dmitrijs2005/rfpmonitor/internal/common"
	"github.com/dmitrijs2005/rfpmonitor/internal/logging"
)

const defaultAuditRows = 20

// Audit prints the newest n audit entries.
func (a *App) Audit(ctx context.Context, args []string) error {
	n := defaultAuditRows
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v <= 0 {
			return usage("audit [count]")
		}
		n = v
	}
	entries, err := a.svc.AuditLog(ctx, n)
	if err != nil {
		return err
	}
	for _, e := range entries {
		a.printf("%s  %-18s %-24s %s\n", e.Timestamp.Format("2006-01-02 15:04:05"), e.ActorName, e.Action, e.Details)
	}
	return nil
}

func (a *App) Export(ctx context.Context) error {
	name, err := a.svc.Export(ctx)
	if err != nil {
		return err
	}
	a.printf("Exported to %s\n", name)
	return nil
}

func (a *App) Backup(ctx context.Context) error {
	name, err := a.svc.Backup(ctx)
	if err != nil {
		return err
	}
	a.printf("Backup written to %s\n", name)
	return nil
}

func (a *App) ClearCache(ctx context.Context) error {
	n, err := a.svc.ClearCache(ctx)
	if err != nil {
		return err
	}
	a.printf("Removed %d cached keys\n", n)
	return nil
}

// SetOnline reports a connectivity change to the sync coordinator.
func (a *App) SetOnline(ctx context.Context, online bool) error {
	if a.syncer == nil {
		return usage("sync is not configured")
	}
	if err := a.syncer.SetOnline(ctx, online); err != nil {
		a.log.Debug(ctx, "sync after going online failed", logging.Err(err))
	}
	if online {
		a.printf("Online\n")
	} else {
		a.printf("Offline\n")
	}
	return nil
}

// Sync flushes now. Offline is reported, not treated as a failure.
func (a *App) Sync(ctx context.Context) error {
	if a.syncer == nil {
		return usage("sync is not configured")
	}
	err := a.syncer.SyncNow(ctx)
	switch {
	case err == nil:
		a.printf("Synced\n")
		return nil
	case errors.Is(err, common.ErrOffline):
		a.printf("Offline, changes are kept locally\n")
		return nil
	default:
		return err
	}
}
