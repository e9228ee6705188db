package app

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/rfpmonitor/internal/audit"
	"github.com/dmitrijs2005/rfpmonitor/internal/common"
	"github.com/dmitrijs2005/rfpmonitor/internal/models"
	"github.com/dmitrijs2005/rfpmonitor/internal/notify"
	"github.com/dmitrijs2005/rfpmonitor/internal/permission"
	"github.com/dmitrijs2005/rfpmonitor/internal/state"
	"github.com/dmitrijs2005/rfpmonitor/internal/store"
)

// RFPFilter narrows RFPs. Empty fields match everything.
type RFPFilter struct {
	// Search matches title or entity, case-insensitively.
	Search string
	// Area matches the technology area name exactly.
	Area   string
	Status models.RFPStatus
}

func (f RFPFilter) match(r models.RFP) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(r.Title), q) && !strings.Contains(strings.ToLower(r.Entity), q) {
			return false
		}
	}
	if f.Area != "" && r.TechnologyArea != f.Area {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	return true
}

func invalidStatus(op string, status models.RFPStatus) error {
	return fmt.Errorf("%s: %w: unknown status %q", op, common.ErrValidation, status)
}

// UpdateRFPStatus moves one RFP to status. Any transition is allowed.
func (s *Service) UpdateRFPStatus(ctx context.Context, id int64, status models.RFPStatus) error {
	u, err := s.actor(ctx, permission.RFPsEdit)
	if err != nil {
		return err
	}
	if !status.Valid() {
		return invalidStatus("update rfp status", status)
	}

	var (
		found     bool
		title     string
		oldStatus models.RFPStatus
	)
	_ = s.state.Mutate(func(d *state.Data) error {
		r, ok := d.RFPByID(id)
		if !ok {
			return nil
		}
		found = true
		title, oldStatus = r.Title, r.Status
		r.Status = status
		s.persist(ctx, store.KeyRFPs, d.RFPs)
		return nil
	})
	if !found {
		return nil
	}

	s.record(ctx, audit.ActionRFPStatusUpdated,
		fmt.Sprintf("%q status changed from %s to %s", title, oldStatus, status), u.ID)
	s.notify.Notify(ctx, notify.Success, fmt.Sprintf("RFP marked as %s", status))
	return nil
}

// BulkUpdateRFPStatus applies status to every listed RFP that exists and
// returns how many were updated. Nothing is recorded when none match.
func (s *Service) BulkUpdateRFPStatus(ctx context.Context, ids []int64, status models.RFPStatus) (int, error) {
	u, err := s.actor(ctx, permission.RFPsBulkActions)
	if err != nil {
		return 0, err
	}
	if !status.Valid() {
		return 0, invalidStatus("bulk update rfp status", status)
	}

	updated := 0
	_ = s.state.Mutate(func(d *state.Data) error {
		for i := range d.RFPs {
			if slices.Contains(ids, d.RFPs[i].ID) {
				d.RFPs[i].Status = status
				updated++
			}
		}
		if updated > 0 {
			s.persist(ctx, store.KeyRFPs, d.RFPs)
		}
		return nil
	})
	if updated == 0 {
		return 0, nil
	}

	s.record(ctx, audit.ActionRFPBulkUpdate, fmt.Sprintf("%d RFPs marked as %s", updated, status), u.ID)
	s.notify.Notify(ctx, notify.Success, fmt.Sprintf("%d RFPs marked as %s", updated, status))
	return updated, nil
}

// RFPs returns the RFPs matching f in stored order. Reading requires the
// rfps resource.
func (s *Service) RFPs(ctx context.Context, f RFPFilter) ([]models.RFP, error) {
	if err := s.canRead(ctx, permission.ResourceRFPs); err != nil {
		return nil, err
	}
	var out []models.RFP
	s.state.View(func(d *state.Data) {
		for _, r := range d.RFPs {
			if f.match(r) {
				r.Requirements = slices.Clone(r.Requirements)
				out = append(out, r)
			}
		}
	})
	return out, nil
}
