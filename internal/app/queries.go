package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/rfpmonitor/internal/common"
	"github.com/dmitrijs2005/rfpmonitor/internal/models"
	"github.com/dmitrijs2005/rfpmonitor/internal/notify"
	"github.com/dmitrijs2005/rfpmonitor/internal/permission"
	"github.com/dmitrijs2005/rfpmonitor/internal/state"
)

// KPIs are the personal dashboard figures of the signed-in user.
type KPIs struct {
	// SubscribedRFPs counts RFPs in areas the user subscribes to.
	SubscribedRFPs int
	// NewToday counts those posted on the current calendar day.
	NewToday int
	// ActiveAreas counts subscribed areas that are active.
	ActiveAreas int
}

// AreaCount is one slice of the technology breakdown.
type AreaCount struct {
	Area  string
	Count int
}

// AuditView is an audit entry with the actor resolved to a display name.
type AuditView struct {
	models.AuditEntry
	ActorName string
}

// Navigate checks that the signed-in user may open section.
func (s *Service) Navigate(ctx context.Context, section permission.Section) error {
	u, err := s.signedIn(fmt.Sprintf("navigate %s", section))
	if err != nil {
		return err
	}
	if !s.perms.AuthorizeSection(u.Role, section) {
		s.metrics.Denied(string(section))
		s.notify.Notify(ctx, notify.Error, DeniedMessage)
		return fmt.Errorf("navigate %s: %w", section, common.ErrForbidden)
	}
	return nil
}

func (s *Service) canRead(ctx context.Context, res permission.Resource) error {
	u, err := s.signedIn(fmt.Sprintf("read %s", res))
	if err != nil {
		return err
	}
	if !s.perms.AuthorizeResource(u.Role, res) {
		s.metrics.Denied(string(res.View()))
		s.notify.Notify(ctx, notify.Error, DeniedMessage)
		return fmt.Errorf("read %s: %w", res, common.ErrForbidden)
	}
	return nil
}

// Templates is the search area catalogue. It is open to everyone so
// onboarding can offer it.
func (s *Service) Templates() []models.SearchAreaTemplate {
	return s.seeder.Templates()
}

func (s *Service) SearchAreas(ctx context.Context) ([]models.SearchArea, error) {
	if err := s.canRead(ctx, permission.ResourceSearchAreas); err != nil {
		return nil, err
	}
	var out []models.SearchArea
	s.state.View(func(d *state.Data) {
		out = make([]models.SearchArea, len(d.SearchAreas))
		for i, a := range d.SearchAreas {
			out[i] = a.Clone()
		}
	})
	return out, nil
}

// AuditLog returns the n newest entries (all when n <= 0).
func (s *Service) AuditLog(ctx context.Context, n int) ([]AuditView, error) {
	if err := s.canRead(ctx, permission.ResourceAudit); err != nil {
		return nil, err
	}
	entries := s.trail.Recent(n)

	names := map[int64]string{}
	s.state.View(func(d *state.Data) {
		for _, u := range d.Users {
			names[u.ID] = u.Name
		}
	})

	out := make([]AuditView, len(entries))
	for i, e := range entries {
		name, ok := names[e.UserID]
		if !ok || e.UserID == models.SystemActor {
			name = e.Actor()
		}
		out[i] = AuditView{AuditEntry: e, ActorName: name}
	}
	return out, nil
}

// KPIs computes the dashboard figures for the signed-in user.
func (s *Service) KPIs(ctx context.Context) (KPIs, error) {
	u, err := s.signedIn("kpis")
	if err != nil {
		return KPIs{}, err
	}

	y, m, dd := s.now().UTC().Date()
	var k KPIs
	s.state.View(func(d *state.Data) {
		subscribed := map[string]bool{}
		for _, a := range d.SearchAreas {
			if a.HasSubscriber(u.ID) {
				subscribed[a.ID] = true
				if a.IsActive {
					k.ActiveAreas++
				}
			}
		}
		for _, r := range d.RFPs {
			if !subscribed[r.AreaID] {
				continue
			}
			k.SubscribedRFPs++
			if ry, rm, rd := r.DatePosted.UTC().Date(); ry == y && rm == m && rd == dd {
				k.NewToday++
			}
		}
	})
	return k, nil
}

// TechnologyBreakdown counts RFPs per search area name, largest first.
// RFPs whose area no longer exists count as "Other".
func (s *Service) TechnologyBreakdown(ctx context.Context) ([]AreaCount, error) {
	if _, err := s.signedIn("technology breakdown"); err != nil {
		return nil, err
	}

	counts := map[string]int{}
	s.state.View(func(d *state.Data) {
		names := make(map[string]string, len(d.SearchAreas))
		for _, a := range d.SearchAreas {
			names[a.ID] = a.Name
		}
		for _, r := range d.RFPs {
			name, ok := names[r.AreaID]
			if !ok {
				name = "Other"
			}
			counts[name]++
		}
	})

	out := make([]AreaCount, 0, len(counts))
	for area, n := range counts {
		out = append(out, AreaCount{Area: area, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Area < out[j].Area
	})
	return out, nil
}

// RecentRFPs returns the n most recently posted RFPs.
func (s *Service) RecentRFPs(ctx context.Context, n int) ([]models.RFP, error) {
	all, err := s.RFPs(ctx, RFPFilter{})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].DatePosted.After(all[j].DatePosted) })
	if n > 0 && n < len(all) {
		all = all[:n]
	}
	return all, nil
}

// LastSync is when the last successful flush finished, if ever.
func (s *Service) LastSync() (time.Time, bool) {
	var (
		t  time.Time
		ok bool
	)
	s.state.View(func(d *state.Data) {
		if d.LastSyncTime != nil {
			t, ok = *d.LastSyncTime, true
		}
	})
	return t, ok
}
