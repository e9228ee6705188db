package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/rfpmonitor/internal/app"
	"github.com/dmitrijs2005/rfpmonitor/internal/models"
)

// RFPs lists RFPs, optionally narrowed to a status.
func (a *App) RFPs(ctx context.Context, args []string) error {
	var f app.RFPFilter
	if len(args) > 0 {
		s, ok := models.ParseRFPStatus(args[0])
		if !ok {
			return usage("rfps [New|Reviewing|Tracked|Archived]")
		}
		f.Status = s
	}
	rfps, err := a.svc.RFPs(ctx, f)
	if err != nil {
		return err
	}
	a.printRFPs(rfps)
	return nil
}

// Find searches titles and entities. Rapid repeats only print the last
// query's results.
func (a *App) Find(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("find <text>")
	}
	f := app.RFPFilter{Search: strings.Join(args, " ")}

	a.finder.Trigger(func() {
		rfps, err := a.svc.RFPs(ctx, f)
		if err != nil {
			a.printf("Error: %v\n", err)
			return
		}
		a.printf("%d matches for %q\n", len(rfps), f.Search)
		a.printRFPs(rfps)
	})
	return nil
}

func (a *App) printRFPs(rfps []models.RFP) {
	for _, r := range rfps {
		a.printf("#%-3d %-10s %-12s %-26s %s | %s | closes %s\n",
			r.ID, r.Status, r.Value, r.TechnologyArea, r.Title, r.Entity, r.ClosingDate.Format("2006-01-02"))
	}
}

// SetStatus changes one RFP's status.
func (a *App) SetStatus(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("status <rfp id> <status>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	s, ok := models.ParseRFPStatus(args[1])
	if !ok {
		return usage("unknown status %q", args[1])
	}
	return a.svc.UpdateRFPStatus(ctx, id, s)
}

// Bulk applies a status to several RFPs at once.
func (a *App) Bulk(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("bulk <status> <rfp id>...")
	}
	s, ok := models.ParseRFPStatus(args[0])
	if !ok {
		return usage("unknown status %q", args[0])
	}
	ids := make([]int64, 0, len(args)-1)
	for _, arg := range args[1:] {
		id, err := parseID(arg)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	n, err := a.svc.BulkUpdateRFPStatus(ctx, ids, s)
	if err != nil {
		return err
	}
	a.printf("%d RFPs updated\n", n)
	return nil
}
