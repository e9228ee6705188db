package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/rfpmonitor/internal/app"
	"github.com/dmitrijs2005/rfpmonitor/internal/permission"
	"github.com/dustin/go-humanize"
)

// Dashboard prints the personal KPIs, the technology breakdown and the
// newest RFPs.
func (a *App) Dashboard(ctx context.Context) error {
	k, err := a.svc.KPIs(ctx)
	if err != nil {
		return err
	}
	a.printf("Subscribed RFPs: %d   New today: %d   Active areas: %d\n", k.SubscribedRFPs, k.NewToday, k.ActiveAreas)

	breakdown, err := a.svc.TechnologyBreakdown(ctx)
	if err != nil {
		return err
	}
	a.printf("By technology:\n")
	for _, c := range breakdown {
		a.printf("  %-28s %d\n", c.Area, c.Count)
	}

	recent, err := a.svc.RecentRFPs(ctx, 5)
	if err != nil {
		return err
	}
	a.printf("Recent RFPs:\n")
	for _, r := range recent {
		a.printf("  #%-3d %-10s %s (%s)\n", r.ID, r.Status, r.Title, r.Entity)
	}

	if t, ok := a.svc.LastSync(); ok {
		a.printf("Last sync: %s\n", humanize.Time(t))
	} else {
		a.printf("Last sync: never\n")
	}
	return nil
}

// Navigate checks access to a section.
func (a *App) Navigate(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("goto <section>")
	}
	section, ok := permission.ParseSection(strings.ToLower(args[0]))
	if !ok {
		return usage("unknown section %q", args[0])
	}
	if err := a.svc.Navigate(ctx, section); err != nil {
		return err
	}
	a.printf("Opened %s\n", section)
	return nil
}

func (a *App) Areas(ctx context.Context) error {
	areas, err := a.svc.SearchAreas(ctx)
	if err != nil {
		return err
	}
	for _, ar := range areas {
		state := "inactive"
		if ar.IsActive {
			state = "active"
		}
		kind := "custom"
		if ar.IsTemplate {
			kind = "template"
		}
		a.printf("%s %-44s %-28s %-8s %-8s %d RFPs, %d subscribers\n",
			ar.Icon, ar.ID, ar.Name, kind, state, ar.RFPCount, len(ar.Subscribers))
	}
	return nil
}

func (a *App) ToggleArea(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("toggle <area id>")
	}
	return a.svc.ToggleSearchArea(ctx, args[0])
}

func (a *App) Activate(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("activate <template id>")
	}
	return a.svc.ActivateTemplate(ctx, args[0])
}

func (a *App) Deactivate(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("deactivate <area id>")
	}
	return a.svc.DeactivateTemplate(ctx, args[0])
}

// CreateArea prompts for a custom search area.
func (a *App) CreateArea(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Area name", a.out)
	if err != nil {
		return err
	}
	category, err := getSimpleText(a.reader, "Category", a.out)
	if err != nil {
		return err
	}
	keywords, err := getSimpleText(a.reader, "Keywords (comma separated)", a.out)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "Description (optional)", a.out)
	if err != nil {
		return err
	}

	area, err := a.svc.CreateSearchArea(ctx, app.SearchAreaRequest{
		Name:        name,
		Category:    category,
		Keywords:    app.ParseKeywords(keywords),
		Description: description,
	})
	if err != nil {
		return err
	}
	a.printf("Created %s\n", area.ID)
	return nil
}

func (a *App) DeleteArea(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("deletearea <area id>")
	}
	return a.svc.DeleteSearchArea(ctx, args[0])
}
