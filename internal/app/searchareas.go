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
	"github.com/dmitrijs2005/rfpmonitor/internal/validate"
	"github.com/google/uuid"
)

const customAreaIcon = "🔍"

type SearchAreaRequest struct {
	Name        string   `validate:"notblank,max=100"`
	Category    string   `validate:"notblank"`
	Keywords    []string `validate:"notblank"`
	Description string   `validate:"max=500"`
}

// ParseKeywords splits a comma separated list, dropping blanks.
func ParseKeywords(s string) []string {
	var out []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func activeWord(active bool) string {
	if active {
		return "activated"
	}
	return "deactivated"
}

// ToggleSearchArea flips an area between active and inactive.
func (s *Service) ToggleSearchArea(ctx context.Context, id string) error {
	u, err := s.actor(ctx, permission.SearchAreasEdit)
	if err != nil {
		return err
	}

	var (
		found  bool
		name   string
		active bool
	)
	_ = s.state.Mutate(func(d *state.Data) error {
		a, ok := d.SearchAreaByID(id)
		if !ok {
			return nil
		}
		found = true
		a.IsActive = !a.IsActive
		name, active = a.Name, a.IsActive
		s.persist(ctx, store.KeySearchAreas, d.SearchAreas)
		return nil
	})
	if !found {
		return nil
	}

	s.record(ctx, audit.ActionSearchAreaToggled, fmt.Sprintf("%s %s", name, activeWord(active)), u.ID)
	s.notify.Notify(ctx, notify.Success, fmt.Sprintf("%s %s", name, activeWord(active)))
	return nil
}

// ActivateTemplate turns a catalogue template on, instantiating it first if
// no area with its id exists yet.
func (s *Service) ActivateTemplate(ctx context.Context, templateID string) error {
	u, err := s.actor(ctx, permission.SearchAreasCreate)
	if err != nil {
		return err
	}

	templates := s.seeder.Templates()
	idx := slices.IndexFunc(templates, func(t models.SearchAreaTemplate) bool { return t.ID == templateID })
	if idx < 0 {
		return nil
	}
	tpl := templates[idx]

	_ = s.state.Mutate(func(d *state.Data) error {
		if a, ok := d.SearchAreaByID(tpl.ID); ok {
			a.IsActive = true
		} else {
			a := models.FromTemplate(tpl)
			a.IsActive = true
			a.CreatedBy = u.Name
			a.CreatedAt = s.now()
			a.Subscribers = []int64{u.ID}
			d.SearchAreas = append(d.SearchAreas, a)
		}
		s.persist(ctx, store.KeySearchAreas, d.SearchAreas)
		return nil
	})

	s.record(ctx, audit.ActionSearchAreaActivated, fmt.Sprintf("Template %s activated", tpl.Name), u.ID)
	s.notify.Notify(ctx, notify.Success, fmt.Sprintf("%s search area activated", tpl.Name))
	return nil
}

func (s *Service) DeactivateTemplate(ctx context.Context, id string) error {
	u, err := s.actor(ctx, permission.SearchAreasEdit)
	if err != nil {
		return err
	}

	var (
		found bool
		name  string
	)
	_ = s.state.Mutate(func(d *state.Data) error {
		a, ok := d.SearchAreaByID(id)
		if !ok {
			return nil
		}
		found = true
		a.IsActive = false
		name = a.Name
		s.persist(ctx, store.KeySearchAreas, d.SearchAreas)
		return nil
	})
	if !found {
		return nil
	}

	s.record(ctx, audit.ActionSearchAreaDeactivated, fmt.Sprintf("%s deactivated", name), u.ID)
	s.notify.Notify(ctx, notify.Success, fmt.Sprintf("%s search area deactivated", name))
	return nil
}

// CreateSearchArea adds an active custom area subscribed by its creator.
func (s *Service) CreateSearchArea(ctx context.Context, req SearchAreaRequest) (models.SearchArea, error) {
	u, err := s.actor(ctx, permission.SearchAreasCreate)
	if err != nil {
		return models.SearchArea{}, err
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if err := validate.Struct(req); err != nil {
		return models.SearchArea{}, fmt.Errorf("create search area: %w", err)
	}

	area := models.SearchArea{
		ID:          "custom_" + uuid.NewString(),
		Name:        req.Name,
		Category:    req.Category,
		Icon:        customAreaIcon,
		Description: req.Description,
		Keywords:    slices.Clone(req.Keywords),
		IsActive:    true,
		CreatedBy:   u.Name,
		CreatedAt:   s.now(),
		Subscribers: []int64{u.ID},
	}
	if area.Description == "" {
		area.Description = "Custom search area for " + area.Name
	}

	_ = s.state.Mutate(func(d *state.Data) error {
		d.SearchAreas = append(d.SearchAreas, area)
		s.persist(ctx, store.KeySearchAreas, d.SearchAreas)
		return nil
	})

	s.record(ctx, audit.ActionSearchAreaCreated, fmt.Sprintf("Custom search area %q created", area.Name), u.ID)
	s.notify.Notify(ctx, notify.Success, "Search area created successfully")
	return area.Clone(), nil
}

// DeleteSearchArea removes a custom area and drops it from every user's
// subscriptions. Template areas can only be deactivated.
func (s *Service) DeleteSearchArea(ctx context.Context, id string) error {
	u, err := s.actor(ctx, permission.SearchAreasDelete)
	if err != nil {
		return err
	}

	var name string
	err = s.state.Mutate(func(d *state.Data) error {
		a, ok := d.SearchAreaByID(id)
		if !ok {
			return nil
		}
		if a.IsTemplate {
			return fmt.Errorf("delete search area %s: %w", id, common.ErrTemplateProtected)
		}
		name = a.Name
		d.RemoveSearchArea(id)

		usersChanged := false
		for i := range d.Users {
			subs := d.Users[i].Subscriptions
			if !slices.Contains(subs, id) {
				continue
			}
			d.Users[i].Subscriptions = slices.DeleteFunc(slices.Clone(subs), func(x string) bool { return x == id })
			d.Users[i].SearchAreasSubscribed = len(d.Users[i].Subscriptions)
			usersChanged = true
		}

		s.persist(ctx, store.KeySearchAreas, d.SearchAreas)
		if usersChanged {
			s.persist(ctx, store.KeyUsers, d.Users)
		}
		return nil
	})
	if err != nil {
		s.notify.Notify(ctx, notify.Error, "Template search areas cannot be deleted; deactivate them instead")
		return err
	}
	if name == "" {
		return nil
	}

	s.record(ctx, audit.ActionSearchAreaDeleted, fmt.Sprintf("Custom search area %q deleted", name), u.ID)
	s.notify.Notify(ctx, notify.Success, "Search area deleted")
	return nil
}
