package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/rfpmonitor/internal/audit"
	"github.com/dmitrijs2005/rfpmonitor/internal/common"
	"github.com/dmitrijs2005/rfpmonitor/internal/models"
	"github.com/dmitrijs2005/rfpmonitor/internal/notify"
	"github.com/dmitrijs2005/rfpmonitor/internal/permission"
	"github.com/dmitrijs2005/rfpmonitor/internal/session"
	"github.com/dmitrijs2005/rfpmonitor/internal/state"
	"github.com/dmitrijs2005/rfpmonitor/internal/store"
	"github.com/dmitrijs2005/rfpmonitor/internal/validate"
)

const unassignedDepartment = "Unassigned"

type InviteRequest struct {
	Email      string      `validate:"required,emailshape"`
	Role       models.Role `validate:"required"`
	Department string
	Message    string `validate:"max=1000"`
}

// UserFilter narrows users. Empty fields match everything.
type UserFilter struct {
	// Search matches name, email or department, case-insensitively.
	Search string
	Role   models.Role
}

func (f UserFilter) match(u models.User) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(u.Name), q) &&
			!strings.Contains(strings.ToLower(u.Email), q) &&
			!strings.Contains(strings.ToLower(u.Department), q) {
			return false
		}
	}
	return f.Role == "" || u.Role == f.Role
}

// InviteUser adds a pending account for email with the given role.
func (s *Service) InviteUser(ctx context.Context, req InviteRequest) (models.User, error) {
	u, err := s.actor(ctx, permission.UsersInvite)
	if err != nil {
		return models.User{}, err
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := validate.Struct(req); err != nil {
		return models.User{}, fmt.Errorf("invite user: %w", err)
	}
	if !req.Role.Valid() {
		return models.User{}, fmt.Errorf("invite user: %w: unknown role %q", common.ErrValidation, req.Role)
	}

	department := strings.TrimSpace(req.Department)
	if department == "" {
		department = unassignedDepartment
	}

	var invited models.User
	err = s.state.Mutate(func(d *state.Data) error {
		if _, exists := d.UserByEmail(req.Email); exists {
			return fmt.Errorf("invite user: %w: %s", common.ErrAlreadyExists, models.NormalizeEmail(req.Email))
		}
		invited = models.User{
			ID:          d.NextUserID(),
			Name:        session.DisplayNameFromEmail(req.Email),
			Email:       models.NormalizeEmail(req.Email),
			Department:  department,
			Role:        req.Role,
			Avatar:      session.DefaultAvatar,
			Status:      models.UserInvited,
			CreatedAt:   s.now(),
			Timezone:    session.DefaultTimezone,
			Preferences: models.DefaultPreferences(),
		}
		d.Users = append(d.Users, invited)
		s.persist(ctx, store.KeyUsers, d.Users)
		s.persist(ctx, store.KeyUserIDSeq, d.UserIDSeq)
		return nil
	})
	if err != nil {
		s.notify.Notify(ctx, notify.Error, "User with this email already exists")
		return models.User{}, err
	}

	s.record(ctx, audit.ActionUserInvited, fmt.Sprintf("Invitation sent to %s for role %s", invited.Email, invited.Role), u.ID)
	s.notify.Notify(ctx, notify.Success, "User invitation sent successfully")
	return invited.Clone(), nil
}

// ChangeUserStatus sets a user's status. Signed-in users cannot change
// their own status.
func (s *Service) ChangeUserStatus(ctx context.Context, id int64, status models.UserStatus) error {
	u, err := s.actor(ctx, permission.UsersEdit)
	if err != nil {
		return err
	}
	if !status.Valid() {
		return fmt.Errorf("change user status: %w: unknown status %q", common.ErrValidation, status)
	}
	if id == u.ID {
		return fmt.Errorf("change user status: %w: cannot change your own status", common.ErrForbidden)
	}

	var (
		found bool
		name  string
	)
	_ = s.state.Mutate(func(d *state.Data) error {
		target, ok := d.UserByID(id)
		if !ok {
			return nil
		}
		found = true
		target.Status = status
		name = target.Name
		s.persist(ctx, store.KeyUsers, d.Users)
		return nil
	})
	if !found {
		return nil
	}

	s.record(ctx, audit.ActionUserStatusChanged, fmt.Sprintf("%s status changed to %s", name, status), u.ID)
	s.notify.Notify(ctx, notify.Success, fmt.Sprintf("User %s is now %s", name, status))
	return nil
}

// DeleteUser removes a user record and its search area subscriptions.
// Signed-in users cannot delete themselves.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	u, err := s.actor(ctx, permission.UsersDelete)
	if err != nil {
		return err
	}
	if id == u.ID {
		return fmt.Errorf("delete user: %w: cannot delete yourself", common.ErrForbidden)
	}

	var name string
	found := false
	_ = s.state.Mutate(func(d *state.Data) error {
		target, ok := d.UserByID(id)
		if !ok {
			return nil
		}
		found, name = true, target.Name
		d.RemoveUser(id)

		areasChanged := false
		for i := range d.SearchAreas {
			a := &d.SearchAreas[i]
			if a.HasSubscriber(id) {
				a.Unsubscribe(id)
				areasChanged = true
			}
		}

		s.persist(ctx, store.KeyUsers, d.Users)
		if areasChanged {
			s.persist(ctx, store.KeySearchAreas, d.SearchAreas)
		}
		return nil
	})
	if !found {
		return nil
	}

	s.record(ctx, audit.ActionUserDeleted, fmt.Sprintf("User %s deleted", name), u.ID)
	s.notify.Notify(ctx, notify.Success, "User deleted successfully")
	return nil
}

// Users returns users matching f without credential material.
func (s *Service) Users(ctx context.Context, f UserFilter) ([]models.User, error) {
	if err := s.canRead(ctx, permission.ResourceUsers); err != nil {
		return nil, err
	}
	var out []models.User
	s.state.View(func(d *state.Data) {
		for _, u := range d.Users {
			if f.match(u) {
				out = append(out, u.Redacted())
			}
		}
	})
	return out, nil
}
