package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/rfpmonitor/internal/audit"
	"github.com/dmitrijs2005/rfpmonitor/internal/common"
	"github.com/dmitrijs2005/rfpmonitor/internal/cryptox"
	"github.com/dmitrijs2005/rfpmonitor/internal/logging"
	"github.com/dmitrijs2005/rfpmonitor/internal/models"
	"github.com/dmitrijs2005/rfpmonitor/internal/state"
	"github.com/dmitrijs2005/rfpmonitor/internal/store"
	"github.com/dmitrijs2005/rfpmonitor/internal/validate"
)

type LoginRequest struct {
	Email    string `validate:"required,emailshape"`
	Password string `validate:"required"`
}

type RegisterRequest struct {
	Name       string `validate:"notblank"`
	Email      string `validate:"required,emailshape"`
	Department string `validate:"notblank"`
	Password   string `validate:"required"`
}

// Login signs in by email. Unknown addresses are provisioned as Editors;
// passwords are not checked. Inactive accounts are refused.
func (m *Manager) Login(ctx context.Context, req LoginRequest) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != PhaseAnonymous {
		return models.User{}, invalidState("login", m.phase)
	}
	req.Email, req.Password = strings.TrimSpace(req.Email), strings.TrimSpace(req.Password)
	if err := validate.Struct(req); err != nil {
		return models.User{}, fmt.Errorf("login: %w", err)
	}

	m.phase = PhaseAuthenticating

	var (
		user        models.User
		provisioned bool
	)
	err := m.state.Mutate(func(d *state.Data) error {
		now := m.now()
		u, ok := d.UserByEmail(req.Email)
		if !ok {
			d.Users = append(d.Users, models.User{
				ID:          d.NextUserID(),
				Name:        DisplayNameFromEmail(req.Email),
				Email:       models.NormalizeEmail(req.Email),
				Department:  DefaultDepartment,
				Role:        models.RoleEditor,
				Avatar:      DefaultAvatar,
				Status:      models.UserActive,
				Timezone:    DefaultTimezone,
				CreatedAt:   now,
				Preferences: models.DefaultPreferences(),
			})
			u = &d.Users[len(d.Users)-1]
			provisioned = true
			m.persist(ctx, store.KeyUserIDSeq, d.UserIDSeq)
		}
		if u.Status == models.UserInactive {
			return fmt.Errorf("login: %w: account %s is inactive", common.ErrForbidden, u.Email)
		}
		if u.Status == models.UserInvited {
			u.Status = models.UserActive
		}
		u.LastLogin = &now
		user = u.Clone()

		m.persist(ctx, store.KeyUsers, d.Users)
		return nil
	})
	if err != nil {
		m.clear()
		return models.User{}, err
	}

	m.bind(user)
	m.persist(ctx, store.KeyCurrentUser, user)
	m.record(ctx, audit.ActionUserLogin, fmt.Sprintf("User %s logged in", user.Name), user.ID)
	m.log.Info(ctx, "user logged in", "user_id", user.ID, "provisioned", provisioned, "phase", m.phase)

	return user, nil
}

// Register creates a Viewer account and starts onboarding for it.
func (m *Manager) Register(ctx context.Context, req RegisterRequest) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != PhaseAnonymous {
		return models.User{}, invalidState("register", m.phase)
	}
	req.Email, req.Password = strings.TrimSpace(req.Email), strings.TrimSpace(req.Password)
	req.Name, req.Department = strings.TrimSpace(req.Name), strings.TrimSpace(req.Department)
	if err := validate.Struct(req); err != nil {
		return models.User{}, fmt.Errorf("register: %w", err)
	}

	salt, verifier := cryptox.NewCredentials([]byte(req.Password))

	var user models.User
	err := m.state.Mutate(func(d *state.Data) error {
		if _, exists := d.UserByEmail(req.Email); exists {
			return fmt.Errorf("register: %w: %s", common.ErrAlreadyExists, models.NormalizeEmail(req.Email))
		}
		now := m.now()
		user = models.User{
			ID:          d.NextUserID(),
			Name:        req.Name,
			Email:       models.NormalizeEmail(req.Email),
			Department:  req.Department,
			Role:        models.RoleViewer,
			Avatar:      DefaultAvatar,
			Status:      models.UserActive,
			Timezone:    DefaultTimezone,
			LastLogin:   &now,
			CreatedAt:   now,
			Preferences: models.DefaultPreferences(),
			Salt:        salt,
			Verifier:    verifier,
		}
		d.Users = append(d.Users, user)
		m.persist(ctx, store.KeyUsers, d.Users)
		m.persist(ctx, store.KeyUserIDSeq, d.UserIDSeq)
		return nil
	})
	if err != nil {
		return models.User{}, err
	}

	m.bind(user)
	m.persist(ctx, store.KeyCurrentUser, user)
	m.record(ctx, audit.ActionUserRegistration, fmt.Sprintf("New user registered: %s (%s)", user.Name, user.Email), user.ID)
	m.log.Info(ctx, "user registered", "user_id", user.ID)

	return user.Clone(), nil
}

// Logout ends the session from any phase. The user record is kept.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase == PhaseAnonymous {
		return nil
	}

	u, _ := m.currentLocked()
	id := m.userID
	m.clear()

	m.record(ctx, audit.ActionUserLogout, fmt.Sprintf("User %s logged out", u.Name), id)
	if err := m.store.Delete(ctx, store.KeyCurrentUser); err != nil {
		m.log.Warn(ctx, "persisted session not removed", logging.Err(err))
	}
	m.log.Info(ctx, "user logged out", "user_id", id)
	return nil
}
