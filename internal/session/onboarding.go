package session

import (
	"context"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/rfpmonitor/internal/audit"
	"github.com/dmitrijs2005/rfpmonitor/internal/common"
	"github.com/dmitrijs2005/rfpmonitor/internal/models"
	"github.com/dmitrijs2005/rfpmonitor/internal/state"
	"github.com/dmitrijs2005/rfpmonitor/internal/store"
)

// ProfileSetup is what the onboarding screens collect.
type ProfileSetup struct {
	Avatar      string
	Timezone    string
	Bio         string
	SearchAreas []string
	// Preferences replaces the user's preferences when non-nil.
	Preferences *models.Preferences
}

// Next advances onboarding by one step, stopping at the last one.
func (m *Manager) Next() (int, error) {
	return m.move(+1)
}

// Prev goes back one step, stopping at the first one.
func (m *Manager) Prev() (int, error) {
	return m.move(-1)
}

func (m *Manager) move(delta int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != PhaseOnboarding {
		return 0, invalidState("onboarding step", m.phase)
	}
	m.step = min(max(m.step+delta, 1), OnboardingSteps)
	return m.step, nil
}

// Complete applies the collected profile in one step, subscribes the user
// to the selected search areas and activates the session. It may be called
// from any onboarding step.
func (m *Manager) Complete(ctx context.Context, setup ProfileSetup) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != PhaseOnboarding {
		return models.User{}, invalidState("complete onboarding", m.phase)
	}

	var user models.User
	err := m.state.Mutate(func(d *state.Data) error {
		u, ok := d.UserByID(m.userID)
		if !ok {
			return fmt.Errorf("complete onboarding: %w: user %d", common.ErrNotFound, m.userID)
		}

		subscribed := make([]string, 0, len(setup.SearchAreas))
		for _, id := range setup.SearchAreas {
			if slices.Contains(subscribed, id) {
				continue
			}
			area, ok := d.SearchAreaByID(id)
			if !ok {
				m.log.Debug(ctx, "skipping unknown search area", "area_id", id)
				continue
			}
			area.Subscribe(u.ID)
			subscribed = append(subscribed, id)
		}

		u.Avatar = setup.Avatar
		if u.Avatar == "" {
			u.Avatar = DefaultAvatar
		}
		u.Timezone = setup.Timezone
		if u.Timezone == "" {
			u.Timezone = DefaultTimezone
		}
		u.Bio = setup.Bio
		if setup.Preferences != nil {
			u.Preferences = *setup.Preferences
		}
		u.Subscriptions = subscribed
		u.SearchAreasSubscribed = len(subscribed)
		u.OnboardingCompleted = true
		user = u.Clone()

		m.persist(ctx, store.KeyUsers, d.Users)
		m.persist(ctx, store.KeySearchAreas, d.SearchAreas)
		return nil
	})
	if err != nil {
		return models.User{}, err
	}

	m.bind(user)
	m.persist(ctx, store.KeyCurrentUser, user)
	m.record(ctx, audit.ActionOnboardingCompleted, fmt.Sprintf("User %s completed onboarding", user.Name), user.ID)
	m.log.Info(ctx, "onboarding completed", "user_id", user.ID, "areas", len(user.Subscriptions))

	return user, nil
}
