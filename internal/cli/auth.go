package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/rfpmonitor/internal/app"
	"github.com/dmitrijs2005/rfpmonitor/internal/common"
	"github.com/dmitrijs2005/rfpmonitor/internal/session"
)

// Register prompts for the account fields and starts onboarding.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter full name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	department, err := getSimpleText(a.reader, "Enter department", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.session.Register(ctx, session.RegisterRequest{
		Name:       name,
		Email:      email,
		Department: department,
		Password:   string(password),
	})
	if err != nil {
		return err
	}

	a.printf("Account created for %s. Continue with: onboarding\n", u.Name)
	return nil
}

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.session.Login(ctx, session.LoginRequest{Email: email, Password: string(password)})
	if err != nil {
		return err
	}

	if a.isOnboarding() {
		a.printf("Welcome, %s! Let's set up your profile: onboarding\n", u.Name)
		return nil
	}
	a.printf("Welcome back, %s (%s)\n", u.Name, u.Role)
	return nil
}

// Onboarding walks the setup screens. With no argument it shows the
// current step; next and prev move between steps; complete collects the
// profile and finishes.
func (a *App) Onboarding(ctx context.Context, args []string) error {
	if !a.isOnboarding() {
		return usage("onboarding is only available right after registration")
	}

	sub := ""
	if len(args) > 0 {
		sub = strings.ToLower(args[0])
	}

	var err error
	switch sub {
	case "":
	case "next":
		_, err = a.session.Next()
	case "prev":
		_, err = a.session.Prev()
	case "complete":
		return a.completeOnboarding(ctx)
	default:
		return usage("onboarding [next|prev|complete]")
	}
	if err != nil {
		return err
	}

	a.printf("Onboarding step %d of %d\n", a.session.Step(), session.OnboardingSteps)
	if a.session.Step() == 2 {
		for _, t := range a.svc.Templates() {
			a.printf("  %s %-16s %s\n", t.Icon, t.ID, t.Name)
		}
	}
	return nil
}

func (a *App) completeOnboarding(ctx context.Context) error {
	avatar, err := getDefaultText(a.reader, "Avatar", session.DefaultAvatar, a.out)
	if err != nil {
		return err
	}
	tz, err := getDefaultText(a.reader, "Timezone", session.DefaultTimezone, a.out)
	if err != nil {
		return err
	}
	bio, err := getSimpleText(a.reader, "Short bio", a.out)
	if err != nil {
		return err
	}

	ids := make([]string, 0)
	for _, t := range a.svc.Templates() {
		ids = append(ids, t.ID)
	}
	areas, err := getSimpleText(a.reader, "Search areas to follow ("+strings.Join(ids, ", ")+")", a.out)
	if err != nil {
		return err
	}

	u, err := a.session.Complete(ctx, session.ProfileSetup{
		Avatar:      avatar,
		Timezone:    tz,
		Bio:         bio,
		SearchAreas: app.ParseKeywords(areas),
	})
	if err != nil {
		return err
	}

	a.printf("All set, %s. Following %d search areas.\n", u.Name, len(u.Subscriptions))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.finder.Cancel()
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	a.printf("Signed out\n")
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, usage("%q is not a numeric id", s)
	}
	return id, nil
}
