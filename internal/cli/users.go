package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/rfpmonitor/internal/app"
	"github.com/dmitrijs2005/rfpmonitor/internal/models"
)

// Users lists accounts, optionally narrowed to a role.
func (a *App) Users(ctx context.Context, args []string) error {
	var f app.UserFilter
	if len(args) > 0 {
		r, ok := models.ParseRole(strings.Join(args, " "))
		if !ok {
			return usage("unknown role %q", strings.Join(args, " "))
		}
		f.Role = r
	}
	users, err := a.svc.Users(ctx, f)
	if err != nil {
		return err
	}
	for _, u := range users {
		a.printf("#%-3d %s %-22s %-30s %-11s %-8s %s\n", u.ID, u.Avatar, u.Name, u.Email, u.Role, u.Status, u.Department)
	}
	return nil
}

// Invite prompts for an invitation.
func (a *App) Invite(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	roleText, err := getDefaultText(a.reader, "Role", string(models.RoleViewer), a.out)
	if err != nil {
		return err
	}
	role, ok := models.ParseRole(roleText)
	if !ok {
		return usage("unknown role %q", roleText)
	}
	department, err := getSimpleText(a.reader, "Department (optional)", a.out)
	if err != nil {
		return err
	}
	message, err := getSimpleText(a.reader, "Message (optional)", a.out)
	if err != nil {
		return err
	}

	u, err := a.svc.InviteUser(ctx, app.InviteRequest{
		Email:      email,
		Role:       role,
		Department: department,
		Message:    message,
	})
	if err != nil {
		return err
	}
	a.printf("Invited %s as #%d\n", u.Email, u.ID)
	return nil
}

func (a *App) UserStatus(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("userstatus <user id> <active|inactive|invited>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	s := models.UserStatus(strings.ToLower(args[1]))
	if !s.Valid() {
		return usage("unknown status %q", args[1])
	}
	return a.svc.ChangeUserStatus(ctx, id, s)
}

func (a *App) DeleteUser(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("deleteuser <user id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return a.svc.DeleteUser(ctx, id)
}
