package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/rfpmonitor/internal/common"
)

// printlnFn is a test seam for user-facing output. It goes through Stdout
// so REPL lines never interleave with background notifications.
var printlnFn = Stdout.Println

// execIface is the command surface the REPL dispatches to. App implements
// it; tests use a stub.
type execIface interface {
	isLoggedIn() bool
	isOnboarding() bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Onboarding(ctx context.Context, args []string) error
	Logout(ctx context.Context) error

	Dashboard(ctx context.Context) error
	Navigate(ctx context.Context, args []string) error

	Areas(ctx context.Context) error
	ToggleArea(ctx context.Context, args []string) error
	Activate(ctx context.Context, args []string) error
	Deactivate(ctx context.Context, args []string) error
	CreateArea(ctx context.Context) error
	DeleteArea(ctx context.Context, args []string) error

	RFPs(ctx context.Context, args []string) error
	Find(ctx context.Context, args []string) error
	SetStatus(ctx context.Context, args []string) error
	Bulk(ctx context.Context, args []string) error

	Users(ctx context.Context, args []string) error
	Invite(ctx context.Context) error
	UserStatus(ctx context.Context, args []string) error
	DeleteUser(ctx context.Context, args []string) error

	Audit(ctx context.Context, args []string) error
	Export(ctx context.Context) error
	Backup(ctx context.Context) error
	ClearCache(ctx context.Context) error

	SetOnline(ctx context.Context, online bool) error
	Sync(ctx context.Context) error
}

const (
	helpAnonymous  = "Available commands: register, login, exit"
	helpOnboarding = "Available commands: onboarding [next|prev|complete], logout, exit"
	helpActive     = "Available commands: dashboard, goto <section>, areas, toggle <id>, activate <template>, " +
		"deactivate <id>, createarea, deletearea <id>, rfps [status], find <text>, status <id> <status>, " +
		"bulk <status> <id>..., users [role], invite, userstatus <id> <status>, deleteuser <id>, " +
		"audit [n], export, backup, clearcache, online, offline, sync, logout, exit"
)

// runREPL reads commands from reader until EOF or exit/quit and dispatches
// them to a. The prompt shows statusFn(). Command errors are printed and the
// loop carries on. Commands that prompt for more input share reader.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("rfp %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}
		report(dispatch(ctx, a, cmd, args))
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "help":
		switch {
		case a.isOnboarding():
			printlnFn(helpOnboarding)
		case a.isLoggedIn():
			printlnFn(helpActive)
		default:
			printlnFn(helpAnonymous)
		}
		return nil
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "onboarding":
		return a.Onboarding(ctx, args)
	case "logout":
		return a.Logout(ctx)
	case "online":
		return a.SetOnline(ctx, true)
	case "offline":
		return a.SetOnline(ctx, false)
	}

	if !a.isLoggedIn() {
		if a.isOnboarding() {
			printlnFn("Finish onboarding first: onboarding complete")
		} else {
			printlnFn("Please login first")
		}
		return nil
	}

	switch cmd {
	case "dashboard", "kpis":
		return a.Dashboard(ctx)
	case "goto":
		return a.Navigate(ctx, args)
	case "areas":
		return a.Areas(ctx)
	case "toggle":
		return a.ToggleArea(ctx, args)
	case "activate":
		return a.Activate(ctx, args)
	case "deactivate":
		return a.Deactivate(ctx, args)
	case "createarea":
		return a.CreateArea(ctx)
	case "deletearea":
		return a.DeleteArea(ctx, args)
	case "rfps":
		return a.RFPs(ctx, args)
	case "find":
		return a.Find(ctx, args)
	case "status":
		return a.SetStatus(ctx, args)
	case "bulk":
		return a.Bulk(ctx, args)
	case "users":
		return a.Users(ctx, args)
	case "invite":
		return a.Invite(ctx)
	case "userstatus":
		return a.UserStatus(ctx, args)
	case "deleteuser":
		return a.DeleteUser(ctx, args)
	case "audit":
		return a.Audit(ctx, args)
	case "export":
		return a.Export(ctx)
	case "backup":
		return a.Backup(ctx)
	case "clearcache":
		return a.ClearCache(ctx)
	case "sync":
		return a.Sync(ctx)
	default:
		printlnFn("Unknown command:", cmd)
		return nil
	}
}

func report(err error) {
	switch {
	case err == nil:
	case errors.Is(err, errUsage):
		printlnFn(err.Error())
	case errors.Is(err, common.ErrForbidden):
		printlnFn("Permission denied:", err)
	default:
		printlnFn("Error:", err)
	}
}
