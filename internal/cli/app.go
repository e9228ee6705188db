package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/rfpmonitor/internal/app"
	"github.com/dmitrijs2005/rfpmonitor/internal/debounce"
	"github.com/dmitrijs2005/rfpmonitor/internal/logging"
	"github.com/dmitrijs2005/rfpmonitor/internal/notify"
	"github.com/dmitrijs2005/rfpmonitor/internal/session"
)

// Prompt helpers, swappable in tests.
var (
	getSimpleText  = GetSimpleText
	getDefaultText = GetDefaultText
	getPassword    = GetPassword
)

var errUsage = errors.New("usage")

func usage(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// Syncer is the part of the sync coordinator the CLI drives.
type Syncer interface {
	SetOnline(ctx context.Context, online bool) error
	SyncNow(ctx context.Context) error
	Online() bool
	LastSync() time.Time
}

// Console serialises CLI output. Notifications from background work such
// as sync share it with command output.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// Stdout is the console the REPL prints to.
var Stdout = NewConsole(os.Stdout)

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.w.Write(p)
}

func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c, format, args...)
}

func (c *Console) Println(a ...any) (int, error) {
	return fmt.Fprintln(c, a...)
}

// Notify prints a notification as "[level] message".
func (c *Console) Notify(_ context.Context, level notify.Level, message string) {
	c.Printf("[%s] %s\n", level, message)
}

type App struct {
	svc     *app.Service
	session *session.Manager
	syncer  Syncer
	log     logging.Logger

	reader *bufio.Reader
	out    *Console

	finder *debounce.Debouncer
}

// NewApp wires the CLI to an engine. Commands read from in and write to
// out; filterDelay debounces the find command.
func NewApp(out *Console, in io.Reader, svc *app.Service, sess *session.Manager, s Syncer, log logging.Logger, filterDelay time.Duration) *App {
	return &App{
		svc:     svc,
		session: sess,
		syncer:  s,
		log:     log.With("component", "cli"),
		reader:  bufio.NewReader(in),
		out:     out,
		finder:  debounce.New(filterDelay),
	}
}

func (a *App) printf(format string, args ...any) {
	a.out.Printf(format, args...)
}

func (a *App) isLoggedIn() bool {
	return a.session.Phase() == session.PhaseActive
}

func (a *App) isOnboarding() bool {
	return a.session.Phase() == session.PhaseOnboarding
}

func (a *App) getStatus() string {
	s := ""
	if u, ok := a.session.Current(); ok {
		s = u.Email + " "
	}
	s += string(a.session.Phase())
	if a.syncer != nil {
		if a.syncer.Online() {
			s += " online"
		} else {
			s += " offline"
		}
	}
	return fmt.Sprintf("(%s)", s)
}

// Run runs the REPL on the app's input until exit or EOF.
func (a *App) Run(ctx context.Context) {
	defer a.finder.Cancel()

	printlnFn("Welcome to RFP Monitor (type 'help' for commands)")
	if u, ok := a.session.Current(); ok {
		printlnFn("Welcome back,", u.Name)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
