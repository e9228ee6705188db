// Package monitor assembles the RFP monitor: persistence, session, domain
// service, sync coordinator, the optional metrics listener and the
// interactive CLI. Run blocks until the user exits or a signal arrives.
package monitor

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/rfpmonitor/internal/app"
	"github.com/dmitrijs2005/rfpmonitor/internal/audit"
	"github.com/dmitrijs2005/rfpmonitor/internal/backup"
	"github.com/dmitrijs2005/rfpmonitor/internal/cli"
	"github.com/dmitrijs2005/rfpmonitor/internal/config"
	"github.com/dmitrijs2005/rfpmonitor/internal/logging"
	"github.com/dmitrijs2005/rfpmonitor/internal/metrics"
	"github.com/dmitrijs2005/rfpmonitor/internal/seed"
	"github.com/dmitrijs2005/rfpmonitor/internal/session"
	"github.com/dmitrijs2005/rfpmonitor/internal/state"
	"github.com/dmitrijs2005/rfpmonitor/internal/store"
	"github.com/dmitrijs2005/rfpmonitor/internal/store/kv"
	"github.com/dmitrijs2005/rfpmonitor/internal/syncer"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	closer  io.Closer
	metrics *metrics.Metrics
	trail   *audit.Trail
	session *session.Manager
	service *app.Service
	syncer  *syncer.Coordinator
	cli     *cli.App
}

// Status is served on /status.
type Status struct {
	Phase     session.Phase `json:"phase"`
	User      string        `json:"user,omitempty"`
	Online    bool          `json:"online"`
	LastSync  *time.Time    `json:"lastSync,omitempty"`
	LastError string        `json:"lastError,omitempty"`
	AuditSize int           `json:"auditSize"`
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewTextLogger(os.Stderr, logging.ParseLevel(c.LogLevel))

	var (
		repo   kv.Repository
		closer io.Closer
	)
	db, err := kv.OpenSQLite(ctx, c.DatabasePath)
	if err != nil {
		logger.Warn(ctx, "persistent storage unavailable, running in memory", "path", c.DatabasePath, logging.Err(err))
		repo = kv.NewMemoryRepository(0)
	} else {
		repo, closer = db, db
	}

	m := metrics.New()
	console := cli.Stdout
	st := state.New()
	s := store.New(repo, c.SchemaVersion, logger)
	trail := audit.New(c.AuditCapacity)

	sess := session.NewManager(st, s, trail, logger, session.WithNotifier(console))

	var sink backup.Sink = backup.NewDirSink(c.ExportDir)
	if c.S3.Enabled() {
		sink = backup.Multi{sink, backup.NewS3Sink(c.S3)}
	}

	svc := app.New(st, s, sess, trail, seed.New(uint64(time.Now().UnixNano()), time.Now), logger,
		app.WithNotifier(console),
		app.WithMetrics(m),
		app.WithSink(sink),
		app.WithSyncLatency(c.SyncLatency),
		app.WithExportAuditLimit(c.ExportAuditLimit),
	)
	if err := svc.Bootstrap(ctx); err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, err
	}
	sess.Restore(ctx)

	coord := syncer.New(svc, c.SyncInterval, logger, syncer.WithNotifier(console), syncer.WithMetrics(m))

	return &App{
		config:  c,
		logger:  logger,
		closer:  closer,
		metrics: m,
		trail:   trail,
		session: sess,
		service: svc,
		syncer:  coord,
		cli:     cli.NewApp(console, os.Stdin, svc, sess, coord, logger, c.FilterDebounce),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) status() any {
	st := Status{
		Phase:     app.session.Phase(),
		Online:    app.syncer.Online(),
		AuditSize: app.trail.Len(),
	}
	if u, ok := app.session.Current(); ok {
		st.User = u.Email
	}
	if t, ok := app.service.LastSync(); ok {
		st.LastSync = &t
	}
	if err := app.syncer.LastError(); err != nil {
		st.LastError = err.Error()
	}
	return st
}

func (app *App) startMetricsServer(ctx context.Context) {
	if app.config.MetricsAddr == "" {
		return
	}
	app.logger.Info(ctx, "metrics listener started", "addr", app.config.MetricsAddr)
	if err := metrics.Serve(ctx, app.config.MetricsAddr, metrics.Router(app.metrics, app.status)); err != nil {
		app.logger.Error(ctx, "metrics listener stopped", logging.Err(err))
	}
}

// Run starts sync and the metrics listener, then hands the terminal to the
// CLI. It returns after the CLI exits or a signal arrives, with every
// background worker stopped.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	app.syncer.Start(ctx)
	if err := app.syncer.SetOnline(ctx, !app.config.StartOffline); err != nil {
		app.logger.Warn(ctx, "initial sync failed", logging.Err(err))
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startMetricsServer(ctx)
	}()

	cliDone := make(chan struct{})
	go func() {
		defer close(cliDone)
		app.cli.Run(ctx)
	}()

	select {
	case <-ctx.Done():
	case <-cliDone:
	}
	cancelFunc()

	app.syncer.Stop()
	wg.Wait()

	if app.closer != nil {
		if err := app.closer.Close(); err != nil {
			app.logger.Warn(ctx, "closing storage", logging.Err(err))
		}
	}
}
