package monitor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/rfpmonitor/internal/cli"
	"github.com/dmitrijs2005/rfpmonitor/internal/config"
	"github.com/dmitrijs2005/rfpmonitor/internal/logging"
	"github.com/dmitrijs2005/rfpmonitor/internal/metrics"
	"github.com/dmitrijs2005/rfpmonitor/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	c := &config.Config{}
	c.LoadDefaults()
	c.DatabasePath = filepath.Join(dir, "rfp.db")
	c.ExportDir = filepath.Join(dir, "exports")
	c.SyncInterval = time.Hour
	c.FilterDebounce = 0
	c.LogLevel = "error"
	return c
}

func TestNewApp_SeedsAndServesStatus(t *testing.T) {
	ctx := context.Background()
	a, err := NewApp(ctx, testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.closer.Close() })

	require.NotNil(t, a.closer, "expected the sqlite repository")
	assert.Equal(t, session.PhaseAnonymous, a.session.Phase())

	srv := httptest.NewServer(metrics.Router(a.metrics, a.status))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var st Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	assert.Equal(t, session.PhaseAnonymous, st.Phase)
	assert.False(t, st.Online)
	assert.Nil(t, st.LastSync)
}

func TestRun_SyncsAndPersistsAcrossRestart(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	a, err := NewApp(ctx, cfg)
	require.NoError(t, err)
	a.cli = cli.NewApp(cli.NewConsole(&strings.Builder{}), strings.NewReader("exit\n"),
		a.service, a.session, a.syncer, logging.Discard(), 0)

	done := make(chan struct{})
	go func() {
		defer close(done)
		a.Run(ctx)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after exit")
	}
	assert.False(t, a.syncer.Running())

	b, err := NewApp(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.closer.Close() })

	_, ok := b.service.LastSync()
	assert.True(t, ok, "last sync time should survive a restart")
}
