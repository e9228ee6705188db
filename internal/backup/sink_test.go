package backup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSink struct {
	name string
	err  error

	mu  sync.Mutex
	got map[string][]byte
}

func (m *memSink) Name() string { return m.name }

func (m *memSink) Put(ctx context.Context, name string, body []byte) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.got == nil {
		m.got = map[string][]byte{}
	}
	m.got[name] = body
	return nil
}

func TestDirSink_Put(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	s := NewDirSink(dir)

	require.NoError(t, s.Put(context.Background(), "rfp-platform-export-2025-03-10.json", []byte(`{}`)))

	got, err := os.ReadFile(filepath.Join(dir, "rfp-platform-export-2025-03-10.json"))
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(got))
	assert.Equal(t, "dir:"+dir, s.Name())
}

func TestDirSink_NameCannotEscape(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "exports")
	s := NewDirSink(dir)

	require.NoError(t, s.Put(context.Background(), "../escape.json", []byte(`{}`)))

	_, err := os.Stat(filepath.Join(root, "escape.json"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "escape.json"))
	assert.NoError(t, err)
}

func TestDirSink_Unwritable(t *testing.T) {
	file := filepath.Join(t.TempDir(), "taken")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	err := NewDirSink(file).Put(context.Background(), "a.json", []byte(`{}`))
	require.Error(t, err)
}

func TestMulti_Put(t *testing.T) {
	a, b := &memSink{name: "a"}, &memSink{name: "b"}

	require.NoError(t, Multi{a, b}.Put(context.Background(), "x.json", []byte("1")))
	assert.Equal(t, []byte("1"), a.got["x.json"])
	assert.Equal(t, []byte("1"), b.got["x.json"])
}

func TestMulti_PutFailure(t *testing.T) {
	boom := errors.New("boom")
	a, b := &memSink{name: "a"}, &memSink{name: "b", err: boom}

	err := Multi{a, b}.Put(context.Background(), "x.json", []byte("1"))
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "b: boom")
	assert.Equal(t, []byte("1"), a.got["x.json"], "healthy sinks still receive the blob")
}
