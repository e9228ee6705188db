package audit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/rfpmonitor/internal/models"
	"github.com/dmitrijs2005/rfpmonitor/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	key   store.Key
	value any
	err   error
}

func (f *fakeWriter) Write(ctx context.Context, key store.Key, value any) error {
	f.key, f.value = key, value
	return f.err
}

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestRecord_PrependsNewestFirst(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	tr := New(10, WithClock(func() time.Time { return now }), WithIDs(seqIDs()))

	tr.Record(ActionUserLogin, "User A logged in", 1)
	e := tr.Record(ActionUserLogout, "User A logged out", 1)

	assert.Equal(t, "id-2", e.ID)
	assert.Equal(t, now, e.Timestamp)

	entries := tr.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, ActionUserLogout, entries[0].Action)
	assert.Equal(t, ActionUserLogin, entries[1].Action)
}

func TestRecord_TruncatesOldest(t *testing.T) {
	tr := New(3, WithIDs(seqIDs()))

	for i := 0; i < 5; i++ {
		tr.Record("Action", fmt.Sprint(i), models.SystemActor)
	}

	entries := tr.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"4", "3", "2"}, []string{entries[0].Details, entries[1].Details, entries[2].Details})
}

func TestNew_DefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultCapacity, New(0).Capacity())
}

func TestRecent(t *testing.T) {
	tr := New(10)
	for i := 0; i < 4; i++ {
		tr.Record("A", fmt.Sprint(i), 1)
	}

	assert.Len(t, tr.Recent(2), 2)
	assert.Equal(t, "3", tr.Recent(1)[0].Details)
	assert.Len(t, tr.Recent(0), 4)
	assert.Len(t, tr.Recent(100), 4)
}

func TestLoad_RespectsCapacity(t *testing.T) {
	tr := New(2)
	tr.Load([]models.AuditEntry{{ID: "a"}, {ID: "b"}, {ID: "c"}})

	assert.Equal(t, 2, tr.Len())
	assert.Equal(t, "a", tr.Entries()[0].ID)
}

func TestEntries_ReturnsCopy(t *testing.T) {
	tr := New(5)
	tr.Record("A", "x", 1)

	got := tr.Entries()
	got[0].Details = "mutated"
	assert.Equal(t, "x", tr.Entries()[0].Details)
}

func TestSave(t *testing.T) {
	tr := New(5)
	w := &fakeWriter{}

	require.NoError(t, tr.Save(context.Background(), w))
	assert.Equal(t, store.KeyAuditLog, w.key)
	assert.Equal(t, []models.AuditEntry{}, w.value)

	w.err = errors.New("disk full")
	assert.Error(t, tr.Save(context.Background(), w))
}

func TestRecord_Concurrent(t *testing.T) {
	tr := New(50)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				tr.Record("A", "", 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, tr.Len())
}
