package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualTimer struct {
	fn      func()
	stopped bool
}

func (m *manualTimer) Stop() bool {
	was := !m.stopped
	m.stopped = true
	return was
}

type manual struct {
	timers []*manualTimer
	delays []time.Duration
}

func (m *manual) afterFunc(d time.Duration, f func()) Timer {
	t := &manualTimer{fn: f}
	m.timers = append(m.timers, t)
	m.delays = append(m.delays, d)
	return t
}

func TestTrigger_LastWins(t *testing.T) {
	m := &manual{}
	d := New(300*time.Millisecond, WithAfterFunc(m.afterFunc))

	var got []string
	d.Trigger(func() { got = append(got, "a") })
	d.Trigger(func() { got = append(got, "ab") })
	d.Trigger(func() { got = append(got, "abc") })

	require.Len(t, m.timers, 3)
	assert.True(t, m.timers[0].stopped)
	assert.True(t, m.timers[1].stopped)
	assert.False(t, m.timers[2].stopped)
	assert.Equal(t, 300*time.Millisecond, m.delays[2])
	assert.True(t, d.Pending())

	// a stopped timer whose callback races in anyway is ignored
	m.timers[0].fn()
	assert.Empty(t, got)

	m.timers[2].fn()
	assert.Equal(t, []string{"abc"}, got)
	assert.False(t, d.Pending())
}

func TestCancel(t *testing.T) {
	m := &manual{}
	d := New(time.Second, WithAfterFunc(m.afterFunc))

	ran := false
	d.Trigger(func() { ran = true })
	d.Cancel()

	assert.True(t, m.timers[0].stopped)
	m.timers[0].fn()
	assert.False(t, ran)
	assert.False(t, d.Pending())
}

func TestTrigger_ZeroDelayRunsInline(t *testing.T) {
	d := New(0)
	ran := false
	d.Trigger(func() { ran = true })
	assert.True(t, ran)
}

func TestTrigger_RealTimer(t *testing.T) {
	d := New(5 * time.Millisecond)
	var n atomic.Int32
	for range 5 {
		d.Trigger(func() { n.Add(1) })
	}
	assert.Eventually(t, func() bool { return n.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.EqualValues(t, 1, n.Load())
}
