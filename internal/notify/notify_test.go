package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	var r Recorder
	ctx := context.Background()

	_, ok := r.Last()
	assert.False(t, ok)

	r.Notify(ctx, Success, "saved")
	r.Notify(ctx, Warning, "Sync failed. Will retry later.")

	last, ok := r.Last()
	assert.True(t, ok)
	assert.Equal(t, Notification{Level: Warning, Message: "Sync failed. Will retry later."}, last)
	assert.Len(t, r.All(), 2)

	drained := r.Drain()
	assert.Len(t, drained, 2)
	assert.Empty(t, r.All())
}

func TestNotifierFunc(t *testing.T) {
	var got string
	n := NotifierFunc(func(_ context.Context, l Level, m string) { got = string(l) + ":" + m })
	n.Notify(context.Background(), Error, "denied")
	assert.Equal(t, "error:denied", got)

	assert.NotPanics(t, func() { Discard.Notify(context.Background(), Info, "x") })
}
