package view

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPoller_interval(t *testing.T) {
	_, err := NewPoller(10*time.Millisecond, func(ctx context.Context) error { return nil }, nil)
	assert.Error(t, err)
}

func TestPoller_PauseResume(t *testing.T) {
	var refreshes int32
	p, err := NewPoller(time.Minute, func(ctx context.Context) error {
		atomic.AddInt32(&refreshes, 1)
		return nil
	}, nil)
	require.NoError(t, err)
	defer p.Stop()

	p.tick()
	assert.EqualValues(t, 1, atomic.LoadInt32(&refreshes))

	p.Pause()
	assert.True(t, p.Paused())
	p.tick()
	assert.EqualValues(t, 1, atomic.LoadInt32(&refreshes), "paused ticks are suppressed")

	require.NoError(t, p.Resume())
	assert.False(t, p.Paused())
	assert.EqualValues(t, 2, atomic.LoadInt32(&refreshes), "resume refreshes immediately")

	p.tick()
	assert.EqualValues(t, 3, atomic.LoadInt32(&refreshes))
}

func TestPoller_Stop(t *testing.T) {
	started := make(chan struct{})
	finished := make(chan error, 1)
	p, err := NewPoller(time.Minute, func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}, nil)
	require.NoError(t, err)
	p.Start()

	go func() { finished <- p.Refresh() }()
	<-started
	p.Stop()

	select {
	case err := <-finished:
		assert.Equal(t, context.Canceled, err)
	case <-time.After(2 * time.Second):
		t.Fatal("in-flight refresh was not cancelled")
	}
	assert.Error(t, p.Refresh())
	p.Stop() // no-op
}
