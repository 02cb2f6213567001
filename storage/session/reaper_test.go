package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-dashboard/storage/session"
	"github.com/trezcool/masomo-dashboard/storage/session/inmem"
)

type logEntry struct {
	level string
	msg   string
}

type recordingLogger struct {
	entries []logEntry
}

func (l *recordingLogger) add(level, msg string) { l.entries = append(l.entries, logEntry{level, msg}) }

func (l *recordingLogger) Debug(msg string, _ ...interface{}) { l.add("debug", msg) }
func (l *recordingLogger) Info(msg string, _ ...interface{})  { l.add("info", msg) }
func (l *recordingLogger) Warn(msg string, _ ...interface{})  { l.add("warn", msg) }
func (l *recordingLogger) Error(msg string, _ ...interface{}) { l.add("error", msg) }
func (l *recordingLogger) Fatal(msg string, _ ...interface{}) { l.add("fatal", msg) }

type failingReaper struct{}

func (failingReaper) DeleteExpired(context.Context) (int64, error) {
	return 0, errors.New("db down")
}

type nonReaper struct{ session.Store }

func TestReap(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	offset := time.Duration(0)
	store := inmem.NewStore()
	store.NowFunc = func() time.Time { return time.Now().Add(offset) }

	require.NoError(t, store.Save(ctx, session.New("a", now, time.Time{}, time.Minute)))
	require.NoError(t, store.Save(ctx, session.New("b", now, time.Time{}, time.Hour)))
	offset = 10 * time.Minute

	logger := new(recordingLogger)
	session.Reap(store, time.Second, logger)
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, []logEntry{{"info", "reaped 1 expired sessions"}}, logger.entries)

	session.Reap(store, time.Second, logger)
	assert.Len(t, logger.entries, 1, "nothing to reap, nothing logged")

	session.Reap(failingReaper{}, time.Second, logger)
	assert.Equal(t, logEntry{"error", "reaping expired sessions"}, logger.entries[1])
}

func TestStartReaper(t *testing.T) {
	logger := new(recordingLogger)

	c, err := session.StartReaper(nonReaper{}, session.ReaperSchedule, time.Second, logger)
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = session.StartReaper(inmem.NewStore(), "not a schedule", time.Second, logger)
	assert.Error(t, err)

	c, err = session.StartReaper(inmem.NewStore(), session.ReaperSchedule, time.Second, logger)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Len(t, c.Entries(), 1)
	<-c.Stop().Done()
}

func TestStartReaper_after(t *testing.T) {
	var calls int
	var hasDeadline bool
	after := func(ctx context.Context) {
		calls++
		_, hasDeadline = ctx.Deadline()
	}

	c, err := session.StartReaper(nonReaper{}, session.ReaperSchedule, time.Second, new(recordingLogger), after)
	require.NoError(t, err)
	require.NotNil(t, c, "a store that expires on its own still runs the hooks")
	defer func() { <-c.Stop().Done() }()

	require.Len(t, c.Entries(), 1)
	c.Entries()[0].Job.Run()
	assert.Equal(t, 1, calls)
	assert.True(t, hasDeadline)
}
