package inmem

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-dashboard/storage/session"
	"github.com/trezcool/masomo-dashboard/storage/session/sessiontest"
)

type clock struct {
	mu     sync.Mutex
	offset time.Duration
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Now().Add(c.offset)
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset += d
}

func TestStore(t *testing.T) {
	c := new(clock)
	store := NewStore()
	store.NowFunc = c.now

	sessiontest.RunStoreTests(t, store, c.advance)
}

func TestStore_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	c := new(clock)
	store := NewStore()
	store.NowFunc = c.now

	now := c.now()
	short := session.New("short", now, time.Time{}, time.Minute)
	long := session.New("long", now, time.Time{}, time.Hour)
	require.NoError(t, store.Save(ctx, short))
	require.NoError(t, store.Save(ctx, long))

	n, err := store.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	c.advance(10 * time.Minute)
	n, err = store.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, 1, store.Len())

	got, err := store.Get(ctx, long.ID)
	require.NoError(t, err)
	assert.Equal(t, "long", got.Token)
}
