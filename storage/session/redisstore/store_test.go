package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/storage/session"
	"github.com/trezcool/masomo-dashboard/storage/session/sessiontest"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), core.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client), mr
}

func TestStore(t *testing.T) {
	store, mr := newTestStore(t)
	sessiontest.RunStoreTests(t, store, mr.FastForward)
}

func TestStore_keyAndTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	sess := session.New("tok", time.Now(), time.Time{}, time.Hour)
	require.NoError(t, store.Save(ctx, sess))

	assert.True(t, mr.Exists("session:"+sess.ID))
	ttl := mr.TTL("session:" + sess.ID)
	assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 5)
}

func TestStore_corrupted(t *testing.T) {
	store, mr := newTestStore(t)
	require.NoError(t, mr.Set("session:bad", "{not json"))

	_, err := store.Get(context.Background(), "bad")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, session.ErrNotFound)
}

func TestConnect_unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Connect(ctx, core.RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
