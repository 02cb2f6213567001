// Package sessiontest holds the behaviour every session.Store must have.
package sessiontest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-dashboard/core/school"
	"github.com/trezcool/masomo-dashboard/storage/session"
)

// RunStoreTests exercises store. expire makes the stored sessions look expired, eg. by moving
// the store clock or the server time forward.
func RunStoreTests(t *testing.T, store session.Store, expire func(d time.Duration)) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	newSession := func(ttl time.Duration) session.Session {
		s := session.New("token-"+time.Now().String(), now, time.Time{}, ttl)
		s.UserID = "u-t1"
		s.Name = "Amani Kabila"
		s.Email = "amani@masomo.cd"
		s.Role = school.RoleTeacher
		return s
	}

	t.Run("unknown", func(t *testing.T) {
		_, err := store.Get(ctx, "nope")
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("save and get", func(t *testing.T) {
		s := newSession(time.Hour)
		require.NoError(t, store.Save(ctx, s))

		got, err := store.Get(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, s.ID, got.ID)
		assert.Equal(t, s.Token, got.Token)
		assert.Equal(t, s.UserID, got.UserID)
		assert.Equal(t, s.Name, got.Name)
		assert.Equal(t, s.Email, got.Email)
		assert.Equal(t, s.Role, got.Role)
		assert.True(t, s.ExpiresAt.Equal(got.ExpiresAt))
	})

	t.Run("save replaces", func(t *testing.T) {
		s := newSession(time.Hour)
		require.NoError(t, store.Save(ctx, s))
		s.Token = "rotated"
		require.NoError(t, store.Save(ctx, s))

		got, err := store.Get(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, "rotated", got.Token)
	})

	t.Run("delete", func(t *testing.T) {
		s := newSession(time.Hour)
		require.NoError(t, store.Save(ctx, s))
		require.NoError(t, store.Delete(ctx, s.ID))
		_, err := store.Get(ctx, s.ID)
		assert.ErrorIs(t, err, session.ErrNotFound)

		assert.NoError(t, store.Delete(ctx, s.ID), "deleting twice is fine")
	})

	t.Run("invalid", func(t *testing.T) {
		s := newSession(time.Hour)
		s.Token = ""
		assert.Error(t, store.Save(ctx, s))
	})

	t.Run("expired", func(t *testing.T) {
		s := newSession(2 * time.Second)
		require.NoError(t, store.Save(ctx, s))
		expire(time.Minute)
		_, err := store.Get(ctx, s.ID)
		assert.ErrorIs(t, err, session.ErrNotFound)
	})
}
