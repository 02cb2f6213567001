package dashboard

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/core/view"
	"github.com/trezcool/masomo-dashboard/services/api"
	"github.com/trezcool/masomo-dashboard/tests"
)

func TestSettingsView(t *testing.T) {
	fake, deps, _ := newTestDeps(t)
	ctx := fake.Ctx(testutil.AdminID)
	v := NewSettingsView(deps)

	snap, err := v.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Institut Masomo", snap.Data.General.SchoolName)

	t.Run("invalid", func(t *testing.T) {
		s := snap.Data
		s.General.SchoolName = "  "
		s.Academic.PassingGrade = 120
		got, err := v.Save(ctx, s)
		require.Error(t, err)
		fields, ok := core.TranslateErrors(err, core.NewTranslator("en"))
		require.True(t, ok)
		assert.Contains(t, fields, "school_name")
		assert.Contains(t, fields, "passing_grade")
		assert.Equal(t, "Institut Masomo", got.Data.General.SchoolName)
		assert.Zero(t, fake.Calls("PUT /settings"))
	})

	t.Run("saved", func(t *testing.T) {
		s := snap.Data
		s.General.SchoolName = "Institut Masomo II"
		s.Notifications.PaymentReminders = true
		got, err := v.Save(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, "Institut Masomo II", got.Data.General.SchoolName)
		assert.True(t, got.Data.Notifications.PaymentReminders)

		fake.Lock()
		defer fake.Unlock()
		assert.Equal(t, s, fake.Settings, "settings are saved whole")
	})

	t.Run("rejected by the API", func(t *testing.T) {
		fake.FailWith("PUT /settings", http.StatusInternalServerError)
		s := snap.Data
		s.General.SchoolName = "Other"
		got, err := v.Save(ctx, s)
		require.Error(t, err)
		assert.Equal(t, "Institut Masomo II", got.Data.General.SchoolName)
	})
}

func TestSystemView_Load(t *testing.T) {
	tests := []struct {
		name         string
		fail         []string
		wantState    view.State
		wantFailures []string
	}{
		{name: "all good", wantState: view.Ready},
		{name: "logs failed", fail: []string{"GET /system/logs"}, wantState: view.Ready, wantFailures: []string{"logs"}},
		{name: "everything failed", fail: []string{"GET /system/status", "GET /system/activity", "GET /system/logs"}, wantState: view.Error},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fake, deps, _ := newTestDeps(t)
			for _, route := range tc.fail {
				fake.FailWith(route, http.StatusServiceUnavailable)
			}
			snap, err := NewSystemView(deps).Load(fake.Ctx(testutil.AdminID))
			assert.Equal(t, tc.wantState, snap.State)
			if tc.wantState == view.Error {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantFailures, snap.Data.Failures)
			if !contains(tc.wantFailures, "status") {
				assert.Equal(t, "healthy", snap.Data.Status.Status)
			}
		})
	}
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func TestSystemView_Poll(t *testing.T) {
	fake, deps, _ := newTestDeps(t)
	token := fake.TokenFor(testutil.AdminID)
	withToken := func(ctx context.Context) context.Context { return apisvc.WithToken(ctx, token) }
	v := NewSystemView(deps)

	require.NoError(t, v.Poll(time.Second, withToken))
	require.NoError(t, v.Poll(time.Second, withToken), "polling twice is a no-op")
	assert.True(t, v.Polling())

	assert.Eventually(t, func() bool { return v.Snapshot().State == view.Ready }, 3*time.Second, 20*time.Millisecond)
	assert.Equal(t, "healthy", v.Snapshot().Data.Status.Status)

	_, err := v.SetVisible(context.Background(), false)
	require.NoError(t, err)

	fake.Lock()
	fake.Status.Status = "degraded"
	fake.Unlock()

	snap, err := v.SetVisible(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, "degraded", snap.Data.Status.Status, "showing the view refreshes it")

	v.Stop()
	assert.False(t, v.Polling())
	calls := fake.Calls("GET /system/status")
	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, calls, fake.Calls("GET /system/status"), "no refresh after Stop")
}

func TestSystemView_Poll_revokedToken(t *testing.T) {
	fake, deps, _ := newTestDeps(t)
	token := fake.TokenFor(testutil.AdminID)
	v := NewSystemView(deps)
	t.Cleanup(v.Stop)

	fake.Revoke(testutil.AdminID)
	require.NoError(t, v.Poll(time.Second, func(ctx context.Context) context.Context { return apisvc.WithToken(ctx, token) }))

	assert.Eventually(t, func() bool { return !v.Polling() }, 3*time.Second, 20*time.Millisecond, "a rejected token stops the polling")
	assert.Equal(t, view.Error, v.Snapshot().State)

	calls := fake.Calls("GET /system/status")
	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, calls, fake.Calls("GET /system/status"), "no refresh after the token was rejected")

	fresh := fake.TokenFor(testutil.AdminID)
	require.NoError(t, v.Poll(time.Second, func(ctx context.Context) context.Context { return apisvc.WithToken(ctx, fresh) }))
	assert.True(t, v.Polling(), "polling can start again with a valid token")
}

func TestRegistry(t *testing.T) {
	fake, deps, _ := newTestDeps(t)
	r := NewRegistry(deps)

	vs := r.Get("session-1")
	assert.Same(t, vs, r.Get("session-1"))
	assert.NotSame(t, vs, r.Get("session-2"))
	assert.Equal(t, 2, r.Len())

	token := fake.TokenFor(testutil.AdminID)
	require.NoError(t, vs.System.Poll(time.Second, func(ctx context.Context) context.Context { return apisvc.WithToken(ctx, token) }))
	_, err := vs.Settings.Load(fake.Ctx(testutil.AdminID))
	require.NoError(t, err)

	r.Remove("session-1")
	assert.Equal(t, 1, r.Len())
	assert.False(t, vs.System.Polling())
	assert.NotSame(t, vs, r.Get("session-1"), "a removed session starts over")

	r.Close()
	assert.Zero(t, r.Len())
}

func TestRegistry_Prune(t *testing.T) {
	fake, deps, _ := newTestDeps(t)
	now := seedDay
	deps.NowFunc = func() time.Time { return now }
	r := NewRegistry(deps)
	t.Cleanup(r.Close)

	stale := r.Get("stale")
	token := fake.TokenFor(testutil.AdminID)
	require.NoError(t, stale.System.Poll(time.Second, func(ctx context.Context) context.Context { return apisvc.WithToken(ctx, token) }))
	now = now.Add(time.Hour)
	live := r.Get("live")
	r.Get("gone")

	cutoff := now.Add(-30 * time.Minute)
	n := r.Prune(func(id string, lastUsed time.Time) bool {
		return id != "gone" && !lastUsed.Before(cutoff)
	})
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, r.Len())
	assert.Same(t, live, r.Get("live"))
	assert.False(t, stale.System.Polling(), "pruned views are closed")

	n = r.Prune(func(string, time.Time) bool { return true })
	assert.Zero(t, n)
	assert.Equal(t, 1, r.Len())
}
