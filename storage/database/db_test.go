package database

import (
	"io/fs"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-dashboard/core"
)

func TestURL(t *testing.T) {
	conf := core.DatabaseConfig{
		Engine:        "postgres",
		Host:          "db.local",
		Port:          5433,
		Name:          "masomo_dashboard",
		User:          "app",
		Password:      "s3cr3t",
		AdminUser:     "root",
		AdminPassword: "r00t",
	}

	tests := []struct {
		name     string
		admin    bool
		tls      bool
		wantUser string
		wantSSL  string
	}{
		{name: "app user", wantUser: "app", wantSSL: "require", tls: true},
		{name: "admin user", admin: true, wantUser: "root", wantSSL: "require", tls: true},
		{name: "no tls", wantUser: "app", wantSSL: "disable"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := conf
			c.DisableTLS = !tc.tls
			u, err := url.Parse(URL(c.Name, tc.admin, c))
			require.NoError(t, err)

			assert.Equal(t, "postgres", u.Scheme)
			assert.Equal(t, "db.local:5433", u.Host)
			assert.Equal(t, "/masomo_dashboard", u.Path)
			assert.Equal(t, tc.wantUser, u.User.Username())
			assert.Equal(t, tc.wantSSL, u.Query().Get("sslmode"))
			assert.Equal(t, "utc", u.Query().Get("timezone"))
		})
	}
}

func TestURL_adminFallback(t *testing.T) {
	conf := core.DatabaseConfig{Engine: "postgres", Host: "localhost", Port: 5432, User: "app"}
	u, err := url.Parse(URL("postgres", true, conf))
	require.NoError(t, err)
	assert.Equal(t, "app", u.User.Username())
}

func TestMigrations_embedded(t *testing.T) {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	require.NoError(t, err)
	assert.Contains(t, names, "migrations/00001_create_dashboard_sessions.sql")

	raw, err := fs.ReadFile(migrations, "migrations/00001_create_dashboard_sessions.sql")
	require.NoError(t, err)
	assert.Contains(t, string(raw), "-- +goose Up")
	assert.Contains(t, string(raw), "-- +goose Down")
}
