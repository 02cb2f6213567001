package dig_container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/masomo-dashboard/apps/api/echo"
	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/core/dashboard"
	"github.com/trezcool/masomo-dashboard/storage/session"
	"github.com/trezcool/masomo-dashboard/storage/session/inmem"
)

func TestNew(t *testing.T) {
	t.Setenv("ENV", "TEST")
	t.Setenv("TEST_SESSION_STORE", "memory")
	t.Setenv("TEST_API_BASEURL", "http://localhost:5000/api")

	c := New()
	err := c.Invoke(func(
		conf *core.Config,
		sessions session.Store,
		closeStore Closer,
		views *dashboard.Registry,
		server *echoapi.Server,
	) {
		assert.True(t, conf.TestMode)
		assert.IsType(t, &inmem.Store{}, sessions)
		assert.Zero(t, views.Len())
		assert.NotNil(t, server)
		assert.NoError(t, closeStore())
		assert.NoError(t, server.Close())
	})
	require.NoError(t, err)
}
