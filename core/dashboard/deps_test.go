package dashboard

import (
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/core/school"
	"github.com/trezcool/masomo-dashboard/core/view"
	"github.com/trezcool/masomo-dashboard/services/api"
	"github.com/trezcool/masomo-dashboard/services/email"
	"github.com/trezcool/masomo-dashboard/tests"
)

// seedDay is "today" for every view under test, so that the seeded records are today's.
var seedDay = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestDeps(t *testing.T) (*testutil.FakeAPI, Deps, *emailsvc.ConsoleService) {
	t.Helper()
	fake := testutil.NewFakeAPI(t)
	mailer := emailsvc.NewConsoleServiceMock(&core.Config{AppName: "Masomo", DefaultFromEmail: "noreply@masomo.cd"})
	deps := Deps{
		API:      fake.Client(t),
		Validate: school.NewValidator(core.NewTranslator("en")),
		Mailer:   mailer,
		AppName:  "Masomo",
		NowFunc:  func() time.Time { return seedDay },
	}
	return fake, deps, mailer
}

func TestSettle(t *testing.T) {
	boom := &apisvc.APIError{StatusCode: http.StatusInternalServerError, Message: "boom"}
	expired := &apisvc.APIError{StatusCode: http.StatusUnauthorized, Message: "expired"}

	tests := []struct {
		name      string
		failures  view.Failures
		required  []string
		wantNames []string
		wantErr   bool
		wantAuth  bool
	}{
		{name: "no failure", failures: view.Failures{}},
		{name: "optional failure", failures: view.Failures{"classes": boom}, wantNames: []string{"classes"}},
		{name: "two optional failures", failures: view.Failures{"students": boom, "classes": boom}, wantNames: []string{"classes", "students"}},
		{name: "required failure", failures: view.Failures{"records": boom}, required: []string{"records"}, wantErr: true},
		{name: "every call failed", failures: view.Failures{"a": boom, "b": boom, "c": boom}, wantErr: true},
		{name: "unauthorized optional call", failures: view.Failures{"classes": expired}, wantErr: true, wantAuth: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			names, err := settle(tc.failures, 3, tc.required...)
			if tc.wantErr {
				require.Error(t, err)
				assert.Equal(t, tc.wantAuth, apisvc.IsUnauthorized(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantNames, names)
		})
	}
}

func TestNumKey(t *testing.T) {
	values := []float64{250, -20, 0, 1234567.5, -1500.25, 0.5, -0.5, 99.99}
	keys := make([]string, len(values))
	for i, v := range values {
		keys[i] = numKey(v)
	}
	sort.Strings(keys)

	want := []float64{-1500.25, -20, -0.5, 0, 0.5, 99.99, 250, 1234567.5}
	for i, v := range want {
		assert.Equal(t, numKey(v), keys[i], "position %d", i)
	}
}
