package echoapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/core/dashboard"
	"github.com/trezcool/masomo-dashboard/core/school"
	"github.com/trezcool/masomo-dashboard/services/email"
	"github.com/trezcool/masomo-dashboard/services/logger"
	"github.com/trezcool/masomo-dashboard/storage/session/inmem"
	"github.com/trezcool/masomo-dashboard/tests"
)

const cookieName = "masomo_session"

// seedDay makes the seeded attendance records today's.
var seedDay = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

type testApp struct {
	*Server
	fake     *testutil.FakeAPI
	sessions *inmem.Store
	views    *dashboard.Registry
	mailer   *emailsvc.ConsoleService
}

func setup(t *testing.T) *testApp {
	t.Helper()
	conf := &core.Config{
		Env:          "TEST",
		TestMode:     true,
		AppName:      "Masomo",
		PollInterval: time.Hour,
		Server:       core.ServerConfig{DisableReqLogs: true},
		Session:      core.SessionConfig{CookieName: cookieName, TTL: time.Hour},
	}
	translator := core.NewTranslator("en")
	validate := school.NewValidator(translator)
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)

	fake := testutil.NewFakeAPI(t)
	client := fake.Client(t)
	mailer := emailsvc.NewConsoleServiceMock(conf)
	views := dashboard.NewRegistry(dashboard.Deps{
		API:      client,
		Validate: validate,
		Mailer:   mailer,
		Logger:   logger,
		AppName:  conf.AppName,
		NowFunc:  func() time.Time { return seedDay },
	})
	sessions := inmem.NewStore()

	srv := NewServer(&Deps{
		Conf:       conf,
		Logger:     logger,
		Translator: translator,
		Validate:   validate,
		Sessions:   sessions,
		Auth:       client,
		Views:      views,
	})
	t.Cleanup(views.Close)
	return &testApp{Server: srv, fake: fake, sessions: sessions, views: views, mailer: mailer}
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	return data
}

func newRequest(method, path string, data ...[]byte) *http.Request {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req
}

// do serves req, with the session cookie when cookie is not nil.
func (app *testApp) do(req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

// login logs in the seeded user and returns the session cookie.
func (app *testApp) login(t *testing.T, email string) *http.Cookie {
	t.Helper()
	body := marshalObj(t, LoginRequest{Username: email, Password: testutil.Password})
	rec := app.do(newRequest(http.MethodPost, "/login", body), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	t.Fatal("login() set no session cookie")
	return nil
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
}

func findCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	return nil
}

func firstLine(s string) string {
	return strings.SplitN(s, "\n", 2)[0]
}
