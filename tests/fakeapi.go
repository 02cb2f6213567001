// Package testutil provides an in-memory fake of the school REST API for tests.
package testutil

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/trezcool/masomo-dashboard/core/school"
	"github.com/trezcool/masomo-dashboard/services/api"
)

// Password is the password of every seeded user.
const Password = "Secret#123"

// FakeAPI serves the school REST API under /api from in-memory collections.
// Collections may be modified directly by tests, under Lock/Unlock when the server is in use.
type FakeAPI struct {
	Server *httptest.Server

	mu            sync.Mutex
	Users         []school.User
	Classes       []school.Class
	Courses       []school.Course
	Schedules     []school.Schedule
	Grades        []school.Grade
	Attendances   []school.Attendance
	Payments      []school.Payment
	Relationships []school.Relationship
	Messages      []school.Message
	Settings      school.Settings
	Stats         school.AttendanceStats
	Status        school.SystemStatus
	Activity      []school.ActivityEntry
	Logs          []school.LogEntry

	tokens   map[string]string // token -> user ID
	failures map[string]int    // "METHOD /path" -> status
	calls    map[string]int
	nextID   int
}

// NewFakeAPI starts a seeded fake API, closed when the test ends.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()
	f := &FakeAPI{
		tokens:   make(map[string]string),
		failures: make(map[string]int),
		calls:    make(map[string]int),
	}
	f.seed()
	f.Server = httptest.NewServer(f.router())
	t.Cleanup(f.Server.Close)
	return f
}

func (f *FakeAPI) URL() string { return f.Server.URL + "/api" }

func (f *FakeAPI) Lock()   { f.mu.Lock() }
func (f *FakeAPI) Unlock() { f.mu.Unlock() }

// Client returns an API client pointed at the fake.
func (f *FakeAPI) Client(t *testing.T) *apisvc.Client {
	t.Helper()
	c, err := apisvc.NewClient(f.URL(), apisvc.WithTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("FakeAPI.Client() failed: %v", err)
	}
	return c
}

// Ctx returns a context carrying a valid token of the user.
func (f *FakeAPI) Ctx(userID string) context.Context {
	return apisvc.WithToken(context.Background(), f.TokenFor(userID))
}

// TokenFor issues a valid token for the user.
func (f *FakeAPI) TokenFor(userID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.issueToken(userID)
}

// Revoke invalidates every token of the user.
func (f *FakeAPI) Revoke(userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for tok, id := range f.tokens {
		if id == userID {
			delete(f.tokens, tok)
		}
	}
}

// FailWith makes the route ("GET /payments", "PUT /attendances/:id") answer with code.
func (f *FakeAPI) FailWith(route string, code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[route] = code
}

// Calls returns how many times the route was requested.
func (f *FakeAPI) Calls(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[route]
}

// SignToken signs an API-like token. The dashboard never verifies the signature.
func SignToken(usr school.User, exp time.Time) string {
	return signToken(usr, exp, "")
}

func signToken(usr school.User, exp time.Time, jti string) string {
	claims := jwt.MapClaims{
		"sub":   usr.ID,
		"name":  usr.Name(),
		"email": usr.Email,
		"role":  string(usr.Role),
		"iat":   time.Now().Unix(),
	}
	if !exp.IsZero() {
		claims["exp"] = exp.Unix()
	}
	if jti != "" {
		claims["jti"] = jti
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("fake-api-secret"))
	return token
}

func (f *FakeAPI) issueToken(userID string) string {
	usr, _ := f.user(userID)
	token := signToken(usr, time.Now().Add(24*time.Hour), f.newID("tok"))
	f.tokens[token] = userID
	return token
}

func (f *FakeAPI) newID(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *FakeAPI) user(id string) (school.User, bool) {
	for _, u := range f.Users {
		if u.ID == id {
			return u, true
		}
	}
	return school.User{}, false
}

func (f *FakeAPI) router() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			msg = fmt.Sprint(he.Message)
		}
		_ = c.JSON(code, map[string]string{"error": msg})
	}

	g := e.Group("/api", f.middleware)
	f.routes(g)
	return e
}

// middleware counts calls, injects failures and authenticates every route but login/register.
func (f *FakeAPI) middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		route := c.Request().Method + " " + strings.TrimPrefix(c.Path(), "/api")

		f.mu.Lock()
		f.calls[route]++
		code, fail := f.failures[route]
		f.mu.Unlock()
		if fail {
			return echo.NewHTTPError(code, "injected failure")
		}

		if route == "POST /auth/login" || route == "POST /auth/register" {
			return next(c)
		}
		token := strings.TrimPrefix(c.Request().Header.Get("Authorization"), "Bearer ")
		f.mu.Lock()
		userID, ok := f.tokens[token]
		f.mu.Unlock()
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}
		c.Set("userID", userID)
		return next(c)
	}
}
