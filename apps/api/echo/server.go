// Package echoapi is the dashboard HTTP server. It holds the user's API token in a server side
// session and serves the view models of every screen as JSON, plus their exports.
package echoapi

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/core/dashboard"
	"github.com/trezcool/masomo-dashboard/core/school"
	"github.com/trezcool/masomo-dashboard/services/api"
	"github.com/trezcool/masomo-dashboard/storage/session"
)

// AuthAPI is the part of the API client used by the login flow.
type AuthAPI interface {
	Login(ctx context.Context, creds apisvc.Credentials) (apisvc.AuthResponse, error)
	Logout(ctx context.Context) error
	Verify(ctx context.Context) (school.User, error)
}

type Deps struct {
	Conf       *core.Config
	Logger     core.Logger
	Translator ut.Translator
	Validate   *validator.Validate
	Sessions   session.Store
	Auth       AuthAPI
	Views      *dashboard.Registry
	NowFunc    func() time.Time
}

func (d *Deps) now() time.Time {
	if d.NowFunc != nil {
		return d.NowFunc()
	}
	return time.Now()
}

type Server struct {
	deps     *Deps
	app      *echo.Echo
	errors   chan error
	shutdown chan os.Signal
}

func NewServer(deps *Deps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Server.ReadTimeout = conf.Server.ReadTimeout
	s.app.Server.WriteTimeout = conf.Server.WriteTimeout
	s.app.Logger.SetLevel(log.INFO)
	if conf.Debug {
		s.app.Logger.SetLevel(log.DEBUG)
	}

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", s.home)
	registerAuthRoutes(s.app, s.deps)
	registerViewRoutes(s.app.Group("/views", sessionMiddleware(s.deps)), s.deps)
}

// Start serves until Shutdown. A listen failure is sent to Errors.
func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error { return s.errors }

// ShutdownSignal receives SIGINT, SIGTERM, and the signal sent when a handler hits a shutdown error.
func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

// Shutdown stops accepting requests, waits for the outstanding ones, then stops every poller.
func (s *Server) Shutdown(ctx context.Context) error {
	defer s.deps.Views.Close()
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	defer s.deps.Views.Close()
	return s.app.Close()
}

// PruneViews drops the views of the sessions that are gone from the store, and of those left idle
// for longer than a session lives. It returns how many were dropped.
func (s *Server) PruneViews(ctx context.Context) int {
	idleSince := s.deps.now().Add(-s.deps.Conf.Session.TTL)
	n := s.deps.Views.Prune(func(id string, lastUsed time.Time) bool {
		if lastUsed.Before(idleSince) {
			return false
		}
		_, err := s.deps.Sessions.Get(ctx, id)
		if errors.Is(err, session.ErrNotFound) || errors.Is(err, session.ErrExpired) {
			return false
		}
		if err != nil {
			s.deps.Logger.Warn("checking session "+id, err)
		}
		return true
	})
	if n > 0 {
		s.deps.Logger.Info(fmt.Sprintf("dropped the views of %d ended sessions", n))
	}
	return n
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.app.ServeHTTP(w, r)
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.deps.Conf.AppName+" dashboard!")
}
