package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/core/school"
	"github.com/trezcool/masomo-dashboard/services/api"
	"github.com/trezcool/masomo-dashboard/storage/session"
)

const contextSessionKey = "session"

func contextSession(ctx echo.Context) (session.Session, bool) {
	sess, ok := ctx.Get(contextSessionKey).(session.Session)
	return sess, ok
}

// loadSession returns the session named by the request cookie, or errNoSession.
func loadSession(ctx echo.Context, deps *Deps) (session.Session, error) {
	cookie, err := ctx.Cookie(deps.Conf.Session.CookieName)
	if err != nil || cookie.Value == "" {
		return session.Session{}, errNoSession
	}
	sess, err := deps.Sessions.Get(ctx.Request().Context(), cookie.Value)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return session.Session{}, errNoSession
		}
		return session.Session{}, errors.Wrap(err, "loading session")
	}
	return sess, nil
}

// sessionMiddleware requires a live session. The session is set on the echo context and its
// token on the request context, for the API client.
func sessionMiddleware(deps *Deps) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sess, err := loadSession(ctx, deps)
			if err != nil {
				return err
			}
			ctx.Set(contextSessionKey, sess)
			req := ctx.Request()
			ctx.SetRequest(req.WithContext(apisvc.WithToken(req.Context(), sess.Token)))
			return next(ctx)
		}
	}
}

// roleMiddleware only lets the given roles through. Must run after sessionMiddleware.
func roleMiddleware(roles ...school.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sess, ok := contextSession(ctx)
			if !ok {
				return errNoSession
			}
			if len(roles) == 0 || sess.Role.In(roles...) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

func sessionCookie(deps *Deps, sess session.Session) *http.Cookie {
	return &http.Cookie{
		Name:     deps.Conf.Session.CookieName,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   deps.Conf.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func clearCookie(deps *Deps) *http.Cookie {
	return &http.Cookie{
		Name:     deps.Conf.Session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   deps.Conf.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// endSession deletes the request's session, its views and its cookie. Best effort.
func endSession(ctx echo.Context, deps *Deps) {
	if cookie, err := ctx.Cookie(deps.Conf.Session.CookieName); err == nil && cookie.Value != "" {
		if err := deps.Sessions.Delete(ctx.Request().Context(), cookie.Value); err != nil {
			deps.Logger.Warn("deleting session", err)
		}
		deps.Views.Remove(cookie.Value)
	}
	ctx.SetCookie(clearCookie(deps))
}
