package echoapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/core/view"
	"github.com/trezcool/masomo-dashboard/services/api"
)

const loginPath = "/login"

var (
	errNoSession     = errors.New("no session")
	errHttpForbidden = echo.NewHTTPError(http.StatusForbidden, core.MsgForbidden)
	errHttpStale     = echo.NewHTTPError(http.StatusConflict, "superseded by a newer request")
)

// wantsHTML tells browser navigations apart from the frontend's JSON calls.
func wantsHTML(req *http.Request) bool {
	if req.Header.Get(echo.HeaderXRequestedWith) == "XMLHttpRequest" {
		return false
	}
	return strings.Contains(req.Header.Get(echo.HeaderAccept), echo.MIMETextHTML)
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(deps *Deps, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}
		// the API rejected the token: the session is over
		if errors.Is(err, errNoSession) || apisvc.IsUnauthorized(err) {
			endSession(ctx, deps)
			msg := core.Localize(deps.Translator, core.MsgSessionExpired)
			if wantsHTML(ctx.Request()) {
				err = ctx.Redirect(http.StatusFound, loginPath)
			} else {
				err = ctx.JSON(http.StatusUnauthorized, echo.Map{"error": msg, "redirect": loginPath})
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
			return
		}

		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
			if key, ok := message.(string); ok {
				message = core.Localize(deps.Translator, key)
			}
		default:
			var apiErr *apisvc.APIError
			switch {
			case errors.Is(err, view.ErrStale):
				code = errHttpStale.Code
				message = errHttpStale.Message
			case errors.As(err, &apiErr):
				code = apiErr.StatusCode
				if code < 400 || code > 599 {
					code = http.StatusBadGateway
				}
				message = apiErr.Message
			default:
				if fldErrs, ok := core.TranslateErrors(err, deps.Translator); ok {
					code = http.StatusBadRequest
					message = fldErrs
					if len(fldErrs) == 0 {
						message = errors.Cause(err).Error()
					}
					break
				}

				// any other error is a server error
				code = http.StatusInternalServerError
				message = core.Localize(deps.Translator, core.MsgServerError)

				args := []interface{}{err}
				if sess, ok := contextSession(ctx); ok {
					args = append(args, sess.Person())
				}
				deps.Logger.Error(http.StatusText(code), args...)

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		if ctx.Echo().Debug && code >= http.StatusInternalServerError {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if ctx.Request().Method == http.MethodHead { // Issue #608
			err = ctx.NoContent(code)
		} else {
			err = ctx.JSON(code, message)
		}
		if err != nil {
			ctx.Echo().Logger.Error(err)
		}
	}
}
