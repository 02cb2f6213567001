package echoapi

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/core/school"
	"github.com/trezcool/masomo-dashboard/services/api"
	"github.com/trezcool/masomo-dashboard/storage/session"
)

//go:embed templates/login.gohtml
var templatesFS embed.FS

var loginTmpl = template.Must(template.ParseFS(templatesFS, "templates/login.gohtml"))

type (
	LoginRequest struct {
		Username string `json:"username" form:"username" validate:"required,notblank"`
		Password string `json:"password" form:"password" validate:"required"`
	}

	LoginResponse struct {
		User      school.User `json:"user"`
		ExpiresAt string      `json:"expires_at"`
	}

	loginPage struct {
		AppName  string
		Locale   string
		Username string
		Error    string
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Username = core.CleanString(lr.Username)
	return validate.Struct(lr)
}

type authApi struct {
	deps *Deps
}

func registerAuthRoutes(e *echo.Echo, deps *Deps) {
	api := authApi{deps: deps}

	e.GET("/login", api.loginPage)
	e.POST("/login", api.login)
	e.POST("/logout", api.logout)
	e.GET("/me", api.me, sessionMiddleware(deps))
}

func (api *authApi) renderLogin(ctx echo.Context, code int, page loginPage) error {
	page.AppName = api.deps.Conf.AppName
	page.Locale = api.deps.Translator.Locale()
	ctx.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	ctx.Response().WriteHeader(code)
	return loginTmpl.Execute(ctx.Response(), page)
}

func (api *authApi) loginPage(ctx echo.Context) error {
	return api.renderLogin(ctx, http.StatusOK, loginPage{})
}

// login exchanges the credentials for an API token and keeps it in a new session.
// Form posts from the login page are redirected; JSON calls get the user back.
func (api *authApi) login(ctx echo.Context) error {
	fromForm := !isJSON(ctx.Request())

	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		if fromForm {
			return api.renderLogin(ctx, http.StatusBadRequest, loginPage{Username: data.Username, Error: "Username and password are required."})
		}
		return err
	}

	reqCtx := ctx.Request().Context()
	res, err := api.deps.Auth.Login(reqCtx, apisvc.Credentials{Username: data.Username, Password: data.Password})
	if err != nil {
		if code := apisvc.StatusCode(err); code == http.StatusUnauthorized || code == http.StatusBadRequest {
			var apiErr *apisvc.APIError
			_ = errors.As(err, &apiErr)
			if fromForm {
				return api.renderLogin(ctx, http.StatusUnauthorized, loginPage{Username: data.Username, Error: apiErr.Message})
			}
			// not the 401 rule: there is no session to end yet
			return echo.NewHTTPError(http.StatusUnauthorized, apiErr.Message)
		}
		return errors.Wrap(err, "logging in")
	}

	sess, err := api.newSession(res)
	if err != nil {
		return err
	}
	if err := api.deps.Sessions.Save(reqCtx, sess); err != nil {
		return errors.Wrap(err, "saving session")
	}
	ctx.SetCookie(sessionCookie(api.deps, sess))

	if fromForm {
		return ctx.Redirect(http.StatusSeeOther, "/")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{User: res.User, ExpiresAt: sess.ExpiresAt.Format(timeLayout)})
}

// newSession fills a session from the token claims, falling back to the user the API returned.
func (api *authApi) newSession(res apisvc.AuthResponse) (session.Session, error) {
	claims, err := apisvc.ParseTokenClaims(res.Token)
	if err != nil {
		return session.Session{}, errors.Wrap(err, "reading token")
	}

	sess := session.New(res.Token, api.deps.now(), claims.ExpiresAt, api.deps.Conf.Session.TTL)
	sess.UserID = claims.UserID
	sess.Name = claims.Name
	sess.Email = claims.Email
	sess.Role = claims.Role
	if sess.UserID == "" {
		sess.UserID = res.User.ID
	}
	if sess.Name == "" {
		sess.Name = res.User.Name()
	}
	if sess.Email == "" {
		sess.Email = res.User.Email
	}
	if sess.Role == "" {
		sess.Role = res.User.Role
	}
	if !sess.Role.Valid() {
		return session.Session{}, echo.NewHTTPError(http.StatusForbidden, core.MsgForbidden)
	}
	return sess, nil
}

// logout ends the session even when the API could not be told.
func (api *authApi) logout(ctx echo.Context) error {
	if sess, err := loadSession(ctx, api.deps); err == nil {
		reqCtx := apisvc.WithToken(ctx.Request().Context(), sess.Token)
		if err := api.deps.Auth.Logout(reqCtx); err != nil && !apisvc.IsUnauthorized(err) {
			api.deps.Logger.Warn("API logout failed", err, sess.Person())
		}
	}
	endSession(ctx, api.deps)
	return ctx.NoContent(http.StatusNoContent)
}

func (api *authApi) me(ctx echo.Context) error {
	usr, err := api.deps.Auth.Verify(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "verifying session")
	}
	return ctx.JSON(http.StatusOK, usr)
}
