package echoapi

import (
	"context"
	"net/http"
	"net/mail"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/core/dashboard"
	"github.com/trezcool/masomo-dashboard/core/school"
	"github.com/trezcool/masomo-dashboard/core/view"
	"github.com/trezcool/masomo-dashboard/services/api"
)

type (
	ReportEmailRequest struct {
		Recipients []string `json:"recipients" validate:"required,min=1,dive,email"`
	}

	VisibilityRequest struct {
		Visible bool `json:"visible"`
	}
)

// reports

func (api *viewsApi) loadReport(ctx echo.Context, vs *dashboard.Views) (view.Snapshot[dashboard.ReportData], error) {
	var filter school.ReportFilter
	if err := bindQuery(ctx, &filter); err != nil {
		return view.Snapshot[dashboard.ReportData]{}, err
	}
	return vs.Reports.Load(ctx.Request().Context(), school.ReportKind(ctx.Param("kind")), filter)
}

func (api *viewsApi) report(ctx echo.Context) error {
	vs, _, err := api.views(ctx)
	if err != nil {
		return err
	}
	snap, err := api.loadReport(ctx, vs)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snap)
}

func (api *viewsApi) exportReport(ctx echo.Context) error {
	vs, _, err := api.views(ctx)
	if err != nil {
		return err
	}
	format, err := exportFormat(ctx)
	if err != nil {
		return err
	}
	snap, err := api.loadReport(ctx, vs)
	if err != nil {
		return err
	}
	return sendTable(ctx, ctx.Param("kind")+"-report", format, vs.Reports.TableOf(snap), api.deps.now())
}

func (api *viewsApi) emailReport(ctx echo.Context) error {
	vs, _, err := api.views(ctx)
	if err != nil {
		return err
	}
	var filter school.ReportFilter
	if err := bindQuery(ctx, &filter); err != nil {
		return err
	}
	var data ReportEmailRequest
	if err := bindBody(ctx, &data, "ReportEmailRequest"); err != nil {
		return err
	}
	if err := api.deps.Validate.Struct(&data); err != nil {
		return err
	}

	to := make([]mail.Address, 0, len(data.Recipients))
	for _, r := range data.Recipients {
		to = append(to, mail.Address{Address: core.CleanString(r, true /* lower */)})
	}
	if err := vs.Reports.Email(ctx.Request().Context(), school.ReportKind(ctx.Param("kind")), filter, to...); err != nil {
		return err
	}
	return ctx.JSON(http.StatusAccepted, echo.Map{"sent": len(to)})
}

// settings

func (api *viewsApi) settings(ctx echo.Context) error {
	vs, _, err := api.views(ctx)
	if err != nil {
		return err
	}
	snap, err := vs.Settings.Load(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snap)
}

func (api *viewsApi) saveSettings(ctx echo.Context) error {
	vs, _, err := api.views(ctx)
	if err != nil {
		return err
	}
	var data school.Settings
	if err := bindBody(ctx, &data, "Settings"); err != nil {
		return err
	}
	snap, err := vs.Settings.Save(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snap)
}

// system

// system returns the latest polled overview. The first call loads it and starts the poller,
// which keeps using the session token until the session ends.
func (api *viewsApi) system(ctx echo.Context) error {
	vs, _, err := api.views(ctx)
	if err != nil {
		return err
	}
	if !vs.System.Polling() {
		snap, err := vs.System.Load(ctx.Request().Context())
		if err != nil {
			return err
		}
		token := apisvc.TokenFrom(ctx.Request().Context())
		decorate := func(c context.Context) context.Context { return apisvc.WithToken(c, token) }
		if err := vs.System.Poll(api.deps.Conf.PollInterval, decorate); err != nil {
			return errors.Wrap(err, "starting system poller")
		}
		return ctx.JSON(http.StatusOK, snap)
	}

	snap := vs.System.Snapshot()
	if err := snap.Err(); err != nil && apisvc.IsUnauthorized(err) {
		return err
	}
	return ctx.JSON(http.StatusOK, snap)
}

func (api *viewsApi) refreshSystem(ctx echo.Context) error {
	vs, _, err := api.views(ctx)
	if err != nil {
		return err
	}
	snap, err := vs.System.Load(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snap)
}

func (api *viewsApi) systemVisibility(ctx echo.Context) error {
	vs, _, err := api.views(ctx)
	if err != nil {
		return err
	}
	var data VisibilityRequest
	if err := bindBody(ctx, &data, "VisibilityRequest"); err != nil {
		return err
	}
	snap, err := vs.System.SetVisible(ctx.Request().Context(), data.Visible)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snap)
}

func (api *viewsApi) stopSystem(ctx echo.Context) error {
	vs, _, err := api.views(ctx)
	if err != nil {
		return err
	}
	vs.System.Stop()
	return ctx.NoContent(http.StatusNoContent)
}

// directory

func (api *viewsApi) loadDirectory(ctx echo.Context, vs *dashboard.Views) (view.Snapshot[dashboard.DirectoryData], error) {
	var filter school.UserFilter
	if err := bindQuery(ctx, &filter); err != nil {
		return view.Snapshot[dashboard.DirectoryData]{}, err
	}
	return vs.Directory.Load(ctx.Request().Context(), filter, ordering(ctx))
}

func (api *viewsApi) directory(ctx echo.Context) error {
	vs, _, err := api.views(ctx)
	if err != nil {
		return err
	}
	snap, err := api.loadDirectory(ctx, vs)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snap)
}

func (api *viewsApi) exportUsers(ctx echo.Context) error {
	vs, _, err := api.views(ctx)
	if err != nil {
		return err
	}
	format, err := exportFormat(ctx)
	if err != nil {
		return err
	}
	snap, err := api.loadDirectory(ctx, vs)
	if err != nil {
		return err
	}
	return sendTable(ctx, "users", format, vs.Directory.TableOf(snap), api.deps.now())
}

func (api *viewsApi) createUser(ctx echo.Context) error {
	vs, _, err := api.views(ctx)
	if err != nil {
		return err
	}
	var data school.NewUser
	if err := bindBody(ctx, &data, "NewUser"); err != nil {
		return err
	}
	snap, err := vs.Directory.CreateUser(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, snap)
}

func (api *viewsApi) updateUser(ctx echo.Context) error {
	vs, _, err := api.views(ctx)
	if err != nil {
		return err
	}
	var data school.UpdateUser
	if err := bindBody(ctx, &data, "UpdateUser"); err != nil {
		return err
	}
	snap, err := vs.Directory.UpdateUser(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snap)
}

func (api *viewsApi) deleteUser(ctx echo.Context) error {
	vs, viewer, err := api.views(ctx)
	if err != nil {
		return err
	}
	if ctx.Param("id") == viewer.ID {
		return core.NewValidationError(errors.New("you cannot delete your own account"))
	}
	snap, err := vs.Directory.DeleteUser(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snap)
}

func (api *viewsApi) createClass(ctx echo.Context) error {
	vs, _, err := api.views(ctx)
	if err != nil {
		return err
	}
	var data school.NewClass
	if err := bindBody(ctx, &data, "NewClass"); err != nil {
		return err
	}
	snap, err := vs.Directory.CreateClass(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, snap)
}

func (api *viewsApi) deleteClass(ctx echo.Context) error {
	vs, _, err := api.views(ctx)
	if err != nil {
		return err
	}
	snap, err := vs.Directory.DeleteClass(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snap)
}

func (api *viewsApi) addStudent(ctx echo.Context) error {
	vs, _, err := api.views(ctx)
	if err != nil {
		return err
	}
	var data school.RosterChange
	if err := bindBody(ctx, &data, "RosterChange"); err != nil {
		return err
	}
	snap, err := vs.Directory.AddStudent(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snap)
}

func (api *viewsApi) removeStudent(ctx echo.Context) error {
	vs, _, err := api.views(ctx)
	if err != nil {
		return err
	}
	snap, err := vs.Directory.RemoveStudent(ctx.Request().Context(), ctx.Param("id"), ctx.Param("student_id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snap)
}

// importRoster takes an XLSX upload in the `file` field.
func (api *viewsApi) importRoster(ctx echo.Context) error {
	vs, _, err := api.views(ctx)
	if err != nil {
		return err
	}
	fh, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: "an .xlsx file is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening upload")
	}
	defer func() { _ = f.Close() }()

	res, err := vs.Directory.ImportRoster(ctx.Request().Context(), ctx.Param("id"), f)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"result": res, "view": vs.Directory.Snapshot()})
}
