package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/core/dashboard"
	"github.com/trezcool/masomo-dashboard/core/school"
	"github.com/trezcool/masomo-dashboard/core/view"
)

type viewsApi struct {
	deps *Deps
}

func registerViewRoutes(g *echo.Group, deps *Deps) {
	api := viewsApi{deps: deps}

	staff := roleMiddleware(school.RoleAdmin, school.RoleTeacher)
	admin := roleMiddleware(school.RoleAdmin)

	// every role
	g.GET("/dashboard", api.dashboard)

	mg := g.Group("/messages")
	mg.GET("", api.messages)
	mg.POST("", api.sendMessage)
	mg.POST("/:id/read", api.markMessageRead)
	mg.DELETE("/:id", api.deleteMessage)

	// admin & teachers
	ag := g.Group("/attendance", staff)
	ag.GET("", api.attendance)
	ag.PATCH("/:id", api.updateAttendance)
	ag.POST("/bulk", api.markClassAttendance)
	ag.GET("/export", api.exportAttendance)

	gg := g.Group("/grades", staff)
	gg.GET("", api.grades)
	gg.POST("", api.recordGrade)
	gg.PATCH("/:id", api.updateGrade)
	gg.GET("/export", api.exportGrades)

	// admin only
	fg := g.Group("/finance", admin)
	fg.GET("", api.finance)
	fg.POST("/payments", api.createPayment)
	fg.PATCH("/payments/:id", api.updatePayment)
	fg.DELETE("/payments/:id", api.deletePayment)
	fg.GET("/export", api.exportFinance)

	fa := g.Group("/family", admin)
	fa.GET("", api.family)
	fa.POST("", api.linkFamily)
	fa.DELETE("/:id", api.unlinkFamily)
	fa.GET("/export", api.exportFamily)

	rg := g.Group("/reports/:kind", admin)
	rg.GET("", api.report)
	rg.GET("/export", api.exportReport)
	rg.POST("/email", api.emailReport)

	sg := g.Group("/settings", admin)
	sg.GET("", api.settings)
	sg.PUT("", api.saveSettings)

	sy := g.Group("/system", admin)
	sy.GET("", api.system)
	sy.POST("/refresh", api.refreshSystem)
	sy.POST("/visibility", api.systemVisibility)
	sy.DELETE("", api.stopSystem)

	dg := g.Group("/directory", admin)
	dg.GET("/users", api.directory)
	dg.POST("/users", api.createUser)
	dg.PATCH("/users/:id", api.updateUser)
	dg.DELETE("/users/:id", api.deleteUser)
	dg.GET("/users/export", api.exportUsers)
	dg.GET("/classes", api.directory)
	dg.POST("/classes", api.createClass)
	dg.DELETE("/classes/:id", api.deleteClass)
	dg.POST("/classes/:id/students", api.addStudent)
	dg.DELETE("/classes/:id/students/:student_id", api.removeStudent)
	dg.POST("/classes/:id/import", api.importRoster)
}

// views returns the views of the request's session.
func (api *viewsApi) views(ctx echo.Context) (*dashboard.Views, dashboard.Viewer, error) {
	sess, ok := contextSession(ctx)
	if !ok {
		return nil, dashboard.Viewer{}, errNoSession
	}
	return api.deps.Views.Get(sess.ID), dashboard.Viewer{ID: sess.UserID, Role: sess.Role}, nil
}

func bindBody(ctx echo.Context, data interface{}, name string) error {
	if err := ctx.Bind(data); err != nil {
		var herr *echo.HTTPError
		if errors.As(err, &herr) && herr.Code == http.StatusBadRequest {
			return err
		}
		return errors.Wrapf(err, "binding to %s", name)
	}
	return nil
}

// dashboard

func (api *viewsApi) dashboard(ctx echo.Context) error {
	vs, viewer, err := api.views(ctx)
	if err != nil {
		return err
	}
	snap, err := vs.Dashboard.Load(ctx.Request().Context(), viewer)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snap)
}

// attendance

func (api *viewsApi) loadAttendance(ctx echo.Context, vs *dashboard.Views) (view.Snapshot[dashboard.AttendanceData], error) {
	var filter school.AttendanceFilter
	if err := bindQuery(ctx, &filter); err != nil {
		return view.Snapshot[dashboard.AttendanceData]{}, err
	}
	return vs.Attendance.Load(ctx.Request().Context(), filter, ordering(ctx))
}

func (api *viewsApi) attendance(ctx echo.Context) error {
	vs, _, err := api.views(ctx)
	if err != nil {
		return err
	}
	snap, err := api.loadAttendance(ctx, vs)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snap)
}

func (api *viewsApi) updateAttendance(ctx echo.Context) error {
	vs, _, err := api.views(ctx)
	if err != nil {
		return err
	}
	var data school.AttendanceUpdate
	if err := bindBody(ctx, &data, "AttendanceUpdate"); err != nil {
		return err
	}
	snap, err := vs.Attendance.UpdateStatus(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snap)
}

func (api *viewsApi) markClassAttendance(ctx echo.Context) error {
	vs, _, err := api.views(ctx)
	if err != nil {
		return err
	}
	var data school.NewAttendanceBulk
	if err := bindBody(ctx, &data, "NewAttendanceBulk"); err != nil {
		return err
	}
	snap, err := vs.Attendance.MarkClass(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, snap)
}

func (api *viewsApi) exportAttendance(ctx echo.Context) error {
	vs, _, err := api.views(ctx)
	if err != nil {
		return err
	}
	format, err := exportFormat(ctx)
	if err != nil {
		return err
	}
	snap, err := api.loadAttendance(ctx, vs)
	if err != nil {
		return err
	}
	return sendTable(ctx, "attendance", format, vs.Attendance.TableOf(snap), api.deps.now())
}

// grades

func (api *viewsApi) loadGrades(ctx echo.Context, vs *dashboard.Views) (view.Snapshot[dashboard.GradesData], error) {
	var filter school.GradeFilter
	if err := bindQuery(ctx, &filter); err != nil {
		return view.Snapshot[dashboard.GradesData]{}, err
	}
	return vs.Grades.Load(ctx.Request().Context(), filter, ordering(ctx))
}

func (api *viewsApi) grades(ctx echo.Context) error {
	vs, _, err := api.views(ctx)
	if err != nil {
		return err
	}
	snap, err := api.loadGrades(ctx, vs)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snap)
}

func (api *viewsApi) recordGrade(ctx echo.Context) error {
	vs, _, err := api.views(ctx)
	if err != nil {
		return err
	}
	var data school.NewGrade
	if err := bindBody(ctx, &data, "NewGrade"); err != nil {
		return err
	}
	snap, err := vs.Grades.RecordGrade(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, snap)
}

func (api *viewsApi) updateGrade(ctx echo.Context) error {
	vs, _, err := api.views(ctx)
	if err != nil {
		return err
	}
	var data school.GradeUpdate
	if err := bindBody(ctx, &data, "GradeUpdate"); err != nil {
		return err
	}
	snap, err := vs.Grades.UpdateGrade(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snap)
}

func (api *viewsApi) exportGrades(ctx echo.Context) error {
	vs, _, err := api.views(ctx)
	if err != nil {
		return err
	}
	format, err := exportFormat(ctx)
	if err != nil {
		return err
	}
	snap, err := api.loadGrades(ctx, vs)
	if err != nil {
		return err
	}
	return sendTable(ctx, "grades", format, vs.Grades.TableOf(snap), api.deps.now())
}

// finance

func (api *viewsApi) loadFinance(ctx echo.Context, vs *dashboard.Views) (view.Snapshot[dashboard.FinanceData], error) {
	var filter school.PaymentFilter
	if err := bindQuery(ctx, &filter); err != nil {
		return view.Snapshot[dashboard.FinanceData]{}, err
	}
	return vs.Finance.Load(ctx.Request().Context(), filter, ordering(ctx))
}

func (api *viewsApi) finance(ctx echo.Context) error {
	vs, _, err := api.views(ctx)
	if err != nil {
		return err
	}
	snap, err := api.loadFinance(ctx, vs)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snap)
}

func (api *viewsApi) createPayment(ctx echo.Context) error {
	vs, _, err := api.views(ctx)
	if err != nil {
		return err
	}
	var data school.NewPayment
	if err := bindBody(ctx, &data, "NewPayment"); err != nil {
		return err
	}
	snap, err := vs.Finance.CreatePayment(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, snap)
}

func (api *viewsApi) updatePayment(ctx echo.Context) error {
	vs, _, err := api.views(ctx)
	if err != nil {
		return err
	}
	var data school.PaymentUpdate
	if err := bindBody(ctx, &data, "PaymentUpdate"); err != nil {
		return err
	}
	snap, err := vs.Finance.UpdatePayment(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snap)
}

func (api *viewsApi) deletePayment(ctx echo.Context) error {
	vs, _, err := api.views(ctx)
	if err != nil {
		return err
	}
	snap, err := vs.Finance.DeletePayment(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snap)
}

func (api *viewsApi) exportFinance(ctx echo.Context) error {
	vs, _, err := api.views(ctx)
	if err != nil {
		return err
	}
	format, err := exportFormat(ctx)
	if err != nil {
		return err
	}
	snap, err := api.loadFinance(ctx, vs)
	if err != nil {
		return err
	}
	return sendTable(ctx, "payments", format, vs.Finance.TableOf(snap), api.deps.now())
}

// family

func (api *viewsApi) loadFamily(ctx echo.Context, vs *dashboard.Views) (view.Snapshot[dashboard.FamilyData], error) {
	var filter school.RelationshipFilter
	if err := bindQuery(ctx, &filter); err != nil {
		return view.Snapshot[dashboard.FamilyData]{}, err
	}
	return vs.Family.Load(ctx.Request().Context(), filter, ordering(ctx))
}

func (api *viewsApi) family(ctx echo.Context) error {
	vs, _, err := api.views(ctx)
	if err != nil {
		return err
	}
	snap, err := api.loadFamily(ctx, vs)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snap)
}

func (api *viewsApi) linkFamily(ctx echo.Context) error {
	vs, _, err := api.views(ctx)
	if err != nil {
		return err
	}
	var data school.NewRelationship
	if err := bindBody(ctx, &data, "NewRelationship"); err != nil {
		return err
	}
	snap, err := vs.Family.Link(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, snap)
}

func (api *viewsApi) unlinkFamily(ctx echo.Context) error {
	vs, _, err := api.views(ctx)
	if err != nil {
		return err
	}
	snap, err := vs.Family.Unlink(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snap)
}

func (api *viewsApi) exportFamily(ctx echo.Context) error {
	vs, _, err := api.views(ctx)
	if err != nil {
		return err
	}
	format, err := exportFormat(ctx)
	if err != nil {
		return err
	}
	snap, err := api.loadFamily(ctx, vs)
	if err != nil {
		return err
	}
	return sendTable(ctx, "relationships", format, vs.Family.TableOf(snap), api.deps.now())
}
