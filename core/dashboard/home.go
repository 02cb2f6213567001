package dashboard

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/core/school"
	"github.com/trezcool/masomo-dashboard/core/stats"
	"github.com/trezcool/masomo-dashboard/core/view"
)

const recentGrades = 10

type AdminOverview struct {
	UsersByRole map[school.Role]int    `json:"users_by_role"`
	TotalUsers  int                    `json:"total_users"`
	Classes     int                    `json:"classes"`
	Courses     int                    `json:"courses"`
	ClassSizes  map[string]int         `json:"class_sizes"`
	Finance     stats.FinanceStats     `json:"finance"`
	Attendance  school.AttendanceStats `json:"attendance"` // today, as computed by the API
}

type TeacherOverview struct {
	Classes      []school.Class         `json:"classes"`
	Courses      []school.Course        `json:"courses"`
	Schedules    []school.Schedule      `json:"schedules"`
	Attendance   stats.AttendanceCounts `json:"attendance"` // today, own classes
	RecentGrades []school.Grade         `json:"recent_grades"`
	Averages     []stats.CourseAverage  `json:"averages"`
}

type ChildOverview struct {
	StudentID         string                 `json:"student_id"`
	Name              string                 `json:"name"`
	Relationship      string                 `json:"relationship"`
	RecentGrades      []school.Grade         `json:"recent_grades"`
	Average           float64                `json:"average"`
	Attendance        stats.AttendanceCounts `json:"attendance"`
	Outstanding       []school.Payment       `json:"outstanding"`
	OutstandingAmount float64                `json:"outstanding_amount"`
}

type ParentOverview struct {
	Children []ChildOverview `json:"children"`
}

type StudentOverview struct {
	Classes      []school.Class         `json:"classes"`
	RecentGrades []school.Grade         `json:"recent_grades"`
	Average      float64                `json:"average"`
	Averages     []stats.CourseAverage  `json:"averages"`
	Attendance   stats.AttendanceCounts `json:"attendance"`
}

// DashboardData holds the overview of the viewer's role only.
type DashboardData struct {
	Role     school.Role      `json:"role"`
	Admin    *AdminOverview   `json:"admin,omitempty"`
	Teacher  *TeacherOverview `json:"teacher,omitempty"`
	Parent   *ParentOverview  `json:"parent,omitempty"`
	Student  *StudentOverview `json:"student,omitempty"`
	Failures []string         `json:"failures,omitempty"`
}

// DashboardView is the landing screen of each role.
type DashboardView struct {
	deps  Deps
	model *view.Model[DashboardData]
}

func NewDashboardView(deps Deps) *DashboardView {
	return &DashboardView{deps: deps, model: view.NewModel[DashboardData]()}
}

func (v *DashboardView) Snapshot() view.Snapshot[DashboardData] {
	return v.model.Snapshot()
}

func (v *DashboardView) Load(ctx context.Context, viewer Viewer) (view.Snapshot[DashboardData], error) {
	var fetch view.FetchFunc[DashboardData]
	switch viewer.Role {
	case school.RoleAdmin:
		fetch = v.admin
	case school.RoleTeacher:
		fetch = func(ctx context.Context) (DashboardData, error) { return v.teacher(ctx, viewer.ID) }
	case school.RoleParent:
		fetch = func(ctx context.Context) (DashboardData, error) { return v.parent(ctx, viewer.ID) }
	case school.RoleStudent:
		fetch = func(ctx context.Context) (DashboardData, error) { return v.student(ctx, viewer.ID) }
	default:
		return v.model.Snapshot(), errors.Errorf("no dashboard for role %q", viewer.Role)
	}
	return v.model.Load(ctx, fetch)
}

func (v *DashboardView) admin(ctx context.Context) (DashboardData, error) {
	var (
		users    []school.User
		classes  []school.Class
		courses  []school.Course
		payments []school.Payment
		overview AdminOverview
	)
	failures := view.Parallel(ctx,
		view.NewCall("users", func(ctx context.Context) (err error) {
			users, err = v.deps.API.ListUsers(ctx, school.UserFilter{})
			return err
		}),
		view.NewCall("classes", func(ctx context.Context) (err error) {
			classes, err = v.deps.API.ListClasses(ctx)
			return err
		}),
		view.NewCall("courses", func(ctx context.Context) (err error) {
			courses, err = v.deps.API.ListCourses(ctx, school.CourseFilter{})
			return err
		}),
		view.NewCall("payments", func(ctx context.Context) (err error) {
			payments, err = v.deps.API.ListPayments(ctx, school.PaymentFilter{})
			return err
		}),
		view.NewCall("attendance", func(ctx context.Context) (err error) {
			overview.Attendance, err = v.deps.API.AttendanceStats(ctx, school.AttendanceFilter{Date: v.deps.today()})
			return err
		}),
	)
	data := DashboardData{Role: school.RoleAdmin}
	var err error
	if data.Failures, err = settle(failures, 5); err != nil {
		return data, err
	}

	overview.UsersByRole = stats.UsersByRole(users)
	overview.TotalUsers = len(users)
	overview.Classes = len(classes)
	overview.ClassSizes = stats.ClassSizes(classes)
	overview.Courses = len(courses)
	overview.Finance = stats.Finance(payments)
	data.Admin = &overview
	return data, nil
}

func (v *DashboardView) teacher(ctx context.Context, teacherID string) (DashboardData, error) {
	var (
		classes  []school.Class
		records  []school.Attendance
		grades   []school.Grade
		overview TeacherOverview
	)
	failures := view.Parallel(ctx,
		view.NewCall("classes", func(ctx context.Context) (err error) {
			classes, err = v.deps.API.ListClasses(ctx)
			return err
		}),
		view.NewCall("courses", func(ctx context.Context) (err error) {
			overview.Courses, err = v.deps.API.ListCourses(ctx, school.CourseFilter{TeacherID: teacherID})
			return err
		}),
		view.NewCall("schedules", func(ctx context.Context) (err error) {
			overview.Schedules, err = v.deps.API.ListSchedules(ctx, school.ScheduleFilter{TeacherID: teacherID})
			return err
		}),
		view.NewCall("attendance", func(ctx context.Context) (err error) {
			records, err = v.deps.API.ListAttendances(ctx, school.AttendanceFilter{Date: v.deps.today()})
			return err
		}),
		view.NewCall("grades", func(ctx context.Context) (err error) {
			grades, err = v.deps.API.ListGrades(ctx, school.GradeFilter{})
			return err
		}),
	)
	data := DashboardData{Role: school.RoleTeacher}
	var err error
	if data.Failures, err = settle(failures, 5); err != nil {
		return data, err
	}

	// own classes: taught as main teacher or through one of the teacher's courses
	own := make(map[string]bool)
	ownCourses := make(map[string]bool, len(overview.Courses))
	for _, c := range overview.Courses {
		ownCourses[c.ID] = true
		if c.ClassID.Valid {
			own[c.ClassID.String] = true
		}
	}
	overview.Classes = stats.Filter(classes, func(c school.Class) bool {
		return c.TeacherID.String == teacherID || own[c.ID]
	})
	for _, c := range overview.Classes {
		own[c.ID] = true
	}

	overview.Attendance = stats.AttendanceSummary(stats.Filter(records, func(a school.Attendance) bool {
		return own[a.ClassID.String]
	}))
	grades = stats.Filter(grades, func(g school.Grade) bool { return ownCourses[g.CourseID] })
	overview.Averages = stats.CourseAverages(grades)
	overview.RecentGrades = latestGrades(grades, recentGrades)
	data.Teacher = &overview
	return data, nil
}

func (v *DashboardView) parent(ctx context.Context, parentID string) (DashboardData, error) {
	data := DashboardData{Role: school.RoleParent}
	rels, err := v.deps.API.ListRelationships(ctx, school.RelationshipFilter{ParentID: parentID})
	if err != nil {
		return data, errors.Wrap(err, "loading relationships")
	}

	overview := ParentOverview{}
	seen := make(map[string]bool, len(rels))
	for _, r := range rels {
		if seen[r.StudentID] {
			continue
		}
		seen[r.StudentID] = true
		overview.Children = append(overview.Children, ChildOverview{
			StudentID:    r.StudentID,
			Name:         r.StudentName.String,
			Relationship: r.Relationship,
		})
	}

	var calls []view.Call
	grades := make([][]school.Grade, len(overview.Children))
	records := make([][]school.Attendance, len(overview.Children))
	payments := make([][]school.Payment, len(overview.Children))
	for i, child := range overview.Children {
		i, studentID := i, child.StudentID
		calls = append(calls,
			view.NewCall("grades:"+studentID, func(ctx context.Context) (err error) {
				grades[i], err = v.deps.API.ListGrades(ctx, school.GradeFilter{StudentID: studentID})
				return err
			}),
			view.NewCall("attendance:"+studentID, func(ctx context.Context) (err error) {
				records[i], err = v.deps.API.ListAttendances(ctx, school.AttendanceFilter{StudentID: studentID})
				return err
			}),
			view.NewCall("payments:"+studentID, func(ctx context.Context) (err error) {
				payments[i], err = v.deps.API.ListPayments(ctx, school.PaymentFilter{StudentID: studentID})
				return err
			}),
		)
	}
	failures := view.Parallel(ctx, calls...)
	if len(calls) > 0 {
		if data.Failures, err = settle(failures, len(calls)); err != nil {
			return data, err
		}
	}

	for i := range overview.Children {
		child := &overview.Children[i]
		child.RecentGrades = latestGrades(grades[i], recentGrades)
		child.Average = stats.GradeAverage(grades[i])
		child.Attendance = stats.AttendanceSummary(records[i])
		child.Outstanding = stats.Outstanding(payments[i])
		child.OutstandingAmount = stats.Sum(child.Outstanding, nil, func(p school.Payment) float64 { return p.Amount })
	}
	data.Parent = &overview
	return data, nil
}

func (v *DashboardView) student(ctx context.Context, studentID string) (DashboardData, error) {
	var (
		classes  []school.Class
		grades   []school.Grade
		records  []school.Attendance
		overview StudentOverview
	)
	failures := view.Parallel(ctx,
		view.NewCall("classes", func(ctx context.Context) (err error) {
			classes, err = v.deps.API.ListClasses(ctx)
			return err
		}),
		view.NewCall("grades", func(ctx context.Context) (err error) {
			grades, err = v.deps.API.ListGrades(ctx, school.GradeFilter{StudentID: studentID})
			return err
		}),
		view.NewCall("attendance", func(ctx context.Context) (err error) {
			records, err = v.deps.API.ListAttendances(ctx, school.AttendanceFilter{StudentID: studentID})
			return err
		}),
	)
	data := DashboardData{Role: school.RoleStudent}
	var err error
	if data.Failures, err = settle(failures, 3); err != nil {
		return data, err
	}

	overview.Classes = stats.Filter(classes, func(c school.Class) bool { return c.HasStudent(studentID) })
	overview.RecentGrades = latestGrades(grades, recentGrades)
	overview.Average = stats.GradeAverage(grades)
	overview.Averages = stats.CourseAverages(grades)
	overview.Attendance = stats.AttendanceSummary(records)
	data.Student = &overview
	return data, nil
}

// latestGrades returns at most n grades, most recent first.
func latestGrades(grades []school.Grade, n int) []school.Grade {
	latest := append([]school.Grade(nil), grades...)
	sort.SliceStable(latest, func(i, j int) bool { return latest[i].Date > latest[j].Date })
	if len(latest) > n {
		latest = latest[:n]
	}
	return latest
}
