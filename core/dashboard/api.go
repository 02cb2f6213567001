// Package dashboard implements one view service per dashboard screen. Each view fetches from the
// school API, derives its statistics and submits mutations, keeping its state in a view.Model.
package dashboard

import (
	"context"

	"github.com/trezcool/masomo-dashboard/core/school"
)

// API is the part of the school REST API used by the views.
type API interface {
	ListUsers(ctx context.Context, filter school.UserFilter) ([]school.User, error)
	CreateUser(ctx context.Context, nu school.NewUser) (school.User, error)
	UpdateUser(ctx context.Context, id string, uu school.UpdateUser) (school.User, error)
	DeleteUser(ctx context.Context, id string) error

	ListClasses(ctx context.Context) ([]school.Class, error)
	CreateClass(ctx context.Context, nc school.NewClass) (school.Class, error)
	DeleteClass(ctx context.Context, id string) error
	AddStudentToClass(ctx context.Context, classID string, rc school.RosterChange) error
	RemoveStudentFromClass(ctx context.Context, classID, studentID string) error

	ListCourses(ctx context.Context, filter school.CourseFilter) ([]school.Course, error)
	ListSchedules(ctx context.Context, filter school.ScheduleFilter) ([]school.Schedule, error)

	ListGrades(ctx context.Context, filter school.GradeFilter) ([]school.Grade, error)
	CreateGrade(ctx context.Context, ng school.NewGrade) (school.Grade, error)
	UpdateGrade(ctx context.Context, id string, gu school.GradeUpdate) (school.Grade, error)

	ListAttendances(ctx context.Context, filter school.AttendanceFilter) ([]school.Attendance, error)
	UpdateAttendance(ctx context.Context, id string, au school.AttendanceUpdate) (school.Attendance, error)
	BulkCreateAttendances(ctx context.Context, nb school.NewAttendanceBulk) ([]school.Attendance, error)
	AttendanceStats(ctx context.Context, filter school.AttendanceFilter) (school.AttendanceStats, error)

	ListMessages(ctx context.Context, filter school.MessageFilter) ([]school.Message, error)
	SendMessage(ctx context.Context, nm school.NewMessage) (school.Message, error)
	MarkMessageRead(ctx context.Context, id string) error
	DeleteMessage(ctx context.Context, id string) error

	ListPayments(ctx context.Context, filter school.PaymentFilter) ([]school.Payment, error)
	CreatePayment(ctx context.Context, np school.NewPayment) (school.Payment, error)
	UpdatePayment(ctx context.Context, id string, pu school.PaymentUpdate) (school.Payment, error)
	DeletePayment(ctx context.Context, id string) error

	ListRelationships(ctx context.Context, filter school.RelationshipFilter) ([]school.Relationship, error)
	CreateRelationship(ctx context.Context, nr school.NewRelationship) (school.Relationship, error)
	DeleteRelationship(ctx context.Context, id string) error

	GetSettings(ctx context.Context) (school.Settings, error)
	SaveSettings(ctx context.Context, s school.Settings) (school.Settings, error)

	Report(ctx context.Context, kind school.ReportKind, filter school.ReportFilter) (school.Report, error)

	SystemStatus(ctx context.Context) (school.SystemStatus, error)
	SystemActivity(ctx context.Context, limit int) ([]school.ActivityEntry, error)
	SystemLogs(ctx context.Context, limit int) ([]school.LogEntry, error)
}
