package testutil

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-dashboard/core/school"
)

// Seeded IDs.
const (
	AdminID   = "u-admin"
	TeacherID = "u-t1"
	Student1  = "u-s1"
	Student2  = "u-s2"
	Student3  = "u-s3"
	ParentID  = "u-p1"

	Class6A = "c-6a"
	Class6B = "c-6b"

	CourseMath = "k-math"
	CourseBio  = "k-bio"

	// SeedDate is the date of the seeded attendance records.
	SeedDate = "2024-03-01"
)

func (f *FakeAPI) seed() {
	created := null.TimeFrom(time.Date(2024, 1, 8, 8, 0, 0, 0, time.UTC))
	f.Users = []school.User{
		{ID: AdminID, FirstName: "Neema", LastName: "Admin", Email: "admin@masomo.cd", Role: school.RoleAdmin, IsActive: true, CreatedAt: created},
		{ID: TeacherID, FirstName: "Amani", LastName: "Kabila", Email: "amani@masomo.cd", Role: school.RoleTeacher, IsActive: true, CreatedAt: created},
		{ID: Student1, FirstName: "Bora", LastName: "Mutombo", Email: "bora@masomo.cd", Role: school.RoleStudent, IsActive: true, CreatedAt: created},
		{ID: Student2, FirstName: "Chanel", LastName: "Ilunga", Email: "chanel@masomo.cd", Role: school.RoleStudent, IsActive: true, CreatedAt: created},
		{ID: Student3, FirstName: "Dido", LastName: "Kasongo", Email: "dido@masomo.cd", Role: school.RoleStudent, IsActive: true, CreatedAt: created},
		{ID: ParentID, FirstName: "Esther", LastName: "Mutombo", Email: "esther@masomo.cd", Role: school.RoleParent, Phone: null.StringFrom("+243810000000"), IsActive: true, CreatedAt: created},
	}
	f.Classes = []school.Class{
		{ID: Class6A, Name: "6A", Level: null.StringFrom("6"), TeacherID: null.StringFrom(TeacherID), Students: []string{Student1, Student2}},
		{ID: Class6B, Name: "6B", Level: null.StringFrom("6"), Students: []string{Student3}},
	}
	f.Courses = []school.Course{
		{ID: CourseMath, Name: "Mathematics", Code: "MATH6", ClassID: null.StringFrom(Class6A), TeacherID: null.StringFrom(TeacherID)},
		{ID: CourseBio, Name: "Biology", Code: "BIO6", ClassID: null.StringFrom(Class6B), TeacherID: null.StringFrom(TeacherID)},
	}
	f.Schedules = []school.Schedule{
		{ID: "sc-1", CourseID: CourseMath, ClassID: null.StringFrom(Class6A), TeacherID: null.StringFrom(TeacherID), DayOfWeek: 1, StartTime: "08:00", EndTime: "09:00", Room: null.StringFrom("B12")},
		{ID: "sc-2", CourseID: CourseBio, ClassID: null.StringFrom(Class6B), TeacherID: null.StringFrom(TeacherID), DayOfWeek: 2, StartTime: "10:00", EndTime: "11:30"},
	}
	f.Grades = []school.Grade{
		{ID: "g-1", StudentID: Student1, CourseID: CourseMath, ClassID: null.StringFrom(Class6A), Score: 15, MaxScore: 20, Term: "T1", Date: "2024-02-10"},
		{ID: "g-2", StudentID: Student2, CourseID: CourseMath, ClassID: null.StringFrom(Class6A), Score: 10, MaxScore: 20, Term: "T1", Date: "2024-02-10"},
		{ID: "g-3", StudentID: Student3, CourseID: CourseBio, ClassID: null.StringFrom(Class6B), Score: 9, MaxScore: 10, Term: "T1", Date: "2024-02-12"},
	}
	f.Attendances = []school.Attendance{
		{ID: "a-1", StudentID: Student1, StudentName: null.StringFrom("Bora Mutombo"), ClassID: null.StringFrom(Class6A), Date: SeedDate, Status: school.AttendancePresent},
		{ID: "a-2", StudentID: Student2, StudentName: null.StringFrom("Chanel Ilunga"), ClassID: null.StringFrom(Class6A), Date: SeedDate, Status: school.AttendanceAbsent},
		{ID: "a-3", StudentID: Student3, StudentName: null.StringFrom("Dido Kasongo"), ClassID: null.StringFrom(Class6B), Date: SeedDate, Status: school.AttendanceAbsent, Notes: null.StringFrom("sick")},
		{ID: "a-4", StudentID: Student1, StudentName: null.StringFrom("Bora Mutombo"), ClassID: null.StringFrom(Class6A), Date: "2024-03-02", Status: school.AttendanceLate},
	}
	f.Payments = []school.Payment{
		{ID: "p-1", StudentID: Student1, StudentName: null.StringFrom("Bora Mutombo"), Amount: 100, Type: school.PaymentTuition, Status: school.PaymentPaid, DueDate: "2024-01-31", PaidDate: null.StringFrom("2024-01-20"), Method: null.StringFrom("cash")},
		{ID: "p-2", StudentID: Student2, StudentName: null.StringFrom("Chanel Ilunga"), Amount: 50, Type: school.PaymentCanteen, Status: school.PaymentPending, DueDate: "2024-02-28"},
		{ID: "p-3", StudentID: Student3, StudentName: null.StringFrom("Dido Kasongo"), Amount: 20, Type: school.PaymentTransport, Status: school.PaymentOverdue, DueDate: "2023-12-31"},
	}
	f.Relationships = []school.Relationship{
		{ID: "r-1", ParentID: ParentID, ParentName: null.StringFrom("Esther Mutombo"), StudentID: Student1, StudentName: null.StringFrom("Bora Mutombo"), Relationship: "mother"},
	}
	sent := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	f.Messages = []school.Message{
		{ID: "m-1", SenderID: AdminID, ReceiverID: TeacherID, Subject: "Staff meeting", Body: "Friday 3pm.", SentAt: sent},
		{ID: "m-2", SenderID: TeacherID, ReceiverID: AdminID, Subject: "Re: Staff meeting", Body: "Noted.", SentAt: sent.Add(time.Hour), IsRead: true},
		{ID: "m-3", SenderID: AdminID, ReceiverID: ParentID, Subject: "Fees", Body: "Term 2 fees are due.", SentAt: sent.Add(2 * time.Hour)},
	}
	f.Settings = school.Settings{
		General:       school.GeneralSettings{SchoolName: "Institut Masomo", Email: "info@masomo.cd", Timezone: "Africa/Kinshasa", Language: "fr"},
		Notifications: school.NotificationSettings{EmailNotifications: true, AttendanceAlerts: true},
		Security:      school.SecuritySettings{SessionTimeout: 60, PasswordMinLength: 8},
		Academic:      school.AcademicSettings{CurrentYear: "2023-2024", CurrentTerm: "T2", PassingGrade: 50},
	}
	// the API computes its total over every enrolled student, not only the marked ones
	f.Stats = school.AttendanceStats{Total: 10, Present: 1, Absent: 2, Rate: 10}
	f.Status = school.SystemStatus{
		Status: "healthy", Uptime: 86400, Version: "1.4.2", Database: "connected", ActiveUsers: 3,
		CPU: 12.5, Memory: 48.1, Disk: 61, Services: map[string]string{"api": "up", "mail": "up"},
	}
	f.Activity = []school.ActivityEntry{
		{ID: "ac-1", UserID: null.StringFrom(AdminID), UserName: null.StringFrom("Neema Admin"), Action: "login", CreatedAt: sent},
		{ID: "ac-2", UserID: null.StringFrom(TeacherID), Action: "grade.create", Details: null.StringFrom("g-1"), CreatedAt: sent.Add(time.Minute)},
	}
	f.Logs = []school.LogEntry{
		{ID: "l-1", Level: "info", Message: "server started", Source: "api", CreatedAt: sent},
		{ID: "l-2", Level: "error", Message: "smtp timeout", Source: "mail", CreatedAt: sent.Add(time.Minute)},
	}
	f.nextID = 100
}
