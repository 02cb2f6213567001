package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/masomo-dashboard/core/school"
)

func TestFinance(t *testing.T) {
	payments := []school.Payment{
		{ID: "1", Status: school.PaymentPaid, Amount: 100, Type: school.PaymentTuition},
		{ID: "2", Status: school.PaymentPending, Amount: 50, Type: school.PaymentCanteen},
		{ID: "3", Status: school.PaymentOverdue, Amount: 20, Type: school.PaymentTransport},
	}

	fs := Finance(payments)
	assert.Equal(t, 100.0, fs.TotalRevenue)
	assert.Equal(t, 50.0, fs.PendingAmount)
	assert.Equal(t, 20.0, fs.OverdueAmount)
	assert.Equal(t, 3, fs.TotalTransactions)
	assert.Equal(t, 1, fs.PaidCount)
	assert.Equal(t, 1, fs.PendingCount)
	assert.Equal(t, 1, fs.OverdueCount)
	assert.Equal(t, 58.8, fs.CollectionRate)
	assert.Equal(t, map[school.PaymentType]float64{school.PaymentTuition: 100}, fs.ByType)
	assert.Len(t, Outstanding(payments), 2)
}

func TestFinance_empty(t *testing.T) {
	fs := Finance(nil)
	assert.Zero(t, fs.TotalRevenue)
	assert.Zero(t, fs.TotalTransactions)
	assert.Zero(t, fs.CollectionRate)
}

func TestPercent(t *testing.T) {
	tests := []struct {
		name        string
		part, whole float64
		want        float64
	}{
		{name: "zero whole", part: 3, whole: 0, want: 0},
		{name: "third", part: 1, whole: 3, want: 33.3},
		{name: "two thirds", part: 2, whole: 3, want: 66.7},
		{name: "full", part: 8, whole: 8, want: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percent(tt.part, tt.whole); got != tt.want {
				t.Errorf("Percent() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestAttendanceSummary(t *testing.T) {
	records := []school.Attendance{
		{ID: "1", Status: school.AttendancePresent},
		{ID: "2", Status: school.AttendancePresent},
		{ID: "3", Status: school.AttendanceLate},
		{ID: "4", Status: school.AttendanceAbsent},
	}
	ac := AttendanceSummary(records)
	assert.Equal(t, AttendanceCounts{Records: 4, Present: 2, Absent: 1, Late: 1, Rate: 75}, ac)
}

func TestFilter(t *testing.T) {
	records := []school.Attendance{
		{ID: "1", Status: school.AttendancePresent},
		{ID: "2", Status: school.AttendanceAbsent},
		{ID: "3", Status: school.AttendanceAbsent},
	}
	absent := Filter(records, func(a school.Attendance) bool { return a.Status == school.AttendanceAbsent })
	assert.Len(t, absent, Count(records, func(a school.Attendance) bool { return a.Status == school.AttendanceAbsent }))
	for _, a := range absent {
		assert.Equal(t, school.AttendanceAbsent, a.Status)
	}
	assert.Len(t, Filter(records, nil), 3)
}

func TestUsers(t *testing.T) {
	users := []school.User{
		{ID: "1", FirstName: "Amani", LastName: "Kabila", Email: "amani@test.cd", Role: school.RoleTeacher},
		{ID: "2", FirstName: "Bora", LastName: "Mutombo", Email: "bora@test.cd", Role: school.RoleStudent},
		{ID: "3", FirstName: "Chanel", LastName: "Ilunga", Email: "chanel@test.cd", Role: school.RoleStudent},
	}
	assert.Equal(t, map[school.Role]int{
		school.RoleAdmin:   0,
		school.RoleTeacher: 1,
		school.RoleStudent: 2,
		school.RoleParent:  0,
	}, UsersByRole(users))

	found := SearchUsers(users, "MUTO")
	if assert.Len(t, found, 1) {
		assert.Equal(t, "2", found[0].ID)
	}
	assert.Len(t, SearchUsers(users, "@test.cd"), 3)
	assert.Len(t, SearchUsers(users, ""), 3)
}

func TestUnreadCount(t *testing.T) {
	messages := []school.Message{
		{ID: "1", ReceiverID: "u1"},
		{ID: "2", ReceiverID: "u1", IsRead: true},
		{ID: "3", ReceiverID: "u2"},
		{ID: "4", SenderID: "u1", ReceiverID: "u3"},
	}
	assert.Equal(t, 1, UnreadCount(messages, "u1"))
}

func TestGradeAverages(t *testing.T) {
	grades := []school.Grade{
		{CourseID: "math", Score: 15, MaxScore: 20},
		{CourseID: "math", Score: 10, MaxScore: 20},
		{CourseID: "bio", Score: 9, MaxScore: 10},
	}
	assert.Equal(t, 71.7, GradeAverage(grades))
	assert.Zero(t, GradeAverage(nil))
	assert.Equal(t, []CourseAverage{
		{CourseID: "bio", Grades: 1, Average: 90},
		{CourseID: "math", Grades: 2, Average: 62.5},
	}, CourseAverages(grades))
}

func TestClassSizes(t *testing.T) {
	classes := []school.Class{
		{ID: "c1", Students: []string{"s1", "s2"}},
		{ID: "c2"},
	}
	assert.Equal(t, map[string]int{"c1": 2, "c2": 0}, ClassSizes(classes))
}
