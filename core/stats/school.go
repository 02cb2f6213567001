package stats

import (
	"sort"

	"github.com/trezcool/masomo-dashboard/core/school"
)

type FinanceStats struct {
	TotalRevenue      float64                        `json:"total_revenue"`
	PendingAmount     float64                        `json:"pending_amount"`
	OverdueAmount     float64                        `json:"overdue_amount"`
	TotalTransactions int                            `json:"total_transactions"`
	PaidCount         int                            `json:"paid_count"`
	PendingCount      int                            `json:"pending_count"`
	OverdueCount      int                            `json:"overdue_count"`
	CollectionRate    float64                        `json:"collection_rate"` // % of the billed amount already paid
	ByType            map[school.PaymentType]float64 `json:"by_type"`         // paid amount per type
}

func paymentStatus(status school.PaymentStatus) func(school.Payment) bool {
	return func(p school.Payment) bool { return p.Status == status }
}

func paymentAmount(p school.Payment) float64 { return p.Amount }

func Finance(payments []school.Payment) FinanceStats {
	paid := paymentStatus(school.PaymentPaid)
	fs := FinanceStats{
		TotalRevenue:      Sum(payments, paid, paymentAmount),
		PendingAmount:     Sum(payments, paymentStatus(school.PaymentPending), paymentAmount),
		OverdueAmount:     Sum(payments, paymentStatus(school.PaymentOverdue), paymentAmount),
		TotalTransactions: len(payments),
		PaidCount:         Count(payments, paid),
		PendingCount:      Count(payments, paymentStatus(school.PaymentPending)),
		OverdueCount:      Count(payments, paymentStatus(school.PaymentOverdue)),
		ByType:            make(map[school.PaymentType]float64),
	}
	fs.CollectionRate = Percent(fs.TotalRevenue, Sum(payments, nil, paymentAmount))
	for _, p := range Filter(payments, paid) {
		fs.ByType[p.Type] += p.Amount
	}
	return fs
}

// Outstanding returns the payments not paid yet.
func Outstanding(payments []school.Payment) []school.Payment {
	return Filter(payments, func(p school.Payment) bool { return p.Status != school.PaymentPaid })
}

// AttendanceCounts is computed locally from attendance records. It is shown next to,
// never in place of, the API's school.AttendanceStats.
type AttendanceCounts struct {
	Records int     `json:"records"`
	Present int     `json:"present"`
	Absent  int     `json:"absent"`
	Late    int     `json:"late"`
	Excused int     `json:"excused"`
	Rate    float64 `json:"rate"` // present or late, in %
}

func AttendanceSummary(records []school.Attendance) AttendanceCounts {
	counts := GroupCount(records, func(a school.Attendance) school.AttendanceStatus { return a.Status })
	ac := AttendanceCounts{
		Records: len(records),
		Present: counts[school.AttendancePresent],
		Absent:  counts[school.AttendanceAbsent],
		Late:    counts[school.AttendanceLate],
		Excused: counts[school.AttendanceExcused],
	}
	ac.Rate = Percent(float64(ac.Present+ac.Late), float64(ac.Records))
	return ac
}

func UsersByRole(users []school.User) map[school.Role]int {
	byRole := make(map[school.Role]int, len(school.AllRoles))
	for _, r := range school.AllRoles {
		byRole[r] = 0
	}
	for _, u := range users {
		byRole[u.Role]++
	}
	return byRole
}

// SearchUsers keeps the users whose name or email contains query.
func SearchUsers(users []school.User, query string) []school.User {
	return Filter(users, func(u school.User) bool { return MatchText(query, u.Name(), u.Email) })
}

// UnreadCount counts the unread messages received by userID.
func UnreadCount(messages []school.Message, userID string) int {
	return Count(messages, func(m school.Message) bool { return m.ReceiverID == userID && !m.IsRead })
}

// GradeAverage is the mean of the grade percentages, rounded to one decimal.
func GradeAverage(grades []school.Grade) float64 {
	if len(grades) == 0 {
		return 0
	}
	total := Sum(grades, nil, func(g school.Grade) float64 { return g.Percent() })
	return Round(total/float64(len(grades)), 1)
}

type CourseAverage struct {
	CourseID string  `json:"course_id"`
	Grades   int     `json:"grades"`
	Average  float64 `json:"average"`
}

// CourseAverages returns the grade average per course, sorted by course ID.
func CourseAverages(grades []school.Grade) []CourseAverage {
	byCourse := make(map[string][]school.Grade)
	for _, g := range grades {
		byCourse[g.CourseID] = append(byCourse[g.CourseID], g)
	}
	avgs := make([]CourseAverage, 0, len(byCourse))
	for id, gs := range byCourse {
		avgs = append(avgs, CourseAverage{CourseID: id, Grades: len(gs), Average: GradeAverage(gs)})
	}
	sort.Slice(avgs, func(i, j int) bool { return avgs[i].CourseID < avgs[j].CourseID })
	return avgs
}

// ClassSizes maps class IDs to the size of their roster.
func ClassSizes(classes []school.Class) map[string]int {
	sizes := make(map[string]int, len(classes))
	for _, c := range classes {
		sizes[c.ID] = len(c.Students)
	}
	return sizes
}
