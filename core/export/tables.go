package export

import (
	"strconv"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-dashboard/core/school"
)

func amount(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func PaymentsTable(payments []school.Payment) Table {
	t := Table{Headers: []string{"ID", "Student", "Amount", "Type", "Status", "Due date", "Paid date", "Method"}}
	for _, p := range payments {
		t.Append(p.ID, p.StudentName.String, amount(p.Amount), string(p.Type), string(p.Status), p.DueDate, p.PaidDate.String, p.Method.String)
	}
	return t
}

func AttendanceTable(records []school.Attendance) Table {
	t := Table{Headers: []string{"ID", "Student", "Class", "Date", "Status", "Notes"}}
	for _, a := range records {
		student := a.StudentName.String
		if student == "" {
			student = a.StudentID
		}
		t.Append(a.ID, student, a.ClassID.String, a.Date, string(a.Status), a.Notes.String)
	}
	return t
}

func UsersTable(users []school.User) Table {
	t := Table{Headers: []string{"ID", "First name", "Last name", "Email", "Role", "Phone", "Active"}}
	for _, u := range users {
		t.Append(u.ID, u.FirstName, u.LastName, u.Email, string(u.Role), u.Phone.String, strconv.FormatBool(u.IsActive))
	}
	return t
}

func RelationshipsTable(rels []school.Relationship) Table {
	t := Table{Headers: []string{"ID", "Parent", "Student", "Relationship"}}
	for _, r := range rels {
		t.Append(r.ID, nameOrID(r.ParentName, r.ParentID), nameOrID(r.StudentName, r.StudentID), r.Relationship)
	}
	return t
}

func GradesTable(grades []school.Grade) Table {
	t := Table{Headers: []string{"ID", "Student", "Course", "Score", "Max score", "Term", "Date"}}
	for _, g := range grades {
		t.Append(g.ID, g.StudentID, g.CourseID, amount(g.Score), amount(g.MaxScore), g.Term, g.Date)
	}
	return t
}

// ReportTable returns the report rows under its own columns.
func ReportTable(r school.Report) Table {
	return Table{Headers: r.Columns, Rows: r.Rows}
}

func nameOrID(name null.String, id string) string {
	if name.Valid && name.String != "" {
		return name.String
	}
	return id
}
