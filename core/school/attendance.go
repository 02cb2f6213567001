package school

import (
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-dashboard/core"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

var AttendanceStatuses = []AttendanceStatus{AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused}

func (s AttendanceStatus) Valid() bool {
	for _, status := range AttendanceStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func (s AttendanceStatus) String() string { return string(s) }

type Attendance struct {
	ID          string           `json:"id"`
	StudentID   string           `json:"student_id"`
	StudentName null.String      `json:"student_name"`
	ClassID     null.String      `json:"class_id"`
	Date        string           `json:"date"`
	Status      AttendanceStatus `json:"status"`
	Notes       null.String      `json:"notes"`
}

// AttendanceStats is computed by the API. Total is the API's own figure and may differ
// from the sum of the per-status counts.
type AttendanceStats struct {
	Total   int     `json:"total"`
	Present int     `json:"present"`
	Absent  int     `json:"absent"`
	Late    int     `json:"late"`
	Excused int     `json:"excused"`
	Rate    float64 `json:"rate"`
}

type AttendanceFilter struct {
	Date      string           `query:"date" validate:"isodate"`
	ClassID   string           `query:"class_id"`
	StudentID string           `query:"student_id"`
	Status    AttendanceStatus `query:"status" validate:"omitempty,attendance_status"`
	Search    string           `query:"search"`
	From      string           `query:"from" validate:"isodate"`
	To        string           `query:"to" validate:"isodate"`
}

func (f *AttendanceFilter) Validate(validate *validator.Validate) error {
	f.Date = core.CleanString(f.Date)
	f.ClassID = core.CleanString(f.ClassID)
	f.StudentID = core.CleanString(f.StudentID)
	f.Status = AttendanceStatus(core.CleanString(string(f.Status), true /* lower */))
	f.Search = core.CleanString(f.Search)
	f.From = core.CleanString(f.From)
	f.To = core.CleanString(f.To)
	return validate.Struct(f)
}

type AttendanceUpdate struct {
	Status AttendanceStatus `json:"status" validate:"required,attendance_status"`
	Notes  string           `json:"notes,omitempty" validate:"max=500"`
}

func (au *AttendanceUpdate) Validate(validate *validator.Validate) error {
	au.Status = AttendanceStatus(core.CleanString(string(au.Status), true /* lower */))
	au.Notes = core.CleanString(au.Notes)
	return validate.Struct(au)
}

type AttendanceMark struct {
	StudentID string           `json:"student_id" validate:"required"`
	Status    AttendanceStatus `json:"status" validate:"required,attendance_status"`
	Notes     string           `json:"notes,omitempty" validate:"max=500"`
}

// NewAttendanceBulk records the attendance of many students of a class on one date.
type NewAttendanceBulk struct {
	ClassID string           `json:"class_id" validate:"required"`
	Date    string           `json:"date" validate:"required,isodate"`
	Records []AttendanceMark `json:"records" validate:"required,min=1,dive"`
}

func (nb *NewAttendanceBulk) Validate(validate *validator.Validate) error {
	nb.ClassID = core.CleanString(nb.ClassID)
	nb.Date = core.CleanString(nb.Date)
	for i := range nb.Records {
		nb.Records[i].StudentID = core.CleanString(nb.Records[i].StudentID)
		nb.Records[i].Status = AttendanceStatus(core.CleanString(string(nb.Records[i].Status), true /* lower */))
		nb.Records[i].Notes = core.CleanString(nb.Records[i].Notes)
	}
	return validate.Struct(nb)
}
