package school

import (
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-dashboard/core"
)

var clockRgx = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

type Course struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Code        string      `json:"code"`
	ClassID     null.String `json:"class_id"`
	TeacherID   null.String `json:"teacher_id"`
	Description null.String `json:"description"`
}

type CourseFilter struct {
	ClassID   string `query:"class_id"`
	TeacherID string `query:"teacher_id"`
}

type NewCourse struct {
	Name        string `json:"name" validate:"required,notblank,max=100"`
	Code        string `json:"code" validate:"required,alphanum_,max=20"`
	ClassID     string `json:"class_id,omitempty"`
	TeacherID   string `json:"teacher_id,omitempty"`
	Description string `json:"description,omitempty" validate:"max=500"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Code = core.CleanString(nc.Code)
	nc.Description = core.CleanString(nc.Description)
	return validate.Struct(nc)
}

// Schedule is a weekly slot of a course. DayOfWeek follows time.Weekday (0 = Sunday).
type Schedule struct {
	ID        string      `json:"id"`
	CourseID  string      `json:"course_id"`
	ClassID   null.String `json:"class_id"`
	TeacherID null.String `json:"teacher_id"`
	DayOfWeek int         `json:"day_of_week"`
	StartTime string      `json:"start_time"` // HH:MM
	EndTime   string      `json:"end_time"`   // HH:MM
	Room      null.String `json:"room"`
}

type ScheduleFilter struct {
	ClassID   string `query:"class_id"`
	TeacherID string `query:"teacher_id"`
	DayOfWeek *int   `query:"day_of_week"`
}

type NewSchedule struct {
	CourseID  string `json:"course_id" validate:"required"`
	ClassID   string `json:"class_id,omitempty"`
	TeacherID string `json:"teacher_id,omitempty"`
	DayOfWeek int    `json:"day_of_week" validate:"min=0,max=6"`
	StartTime string `json:"start_time" validate:"required,clock"`
	EndTime   string `json:"end_time" validate:"required,clock"`
	Room      string `json:"room,omitempty" validate:"max=50"`
}

func (ns *NewSchedule) Validate(validate *validator.Validate) error {
	ns.StartTime = core.CleanString(ns.StartTime)
	ns.EndTime = core.CleanString(ns.EndTime)
	ns.Room = core.CleanString(ns.Room)
	if err := validate.Struct(ns); err != nil {
		return err
	}
	// HH:MM values compare lexically
	if ns.EndTime <= ns.StartTime {
		return core.NewValidationError(nil, core.FieldError{Field: "end_time", Error: "must be after the start time"})
	}
	return nil
}
