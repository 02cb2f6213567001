package school

import (
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-dashboard/core"
)

// Class holds its roster of students by reference.
type Class struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Level     null.String `json:"level"`
	Year      null.String `json:"year"`
	TeacherID null.String `json:"teacher_id"`
	Students  []string    `json:"students"`
}

// HasStudent reports whether the student is on the roster.
func (c Class) HasStudent(studentID string) bool {
	for _, id := range c.Students {
		if id == studentID {
			return true
		}
	}
	return false
}

type NewClass struct {
	Name      string `json:"name" validate:"required,notblank,max=100"`
	Level     string `json:"level,omitempty" validate:"max=50"`
	Year      string `json:"year,omitempty" validate:"max=20"`
	TeacherID string `json:"teacher_id,omitempty"`
}

func (nc *NewClass) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Level = core.CleanString(nc.Level)
	nc.Year = core.CleanString(nc.Year)
	nc.TeacherID = core.CleanString(nc.TeacherID)
	return validate.Struct(nc)
}

// RosterChange adds a student to, or removes one from, a class.
type RosterChange struct {
	StudentID string `json:"student_id" validate:"required,notblank"`
}

func (rc *RosterChange) Validate(validate *validator.Validate) error {
	rc.StudentID = core.CleanString(rc.StudentID)
	return validate.Struct(rc)
}
