package school

import (
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-dashboard/core"
)

type Grade struct {
	ID        string      `json:"id"`
	StudentID string      `json:"student_id"`
	CourseID  string      `json:"course_id"`
	ClassID   null.String `json:"class_id"`
	Score     float64     `json:"score"`
	MaxScore  float64     `json:"max_score"`
	Term      string      `json:"term"`
	Date      string      `json:"date"`
	Comment   null.String `json:"comment"`
}

// Percent returns the score on a 0-100 scale.
func (g Grade) Percent() float64 {
	if g.MaxScore <= 0 {
		return 0
	}
	return g.Score / g.MaxScore * 100
}

type GradeFilter struct {
	StudentID string `query:"student_id"`
	CourseID  string `query:"course_id"`
	ClassID   string `query:"class_id"`
	Term      string `query:"term"`
	Limit     int    `query:"limit"`
}

type NewGrade struct {
	StudentID string  `json:"student_id" validate:"required"`
	CourseID  string  `json:"course_id" validate:"required"`
	ClassID   string  `json:"class_id,omitempty"`
	Score     float64 `json:"score" validate:"gte=0,ltefield=MaxScore"`
	MaxScore  float64 `json:"max_score" validate:"gt=0"`
	Term      string  `json:"term" validate:"required,notblank,max=20"`
	Date      string  `json:"date" validate:"required,isodate"`
	Comment   string  `json:"comment,omitempty" validate:"max=500"`
}

func (ng *NewGrade) Validate(validate *validator.Validate) error {
	ng.Term = core.CleanString(ng.Term)
	ng.Date = core.CleanString(ng.Date)
	ng.Comment = core.CleanString(ng.Comment)
	return validate.Struct(ng)
}

type GradeUpdate struct {
	Score    *float64 `json:"score,omitempty" validate:"omitempty,gte=0"`
	MaxScore *float64 `json:"max_score,omitempty" validate:"omitempty,gt=0"`
	Comment  string   `json:"comment,omitempty" validate:"max=500"`
}

func (gu *GradeUpdate) Validate(validate *validator.Validate) error {
	gu.Comment = core.CleanString(gu.Comment)
	return validate.Struct(gu)
}
