package school

import (
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-dashboard/core"
)

// Relationship links a parent user to a student user.
type Relationship struct {
	ID           string      `json:"id"`
	ParentID     string      `json:"parent_id"`
	ParentName   null.String `json:"parent_name"`
	StudentID    string      `json:"student_id"`
	StudentName  null.String `json:"student_name"`
	Relationship string      `json:"relationship"` // eg. "father"
}

type RelationshipFilter struct {
	ParentID  string `query:"parent_id"`
	StudentID string `query:"student_id"`
	Search    string `query:"search"`
}

type NewRelationship struct {
	ParentID     string `json:"parent_id" validate:"required"`
	StudentID    string `json:"student_id" validate:"required,nefield=ParentID"`
	Relationship string `json:"relationship" validate:"required,notblank,max=50"`
}

func (nr *NewRelationship) Validate(validate *validator.Validate) error {
	nr.ParentID = core.CleanString(nr.ParentID)
	nr.StudentID = core.CleanString(nr.StudentID)
	nr.Relationship = core.CleanString(nr.Relationship, true /* lower */)
	return validate.Struct(nr)
}
