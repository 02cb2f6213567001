package apisvc

import (
	"context"

	"github.com/trezcool/masomo-dashboard/core/school"
)

func (c *Client) ListGrades(ctx context.Context, filter school.GradeFilter) ([]school.Grade, error) {
	var grades []school.Grade
	err := c.get(ctx, "grades", filter.Query(), &grades)
	return grades, err
}

func (c *Client) CreateGrade(ctx context.Context, ng school.NewGrade) (school.Grade, error) {
	var grade school.Grade
	err := c.post(ctx, "grades", ng, &grade)
	return grade, err
}

func (c *Client) UpdateGrade(ctx context.Context, id string, gu school.GradeUpdate) (school.Grade, error) {
	var grade school.Grade
	err := c.put(ctx, path("grades", id), gu, &grade)
	return grade, err
}

func (c *Client) DeleteGrade(ctx context.Context, id string) error {
	return c.delete(ctx, path("grades", id))
}
