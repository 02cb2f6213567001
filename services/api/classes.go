package apisvc

import (
	"context"

	"github.com/trezcool/masomo-dashboard/core/school"
)

func (c *Client) ListClasses(ctx context.Context) ([]school.Class, error) {
	var classes []school.Class
	err := c.get(ctx, "classes", nil, &classes)
	return classes, err
}

func (c *Client) GetClass(ctx context.Context, id string) (school.Class, error) {
	var class school.Class
	err := c.get(ctx, path("classes", id), nil, &class)
	return class, err
}

func (c *Client) CreateClass(ctx context.Context, nc school.NewClass) (school.Class, error) {
	var class school.Class
	err := c.post(ctx, "classes", nc, &class)
	return class, err
}

func (c *Client) UpdateClass(ctx context.Context, id string, nc school.NewClass) (school.Class, error) {
	var class school.Class
	err := c.put(ctx, path("classes", id), nc, &class)
	return class, err
}

func (c *Client) DeleteClass(ctx context.Context, id string) error {
	return c.delete(ctx, path("classes", id))
}

func (c *Client) AddStudentToClass(ctx context.Context, classID string, rc school.RosterChange) error {
	return c.post(ctx, path("classes", classID, "students"), rc, nil)
}

func (c *Client) RemoveStudentFromClass(ctx context.Context, classID, studentID string) error {
	return c.delete(ctx, path("classes", classID, "students", studentID))
}
