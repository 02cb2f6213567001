package apisvc

import (
	"context"

	"github.com/trezcool/masomo-dashboard/core/school"
)

func (c *Client) ListCourses(ctx context.Context, filter school.CourseFilter) ([]school.Course, error) {
	var courses []school.Course
	err := c.get(ctx, "courses", filter.Query(), &courses)
	return courses, err
}

func (c *Client) CreateCourse(ctx context.Context, nc school.NewCourse) (school.Course, error) {
	var course school.Course
	err := c.post(ctx, "courses", nc, &course)
	return course, err
}

func (c *Client) DeleteCourse(ctx context.Context, id string) error {
	return c.delete(ctx, path("courses", id))
}

func (c *Client) ListSchedules(ctx context.Context, filter school.ScheduleFilter) ([]school.Schedule, error) {
	var schedules []school.Schedule
	err := c.get(ctx, "schedules", filter.Query(), &schedules)
	return schedules, err
}

func (c *Client) CreateSchedule(ctx context.Context, ns school.NewSchedule) (school.Schedule, error) {
	var schedule school.Schedule
	err := c.post(ctx, "schedules", ns, &schedule)
	return schedule, err
}

func (c *Client) DeleteSchedule(ctx context.Context, id string) error {
	return c.delete(ctx, path("schedules", id))
}
