package apisvc

import (
	"context"

	"github.com/trezcool/masomo-dashboard/core/school"
)

func (c *Client) ListAttendances(ctx context.Context, filter school.AttendanceFilter) ([]school.Attendance, error) {
	var records []school.Attendance
	err := c.get(ctx, "attendances", filter.Query(), &records)
	return records, err
}

func (c *Client) UpdateAttendance(ctx context.Context, id string, au school.AttendanceUpdate) (school.Attendance, error) {
	var record school.Attendance
	err := c.put(ctx, path("attendances", id), au, &record)
	return record, err
}

func (c *Client) BulkCreateAttendances(ctx context.Context, nb school.NewAttendanceBulk) ([]school.Attendance, error) {
	var records []school.Attendance
	err := c.post(ctx, "attendances/bulk", nb, &records)
	return records, err
}

// AttendanceStats returns the API's statistics for the filter, including its own total.
func (c *Client) AttendanceStats(ctx context.Context, filter school.AttendanceFilter) (school.AttendanceStats, error) {
	var st school.AttendanceStats
	err := c.get(ctx, "attendances/stats", filter.Query(), &st)
	return st, err
}
