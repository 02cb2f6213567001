package apisvc

import (
	"context"
	"net/url"
	"strconv"

	"github.com/trezcool/masomo-dashboard/core/school"
)

func limitQuery(limit int) url.Values {
	if limit <= 0 {
		return nil
	}
	return url.Values{"limit": {strconv.Itoa(limit)}}
}

func (c *Client) SystemStatus(ctx context.Context) (school.SystemStatus, error) {
	var st school.SystemStatus
	err := c.get(ctx, "system/status", nil, &st)
	return st, err
}

func (c *Client) SystemActivity(ctx context.Context, limit int) ([]school.ActivityEntry, error) {
	var entries []school.ActivityEntry
	err := c.get(ctx, "system/activity", limitQuery(limit), &entries)
	return entries, err
}

func (c *Client) SystemLogs(ctx context.Context, limit int) ([]school.LogEntry, error) {
	var entries []school.LogEntry
	err := c.get(ctx, "system/logs", limitQuery(limit), &entries)
	return entries, err
}
