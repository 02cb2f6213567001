package apisvc

import (
	"context"

	"github.com/trezcool/masomo-dashboard/core/school"
)

func (c *Client) GetSettings(ctx context.Context) (school.Settings, error) {
	var s school.Settings
	err := c.get(ctx, "settings", nil, &s)
	return s, err
}

// SaveSettings replaces the whole settings object.
func (c *Client) SaveSettings(ctx context.Context, s school.Settings) (school.Settings, error) {
	var saved school.Settings
	err := c.put(ctx, "settings", s, &saved)
	return saved, err
}
