package apisvc

import (
	"context"

	"github.com/trezcool/masomo-dashboard/core/school"
)

func (c *Client) ListUsers(ctx context.Context, filter school.UserFilter) ([]school.User, error) {
	var users []school.User
	err := c.get(ctx, "users", filter.Query(), &users)
	return users, err
}

func (c *Client) GetUser(ctx context.Context, id string) (school.User, error) {
	var usr school.User
	err := c.get(ctx, path("users", id), nil, &usr)
	return usr, err
}

func (c *Client) CreateUser(ctx context.Context, nu school.NewUser) (school.User, error) {
	var usr school.User
	err := c.post(ctx, "users", nu, &usr)
	return usr, err
}

func (c *Client) UpdateUser(ctx context.Context, id string, uu school.UpdateUser) (school.User, error) {
	var usr school.User
	err := c.put(ctx, path("users", id), uu, &usr)
	return usr, err
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.delete(ctx, path("users", id))
}
