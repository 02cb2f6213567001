package apisvc

import (
	"context"

	"github.com/trezcool/masomo-dashboard/core/school"
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  school.User `json:"user"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds Credentials) (AuthResponse, error) {
	var res AuthResponse
	err := c.post(ctx, "auth/login", creds, &res)
	return res, err
}

func (c *Client) Register(ctx context.Context, nu school.NewUser) (AuthResponse, error) {
	var res AuthResponse
	err := c.post(ctx, "auth/register", nu, &res)
	return res, err
}

// Verify returns the user owning the token of ctx.
func (c *Client) Verify(ctx context.Context) (school.User, error) {
	var res struct {
		User school.User `json:"user"`
	}
	err := c.get(ctx, "auth/verify", nil, &res)
	return res.User, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "auth/logout", nil, nil)
}
