package apisvc

import (
	"context"

	"github.com/trezcool/masomo-dashboard/core/school"
)

func (c *Client) ListMessages(ctx context.Context, filter school.MessageFilter) ([]school.Message, error) {
	var msgs []school.Message
	err := c.get(ctx, "messages", filter.Query(), &msgs)
	return msgs, err
}

func (c *Client) SendMessage(ctx context.Context, nm school.NewMessage) (school.Message, error) {
	var msg school.Message
	err := c.post(ctx, "messages", nm, &msg)
	return msg, err
}

func (c *Client) MarkMessageRead(ctx context.Context, id string) error {
	return c.put(ctx, path("messages", id, "read"), nil, nil)
}

func (c *Client) DeleteMessage(ctx context.Context, id string) error {
	return c.delete(ctx, path("messages", id))
}
