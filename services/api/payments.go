package apisvc

import (
	"context"

	"github.com/trezcool/masomo-dashboard/core/school"
)

func (c *Client) ListPayments(ctx context.Context, filter school.PaymentFilter) ([]school.Payment, error) {
	var payments []school.Payment
	err := c.get(ctx, "payments", filter.Query(), &payments)
	return payments, err
}

func (c *Client) CreatePayment(ctx context.Context, np school.NewPayment) (school.Payment, error) {
	var payment school.Payment
	err := c.post(ctx, "payments", np, &payment)
	return payment, err
}

func (c *Client) UpdatePayment(ctx context.Context, id string, pu school.PaymentUpdate) (school.Payment, error) {
	var payment school.Payment
	err := c.put(ctx, path("payments", id), pu, &payment)
	return payment, err
}

func (c *Client) DeletePayment(ctx context.Context, id string) error {
	return c.delete(ctx, path("payments", id))
}
