package apisvc

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/core/school"
)

func (c *Client) Report(ctx context.Context, kind school.ReportKind, filter school.ReportFilter) (school.Report, error) {
	if !kind.Valid() {
		return school.Report{}, errors.Errorf("unknown report kind %q", kind)
	}
	var r school.Report
	if err := c.get(ctx, path("reports", string(kind)), filter.Query(), &r); err != nil {
		return r, err
	}
	if r.Kind == "" {
		r.Kind = kind
	}
	return r, nil
}
