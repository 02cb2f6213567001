package main

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/core/school"
)

// report e-mails a generated report as a CSV attachment.
func (cli *commandLine) report(ctx context.Context, kind school.ReportKind, filter school.ReportFilter, to string) error {
	if !kind.Valid() {
		return errors.Errorf("%q: no such report", kind)
	}
	recipients, err := mail.ParseAddressList(strings.ToLower(to))
	if err != nil {
		return errors.Wrap(err, "parsing recipients")
	}
	addrs := make([]mail.Address, len(recipients))
	for i, r := range recipients {
		addrs[i] = *r
	}
	if err = cli.views.Reports.Email(ctx, kind, filter, addrs...); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s report sent to %d recipient(s)\n", kind, len(recipients))
	return nil
}
