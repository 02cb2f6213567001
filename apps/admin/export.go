package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/core/export"
	"github.com/trezcool/masomo-dashboard/core/school"
)

type exportRequest struct {
	resource string
	format   string
	out      string
	status   string
	date     string
	classID  string
}

// export loads the view of the resource and writes its filtered table to a file.
func (cli *commandLine) export(ctx context.Context, req exportRequest) error {
	format, err := export.ParseFormat(req.format)
	if err != nil {
		return err
	}

	var (
		table    export.Table
		failures []string
	)
	switch strings.ToLower(req.resource) {
	case "payments":
		snap, err := cli.views.Finance.Load(ctx, school.PaymentFilter{Status: school.PaymentStatus(req.status)}, nil)
		if err != nil {
			return err
		}
		table, failures = cli.views.Finance.TableOf(snap), snap.Data.Failures
	case "attendance":
		filter := school.AttendanceFilter{
			Date:    req.date,
			ClassID: req.classID,
			Status:  school.AttendanceStatus(req.status),
		}
		snap, err := cli.views.Attendance.Load(ctx, filter, nil)
		if err != nil {
			return err
		}
		table, failures = cli.views.Attendance.TableOf(snap), snap.Data.Failures
	case "users":
		snap, err := cli.views.Directory.Load(ctx, school.UserFilter{}, nil)
		if err != nil {
			return err
		}
		table, failures = cli.views.Directory.TableOf(snap), snap.Data.Failures
	case "relationships":
		snap, err := cli.views.Family.Load(ctx, school.RelationshipFilter{}, nil)
		if err != nil {
			return err
		}
		table, failures = cli.views.Family.TableOf(snap), snap.Data.Failures
	case "grades":
		snap, err := cli.views.Grades.Load(ctx, school.GradeFilter{ClassID: req.classID}, nil)
		if err != nil {
			return err
		}
		table, failures = cli.views.Grades.TableOf(snap), snap.Data.Failures
	default:
		return errors.Errorf("%q: no such resource", req.resource)
	}
	if len(failures) > 0 {
		fmt.Fprintf(cli.out, "warning: could not load %s\n", strings.Join(failures, ", "))
	}

	f, err := os.Create(req.out)
	if err != nil {
		return errors.Wrap(err, "creating export file")
	}
	if err = export.Write(f, table, format, req.resource); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "writing export")
	}
	if err = f.Close(); err != nil {
		return errors.Wrap(err, "closing export file")
	}
	fmt.Fprintf(cli.out, "%d %s written to %s\n", table.Len(), req.resource, req.out)
	return nil
}
