package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/masomo-dashboard/core/dashboard"
	"github.com/trezcool/masomo-dashboard/core/school"
	"github.com/trezcool/masomo-dashboard/services/api"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

// Authenticator logs the operator in against the school API.
type Authenticator interface {
	Login(ctx context.Context, creds apisvc.Credentials) (apisvc.AuthResponse, error)
}

type commandLine struct {
	auth   Authenticator
	views  *dashboard.Views
	openDB func() (*sql.DB, error)
	out    io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  export -username EMAIL -resource payments|attendance|users|relationships|grades -format csv|xlsx -out FILE [-status S] [-date D] [-class ID]")
	fmt.Fprintln(cli.out, "  report -username EMAIL -kind academic|attendance|financial|enrollment -to EMAIL[,EMAIL] [-from D] [-to-date D] [-class ID]")
	fmt.Fprintln(cli.out, "  status -username EMAIL - print the system status")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command against the sessions database")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	exportCmd := flag.NewFlagSet("export", flag.ContinueOnError)
	exportCmd.SetOutput(cli.out)
	exportUname := exportCmd.String("username", "", "The operator's email. The password will be prompted next.")
	exportResource := exportCmd.String("resource", "", "payments, attendance, users, relationships or grades")
	exportFormat := exportCmd.String("format", "csv", "csv or xlsx")
	exportOut := exportCmd.String("out", "", "The file to write")
	exportStatus := exportCmd.String("status", "", "Filter payments or attendance by status")
	exportDate := exportCmd.String("date", "", "Filter attendance by date (YYYY-MM-DD)")
	exportClass := exportCmd.String("class", "", "Filter attendance or grades by class ID")

	reportCmd := flag.NewFlagSet("report", flag.ContinueOnError)
	reportCmd.SetOutput(cli.out)
	reportUname := reportCmd.String("username", "", "The operator's email. The password will be prompted next.")
	reportKind := reportCmd.String("kind", "", "academic, attendance, financial or enrollment")
	reportTo := reportCmd.String("to", "", "Comma separated recipients")
	reportFrom := reportCmd.String("from", "", "Period start (YYYY-MM-DD)")
	reportToDate := reportCmd.String("to-date", "", "Period end (YYYY-MM-DD)")
	reportClass := reportCmd.String("class", "", "Restrict the report to a class ID")

	statusCmd := flag.NewFlagSet("status", flag.ContinueOnError)
	statusCmd.SetOutput(cli.out)
	statusUname := statusCmd.String("username", "", "The operator's email. The password will be prompted next.")

	switch args[1] {
	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *exportUname == "" || *exportResource == "" || *exportOut == "" {
			exportCmd.Usage()
			return errHelp
		}
		ctx, err := cli.login(*exportUname)
		if err != nil {
			return err
		}
		return cli.export(ctx, exportRequest{
			resource: *exportResource,
			format:   *exportFormat,
			out:      *exportOut,
			status:   *exportStatus,
			date:     *exportDate,
			classID:  *exportClass,
		})

	case "report":
		if err := reportCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *reportUname == "" || *reportKind == "" || *reportTo == "" {
			reportCmd.Usage()
			return errHelp
		}
		ctx, err := cli.login(*reportUname)
		if err != nil {
			return err
		}
		filter := school.ReportFilter{From: *reportFrom, To: *reportToDate, ClassID: *reportClass}
		return cli.report(ctx, school.ReportKind(*reportKind), filter, *reportTo)

	case "status":
		if err := statusCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *statusUname == "" {
			statusCmd.Usage()
			return errHelp
		}
		ctx, err := cli.login(*statusUname)
		if err != nil {
			return err
		}
		return cli.status(ctx)

	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	default:
		cli.printUsage()
		return errHelp
	}
}

// login prompts for the password and returns a context carrying the API token.
func (cli *commandLine) login(username string) (context.Context, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return nil, err
	}
	if len(pwd) == 0 {
		return nil, errHelp
	}

	ctx := context.Background()
	res, err := cli.auth.Login(ctx, apisvc.Credentials{Username: username, Password: string(pwd)})
	if err != nil {
		return nil, err
	}
	return apisvc.WithToken(ctx, res.Token), nil
}
