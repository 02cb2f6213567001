package main

import (
	"bytes"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/core/dashboard"
	"github.com/trezcool/masomo-dashboard/core/export"
	"github.com/trezcool/masomo-dashboard/core/school"
	"github.com/trezcool/masomo-dashboard/services/api"
	emailsvc "github.com/trezcool/masomo-dashboard/services/email"
	logsvc "github.com/trezcool/masomo-dashboard/services/logger"
	"github.com/trezcool/masomo-dashboard/tests"
)

type testCLI struct {
	*commandLine
	out    *bytes.Buffer
	mailer *emailsvc.ConsoleService
}

func setup(t *testing.T) testCLI {
	fake := testutil.NewFakeAPI(t)
	conf := &core.Config{AppName: "Masomo", DefaultFromEmail: "noreply@masomo.cd"}
	mailer := emailsvc.NewConsoleServiceMock(conf)
	views := dashboard.NewViews(dashboard.Deps{
		API:      fake.Client(t),
		Validate: school.NewValidator(core.NewTranslator("en")),
		Mailer:   mailer,
		Logger:   logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf),
		AppName:  conf.AppName,
		NowFunc:  func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) },
	})
	t.Cleanup(views.Close)

	readPasswordFunc = func(fd int) ([]byte, error) { return []byte(testutil.Password), nil }

	out := new(bytes.Buffer)
	return testCLI{
		commandLine: &commandLine{
			auth:  fake.Client(t),
			views: views,
			openDB: func() (*sql.DB, error) {
				// never connects: sql.Open only validates the driver name
				return sql.Open("postgres", "postgres://localhost/masomo_dashboard_test?sslmode=disable")
			},
			out: out,
		},
		out:    out,
		mailer: mailer,
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func (tt cliTest) check(t *testing.T, err error) {
	t.Helper()
	switch {
	case tt.wantErr != nil:
		assert.Equal(t, tt.wantErr, err)
	case tt.wantErrStr != "":
		require.Error(t, err)
		assert.Contains(t, err.Error(), tt.wantErrStr)
	default:
		assert.NoError(t, err)
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func Test_commandLine_usage(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "export: no args", args: []string{"export"}, wantErr: errHelp},
		{name: "export: no out", args: []string{"export", "-username", "admin@masomo.cd", "-resource", "payments"}, wantErr: errHelp},
		{name: "export: unknown flag", args: []string{"export", "-lol"}, wantErr: errHelp},
		{name: "report: no recipients", args: []string{"report", "-username", "admin@masomo.cd", "-kind", "financial"}, wantErr: errHelp},
		{name: "status: no username", args: []string{"status"}, wantErr: errHelp},
		{name: "migrate: no command", args: []string{"migrate"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(args))
		})
	}
}

func Test_commandLine_login(t *testing.T) {
	cli := setup(t)

	readPasswordFunc = func(fd int) ([]byte, error) { return nil, nil }
	assert.Equal(t, errHelp, cli.run([]string{"admin", "status", "-username", "admin@masomo.cd"}))

	readPasswordFunc = func(fd int) ([]byte, error) { return nil, fmt.Errorf("not a terminal") }
	assert.EqualError(t, cli.run([]string{"admin", "status", "-username", "admin@masomo.cd"}), "not a terminal")

	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("wrong"), nil }
	err := cli.run([]string{"admin", "status", "-username", "admin@masomo.cd"})
	require.Error(t, err)
	assert.True(t, apisvc.IsUnauthorized(err))
}

func Test_commandLine_export(t *testing.T) {
	cli := setup(t)
	dir := t.TempDir()
	out := func(name string) string { return filepath.Join(dir, name) }

	tests := []struct {
		cliTest
		file     string
		wantRows int // header included
	}{
		{cliTest: cliTest{name: "payments", args: []string{"-resource", "payments", "-out", out("payments.csv")}}, file: out("payments.csv"), wantRows: 4},
		{cliTest: cliTest{name: "paid payments", args: []string{"-resource", "payments", "-status", "paid", "-out", out("paid.csv")}}, file: out("paid.csv"), wantRows: 2},
		{cliTest: cliTest{name: "attendance of a day", args: []string{"-resource", "attendance", "-date", testutil.SeedDate, "-out", out("attendance.csv")}}, file: out("attendance.csv"), wantRows: 4},
		{cliTest: cliTest{name: "relationships", args: []string{"-resource", "relationships", "-out", out("family.csv")}}, file: out("family.csv")},
		{cliTest: cliTest{name: "unknown resource", args: []string{"-resource", "lol", "-out", out("lol.csv")}, wantErrStr: `"lol": no such resource`}},
		{cliTest: cliTest{name: "unknown format", args: []string{"-resource", "users", "-format", "pdf", "-out", out("users.pdf")}, wantErrStr: `unsupported export format "pdf"`}},
	}
	for _, tt := range tests {
		args := append([]string{"admin", "export", "-username", "admin@masomo.cd"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			tt.check(t, err)
			if err != nil || tt.file == "" {
				return
			}
			records := readCSV(t, tt.file)
			if tt.wantRows > 0 {
				assert.Len(t, records, tt.wantRows)
			}
			assert.NotEmpty(t, records[0])
		})
	}

	t.Run("xlsx", func(t *testing.T) {
		path := out("users.xlsx")
		require.NoError(t, cli.run([]string{"admin", "export", "-username", "admin@masomo.cd", "-resource", "users", "-format", "xlsx", "-out", path}))

		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()
		table, err := export.ReadXLSX(f)
		require.NoError(t, err)
		assert.Equal(t, export.UsersTable(nil).Headers, table.Headers)
		assert.Equal(t, cli.views.Directory.Table().Len(), table.Len())
		assert.Contains(t, cli.out.String(), "users written to "+path)
	})
}

func Test_commandLine_report(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "unknown kind", args: []string{"-kind", "gossip", "-to", "board@masomo.cd"}, wantErrStr: `"gossip": no such report`},
		{name: "bad recipient", args: []string{"-kind", "financial", "-to", "nope"}, wantErrStr: "parsing recipients"},
		{name: "sent", args: []string{"-kind", "financial", "-to", "Board@Masomo.cd, head@masomo.cd"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin", "report", "-username", "admin@masomo.cd"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(args))
		})
	}

	sent := cli.mailer.Sent()
	require.Len(t, sent, 1)
	require.Len(t, sent[0].To, 2)
	assert.Equal(t, "board@masomo.cd", sent[0].To[0].Address)
	assert.True(t, sent[0].HasAttachments())
}

func Test_commandLine_status(t *testing.T) {
	cli := setup(t)

	require.NoError(t, cli.run([]string{"admin", "status", "-username", "admin@masomo.cd"}))
	got := cli.out.String()
	assert.Contains(t, got, "healthy")
	assert.Contains(t, got, "1.4.2")
	assert.Contains(t, got, "24h0m0s")
	assert.False(t, cli.views.System.Polling())
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	orig := gooseRunFunc
	t.Cleanup(func() { gooseRunFunc = orig })
	gooseRunFunc = func(command string, db *sql.DB, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "unknown subcommand", args: []string{"lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: non-int arg", args: []string{"down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"up"}},
		{name: "up-to", args: []string{"up-to", "1"}},
		{name: "down", args: []string{"down"}},
		{name: "status", args: []string{"status"}},
		{name: "version", args: []string{"version"}},
		{name: "create", args: []string{"create", "add_sessions_agent", "sql"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin", "migrate"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, cli.run(args))
		})
	}
}
