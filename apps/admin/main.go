package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/core/dashboard"
	"github.com/trezcool/masomo-dashboard/core/school"
	"github.com/trezcool/masomo-dashboard/services/api"
	emailsvc "github.com/trezcool/masomo-dashboard/services/email"
	logsvc "github.com/trezcool/masomo-dashboard/services/logger"
	"github.com/trezcool/masomo-dashboard/storage/database"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	appLogger := logsvc.NewRollbarLogger(logger, conf)
	defer appLogger.Close()

	client, err := apisvc.NewClient(conf.API.BaseURL, apisvc.WithTimeout(conf.API.Timeout))
	errAndDie(err)

	var mailer core.EmailService
	if conf.Debug {
		mailer = emailsvc.NewConsoleService(conf, log.New(os.Stdout, "EMAIL : ", log.LstdFlags))
	} else {
		mailer = emailsvc.NewSendgridService(conf, appLogger)
	}

	views := dashboard.NewViews(dashboard.Deps{
		API:      client,
		Validate: school.NewValidator(core.NewTranslator(conf.Locale)),
		Mailer:   mailer,
		Logger:   appLogger,
		AppName:  conf.AppName,
	})
	defer views.Close()

	// start CLI
	cli := commandLine{
		auth:  client,
		views: views,
		openDB: func() (*sql.DB, error) {
			ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout*2)
			defer cancel()
			if err := database.CreateIfNotExist(ctx, conf.Database); err != nil {
				return nil, err
			}
			db, err := database.Open(ctx, conf.Database)
			if err != nil {
				return nil, err
			}
			return db.DB, nil
		},
		out: os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		views.Close()
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
