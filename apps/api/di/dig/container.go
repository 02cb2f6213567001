package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/masomo-dashboard/apps/api/echo"
	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/core/dashboard"
	"github.com/trezcool/masomo-dashboard/core/school"
	"github.com/trezcool/masomo-dashboard/services/api"
	emailsvc "github.com/trezcool/masomo-dashboard/services/email"
	logsvc "github.com/trezcool/masomo-dashboard/services/logger"
	"github.com/trezcool/masomo-dashboard/storage/database"
	"github.com/trezcool/masomo-dashboard/storage/session"
	"github.com/trezcool/masomo-dashboard/storage/session/inmem"
	"github.com/trezcool/masomo-dashboard/storage/session/redisstore"
	"github.com/trezcool/masomo-dashboard/storage/session/sqlstore"
)

// StoreLoggerParam is the logger of the session store.
type StoreLoggerParam struct {
	dig.In
	Logger core.Logger `name:"storeLogger"`
}

// Closer releases the resources held by the session store (redis client, db pool).
type Closer func() error

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func newStoreLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "SESSIONS : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func newTranslator(conf *core.Config) ut.Translator {
	return core.NewTranslator(conf.Locale)
}

// newSessionStore connects the store selected by `session.store`.
func newSessionStore(conf *core.Config, loggerParam StoreLoggerParam) (session.Store, Closer) {
	logger := loggerParam.Logger
	ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout*2)
	defer cancel()

	switch conf.Session.Store {
	case "redis":
		client, err := redisstore.Connect(ctx, conf.Redis)
		if err != nil {
			logger.Fatal(fmt.Sprintf("connecting to redis: %v", err), err)
		}
		logger.Info("sessions stored in redis at " + conf.Redis.Addr)
		return redisstore.NewStore(client), client.Close

	case "postgres":
		setUp := func() (*sqlstore.Store, Closer, error) {
			if err := database.CreateIfNotExist(ctx, conf.Database); err != nil {
				return nil, nil, err
			}
			db, err := database.Open(ctx, conf.Database)
			if err != nil {
				return nil, nil, err
			}
			if err = database.Migrate(db.DB); err != nil {
				_ = db.Close()
				return nil, nil, err
			}
			return sqlstore.NewStore(db), db.Close, nil
		}
		store, closer, err := setUp()
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		logger.Info("sessions stored in postgres at " + conf.Database.Address())
		return store, closer

	case "memory", "":
		logger.Info("sessions stored in memory")
		return inmem.NewStore(), func() error { return nil }
	}

	err := errors.Errorf("unknown session store %q", conf.Session.Store)
	logger.Fatal(err.Error(), err)
	return nil, nil
}

func newAPIClient(conf *core.Config) (*apisvc.Client, error) {
	return apisvc.NewClient(
		conf.API.BaseURL,
		apisvc.WithTimeout(conf.API.Timeout),
		apisvc.WithUserAgent(conf.AppName+"-dashboard/"+conf.Build),
	)
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, log.New(os.Stdout, "EMAIL : ", log.LstdFlags))
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newRegistry(
	conf *core.Config,
	client *apisvc.Client,
	validate *validator.Validate,
	mailer core.EmailService,
	logger core.Logger,
) *dashboard.Registry {
	return dashboard.NewRegistry(dashboard.Deps{
		API:      client,
		Validate: validate,
		Mailer:   mailer,
		Logger:   logger,
		AppName:  conf.AppName,
	})
}

func newServer(
	conf *core.Config,
	logger core.Logger,
	translator ut.Translator,
	validate *validator.Validate,
	sessions session.Store,
	client *apisvc.Client,
	views *dashboard.Registry,
) *echoapi.Server {
	return echoapi.NewServer(&echoapi.Deps{
		Conf:       conf,
		Logger:     logger,
		Translator: translator,
		Validate:   validate,
		Sessions:   sessions,
		Auth:       client,
		Views:      views,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newStoreLogger, dig.Name("storeLogger")))
	must(c.Provide(newTranslator))
	must(c.Provide(school.NewValidator))
	must(c.Provide(newSessionStore))
	must(c.Provide(newAPIClient))
	must(c.Provide(newEmailService))
	must(c.Provide(newRegistry))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
