package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	gconfig "github.com/goliatone/go-config/config"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/nippoapp/nippo"
	"github.com/nippoapp/nippo/config"
	"github.com/nippoapp/nippo/middleware/sessionware"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type App struct {
	config  *gconfig.Container[*config.BaseConfig]
	bunDB   *bun.DB
	repo    nippo.RepositoryManager
	tokens  nippo.TokenService
	session *nippo.SessionManager
	srv     router.Server[*fiber.App]
	logger  *glog.BaseLogger
}

func (a *App) Config() *config.BaseConfig {
	return a.config.Raw()
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("nippo"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := gconfig.New(&config.BaseConfig{}).
		WithLogger(lgr.GetLogger("config"))

	ctx := context.Background()
	if err := cfg.Load(ctx); err != nil {
		panic(err)
	}

	app := &App{
		config: cfg,
		logger: lgr,
	}

	if app.Config().GetApp().GetEnv() == "development" {
		fmt.Println(print.MaybeHighlightJSON(cfg.Raw()))
	}

	if err := WithPersistence(ctx, app); err != nil {
		panic(err)
	}

	if err := WithHTTPServer(ctx, app); err != nil {
		panic(err)
	}

	app.srv.Serve(app.Config().GetServer().GetAddr())

	WaitExitSignal()
}

func WithPersistence(ctx context.Context, app *App) error {
	pcfg := app.Config().GetPersistence()

	db, err := sql.Open(sqliteshim.ShimName, pcfg.GetDSN())
	if err != nil {
		return err
	}

	persistence.RegisterModel((*nippo.User)(nil))
	persistence.RegisterModel((*nippo.Report)(nil))
	persistence.RegisterModel((*nippo.CustomEmoji)(nil))
	persistence.RegisterModel((*nippo.Reaction)(nil))

	dialect := sqlitedialect.New()
	client, err := persistence.New(pcfg, db, dialect)
	if err != nil {
		return err
	}

	client.SetLogger(app.GetLogger("persistence"))

	migrationsFS, err := fs.Sub(nippo.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return err
	}
	client.RegisterDialectMigrations(
		migrationsFS,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("sqlite"),
	)
	if err := client.ValidateDialects(ctx); err != nil {
		return err
	}

	if err := client.Migrate(ctx); err != nil {
		return err
	}

	app.bunDB = client.DB()
	app.repo = nippo.NewRepositoryManager(client.DB())

	return app.repo.Validate()
}

func WithHTTPServer(ctx context.Context, app *App) error {
	acfg := app.Config().GetAuth()

	app.tokens = nippo.NewTokenService(
		[]byte(acfg.GetSigningKey()),
		acfg.GetTokenExpiration(),
		acfg.GetIssuer(),
		routerLogger{app.GetLogger("tokens")},
	)

	app.session = nippo.NewSessionManager(app.tokens, acfg)
	app.session.Logger = routerLogger{app.GetLogger("session")}

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:  true,
			StrictRouting: false,
			AppName:       app.Config().GetApp().GetName(),
		}))
	})

	srv.Router().WithLogger(app.GetLogger("router"))

	srv.Router().Get("/healthz", func(ctx router.Context) error {
		return ctx.JSON(router.StatusOK, map[string]any{
			"status": "ok",
			"name":   app.Config().GetApp().GetName(),
		})
	})

	provider := nippo.NewUserProvider(app.repo.Users()).
		WithLogger(routerLogger{app.GetLogger("auth:prv")})

	register := nippo.NewRegisterUserHandler(app.repo).
		WithBcryptCost(acfg.GetBcryptCost())

	nippo.RegisterAuthRoutes(srv.Router(),
		nippo.WithAuthRepo(app.repo),
		nippo.WithAuthSession(app.session),
		nippo.WithAuthProvider(provider),
		nippo.WithAuthRegisterHandler(register),
		nippo.WithAuthLogger(routerLogger{app.GetLogger("auth:ctrl")}),
	)

	protected := sessionware.New(sessionware.Config{
		TokenValidator: app.tokens,
		ContextKey:     acfg.GetContextKey(),
		TokenLookup:    "cookie:" + acfg.GetCookieName(),
	})

	journal := srv.Router().Group("/")
	journal.Use(protected)

	nippo.RegisterJournalRoutes(journal,
		nippo.WithJournalRepo(app.repo),
		nippo.WithJournalSession(app.session),
		nippo.WithJournalLogger(routerLogger{app.GetLogger("journal:ctrl")}),
	)

	app.srv = srv

	return nil
}

// routerLogger adapts the structured logger to the printf style interface
// the root package uses.
type routerLogger struct {
	lgr glog.Logger
}

func (l routerLogger) Debug(format string, args ...any) { l.lgr.Debug(fmt.Sprintf(format, args...)) }
func (l routerLogger) Info(format string, args ...any)  { l.lgr.Info(fmt.Sprintf(format, args...)) }
func (l routerLogger) Warn(format string, args ...any)  { l.lgr.Warn(fmt.Sprintf(format, args...)) }
func (l routerLogger) Error(format string, args ...any) { l.lgr.Error(fmt.Sprintf(format, args...)) }

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
