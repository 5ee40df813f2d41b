// @title			Contact Management System API
// @version		1.0
// @description	Contact management REST API with a schemaless MongoDB-backed contacts router.
// @BasePath		/

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mtlprog/contacts/internal/config"
	"github.com/mtlprog/contacts/internal/database"
	"github.com/mtlprog/contacts/internal/handler"
	"github.com/mtlprog/contacts/internal/logger"
	"github.com/mtlprog/contacts/internal/metrics"
	"github.com/mtlprog/contacts/internal/repository"
	"github.com/mtlprog/contacts/internal/server"
	"github.com/urfave/cli/v2"
)

// contactsPrefix is where the contacts router is mounted.
const contactsPrefix = "/api/contacts"

// envFile is the outcome of loading the local environment file.
type envFile struct {
	path   string
	loaded bool
	err    error
}

func main() {
	var env envFile
	env.path, env.loaded, env.err = config.LoadEnvFile()

	if err := newApp(env).Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func newApp(env envFile) *cli.App {
	return &cli.App{
		Name:  "contacts",
		Usage: "Contact management REST API",
		Flags: config.Flags(),
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")))
			switch {
			case env.err != nil:
				slog.Warn("env file not loaded", "path", env.path, "error", env.err)
			case env.loaded:
				slog.Debug("env file loaded", "path", env.path)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the web server",
				Action: runServe,
			},
			{
				Name:   "ping",
				Usage:  "Attempt the database connection once and report the result",
				Action: runPing,
			},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The app's closers own the database handle from here on.
	app, _ := bootstrap(ctx, config.FromContext(c), slog.Default())
	return app.Run(ctx)
}

// bootstrap wires the application context: middleware pipeline, the
// non-blocking database connection attempt, then the routes. The server is
// not listening yet when it returns.
func bootstrap(ctx context.Context, cfg *config.Config, log *slog.Logger) (*server.App, *database.DB) {
	db := database.New(newDatabaseOptions(cfg, log))

	m := metrics.New()
	m.RegisterDatabaseUp(func() bool {
		return db.Status().State == database.StateConnected
	})

	app := server.New(cfg,
		server.WithLogger(log),
		server.WithInstrumentation(m.Instrument),
		server.WithCloser(db),
	)

	db.Connect(ctx)

	handler.New(db, m.Handler()).RegisterRoutes(app.Mux())
	app.Mount(contactsPrefix, handler.NewContactRouter(repository.NewContactRepository(db)))

	return app, db
}

func runPing(c *cli.Context) error {
	cfg := config.FromContext(c)

	db := database.New(newDatabaseOptions(cfg, slog.Default()))
	db.Connect(c.Context)

	status := db.Wait(c.Context)
	defer db.Close(context.WithoutCancel(c.Context))

	if status.State != database.StateConnected {
		return fmt.Errorf("database %s: %w", status.State, status.Err)
	}

	fmt.Fprintln(c.App.Writer, "database connected")
	return nil
}

func newDatabaseOptions(cfg *config.Config, log *slog.Logger) database.Options {
	return database.Options{
		Logger:         log,
		URI:            cfg.DatabaseURI,
		Database:       cfg.DatabaseName,
		Fallback:       config.DefaultDatabaseName,
		ConnectTimeout: cfg.ConnectTimeout,
	}
}
