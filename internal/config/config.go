// Package config holds process configuration and the CLI flags that populate it.
// Values are read once at startup from flags, the environment and an optional
// .env file, and are never reloaded.
package config

import (
	"time"

	"github.com/urfave/cli/v2"
)

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = 5002

	// DefaultDatabaseURI is empty; must be provided via flag or environment.
	DefaultDatabaseURI = ""

	// DefaultDatabaseName is used when neither the flag nor the URI names a database.
	DefaultDatabaseName = "contacts"

	// DefaultEnvFile is the local environment file loaded at startup.
	DefaultEnvFile = ".env"

	// DefaultBodyLimit caps JSON request bodies (100 KiB).
	DefaultBodyLimit int64 = 100 << 10

	DefaultShutdownTimeout = 10 * time.Second
	DefaultConnectTimeout  = 10 * time.Second
)

// Config contains process configuration.
type Config struct {
	DatabaseURI     string
	DatabaseName    string
	Port            int
	LogLevel        string
	CORSOrigins     []string
	BodyLimit       int64
	ShutdownTimeout time.Duration
	ConnectTimeout  time.Duration
}

// Flags returns the CLI flags backing Config. Each flag reads its
// environment variable when not given on the command line.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Aliases: []string{"l"},
			Value:   "info",
			Usage:   "Log level (debug, info, warn, error)",
			EnvVars: []string{"LOG_LEVEL"},
		},
		&cli.StringFlag{
			Name:    "mongo-uri",
			Aliases: []string{"d"},
			Value:   DefaultDatabaseURI,
			Usage:   "MongoDB connection URI",
			EnvVars: []string{"MONGO_URI"},
		},
		&cli.StringFlag{
			Name:    "mongo-database",
			Usage:   "MongoDB database name (defaults to the database in the URI)",
			EnvVars: []string{"MONGO_DATABASE"},
		},
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Value:   DefaultPort,
			Usage:   "HTTP server port",
			EnvVars: []string{"PORT"},
		},
		&cli.StringSliceFlag{
			Name:    "cors-origin",
			Value:   cli.NewStringSlice("*"),
			Usage:   "Allowed CORS origins",
			EnvVars: []string{"CORS_ORIGINS"},
		},
		&cli.Int64Flag{
			Name:    "body-limit",
			Value:   DefaultBodyLimit,
			Usage:   "Maximum JSON request body size in bytes",
			EnvVars: []string{"BODY_LIMIT"},
		},
		&cli.DurationFlag{
			Name:    "shutdown-timeout",
			Value:   DefaultShutdownTimeout,
			Usage:   "Graceful shutdown deadline",
			EnvVars: []string{"SHUTDOWN_TIMEOUT"},
		},
		&cli.DurationFlag{
			Name:    "connect-timeout",
			Value:   DefaultConnectTimeout,
			Usage:   "Deadline for the initial database connection attempt",
			EnvVars: []string{"CONNECT_TIMEOUT"},
		},
	}
}

// FromContext builds a Config from parsed CLI flags.
func FromContext(c *cli.Context) *Config {
	return &Config{
		DatabaseURI:     c.String("mongo-uri"),
		DatabaseName:    c.String("mongo-database"),
		Port:            c.Int("port"),
		LogLevel:        c.String("log-level"),
		CORSOrigins:     c.StringSlice("cors-origin"),
		BodyLimit:       c.Int64("body-limit"),
		ShutdownTimeout: c.Duration("shutdown-timeout"),
		ConnectTimeout:  c.Duration("connect-timeout"),
	}
}
