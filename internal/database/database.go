package database

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/mtlprog/contacts/internal/domain"
)

// Options configures the database connection.
type Options struct {
	URI string
	// Database overrides the database named in the URI.
	Database string
	// Fallback is used when neither Database nor the URI names one.
	Fallback string
	// ConnectTimeout bounds the initial connect and ping.
	ConnectTimeout time.Duration
	// Logger receives the connection lifecycle lines. Defaults to slog.Default().
	Logger *slog.Logger
}

// DB is the process-wide MongoDB connection handle. The connection is
// attempted once, in the background, and never retried.
type DB struct {
	opts   Options
	logger *slog.Logger

	once sync.Once
	done chan struct{}

	mu     sync.RWMutex
	closed bool
	status Status
	client *mongo.Client
	db     *mongo.Database
}

// New creates a DB handle. No connection is made until Connect is called.
func New(opts Options) *DB {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DB{
		opts:   opts,
		logger: logger,
		done:   make(chan struct{}),
		status: Status{State: StateConnecting},
	}
}

// Connect starts the connection attempt and returns immediately. The outcome
// is logged and exposed via Status. Calls after the first are no-ops.
func (db *DB) Connect(ctx context.Context) {
	db.once.Do(func() {
		go db.connect(context.WithoutCancel(ctx))
	})
}

func (db *DB) connect(ctx context.Context) {
	defer close(db.done)

	if db.opts.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, db.opts.ConnectTimeout)
		defer cancel()
	}

	client, name, err := db.dial(ctx)
	if err != nil {
		db.logger.Error("database connection failed", "error", err)
		db.setStatus(Status{State: StateFailed, Err: err}, nil, nil)
		return
	}

	if !db.setStatus(Status{State: StateConnected}, client, client.Database(name)) {
		// Close won the race; drop the late client.
		_ = client.Disconnect(ctx)
		return
	}
	db.logger.Info("database connected", "database", name)
}

func (db *DB) dial(ctx context.Context) (*mongo.Client, string, error) {
	if db.opts.URI == "" {
		return nil, "", domain.ErrMissingDatabaseURI
	}

	cs, err := connstring.ParseAndValidate(db.opts.URI)
	if err != nil {
		return nil, "", fmt.Errorf("parse database URI: %w", err)
	}

	name := db.opts.Database
	if name == "" {
		name = cs.Database
	}
	if name == "" {
		name = db.opts.Fallback
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(db.opts.URI))
	if err != nil {
		return nil, "", fmt.Errorf("create client: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, "", fmt.Errorf("ping database: %w", err)
	}

	return client, name, nil
}

// setStatus records the outcome of the attempt. It reports false when the
// handle was closed first.
func (db *DB) setStatus(s Status, client *mongo.Client, d *mongo.Database) bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return false
	}
	db.status = s
	db.client = client
	db.db = d
	return true
}

// Status returns the current connection state.
func (db *DB) Status() Status {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.status
}

// Wait blocks until the connection attempt resolves or ctx is done.
// Connect must have been called.
func (db *DB) Wait(ctx context.Context) Status {
	select {
	case <-db.done:
	case <-ctx.Done():
	}
	return db.Status()
}

// Collection returns the named collection, or domain.ErrDatabaseUnavailable
// unless the database is connected.
func (db *DB) Collection(name string) (*mongo.Collection, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.status.State != StateConnected {
		return nil, fmt.Errorf("%w: %s", domain.ErrDatabaseUnavailable, db.status.State)
	}
	return db.db.Collection(name), nil
}

// Ping checks that the connected server still answers.
func (db *DB) Ping(ctx context.Context) error {
	db.mu.RLock()
	client, state := db.client, db.status.State
	db.mu.RUnlock()

	if state != StateConnected {
		return fmt.Errorf("%w: %s", domain.ErrDatabaseUnavailable, state)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// Close disconnects the client if connected. The state becomes
// StateDisconnected and a still-pending attempt is discarded.
func (db *DB) Close(ctx context.Context) error {
	db.mu.Lock()
	client := db.client
	db.closed = true
	db.client = nil
	db.db = nil
	db.status = Status{State: StateDisconnected}
	db.mu.Unlock()

	if client == nil {
		return nil
	}
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect database: %w", err)
	}

	db.logger.Info("database connection closed")
	return nil
}
