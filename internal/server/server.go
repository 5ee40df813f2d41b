// Package server composes the HTTP bootstrap: middleware pipeline, route
// multiplexer, mounted routers and the listening server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mtlprog/contacts/internal/config"
	"github.com/mtlprog/contacts/internal/middleware"
)

// HTTP server timeouts.
const (
	readTimeout       = 15 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
)

// Closer releases a resource held for the process lifetime.
type Closer interface {
	Close(ctx context.Context) error
}

// App is the application context built once at startup. It owns the route
// multiplexer, the middleware chain wrapped around it and the HTTP server.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	instrument []middleware.Middleware
	closers    []Closer

	mux     *http.ServeMux
	handler http.Handler
	server  *http.Server
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger used for the access log and lifecycle lines.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithInstrumentation adds a stage, such as metrics, between the access log
// and the CORS policy.
func WithInstrumentation(mw middleware.Middleware) Option {
	return func(a *App) {
		a.instrument = append(a.instrument, mw)
	}
}

// WithCloser registers a resource to release after the server shuts down.
func WithCloser(c Closer) Option {
	return func(a *App) {
		a.closers = append(a.closers, c)
	}
}

// New builds the App. The pipeline order is request ID, access log,
// instrumentation, recovery, CORS, JSON body parsing, then routing. Recovery
// sits inside the access log and instrumentation so panicking requests are
// still logged and counted as 500.
func New(cfg *config.Config, opts ...Option) *App {
	a := &App{
		cfg:    cfg,
		logger: slog.Default(),
		mux:    http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(a)
	}

	bodyLimit := cfg.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = config.DefaultBodyLimit
	}

	stages := []middleware.Middleware{
		middleware.RequestID,
		middleware.RequestLogger(a.logger),
	}
	stages = append(stages, a.instrument...)
	stages = append(stages,
		middleware.Recovery(a.logger),
		middleware.CORS(cfg.CORSOrigins),
		middleware.JSONBody(bodyLimit),
	)
	a.handler = middleware.Chain(a.mux, stages...)

	a.server = &http.Server{
		Handler:           a.handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(a.logger.Handler(), slog.LevelWarn),
	}
	return a
}

// Mux returns the route multiplexer for registering top-level routes.
func (a *App) Mux() *http.ServeMux {
	return a.mux
}

// Handler returns the full pipeline, middleware included.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Mount delegates every method and path under prefix to h. The prefix is
// stripped, so h sees the remainder ("/" for the bare prefix). Everything
// else about the request is forwarded untouched.
func (a *App) Mount(prefix string, h http.Handler) {
	prefix = "/" + strings.Trim(prefix, "/")
	strip := stripPrefix(prefix, h)

	a.mux.Handle(prefix, strip)
	a.mux.Handle(prefix+"/", strip)
}

func stripPrefix(prefix string, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, prefix)
		rawPath := strings.TrimPrefix(r.URL.RawPath, prefix)
		if path == "" {
			path = "/"
		}
		if r.URL.RawPath != "" && rawPath == "" {
			rawPath = "/"
		}

		r2 := new(http.Request)
		*r2 = *r
		r2.URL = new(url.URL)
		*r2.URL = *r.URL
		r2.URL.Path = path
		r2.URL.RawPath = rawPath
		h.ServeHTTP(w, r2)
	})
}

// Listen binds the TCP listener on the configured port.
func (a *App) Listen() (net.Listener, error) {
	addr := net.JoinHostPort("", strconv.Itoa(a.cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	return ln, nil
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully and releases registered closers.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	port := ln.Addr().(*net.TCPAddr).Port
	a.logger.Info("server running", "port", port, "server_addr", "http://localhost:"+strconv.Itoa(port))

	serverErr := make(chan error, 1)
	go func() {
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			a.close()
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		a.logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.shutdownTimeout())
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.close()
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	a.close()

	a.logger.Info("server stopped")
	return nil
}

// Run listens on the configured port and serves until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ln, err := a.Listen()
	if err != nil {
		return err
	}
	return a.Serve(ctx, ln)
}

func (a *App) close() {
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
	defer cancel()

	for _, c := range a.closers {
		if err := c.Close(ctx); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
}

func (a *App) shutdownTimeout() time.Duration {
	if a.cfg.ShutdownTimeout <= 0 {
		return config.DefaultShutdownTimeout
	}
	return a.cfg.ShutdownTimeout
}
