package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/contacts/internal/config"
	"github.com/mtlprog/contacts/internal/database"
	"github.com/mtlprog/contacts/internal/domain"
	"github.com/mtlprog/contacts/internal/handler/dto"
)

func testConfig(uri string) *config.Config {
	return &config.Config{
		DatabaseURI:     uri,
		CORSOrigins:     []string{"*"},
		BodyLimit:       config.DefaultBodyLimit,
		ShutdownTimeout: time.Second,
		ConnectTimeout:  time.Second,
	}
}

func noopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitFailed(t *testing.T, db *database.DB) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.Equal(t, database.StateFailed, db.Wait(ctx).State)
}

func TestBootstrap_MissingDatabaseURI(t *testing.T) {
	app, db := bootstrap(context.Background(), testConfig(""), noopLogger())
	waitFailed(t, db)

	w := httptest.NewRecorder()
	app.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Welcome to the Contact Management System API! Use /api/contacts to manage contacts.", w.Body.String())

	w = httptest.NewRecorder()
	app.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/contacts", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, dto.CodeDatabaseUnavailable, resp.Error.Code)
}

func TestBootstrap_MalformedJSONRejectedBeforeRouter(t *testing.T) {
	app, db := bootstrap(context.Background(), testConfig(""), noopLogger())
	waitFailed(t, db)

	req := httptest.NewRequest(http.MethodPost, "/api/contacts", strings.NewReader(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	app.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	app.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBootstrap_MetricsExposeDatabaseState(t *testing.T) {
	app, db := bootstrap(context.Background(), testConfig(""), noopLogger())
	waitFailed(t, db)

	w := httptest.NewRecorder()
	app.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "contacts_database_up 0")
}

func TestPing_FailsWithoutDatabase(t *testing.T) {
	t.Setenv("MONGO_URI", "")

	app := newApp(envFile{})
	var out bytes.Buffer
	app.Writer = &out

	err := app.Run([]string{"contacts", "--log-level", "error", "ping"})

	assert.ErrorIs(t, err, domain.ErrMissingDatabaseURI)
	assert.NotContains(t, out.String(), "database connected")
}

func TestNewApp_Commands(t *testing.T) {
	app := newApp(envFile{})

	assert.NotNil(t, app.Command("serve"))
	assert.NotNil(t, app.Command("ping"))
	assert.NotNil(t, app.Action, "running without arguments serves")
}
