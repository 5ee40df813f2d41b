package handler

import (
	"net/http"

	_ "github.com/mtlprog/contacts/docs" // Import generated docs
	"github.com/mtlprog/contacts/internal/database"
	"github.com/mtlprog/contacts/internal/handler/dto"
	"github.com/mtlprog/contacts/internal/static"
	httpSwagger "github.com/swaggo/http-swagger"
)

// StatusReporter reports the database connection state.
type StatusReporter interface {
	Status() database.Status
}

// Handler serves the bootstrap routes that sit outside any mounted router.
type Handler struct {
	db      StatusReporter
	metrics http.Handler
}

// New creates a new Handler. metrics may be nil to leave /metrics unrouted.
func New(db StatusReporter, metrics http.Handler) *Handler {
	return &Handler{
		db:      db,
		metrics: metrics,
	}
}

// RegisterRoutes registers the bootstrap routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Welcome text, exact root only
	mux.HandleFunc("GET /{$}", h.handleRoot)

	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics)
	}

	// Swagger UI
	mux.HandleFunc("GET /swagger/", httpSwagger.Handler())
}

// handleRoot returns the welcome text regardless of database state.
// @Summary Welcome message
// @Tags bootstrap
// @Produce plain
// @Success 200 {string} string
// @Router / [get]
func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(static.Welcome))
}

// handleHealthz reports the database connection state.
// @Summary Health check
// @Description Returns 200 once the database is connected, 503 while connecting or after a failure.
// @Tags bootstrap
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /healthz [get]
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	status := h.db.Status()

	resp := dto.HealthResponse{
		Status:   "ok",
		Database: status.State.String(),
	}
	code := http.StatusOK

	if status.State != database.StateConnected {
		resp.Status = "degraded"
		code = http.StatusServiceUnavailable
		if status.Err != nil {
			resp.Error = status.Err.Error()
		}
	}

	dto.WriteJSON(w, code, resp)
}
