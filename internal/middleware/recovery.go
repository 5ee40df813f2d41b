package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/mtlprog/contacts/internal/handler/dto"
)

// Recovery recovers from handler panics, logs the stack trace and answers
// 500 so the server keeps serving other requests.
func Recovery(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.ErrorContext(r.Context(), "panic recovered",
					"panic", rec,
					"stack", string(debug.Stack()),
					"method", r.Method,
					"path", r.URL.Path,
				)
				dto.WriteError(w, http.StatusInternalServerError, dto.CodeInternal, "Internal server error")
			}()
			next.ServeHTTP(w, r)
		})
	}
}
