package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/mmynk/hecovacka/internal/respond"
)

// Recover turns a handler panic into a 500 envelope. The panic value is only
// exposed to clients when exposeErrors is set (development).
func Recover(logger *slog.Logger, exposeErrors bool) func(http.Handler) http.Handler {
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

				logger.Error("Server error",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
					"stack", string(debug.Stack()),
				)

				detail := "Something went wrong!"
				if exposeErrors {
					detail = fmt.Sprint(rec)
				}
				respond.ErrorDetail(w, http.StatusInternalServerError, "Internal server error", detail)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
