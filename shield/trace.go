package shield

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hazyhaar/csspeek/idgen"
	"github.com/hazyhaar/csspeek/kit"
)

// RequestID assigns each request an id (kept from X-Request-ID when the
// caller sends one), stores it under kit.RequestIDKey, echoes it in the
// response and attaches a per-request logger under LoggerKey.
func RequestID(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-ID")
			if id == "" || len(id) > 64 {
				id = idgen.New()
			}
			w.Header().Set("X-Request-ID", id)

			reqLogger := logger.With(
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
			)
			ctx := kit.WithTransport(kit.WithRequestID(r.Context(), id), "http")
			ctx = context.WithValue(ctx, LoggerKey, reqLogger)
			reqLogger.Debug("request")

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
