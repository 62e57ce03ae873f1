// Package middleware provides HTTP middleware for the web server.
package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/autoimmunedb/internal/logging"
)

// Logger writes one summary line per request after the handler returns.
//
// Handlers add their own fields with logging.Annotate: the session, the
// size of the dataset searched, how many rows matched. The line carries
// the route pattern rather than the raw path. Queries are never logged.
//
// Levels: error for 5xx, warn for 4xx, debug for successful static and
// health requests, info otherwise.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := logging.WithAnnotations(r.Context())
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		args := []any{
			"method", r.Method,
			"route", route(r),
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"ip", clientIP(r),
		}
		args = append(args, logging.Annotations(ctx)...)
		logging.FromContext(ctx).Log(ctx, statusLevel(r, status), "request completed", args...)
	})
}

// route prefers the matched chi pattern so /static/* requests share a key.
func route(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

func statusLevel(r *http.Request, status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	case r.URL.Path == "/healthz", strings.HasPrefix(r.URL.Path, "/static/"):
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
