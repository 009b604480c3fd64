package rest

import (
	"net/http"
	"time"

	"price-estimator-service/internal/contextkeys"
	"price-estimator-service/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// LoggerMiddleware кладет в контекст логгер с trace_id и пишет начало/конец запроса.
// Ответы 5xx логируются как ошибки, 4xx как предупреждения.
func LoggerMiddleware(logger port.LoggerPort) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := contextkeys.ResolveTraceID(r.Header.Get(contextkeys.TraceIDHeader))

			// этот логгер уходит в use cases
			requestLogger := logger.WithFields(port.Fields{"trace_id": traceID})
			accessLogger := requestLogger.WithFields(port.Fields{
				"http_method": r.Method,
				"http_path":   r.URL.Path,
				"remote_addr": r.RemoteAddr,
			})

			ctx := contextkeys.ContextWithLogger(r.Context(), requestLogger)
			ctx = contextkeys.ContextWithTraceID(ctx, traceID)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Header().Set(contextkeys.TraceIDHeader, traceID)

			start := time.Now()
			accessLogger.Debug("Request started", nil)

			next.ServeHTTP(ww, r.WithContext(ctx))

			fields := port.Fields{
				"status_code":   ww.Status(),
				"bytes_written": ww.BytesWritten(),
				"duration_ms":   time.Since(start).Milliseconds(),
			}
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				fields["route"] = rctx.RoutePattern()
			}

			switch status := ww.Status(); {
			case status >= http.StatusInternalServerError:
				accessLogger.Error("Request failed", nil, fields)
			case status >= http.StatusBadRequest:
				accessLogger.Warn("Request rejected", fields)
			default:
				accessLogger.Info("Request finished", fields)
			}
		})
	}
}
