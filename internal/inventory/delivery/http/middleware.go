package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/talalam23/stock-wise/pkg/auth"
	"github.com/talalam23/stock-wise/pkg/logger"
)

// MiddlewareConfig holds middleware configuration
type MiddlewareConfig struct {
	EnableLogging   bool
	EnableTracing   bool
	EnableMetrics   bool
	EnableRecovery  bool
	EnableTimeout   bool
	TimeoutDuration time.Duration
}

// DefaultMiddlewareConfig returns default middleware configuration
func DefaultMiddlewareConfig() MiddlewareConfig {
	return MiddlewareConfig{
		EnableLogging:   true,
		EnableTracing:   true,
		EnableMetrics:   true,
		EnableRecovery:  true,
		EnableTimeout:   true,
		TimeoutDuration: 30 * time.Second,
	}
}

// RegisterMiddlewares registers all configured middlewares to the router
func RegisterMiddlewares(router *mux.Router, config MiddlewareConfig) {
	// Recovery first, so it catches panics from everything below.
	if config.EnableRecovery {
		router.Use(RecoveryMiddleware)
	}
	if config.EnableTimeout {
		router.Use(TimeoutMiddleware(config.TimeoutDuration))
	}
	if config.EnableLogging {
		router.Use(LoggingMiddleware)
	}
	if config.EnableTracing {
		router.Use(func(next http.Handler) http.Handler {
			return TracingMiddleware("http-request", next)
		})
	}
	if config.EnableMetrics {
		router.Use(MetricsMiddleware)
	}

	router.Use(RequestIDMiddleware)
	router.Use(SecurityHeadersMiddleware)
}

// RecoveryMiddleware recovers from handler panics and returns a 500
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error(r.Context()).
					Interface("panic", err).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Msg("Panic recovered")

				respondJSON(w, http.StatusInternalServerError, Response{
					Success: false,
					Error:   "Internal server error",
				})
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// TimeoutMiddleware bounds how long a request may run
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, "Request timeout")
	}
}

// RequestIDMiddleware tags every request and response with a correlation id,
// keeping the caller's own id when one is supplied
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set("X-Request-ID", requestID)
		r.Header.Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r)
	})
}

// SecurityHeadersMiddleware adds security headers to every response
func SecurityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'self'")

		next.ServeHTTP(w, r)
	})
}

// TracingMiddleware wraps HTTP handlers with OpenTelemetry tracing
func TracingMiddleware(operationName string, next http.Handler) http.Handler {
	return otelhttp.NewHandler(next, operationName)
}

// LoggingMiddleware logs HTTP requests with structured logging
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		ctx := r.Context()
		traceID := "no-trace"
		if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
			traceID = span.SpanContext().TraceID().String()
		}

		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		logEvent := logger.Info(ctx)
		if ww.statusCode >= 500 {
			logEvent = logger.Error(ctx)
		}

		logEvent.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.statusCode).
			Dur("duration", duration).
			Str("trace_id", traceID).
			Msg("HTTP request completed")
	})
}

// AuthMiddleware validates a bearer JWT on mutating routes. An empty
// secret disables authentication.
func AuthMiddleware(secret string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		if secret == "" {
			return next
		}
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondJSON(w, http.StatusUnauthorized, Response{
					Success: false,
					Error:   "Authorization header required",
				})
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondJSON(w, http.StatusUnauthorized, Response{
					Success: false,
					Error:   "Invalid authorization header format",
				})
				return
			}

			if _, err := auth.ValidateToken(parts[1], secret); err != nil {
				logger.Warn(r.Context()).Err(err).Msg("Rejected invalid token")
				respondJSON(w, http.StatusUnauthorized, Response{
					Success: false,
					Error:   "Invalid token",
				})
				return
			}

			next(w, r)
		}
	}
}

// statusResponseWriter wraps http.ResponseWriter to capture the status code
type statusResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusResponseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}
