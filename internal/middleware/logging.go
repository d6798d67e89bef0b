// Package middleware provides HTTP middleware for the Digital Drive server.
package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// statusRecorder captures the response status so the access log can
// report it after the handler runs.
type statusRecorder struct {
	http.ResponseWriter
	status int
	set    bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.set {
		sr.status = code
		sr.set = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.set {
		sr.status = http.StatusOK
		sr.set = true
	}
	return sr.ResponseWriter.Write(b)
}

// Logger emits one structured access-log line per request with method,
// path, status, and elapsed time.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String(),
			"remote", r.RemoteAddr,
		)
	})
}
