package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"runclub/internal/adapters/http/perf"
)

// DefaultSlowRequest is the threshold used when none is configured.
const DefaultSlowRequest = 200 * time.Millisecond

// untimedRoutes are served but never logged or recorded.
var untimedRoutes = map[string]bool{
	"GET /":        true, // static assets
	"GET /healthz": true,
}

var requestIDCounter atomic.Uint64

type routeKey struct{}

// statusWriter captures the status code written by the handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader captures the status code and delegates to the underlying ResponseWriter.
// PRE: code is a valid HTTP status code
// POST: status stored, header written to underlying ResponseWriter
func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

// Unwrap exposes the wrapped writer to http.ResponseController.
func (sw *statusWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}

// CaptureRoute wraps the mux and reports the matched pattern back to Timing.
// Middleware between the two may copy the request, which hides r.Pattern
// from the outer layers.
func CaptureRoute(mux http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mux.ServeHTTP(w, r)
		if p, ok := r.Context().Value(routeKey{}).(*string); ok {
			*p = r.Pattern
		}
	})
}

// routeLabel prefers the matched mux pattern so /api/members/{id} groups
// every member ID under one perf row.
func routeLabel(captured string, r *http.Request) string {
	switch {
	case captured != "":
		return captured
	case r.Pattern != "":
		return r.Pattern
	}
	return r.Method + " " + r.URL.Path
}

// Timing logs each request's duration and records it in collector.
// Requests slower than slow log at WARN, the rest at DEBUG. Every response
// carries an X-Request-ID header matching the log line.
// PRE: collector may be nil; slow <= 0 selects DefaultSlowRequest
func Timing(collector *perf.Collector, slow time.Duration) func(http.Handler) http.Handler {
	if slow <= 0 {
		slow = DefaultSlowRequest
	}
	thresholdMs := float64(slow.Microseconds()) / 1000.0

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := requestIDCounter.Add(1)
			w.Header().Set("X-Request-ID", strconv.FormatUint(reqID, 10))

			pattern := new(string)
			r = r.WithContext(context.WithValue(r.Context(), routeKey{}, pattern))
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			defer func() {
				route := routeLabel(*pattern, r)
				if untimedRoutes[route] {
					return
				}
				durationMs := float64(time.Since(start).Microseconds()) / 1000.0

				level := slog.LevelDebug
				msg := "request"
				if durationMs >= thresholdMs {
					level, msg = slog.LevelWarn, "slow_request"
				}
				slog.Log(r.Context(), level, msg,
					"request_id", reqID,
					"route", route,
					"path", r.URL.Path,
					"status", sw.status,
					"duration_ms", durationMs,
				)

				if collector != nil {
					collector.Record(perf.Entry{
						Kind:       perf.KindRequest,
						Path:       route,
						StatusCode: sw.status,
						DurationMs: durationMs,
						Timestamp:  start,
					})
				}
			}()

			next.ServeHTTP(sw, r)
		})
	}
}
