package middleware

import (
	"net/http"
	"time"

	"loyalty-rewards/pkg/metrics"

	"github.com/go-chi/chi/v5"
)

// Metrics records request counts and latency per chi route pattern, so
// /api/user/{userId}/points is one series rather than one per user.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			m.IncrementInFlight()
			defer m.DecrementInFlight()

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}

			m.RecordHTTPRequest(r.Method, route, rw.statusCode, time.Since(start))
		})
	}
}
