package middlewares

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/hellojane/internal/metrics"
)

// WithMetrics instrumenta requests (contador, latencia, inflight).
// La etiqueta path es el patrón de chi ("/users/{id}"); si no hubo match,
// el path normalizado.
func WithMetrics(m *metrics.Metrics) Middleware {
	if m == nil {
		return nil
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method := strings.ToUpper(r.Method)
			rawPath := metrics.NormalizePath(r.URL.Path)

			m.InflightInc(method, rawPath)
			start := time.Now()
			rec := newStatusRecorder(w)

			defer func() {
				m.InflightDec(method, rawPath)
				m.ObserveHTTP(method, routePattern(r, rawPath), rec.status, time.Since(start))
			}()

			next.ServeHTTP(rec, r)
		})
	}
}

func routePattern(r *http.Request, fallback string) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return fallback
}
