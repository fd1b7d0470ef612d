// Package router arma el chi.Router con todas las rutas y middlewares.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/hellojane/internal/http/controllers"
	httperrors "github.com/dropDatabas3/hellojane/internal/http/errors"
	mw "github.com/dropDatabas3/hellojane/internal/http/middlewares"
	"github.com/dropDatabas3/hellojane/internal/metrics"
	"github.com/dropDatabas3/hellojane/internal/rate"
)

// RouterDeps contiene las dependencias del router.
type RouterDeps struct {
	Controllers *controllers.Controllers

	// Opcionales
	Metrics     *metrics.Metrics
	MetricsPath http.Handler // handler de /metrics; nil = sin endpoint
	RateLimiter rate.Limiter
	RateMax     int
	CORSOrigins []string
}

// Paths excluidos del rate limit.
var rateWhitelist = []string{"/readyz", "/metrics"}

// New crea el router.
// Los middlewares van con Use para que WithMetrics vea el patrón de ruta.
func New(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	var onReject func()
	if deps.Metrics != nil {
		onReject = deps.Metrics.RateLimited
	}

	for _, m := range []mw.Middleware{
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithLogging(),
		mw.WithSecurityHeaders(),
		mw.WithCORS(deps.CORSOrigins),
		mw.WithMetrics(deps.Metrics),
		mw.WithRateLimit(mw.RateLimitConfig{
			Limiter:   deps.RateLimiter,
			Max:       deps.RateMax,
			Whitelist: rateWhitelist,
			OnReject:  onReject,
		}),
	} {
		if m != nil {
			r.Use(m)
		}
	}

	if c := deps.Controllers; c != nil {
		c.Home.Register(r)
		c.Health.Register(r)
		c.Users.Register(r)
	}
	if deps.MetricsPath != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsPath)
	}
	return r
}
