// Package metrics agrupa las métricas Prometheus del servicio:
// requests HTTP, operaciones del store y rechazos del rate limiter.
package metrics

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dropDatabas3/hellojane/internal/domain/repository"
)

// Metrics contiene los collectors registrados en un registry concreto.
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInflight        *prometheus.GaugeVec

	storeOpsTotal   *prometheus.CounterVec
	storeOpDuration *prometheus.HistogramVec

	rateLimitedTotal prometheus.Counter
}

// New crea y registra las métricas. reg nil = prometheus.DefaultRegisterer.
// Registrar dos veces en el mismo registry reutiliza los collectors existentes.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{}
	var err error

	if m.httpRequestsTotal, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Número total de requests procesadas",
	}, []string{"method", "path", "status"})); err != nil {
		return nil, err
	}

	if m.httpRequestDuration, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latencia de los requests HTTP",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})); err != nil {
		return nil, err
	}

	if m.httpInflight, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "http_inflight_requests",
		Help: "Requests en vuelo por método y ruta",
	}, []string{"method", "path"})); err != nil {
		return nil, err
	}

	if m.storeOpsTotal, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_operations_total",
		Help: "Operaciones del store de usuarios por resultado",
	}, []string{"driver", "op", "outcome"})); err != nil {
		return nil, err
	}

	if m.storeOpDuration, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "store_operation_duration_seconds",
		Help:    "Latencia de las operaciones del store",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"driver", "op"})); err != nil {
		return nil, err
	}

	if m.rateLimitedTotal, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "http_rate_limited_total",
		Help: "Requests rechazadas por rate limit",
	})); err != nil {
		return nil, err
	}

	return m, nil
}

// register registra el collector; si ya existe uno igual, retorna el existente.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Handler expone /metrics para el gatherer dado (nil = default).
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// ─── HTTP ───

// InflightInc / InflightDec ajustan el gauge de requests en vuelo.
func (m *Metrics) InflightInc(method, path string) {
	m.httpInflight.WithLabelValues(method, path).Inc()
}

func (m *Metrics) InflightDec(method, path string) {
	m.httpInflight.WithLabelValues(method, path).Dec()
}

// ObserveHTTP registra un request terminado.
func (m *Metrics) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	m.httpRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

// RateLimited cuenta un rechazo 429.
func (m *Metrics) RateLimited() {
	m.rateLimitedTotal.Inc()
}

// ─── Store ───

// ObserveStoreOp implementa store.OpObserver.
func (m *Metrics) ObserveStoreOp(driver, op string, outcome repository.Outcome, elapsed time.Duration) {
	m.storeOpsTotal.WithLabelValues(driver, op, outcome.String()).Inc()
	m.storeOpDuration.WithLabelValues(driver, op).Observe(elapsed.Seconds())
}

// ─── Paths ───

var (
	uuidSegmentRE  = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F-]{4}-[0-9a-fA-F-]{4,}$`)
	hexSegmentRE   = regexp.MustCompile(`^[0-9a-fA-F]{16,}$`)
	tokenSegmentRE = regexp.MustCompile(`^[A-Za-z0-9_-]{24,}$`)
)

// NormalizePath reemplaza segmentos dinámicos (IDs, UUIDs, ObjectIDs, números)
// por ":param" para acotar la cardinalidad de la etiqueta path.
// Se usa cuando el router no resolvió un patrón de ruta.
func NormalizePath(p string) string {
	clean := strings.SplitN(p, "?", 2)[0]
	segments := strings.Split(clean, "/")
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		if isDynamicSegment(seg) {
			out = append(out, ":param")
		} else {
			out = append(out, seg)
		}
	}
	return "/" + strings.Join(out, "/")
}

func isDynamicSegment(seg string) bool {
	if len(seg) > 48 {
		return true
	}
	if uuidSegmentRE.MatchString(seg) || hexSegmentRE.MatchString(seg) || tokenSegmentRE.MatchString(seg) {
		return true
	}
	_, err := strconv.Atoi(seg)
	return err == nil
}
