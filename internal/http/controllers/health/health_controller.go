// Package health contiene el controller de readiness.
package health

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/hellojane/internal/http/helpers"
	svc "github.com/dropDatabas3/hellojane/internal/http/services/health"
	"github.com/dropDatabas3/hellojane/internal/observability/logger"
)

// HealthController maneja /readyz.
type HealthController struct {
	service svc.HealthService
}

// NewHealthController crea un nuevo controller de health check.
func NewHealthController(service svc.HealthService) *HealthController {
	return &HealthController{service: service}
}

func (c *HealthController) Register(r chi.Router) {
	r.Get("/readyz", c.Readyz)
}

// Readyz maneja GET /readyz
func (c *HealthController) Readyz(w http.ResponseWriter, r *http.Request) {
	resp := c.service.Ready(r.Context())

	if resp.Version != "" {
		w.Header().Set("X-Service-Version", resp.Version)
	}

	// Status code según estado
	status := http.StatusOK
	if resp.Status == "unavailable" {
		status = http.StatusServiceUnavailable
	}

	logger.From(r.Context()).Debug("readiness check completed", logger.String("status", resp.Status))
	helpers.WriteJSON(w, status, resp)
}
