// Package health contiene el service de readiness.
package health

import (
	"context"
	"time"

	dto "github.com/dropDatabas3/hellojane/internal/http/dto/health"
	"github.com/dropDatabas3/hellojane/internal/observability/logger"
)

// HealthService define el check de readiness.
type HealthService interface {
	Ready(ctx context.Context) dto.ReadyResponse
}

// Deps contiene las dependencias del health service.
type Deps struct {
	DBCheck     func(ctx context.Context) error // ping al store
	Driver      string
	Version     string
	PingTimeout time.Duration // default 2s
}

type healthService struct {
	deps Deps
}

// NewHealthService crea el service de readiness.
func NewHealthService(deps Deps) HealthService {
	if deps.PingTimeout <= 0 {
		deps.PingTimeout = 2 * time.Second
	}
	return &healthService{deps: deps}
}

func (s *healthService) Ready(ctx context.Context) dto.ReadyResponse {
	resp := dto.ReadyResponse{
		Status:  "ready",
		Driver:  s.deps.Driver,
		Version: s.deps.Version,
	}
	if s.deps.DBCheck == nil {
		return resp
	}

	ctx, cancel := context.WithTimeout(ctx, s.deps.PingTimeout)
	defer cancel()

	if err := s.deps.DBCheck(ctx); err != nil {
		logger.From(ctx).Warn("store not ready",
			logger.Layer("service"),
			logger.Component("health"),
			logger.Driver(s.deps.Driver),
			logger.Err(err),
		)
		resp.Status = "unavailable"
		resp.Error = err.Error()
	}
	return resp
}
