// Package services agrupa los services HTTP.
package services

import (
	"github.com/dropDatabas3/hellojane/internal/http/services/health"
	"github.com/dropDatabas3/hellojane/internal/http/services/users"
)

// Deps contiene las dependencias de todos los services.
type Deps struct {
	Users  users.Deps
	Health health.Deps
}

// Services agrupa los services por dominio.
type Services struct {
	Users  users.Service
	Health health.HealthService
}

// New crea todos los services.
func New(d Deps) *Services {
	return &Services{
		Users:  users.NewService(d.Users),
		Health: health.NewHealthService(d.Health),
	}
}
