// Package controllers agrupa todos los controllers HTTP.
//
// Flujo de inicialización:
//
//	services.New(deps) → controllers.New(svcs) → router.New(ctrls, ...)
package controllers

import (
	"github.com/dropDatabas3/hellojane/internal/http/controllers/health"
	"github.com/dropDatabas3/hellojane/internal/http/controllers/home"
	"github.com/dropDatabas3/hellojane/internal/http/controllers/users"
	"github.com/dropDatabas3/hellojane/internal/http/services"
)

// Controllers agrupa los controllers por dominio.
type Controllers struct {
	Home   *home.HomeController
	Users  *users.UsersController
	Health *health.HealthController
}

// New crea todos los controllers inyectando services.
func New(s *services.Services) *Controllers {
	return &Controllers{
		Home:   home.NewHomeController(""),
		Users:  users.NewUsersController(s.Users),
		Health: health.NewHealthController(s.Health),
	}
}
