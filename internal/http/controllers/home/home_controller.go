// Package home contiene el controller de la ruta raíz.
package home

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Greeting es el texto de GET /.
const Greeting = "Hello from Go + MongoDB!"

// HomeController responde GET /. No toca el store.
type HomeController struct {
	greeting string
}

// NewHomeController crea el controller. greeting vacío = Greeting.
func NewHomeController(greeting string) *HomeController {
	if greeting == "" {
		greeting = Greeting
	}
	return &HomeController{greeting: greeting}
}

func (c *HomeController) Register(r chi.Router) {
	r.Get("/", c.Home)
}

// Home maneja GET /
func (c *HomeController) Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(c.greeting))
}
