// Package middlewares contiene los decoradores http.Handler globales del servicio.
package middlewares

import "net/http"

// Middleware es un decorador de http.Handler.
// Los constructores devuelven nil cuando su dependencia no está configurada.
type Middleware func(http.Handler) http.Handler
