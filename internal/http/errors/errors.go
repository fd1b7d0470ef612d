// Package errors define AppError y la escritura uniforme de errores HTTP.
// Todo error sale como {"message": "..."}.
package errors

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Message string `json:"message"`
}

// WriteError escribe la respuesta HTTP para err.
// Errores que no son *AppError salen como 500 genérico.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(errorResponse{Message: appErr.Message})
}
