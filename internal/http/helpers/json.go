// Package helpers contiene utilidades de request/response JSON.
package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	httperrors "github.com/dropDatabas3/hellojane/internal/http/errors"
)

// MaxBodyBytes es el límite del body de un request.
const MaxBodyBytes = 1 << 20

// ReadJSONObject decodifica un objeto JSON del body (máx 1MB).
// Body vacío o "null" = objeto vacío. Un Content-Type que no es JSON no se
// parsea: el body cuenta como objeto vacío. Arrays, escalares o basura al
// final devuelven ErrInvalidJSON; un body excedido, ErrBodyTooLarge.
func ReadJSONObject(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	ct := strings.ToLower(r.Header.Get("Content-Type"))
	if ct != "" && !strings.Contains(ct, "json") {
		return map[string]any{}, nil
	}

	var obj map[string]any
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&obj); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, httperrors.ErrBodyTooLarge.WithCause(err)
		}
		return nil, httperrors.ErrInvalidJSON.WithCause(err)
	}
	if dec.More() {
		return nil, httperrors.ErrInvalidJSON.WithDetail("trailing data after JSON object")
	}
	if obj == nil {
		obj = map[string]any{}
	}
	return obj, nil
}

// WriteJSON escribe una respuesta JSON estándar.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
