// Package health define el DTO de /readyz.
package health

type ReadyResponse struct {
	Status  string `json:"status"` // ready | unavailable
	Driver  string `json:"driver,omitempty"`
	Version string `json:"version,omitempty"`
	Error   string `json:"error,omitempty"`
}
