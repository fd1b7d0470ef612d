// Package users define los DTOs de respuesta de /users.
package users

import "github.com/dropDatabas3/hellojane/internal/domain/repository"

// Mensajes de éxito.
const (
	MsgCreated = "User created"
	MsgUpdated = "User updated"
	MsgDeleted = "User deleted"
)

// CreatedResponse es la respuesta de POST /users.
type CreatedResponse struct {
	Message     string          `json:"message"`
	CreatedUser repository.User `json:"createdUser"`
}

// UpdatedResponse es la respuesta de PUT /users/{id}.
type UpdatedResponse struct {
	Message     string          `json:"message"`
	UpdatedUser repository.User `json:"updatedUser"`
}

// DeletedResponse es la respuesta de DELETE /users/{id}.
type DeletedResponse struct {
	Message     string          `json:"message"`
	DeletedUser repository.User `json:"deletedUser"`
}
