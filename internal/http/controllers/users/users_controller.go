// Package users contiene el controller de /users.
package users

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/hellojane/internal/domain/repository"
	dto "github.com/dropDatabas3/hellojane/internal/http/dto/users"
	httperrors "github.com/dropDatabas3/hellojane/internal/http/errors"
	"github.com/dropDatabas3/hellojane/internal/http/helpers"
	svc "github.com/dropDatabas3/hellojane/internal/http/services/users"
	"github.com/dropDatabas3/hellojane/internal/observability/logger"
)

// UsersController maneja las rutas /users.
type UsersController struct {
	service svc.Service
}

// NewUsersController crea un nuevo controller de usuarios.
func NewUsersController(service svc.Service) *UsersController {
	return &UsersController{service: service}
}

// Register monta las rutas en r.
func (c *UsersController) Register(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/", c.List)
		r.Post("/", c.Create)
		r.Put("/{id}", c.Update)
		r.Delete("/{id}", c.Delete)
	})
}

// List maneja GET /users
func (c *UsersController) List(w http.ResponseWriter, r *http.Request) {
	users, err := c.service.List(r.Context())
	if err != nil {
		httperrors.WriteError(w, mapError(err))
		return
	}
	if users == nil {
		users = []repository.User{}
	}
	helpers.WriteJSON(w, http.StatusOK, users)
}

// Create maneja POST /users
func (c *UsersController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("UsersController.Create"))

	// 1. Parse request
	body, err := helpers.ReadJSONObject(w, r)
	if err != nil {
		log.Warn("invalid body", logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}

	// 2. Delegar al service
	u, err := c.service.Create(ctx, repository.UserFields(body))
	if err != nil {
		httperrors.WriteError(w, mapError(err))
		return
	}

	// 3. Response
	helpers.WriteJSON(w, http.StatusCreated, dto.CreatedResponse{Message: dto.MsgCreated, CreatedUser: *u})
}

// Update maneja PUT /users/{id}
func (c *UsersController) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("UsersController.Update"), logger.UserID(id))

	// 1. Parse request
	body, err := helpers.ReadJSONObject(w, r)
	if err != nil {
		log.Warn("invalid body", logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}

	// 2. Delegar al service
	u, err := c.service.Update(ctx, id, repository.UserPatch(body))
	if err != nil {
		httperrors.WriteError(w, mapError(err))
		return
	}

	// 3. Response
	helpers.WriteJSON(w, http.StatusOK, dto.UpdatedResponse{Message: dto.MsgUpdated, UpdatedUser: *u})
}

// Delete maneja DELETE /users/{id}
func (c *UsersController) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	u, err := c.service.Delete(r.Context(), id)
	if err != nil {
		httperrors.WriteError(w, mapError(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.DeletedResponse{Message: dto.MsgDeleted, DeletedUser: *u})
}

// mapError traduce errores del puerto a AppError.
// Las fallas del store exponen el texto del *StoreError, nunca el error nativo.
func mapError(err error) *httperrors.AppError {
	var appErr *httperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch repository.Classify(err) {
	case repository.OutcomeNotFound:
		return httperrors.ErrUserNotFound
	case repository.OutcomeInvalid:
		return httperrors.ErrInvalidField.WithMessage(err.Error()).WithCause(err)
	default:
		var se *repository.StoreError
		if errors.As(err, &se) {
			return httperrors.ErrStore.WithMessage(se.Error()).WithCause(err)
		}
		return httperrors.ErrStore.WithMessage(err.Error()).WithCause(err)
	}
}
