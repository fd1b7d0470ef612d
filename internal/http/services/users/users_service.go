// Package users contiene el service de usuarios: valida payloads con la
// FieldPolicy y delega en el UserRepository.
package users

import (
	"context"

	"go.uber.org/zap"

	"github.com/dropDatabas3/hellojane/internal/domain/repository"
	"github.com/dropDatabas3/hellojane/internal/observability/logger"
)

// Service define las operaciones sobre usuarios.
type Service interface {
	List(ctx context.Context) ([]repository.User, error)
	Create(ctx context.Context, fields repository.UserFields) (*repository.User, error)
	Update(ctx context.Context, id string, patch repository.UserPatch) (*repository.User, error)
	Delete(ctx context.Context, id string) (*repository.User, error)
}

// Deps contiene las dependencias del service.
type Deps struct {
	Repo   repository.UserRepository
	Policy repository.FieldPolicy
}

type userService struct {
	deps Deps
}

// NewService crea el service de usuarios.
func NewService(deps Deps) Service {
	return &userService{deps: deps}
}

const componentUsers = "users"

func (s *userService) log(ctx context.Context, op string) *zap.Logger {
	return logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentUsers),
		logger.Op(op),
	)
}

func (s *userService) List(ctx context.Context) ([]repository.User, error) {
	log := s.log(ctx, "List")

	users, err := s.deps.Repo.List(ctx)
	if err != nil {
		log.Error("list failed", logger.Err(err))
		return nil, err
	}
	log.Debug("users listed", logger.Count(len(users)))
	return users, nil
}

func (s *userService) Create(ctx context.Context, fields repository.UserFields) (*repository.User, error) {
	log := s.log(ctx, "Create").With(logger.Fields(fields.Keys()))

	if err := s.deps.Policy.CheckFields(fields); err != nil {
		log.Warn("rejected payload", logger.Err(err))
		return nil, err
	}

	u, err := s.deps.Repo.Create(ctx, fields)
	if err != nil {
		log.Error("create failed", logger.Err(err))
		return nil, err
	}
	log.Info("user created", logger.UserID(u.ID))
	return u, nil
}

func (s *userService) Update(ctx context.Context, id string, patch repository.UserPatch) (*repository.User, error) {
	log := s.log(ctx, "Update").With(logger.UserID(id), logger.Fields(patch.Keys()))

	if err := s.deps.Policy.CheckPatch(patch); err != nil {
		log.Warn("rejected payload", logger.Err(err))
		return nil, err
	}

	u, err := s.deps.Repo.UpdateByID(ctx, id, patch)
	switch {
	case repository.IsNotFound(err):
		log.Info("user not found")
		return nil, err
	case err != nil:
		log.Error("update failed", logger.Err(err))
		return nil, err
	}
	log.Info("user updated")
	return u, nil
}

func (s *userService) Delete(ctx context.Context, id string) (*repository.User, error) {
	log := s.log(ctx, "Delete").With(logger.UserID(id))

	u, err := s.deps.Repo.DeleteByID(ctx, id)
	switch {
	case repository.IsNotFound(err):
		log.Info("user not found")
		return nil, err
	case err != nil:
		log.Error("delete failed", logger.Err(err))
		return nil, err
	}
	log.Info("user deleted")
	return u, nil
}
