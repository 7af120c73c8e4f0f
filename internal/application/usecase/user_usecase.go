package usecase

import (
	"context"

	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
)

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	repo repository.UserRepository
	log  *logger.Logger
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, log *logger.Logger) *UserUseCase {
	return &UserUseCase{repo: repo, log: log.Component("users")}
}

// GetByID obtiene un usuario. Fuera del admin, solo usuarios de la propia franquicia.
func (uc *UserUseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if !actor.IsAdmin() && !(user.FranchiseID != "" && actor.CanAccess(user.FranchiseID)) {
		return nil, domain.ErrForbidden
	}
	return dto.ToUserResponse(user), nil
}

// SetStatus activa o desactiva un acceso (solo admin). Un admin no puede desactivarse a sí mismo.
func (uc *UserUseCase) SetStatus(ctx context.Context, actor entity.Actor, id string, in dto.UpdateUserStatusRequest) (*dto.UserResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if id == actor.UserID && in.Status != entity.StatusActive {
		return nil, domain.ErrConflict
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := uc.repo.SetStatus(ctx, id, in.Status); err != nil {
		return nil, err
	}
	user.Status = in.Status
	uc.log.Info().Str("user_id", id).Str("status", in.Status).Msg("estado de usuario actualizado")
	return dto.ToUserResponse(user), nil
}
