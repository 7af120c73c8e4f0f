package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/clinic-franchise-api/internal/application/auth"
	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
)

// FranchiseUseCase aplica reglas de negocio para franquicias (solo administración central).
type FranchiseUseCase struct {
	txRunner repository.TxRunner
	repo     repository.FranchiseRepository
	log      *logger.Logger
}

// NewFranchiseUseCase construye el caso de uso con el puerto de persistencia.
func NewFranchiseUseCase(txRunner repository.TxRunner, repo repository.FranchiseRepository, log *logger.Logger) *FranchiseUseCase {
	return &FranchiseUseCase{txRunner: txRunner, repo: repo, log: log.Component("franchises")}
}

// Create crea una franquicia. Si trae login_email crea también su usuario de rol franchise
// en la misma transacción. Devuelve domain.ErrDuplicate si el código ya existe.
func (uc *FranchiseUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateFranchiseRequest) (*dto.FranchiseResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	existing, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	f := &entity.Franchise{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		Code:      code,
		OwnerName: in.OwnerName,
		Phone:     in.Phone,
		Email:     in.Email,
		Address:   in.Address,
		City:      in.City,
		State:     in.State,
		GSTIN:     in.GSTIN,
		Status:    entity.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var userID string
	err = uc.txRunner.Run(ctx, func(r repository.Repos) error {
		if err := r.Franchises.Create(ctx, f); err != nil {
			return err
		}
		if !in.HasLogin() {
			return nil
		}
		user, err := auth.NewUser(f.ID, in.LoginCredentials.Email, in.LoginCredentials.Password, f.Name, entity.RoleFranchise)
		if err != nil {
			return err
		}
		if err := r.Users.Create(ctx, user); err != nil {
			return err
		}
		userID = user.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("franchise_id", f.ID).Str("code", f.Code).Bool("with_login", userID != "").Msg("franquicia creada")
	out := dto.ToFranchiseResponse(f)
	out.UserID = userID
	return out, nil
}

// GetByID obtiene una franquicia. Un usuario de franquicia solo puede ver la propia.
func (uc *FranchiseUseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.FranchiseResponse, error) {
	if !actor.CanAccess(id) {
		return nil, domain.ErrForbidden
	}
	f, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToFranchiseResponse(f), nil
}

// Update actualiza los campos enviados. El código no se modifica (forma parte de los códigos de paciente).
func (uc *FranchiseUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateFranchiseRequest) (*dto.FranchiseResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	f, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.ErrNotFound
	}
	setString(&f.Name, in.Name)
	setString(&f.OwnerName, in.OwnerName)
	setString(&f.Phone, in.Phone)
	setString(&f.Email, in.Email)
	setString(&f.Address, in.Address)
	setString(&f.City, in.City)
	setString(&f.State, in.State)
	setString(&f.GSTIN, in.GSTIN)
	setString(&f.Status, in.Status)
	f.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	return dto.ToFranchiseResponse(f), nil
}

// Delete elimina una franquicia sin registros asociados (ErrConflict en caso contrario).
func (uc *FranchiseUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("franchise_id", id).Msg("franquicia eliminada")
	return nil
}

// List lista franquicias con búsqueda por nombre, código o ciudad.
func (uc *FranchiseUseCase) List(ctx context.Context, actor entity.Actor, q dto.PageQuery, status string) (*dto.ListResponse[dto.FranchiseResponse], error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	q.Normalize()
	list, total, err := uc.repo.List(ctx, pageFilter(q, repository.ListFilter{Status: status}))
	if err != nil {
		return nil, err
	}
	return dto.NewListResponse(dto.MapList(list, dto.ToFranchiseResponse), q, total), nil
}

// setString asigna *src en dst si src no es nil.
func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// pageFilter completa f con los datos de paginación de q (ya normalizado).
func pageFilter(q dto.PageQuery, f repository.ListFilter) repository.ListFilter {
	f.Search = q.Search
	f.Sort = q.Sort
	f.Order = q.Order
	f.Limit = q.PerPage
	f.Offset = q.Offset()
	return f
}
