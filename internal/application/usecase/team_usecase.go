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

// TeamUseCase CRUD del personal de cada franquicia.
type TeamUseCase struct {
	txRunner repository.TxRunner
	repos    repository.Repos
	log      *logger.Logger
}

// NewTeamUseCase construye el caso de uso.
func NewTeamUseCase(txRunner repository.TxRunner, repos repository.Repos, log *logger.Logger) *TeamUseCase {
	return &TeamUseCase{txRunner: txRunner, repos: repos, log: log.Component("teams")}
}

// loginRole rol del usuario de acceso según la designación del miembro.
func loginRole(designation string) string {
	if designation == entity.DesignationFranchiseAdmin {
		return entity.RoleFranchise
	}
	return entity.RoleDoctor
}

// canManageStaff administradores y usuarios de franquicia gestionan el personal; los doctores no.
func canManageStaff(actor entity.Actor) bool {
	return actor.Role == entity.RoleAdmin || actor.Role == entity.RoleFranchise
}

// Create crea un miembro del equipo y, si trae login_email, su usuario en la misma transacción.
func (uc *TeamUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateTeamRequest) (*dto.TeamResponse, error) {
	if !canManageStaff(actor) {
		return nil, domain.ErrForbidden
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	franchiseID, err := actor.RequireFranchise(in.FranchiseID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	t := &entity.Team{
		ID:              uuid.New().String(),
		FranchiseID:     franchiseID,
		Name:            strings.TrimSpace(in.Name),
		Designation:     in.Designation,
		Phone:           in.Phone,
		Email:           in.Email,
		Qualification:   in.Qualification,
		ConsultationFee: in.ConsultationFee,
		Status:          entity.StatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	err = uc.txRunner.Run(ctx, func(r repository.Repos) error {
		f, err := r.Franchises.GetByID(ctx, franchiseID)
		if err != nil {
			return err
		}
		if f == nil {
			return domain.ErrNotFound
		}
		if in.HasLogin() {
			user, err := auth.NewUser(franchiseID, in.LoginCredentials.Email, in.LoginCredentials.Password, t.Name, loginRole(t.Designation))
			if err != nil {
				return err
			}
			if err := r.Users.Create(ctx, user); err != nil {
				return err
			}
			t.UserID = user.ID
		}
		return r.Teams.Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("team_id", t.ID).Str("franchise_id", franchiseID).Bool("with_login", t.UserID != "").Msg("miembro del equipo creado")
	return dto.ToTeamResponse(t), nil
}

// get carga un miembro verificando el alcance del actor.
func (uc *TeamUseCase) get(ctx context.Context, actor entity.Actor, id string) (*entity.Team, error) {
	t, err := uc.repos.Teams.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.CanAccess(t.FranchiseID) {
		return nil, domain.ErrForbidden
	}
	return t, nil
}

// GetByID obtiene un miembro del equipo.
func (uc *TeamUseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.TeamResponse, error) {
	t, err := uc.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return dto.ToTeamResponse(t), nil
}

// Update actualiza los campos enviados. Desactivar al miembro desactiva también su usuario.
func (uc *TeamUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateTeamRequest) (*dto.TeamResponse, error) {
	if !canManageStaff(actor) {
		return nil, domain.ErrForbidden
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	t, err := uc.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	setString(&t.Name, in.Name)
	setString(&t.Designation, in.Designation)
	setString(&t.Phone, in.Phone)
	setString(&t.Email, in.Email)
	setString(&t.Qualification, in.Qualification)
	setString(&t.Status, in.Status)
	if in.ConsultationFee != nil {
		t.ConsultationFee = *in.ConsultationFee
	}
	t.UpdatedAt = time.Now()

	err = uc.txRunner.Run(ctx, func(r repository.Repos) error {
		if err := r.Teams.Update(ctx, t); err != nil {
			return err
		}
		if in.Status != nil && t.UserID != "" {
			return r.Users.SetStatus(ctx, t.UserID, t.Status)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto.ToTeamResponse(t), nil
}

// Delete elimina un miembro sin citas (ErrConflict si tiene historial) y desactiva su usuario.
func (uc *TeamUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	if !canManageStaff(actor) {
		return domain.ErrForbidden
	}
	t, err := uc.get(ctx, actor, id)
	if err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(r repository.Repos) error {
		if err := r.Teams.Delete(ctx, t.ID); err != nil {
			return err
		}
		if t.UserID != "" {
			return r.Users.SetStatus(ctx, t.UserID, entity.StatusInactive)
		}
		return nil
	})
}

// List lista el personal visible para el actor.
func (uc *TeamUseCase) List(ctx context.Context, actor entity.Actor, q dto.PageQuery, franchiseID, status string) (*dto.ListResponse[dto.TeamResponse], error) {
	fid, err := actor.ResolveFranchise(franchiseID)
	if err != nil {
		return nil, err
	}
	q.Normalize()
	list, total, err := uc.repos.Teams.List(ctx, pageFilter(q, repository.ListFilter{FranchiseID: fid, Status: status}))
	if err != nil {
		return nil, err
	}
	return dto.NewListResponse(dto.MapList(list, dto.ToTeamResponse), q, total), nil
}
