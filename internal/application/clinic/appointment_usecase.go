// Package clinic agenda, consultas y recordatorios de control de cada franquicia.
package clinic

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/internal/application/scope"
	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
)

// DefaultAppointmentMinutes duración cuando la cita llega sin duration_minutes.
const DefaultAppointmentMinutes = 15

// AppointmentQuery filtros del listado de citas.
type AppointmentQuery struct {
	FranchiseID string
	TeamID      string
	PatientID   string
	Status      string
	From, To    *time.Time
	Page        dto.PageQuery
}

// AppointmentUseCase agenda de citas. El bloqueo de la fila del profesional serializa
// las reservas concurrentes sobre la misma agenda.
type AppointmentUseCase struct {
	txRunner repository.TxRunner
	repos    repository.Repos
	log      *logger.Logger
}

// NewAppointmentUseCase construye el caso de uso.
func NewAppointmentUseCase(txRunner repository.TxRunner, repos repository.Repos, log *logger.Logger) *AppointmentUseCase {
	return &AppointmentUseCase{txRunner: txRunner, repos: repos, log: log.Component("appointments")}
}

// Create agenda una cita validando paciente, profesional y cruce de horario.
func (uc *AppointmentUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	franchiseID, err := actor.RequireFranchise(in.FranchiseID)
	if err != nil {
		return nil, err
	}
	start, _ := time.Parse(dto.DateTimeLayout, in.StartAt)
	now := time.Now()
	a := &entity.Appointment{
		ID:              uuid.New().String(),
		FranchiseID:     franchiseID,
		PatientID:       in.PatientID,
		TeamID:          in.TeamID,
		StartAt:         start,
		DurationMinutes: in.DurationMinutes,
		Status:          entity.AppointmentScheduled,
		Reason:          in.Reason,
		Notes:           in.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if a.DurationMinutes == 0 {
		a.DurationMinutes = DefaultAppointmentMinutes
	}

	err = uc.txRunner.Run(ctx, func(r repository.Repos) error {
		if _, err := scope.Patient(ctx, r.Patients, franchiseID, a.PatientID); err != nil {
			return err
		}
		if err := checkAgenda(ctx, r, a); err != nil {
			return err
		}
		return r.Appointments.Create(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("appointment_id", a.ID).Str("team_id", a.TeamID).Time("start_at", a.StartAt).Msg("cita agendada")
	return dto.ToAppointmentResponse(a), nil
}

// checkAgenda bloquea al profesional y rechaza cruces con sus otras citas activas.
func checkAgenda(ctx context.Context, r repository.Repos, a *entity.Appointment) error {
	team, err := scope.Team(ctx, r.Teams, a.FranchiseID, a.TeamID, true)
	if err != nil {
		return err
	}
	if team.Status != entity.StatusActive {
		return domain.NewValidationError(map[string]string{"team_id": "el profesional está inactivo"})
	}
	busy, err := r.Appointments.HasOverlap(ctx, a.TeamID, a.StartAt, a.EndAt(), a.ID)
	if err != nil {
		return err
	}
	if busy {
		return domain.ErrConflict
	}
	return nil
}

func (uc *AppointmentUseCase) get(ctx context.Context, r repository.Repos, actor entity.Actor, id string) (*entity.Appointment, error) {
	a, err := r.Appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.CanAccess(a.FranchiseID) {
		return nil, domain.ErrForbidden
	}
	return a, nil
}

// GetByID obtiene una cita.
func (uc *AppointmentUseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.AppointmentResponse, error) {
	a, err := uc.get(ctx, uc.repos, actor, id)
	if err != nil {
		return nil, err
	}
	return dto.ToAppointmentResponse(a), nil
}

// Update reprograma o reasigna la cita. Una cita completada ya no se mueve.
func (uc *AppointmentUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var a *entity.Appointment
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		var err error
		if a, err = uc.get(ctx, r, actor, id); err != nil {
			return err
		}
		if a.Status == entity.AppointmentCompleted {
			return domain.ErrConflict
		}
		moved := false
		if in.TeamID != nil && *in.TeamID != a.TeamID {
			a.TeamID = *in.TeamID
			moved = true
		}
		if in.StartAt != nil {
			start, _ := time.Parse(dto.DateTimeLayout, *in.StartAt)
			moved = moved || !start.Equal(a.StartAt)
			a.StartAt = start
		}
		if in.DurationMinutes != nil && *in.DurationMinutes != a.DurationMinutes {
			a.DurationMinutes = *in.DurationMinutes
			moved = true
		}
		setString(&a.Reason, in.Reason)
		setString(&a.Notes, in.Notes)
		if moved && a.BlocksAgenda() {
			if err := checkAgenda(ctx, r, a); err != nil {
				return err
			}
		}
		a.UpdatedAt = time.Now()
		return r.Appointments.Update(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return dto.ToAppointmentResponse(a), nil
}

// UpdateStatus cambia el estado. Reactivar una cita cancelada vuelve a exigir agenda libre.
func (uc *AppointmentUseCase) UpdateStatus(ctx context.Context, actor entity.Actor, id string, in dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var a *entity.Appointment
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		var err error
		if a, err = uc.get(ctx, r, actor, id); err != nil {
			return err
		}
		wasBlocking := a.BlocksAgenda()
		a.Status = in.Status
		if !wasBlocking && a.BlocksAgenda() {
			if err := checkAgenda(ctx, r, a); err != nil {
				return err
			}
		}
		return r.Appointments.UpdateStatus(ctx, a.ID, a.Status)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("appointment_id", a.ID).Str("status", a.Status).Msg("estado de cita actualizado")
	return dto.ToAppointmentResponse(a), nil
}

// Delete elimina una cita. Los doctores solo pueden cancelarla.
func (uc *AppointmentUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	if actor.Role == entity.RoleDoctor {
		return domain.ErrForbidden
	}
	return uc.txRunner.Run(ctx, func(r repository.Repos) error {
		a, err := uc.get(ctx, r, actor, id)
		if err != nil {
			return err
		}
		if a.Status == entity.AppointmentCompleted {
			return domain.ErrConflict
		}
		return r.Appointments.Delete(ctx, a.ID)
	})
}

// List lista la agenda ordenada por hora de inicio.
func (uc *AppointmentUseCase) List(ctx context.Context, actor entity.Actor, q AppointmentQuery) (*dto.ListResponse[dto.AppointmentResponse], error) {
	fid, err := actor.ResolveFranchise(q.FranchiseID)
	if err != nil {
		return nil, err
	}
	q.Page.Normalize()
	list, total, err := uc.repos.Appointments.List(ctx, repository.ListFilter{
		FranchiseID: fid,
		TeamID:      q.TeamID,
		PatientID:   q.PatientID,
		Status:      q.Status,
		From:        q.From,
		To:          q.To,
		Search:      q.Page.Search,
		Sort:        q.Page.Sort,
		Order:       q.Page.Order,
		Limit:       q.Page.PerPage,
		Offset:      q.Page.Offset(),
	})
	if err != nil {
		return nil, err
	}
	return dto.NewListResponse(dto.MapList(list, dto.ToAppointmentResponse), q.Page, total), nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
