package clinic

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/internal/application/ports"
	"github.com/jhoicas/clinic-franchise-api/internal/application/scope"
	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
)

// RecallQuery filtros del listado de recordatorios.
type RecallQuery struct {
	FranchiseID string
	PatientID   string
	Status      string
	From, To    *time.Time
	Page        dto.PageQuery
}

// RecallUseCase recordatorios de control y su aviso por correo.
type RecallUseCase struct {
	txRunner repository.TxRunner
	repos    repository.Repos
	notifier ports.Notifier
	log      *logger.Logger
}

// NewRecallUseCase construye el caso de uso.
func NewRecallUseCase(txRunner repository.TxRunner, repos repository.Repos, notifier ports.Notifier, log *logger.Logger) *RecallUseCase {
	return &RecallUseCase{txRunner: txRunner, repos: repos, notifier: notifier, log: log.Component("recalls")}
}

// Create registra un recordatorio manual.
func (uc *RecallUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateRecallRequest) (*dto.RecallResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	franchiseID, err := actor.RequireFranchise(in.FranchiseID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	rec := &entity.Recall{
		ID:             uuid.New().String(),
		FranchiseID:    franchiseID,
		PatientID:      in.PatientID,
		ConsultationID: in.ConsultationID,
		RecallDate:     dto.DateOr(in.RecallDate, today()),
		Reason:         in.Reason,
		Status:         entity.RecallPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err = uc.txRunner.Run(ctx, func(r repository.Repos) error {
		if _, err := scope.Patient(ctx, r.Patients, franchiseID, rec.PatientID); err != nil {
			return err
		}
		if rec.ConsultationID != "" {
			c, err := r.Consultations.GetByID(ctx, rec.ConsultationID)
			if err != nil {
				return err
			}
			if c == nil {
				return domain.ErrNotFound
			}
			if c.FranchiseID != franchiseID {
				return domain.ErrForbidden
			}
		}
		return r.Recalls.Create(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	return dto.ToRecallResponse(rec), nil
}

func (uc *RecallUseCase) get(ctx context.Context, actor entity.Actor, id string) (*entity.Recall, error) {
	rec, err := uc.repos.Recalls.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.CanAccess(rec.FranchiseID) {
		return nil, domain.ErrForbidden
	}
	return rec, nil
}

// UpdateStatus marca el recordatorio como atendido o cancelado (o lo reabre).
func (uc *RecallUseCase) UpdateStatus(ctx context.Context, actor entity.Actor, id string, in dto.UpdateRecallStatusRequest) (*dto.RecallResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	rec, err := uc.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := uc.repos.Recalls.UpdateStatus(ctx, rec.ID, in.Status); err != nil {
		return nil, err
	}
	rec.Status = in.Status
	return dto.ToRecallResponse(rec), nil
}

// Notify envía el correo de recordatorio al paciente y registra notified_at.
// Solo aplica a recordatorios pendientes de pacientes con email.
func (uc *RecallUseCase) Notify(ctx context.Context, actor entity.Actor, id string) (*dto.RecallResponse, error) {
	rec, err := uc.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if rec.Status != entity.RecallPending {
		return nil, domain.ErrConflict
	}
	patient, err := uc.repos.Patients.GetByID(ctx, rec.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, domain.ErrNotFound
	}
	if patient.Email == "" {
		return nil, domain.NewValidationError(map[string]string{"email": "el paciente no tiene correo registrado"})
	}
	franchise, err := uc.repos.Franchises.GetByID(ctx, rec.FranchiseID)
	if err != nil {
		return nil, err
	}
	if franchise == nil {
		return nil, domain.ErrNotFound
	}

	err = uc.notifier.SendRecall(ctx, ports.RecallNotice{
		To:             patient.Email,
		PatientName:    patient.Name,
		FranchiseName:  franchise.Name,
		FranchisePhone: franchise.Phone,
		RecallDate:     rec.RecallDate,
		Reason:         rec.Reason,
	})
	if err != nil {
		uc.log.Error().Err(err).Str("recall_id", rec.ID).Msg("no se pudo enviar el recordatorio")
		return nil, err
	}
	at := time.Now()
	if err := uc.repos.Recalls.MarkNotified(ctx, rec.ID, at); err != nil {
		return nil, err
	}
	rec.NotifiedAt = &at
	uc.log.Info().Str("recall_id", rec.ID).Str("to", patient.Email).Msg("recordatorio enviado")
	return dto.ToRecallResponse(rec), nil
}

// List lista recordatorios por fecha de control ascendente.
func (uc *RecallUseCase) List(ctx context.Context, actor entity.Actor, q RecallQuery) (*dto.ListResponse[dto.RecallResponse], error) {
	fid, err := actor.ResolveFranchise(q.FranchiseID)
	if err != nil {
		return nil, err
	}
	q.Page.Normalize()
	list, total, err := uc.repos.Recalls.List(ctx, repository.ListFilter{
		FranchiseID: fid,
		PatientID:   q.PatientID,
		Status:      q.Status,
		From:        q.From,
		To:          q.To,
		Limit:       q.Page.PerPage,
		Offset:      q.Page.Offset(),
	})
	if err != nil {
		return nil, err
	}
	return dto.NewListResponse(dto.MapList(list, dto.ToRecallResponse), q.Page, total), nil
}
