package clinic

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/clinic-franchise-api/internal/application/billing"
	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/internal/application/scope"
	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
)

// ConsultationQuery filtros del listado de consultas.
type ConsultationQuery struct {
	FranchiseID string
	PatientID   string
	TeamID      string
	From, To    *time.Time
	Page        dto.PageQuery
}

// ConsultationUseCase registra consultas junto con su recibo y el recordatorio de control.
type ConsultationUseCase struct {
	txRunner repository.TxRunner
	repos    repository.Repos
	log      *logger.Logger
}

// NewConsultationUseCase construye el caso de uso.
func NewConsultationUseCase(txRunner repository.TxRunner, repos repository.Repos, log *logger.Logger) *ConsultationUseCase {
	return &ConsultationUseCase{txRunner: txRunner, repos: repos, log: log.Component("consultations")}
}

// Create registra la consulta en una sola transacción:
//  1. valida paciente, profesional y cita de la misma franquicia
//  2. marca la cita como completada
//  3. crea el recordatorio si hay next_follow_up
//  4. emite el recibo de la consulta
func (uc *ConsultationUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateConsultationRequest) (*dto.ConsultationResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	franchiseID, err := actor.RequireFranchise(in.FranchiseID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	c := &entity.Consultation{
		ID:            uuid.New().String(),
		FranchiseID:   franchiseID,
		PatientID:     in.PatientID,
		TeamID:        in.TeamID,
		AppointmentID: in.AppointmentID,
		Date:          dto.DateOr(in.Date, today()),
		Complaints:    strings.TrimSpace(in.Complaints),
		Diagnosis:     strings.TrimSpace(in.Diagnosis),
		Advice:        strings.TrimSpace(in.Advice),
		Discount:      in.Discount,
		PaymentMode:   in.PaymentMode,
		NextFollowUp:  dto.DatePtr(in.NextFollowUp),
		CreatedBy:     actor.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	out := &dto.ConsultationResponse{}

	err = uc.txRunner.Run(ctx, func(r repository.Repos) error {
		if _, err := scope.Franchise(ctx, r.Franchises, franchiseID); err != nil {
			return err
		}
		if _, err := scope.Patient(ctx, r.Patients, franchiseID, c.PatientID); err != nil {
			return err
		}
		team, err := scope.Team(ctx, r.Teams, franchiseID, c.TeamID, false)
		if err != nil {
			return err
		}
		c.Fee = team.ConsultationFee
		if in.Fee != nil {
			c.Fee = *in.Fee
		}
		c.ComputeNet()

		if c.AppointmentID != "" {
			if err := completeAppointment(ctx, r, c); err != nil {
				return err
			}
		}
		if err := r.Consultations.Create(ctx, c); err != nil {
			return err
		}
		if c.NextFollowUp != nil {
			recall, err := followUpRecall(ctx, r, c)
			if err != nil {
				return err
			}
			out.RecallID = recall.ID
		}
		rc := &entity.Receipt{
			FranchiseID: franchiseID,
			PatientID:   c.PatientID,
			Kind:        entity.ReceiptConsultation,
			ReferenceID: c.ID,
			Amount:      c.NetAmount,
			PaymentMode: c.PaymentMode,
			Date:        c.Date,
			CreatedBy:   actor.UserID,
		}
		if err := billing.IssueReceiptInTx(ctx, r, rc); err != nil {
			return err
		}
		out.ReceiptNo = rc.ReceiptNo
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("consultation_id", c.ID).
		Str("franchise_id", franchiseID).
		Str("net_amount", c.NetAmount.String()).
		Msg("consulta registrada")
	return withLinks(c, out), nil
}

// completeAppointment exige que la cita sea del mismo paciente y franquicia y la completa.
func completeAppointment(ctx context.Context, r repository.Repos, c *entity.Consultation) error {
	a, err := r.Appointments.GetByID(ctx, c.AppointmentID)
	if err != nil {
		return err
	}
	if a == nil {
		return domain.ErrNotFound
	}
	if a.FranchiseID != c.FranchiseID {
		return domain.ErrForbidden
	}
	if a.PatientID != c.PatientID {
		return domain.NewValidationError(map[string]string{"appointment_id": "la cita es de otro paciente"})
	}
	if a.Status == entity.AppointmentCancelled {
		return domain.ErrConflict
	}
	return r.Appointments.UpdateStatus(ctx, a.ID, entity.AppointmentCompleted)
}

func followUpRecall(ctx context.Context, r repository.Repos, c *entity.Consultation) (*entity.Recall, error) {
	now := time.Now()
	recall := &entity.Recall{
		ID:             uuid.New().String(),
		FranchiseID:    c.FranchiseID,
		PatientID:      c.PatientID,
		ConsultationID: c.ID,
		RecallDate:     *c.NextFollowUp,
		Reason:         followUpReason(c),
		Status:         entity.RecallPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return recall, r.Recalls.Create(ctx, recall)
}

func followUpReason(c *entity.Consultation) string {
	if c.Diagnosis != "" {
		return "Control: " + c.Diagnosis
	}
	return "Control de consulta"
}

func withLinks(c *entity.Consultation, links *dto.ConsultationResponse) *dto.ConsultationResponse {
	out := dto.ToConsultationResponse(c)
	out.RecallID = links.RecallID
	out.ReceiptNo = links.ReceiptNo
	return out
}

func (uc *ConsultationUseCase) get(ctx context.Context, r repository.Repos, actor entity.Actor, id string) (*entity.Consultation, error) {
	c, err := r.Consultations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.CanAccess(c.FranchiseID) {
		return nil, domain.ErrForbidden
	}
	return c, nil
}

// links busca el recibo y el recordatorio pendiente de la consulta.
func links(ctx context.Context, r repository.Repos, c *entity.Consultation) (*dto.ConsultationResponse, error) {
	out := &dto.ConsultationResponse{}
	rc, err := r.Receipts.GetByReference(ctx, entity.ReceiptConsultation, c.ID)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		out.ReceiptNo = rc.ReceiptNo
	}
	recalls, _, err := r.Recalls.List(ctx, repository.ListFilter{
		FranchiseID: c.FranchiseID,
		PatientID:   c.PatientID,
		Status:      entity.RecallPending,
	})
	if err != nil {
		return nil, err
	}
	for _, rec := range recalls {
		if rec.ConsultationID == c.ID {
			out.RecallID = rec.ID
			break
		}
	}
	return out, nil
}

// GetByID obtiene la consulta con su número de recibo y recordatorio.
func (uc *ConsultationUseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.ConsultationResponse, error) {
	c, err := uc.get(ctx, uc.repos, actor, id)
	if err != nil {
		return nil, err
	}
	l, err := links(ctx, uc.repos, c)
	if err != nil {
		return nil, err
	}
	return withLinks(c, l), nil
}

// Update corrige datos clínicos o el cobro. El recibo se sincroniza con el nuevo neto y
// un cambio de next_follow_up reemplaza el recordatorio pendiente.
func (uc *ConsultationUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateConsultationRequest) (*dto.ConsultationResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var (
		c *entity.Consultation
		l *dto.ConsultationResponse
	)
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		var err error
		if c, err = uc.get(ctx, r, actor, id); err != nil {
			return err
		}
		setString(&c.Complaints, in.Complaints)
		setString(&c.Diagnosis, in.Diagnosis)
		setString(&c.Advice, in.Advice)
		setString(&c.PaymentMode, in.PaymentMode)
		if in.Fee != nil {
			c.Fee = *in.Fee
		}
		if in.Discount != nil {
			c.Discount = *in.Discount
		}
		c.ComputeNet()

		followUpChanged := false
		if in.NextFollowUp != nil {
			next := dto.DatePtr(*in.NextFollowUp)
			followUpChanged = !sameDay(next, c.NextFollowUp)
			c.NextFollowUp = next
		}
		c.UpdatedAt = time.Now()
		if err := r.Consultations.Update(ctx, c); err != nil {
			return err
		}
		if err := r.Receipts.UpdateByReference(ctx, entity.ReceiptConsultation, c.ID, c.NetAmount, c.PaymentMode); err != nil {
			return err
		}
		if followUpChanged {
			if err := r.Recalls.CancelByConsultation(ctx, c.ID); err != nil {
				return err
			}
			if c.NextFollowUp != nil {
				if _, err := followUpRecall(ctx, r, c); err != nil {
					return err
				}
			}
		}
		l, err = links(ctx, r, c)
		return err
	})
	if err != nil {
		return nil, err
	}
	return withLinks(c, l), nil
}

func sameDay(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// Delete elimina la consulta, anula su recibo y cancela el recordatorio pendiente.
func (uc *ConsultationUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	if actor.Role == entity.RoleDoctor {
		return domain.ErrForbidden
	}
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		c, err := uc.get(ctx, r, actor, id)
		if err != nil {
			return err
		}
		if err := r.Receipts.CancelByReference(ctx, entity.ReceiptConsultation, c.ID); err != nil {
			return err
		}
		if err := r.Recalls.CancelByConsultation(ctx, c.ID); err != nil {
			return err
		}
		return r.Consultations.Delete(ctx, c.ID)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("consultation_id", id).Str("user_id", actor.UserID).Msg("consulta eliminada")
	return nil
}

// List lista consultas por paciente, profesional y rango de fechas.
func (uc *ConsultationUseCase) List(ctx context.Context, actor entity.Actor, q ConsultationQuery) (*dto.ListResponse[dto.ConsultationResponse], error) {
	fid, err := actor.ResolveFranchise(q.FranchiseID)
	if err != nil {
		return nil, err
	}
	q.Page.Normalize()
	list, total, err := uc.repos.Consultations.List(ctx, repository.ListFilter{
		FranchiseID: fid,
		PatientID:   q.PatientID,
		TeamID:      q.TeamID,
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
	return dto.NewListResponse(dto.MapList(list, dto.ToConsultationResponse), q.Page, total), nil
}

func today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
