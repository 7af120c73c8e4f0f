package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
)

var _ repository.ConsultationRepository = (*ConsultationRepo)(nil)

const consultationColumns = `id, franchise_id, patient_id, team_id, appointment_id, date, complaints, diagnosis, advice,
	fee, discount, net_amount, payment_mode, next_follow_up, created_by, created_at, updated_at`

var consultationSort = map[string]string{"date": "date", "net_amount": "net_amount", "created_at": "created_at"}

// ConsultationRepo consultas médicas sobre PostgreSQL.
type ConsultationRepo struct {
	q Querier
}

// NewConsultationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewConsultationRepository(q Querier) *ConsultationRepo {
	return &ConsultationRepo{q: q}
}

func (r *ConsultationRepo) Create(ctx context.Context, c *entity.Consultation) error {
	query := `
		INSERT INTO consultations (` + consultationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.FranchiseID, c.PatientID, c.TeamID, nullIfEmpty(c.AppointmentID), c.Date, c.Complaints,
		c.Diagnosis, c.Advice, c.Fee, c.Discount, c.NetAmount, c.PaymentMode, c.NextFollowUp,
		nullIfEmpty(c.CreatedBy), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert consultation", err)
	}
	return nil
}

func (r *ConsultationRepo) GetByID(ctx context.Context, id string) (*entity.Consultation, error) {
	c, err := scanConsultation(r.q.QueryRow(ctx, `SELECT `+consultationColumns+` FROM consultations WHERE id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get consultation: %w", err)
	}
	return c, nil
}

func scanConsultation(row rowScanner) (*entity.Consultation, error) {
	var c entity.Consultation
	var appointmentID, createdBy *string
	err := row.Scan(&c.ID, &c.FranchiseID, &c.PatientID, &c.TeamID, &appointmentID, &c.Date, &c.Complaints,
		&c.Diagnosis, &c.Advice, &c.Fee, &c.Discount, &c.NetAmount, &c.PaymentMode, &c.NextFollowUp,
		&createdBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.AppointmentID = deref(appointmentID)
	c.CreatedBy = deref(createdBy)
	return &c, nil
}

func (r *ConsultationRepo) Update(ctx context.Context, c *entity.Consultation) error {
	query := `
		UPDATE consultations SET date = $2, complaints = $3, diagnosis = $4, advice = $5, fee = $6,
			discount = $7, net_amount = $8, payment_mode = $9, next_follow_up = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.Date, c.Complaints, c.Diagnosis, c.Advice, c.Fee, c.Discount, c.NetAmount, c.PaymentMode,
		c.NextFollowUp, c.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update consultation", err)
	}
	return expectRow(tag, domain.ErrNotFound)
}

// Delete elimina la consulta; los recordatorios ligados quedan con consultation_id NULL.
func (r *ConsultationRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM consultations WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("delete consultation", err)
	}
	return expectRow(tag, domain.ErrNotFound)
}

func (r *ConsultationRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Consultation, int, error) {
	var b filterBuilder
	b.eq("franchise_id", f.FranchiseID)
	b.eq("team_id", f.TeamID)
	b.eq("patient_id", f.PatientID)
	b.dateRange("date", f.From, f.To)
	b.search(f.Search, "diagnosis", "complaints")
	total, err := b.count(ctx, r.q, "consultations")
	if err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + consultationColumns + ` FROM consultations` + b.where() + b.page(orderBy(f, consultationSort, "created_at"), f)
	rows, err := r.q.Query(ctx, query, b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list consultations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Consultation
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan consultation: %w", err)
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}
