package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
)

var _ repository.AppointmentRepository = (*AppointmentRepo)(nil)

const appointmentColumns = `id, franchise_id, patient_id, team_id, start_at, duration_minutes, status, reason, notes, created_at, updated_at`

var appointmentSort = map[string]string{"start_at": "start_at", "created_at": "created_at", "status": "status"}

// AppointmentRepo citas sobre PostgreSQL.
type AppointmentRepo struct {
	q Querier
}

// NewAppointmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAppointmentRepository(q Querier) *AppointmentRepo {
	return &AppointmentRepo{q: q}
}

func (r *AppointmentRepo) Create(ctx context.Context, a *entity.Appointment) error {
	query := `
		INSERT INTO appointments (` + appointmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.FranchiseID, a.PatientID, a.TeamID, a.StartAt, a.DurationMinutes, a.Status, a.Reason, a.Notes,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert appointment", err)
	}
	return nil
}

func (r *AppointmentRepo) GetByID(ctx context.Context, id string) (*entity.Appointment, error) {
	a, err := scanAppointment(r.q.QueryRow(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return a, nil
}

func scanAppointment(row rowScanner) (*entity.Appointment, error) {
	var a entity.Appointment
	err := row.Scan(&a.ID, &a.FranchiseID, &a.PatientID, &a.TeamID, &a.StartAt, &a.DurationMinutes,
		&a.Status, &a.Reason, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepo) Update(ctx context.Context, a *entity.Appointment) error {
	query := `
		UPDATE appointments SET patient_id = $2, team_id = $3, start_at = $4, duration_minutes = $5,
			status = $6, reason = $7, notes = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		a.ID, a.PatientID, a.TeamID, a.StartAt, a.DurationMinutes, a.Status, a.Reason, a.Notes, a.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update appointment", err)
	}
	return expectRow(tag, domain.ErrNotFound)
}

func (r *AppointmentRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.q.Exec(ctx, `UPDATE appointments SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}
	return expectRow(tag, domain.ErrNotFound)
}

func (r *AppointmentRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("delete appointment", err)
	}
	return expectRow(tag, domain.ErrNotFound)
}

func (r *AppointmentRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Appointment, int, error) {
	var b filterBuilder
	b.eq("franchise_id", f.FranchiseID)
	b.eq("team_id", f.TeamID)
	b.eq("patient_id", f.PatientID)
	b.eq("status", f.Status)
	b.dateRange("start_at", f.From, f.To)
	total, err := b.count(ctx, r.q, "appointments")
	if err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + appointmentColumns + ` FROM appointments` + b.where() + b.page(orderBy(f, appointmentSort, "start_at"), f)
	rows, err := r.q.Query(ctx, query, b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan appointment: %w", err)
		}
		list = append(list, a)
	}
	return list, total, rows.Err()
}

// HasOverlap busca otra cita que bloquee agenda y se cruce con [start, end).
func (r *AppointmentRepo) HasOverlap(ctx context.Context, teamID string, start, end time.Time, excludeID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE team_id = $1
			  AND id::text <> $4
			  AND status NOT IN ($5, $6)
			  AND start_at < $3
			  AND start_at + make_interval(mins => duration_minutes) > $2
		)`
	var exists bool
	err := r.q.QueryRow(ctx, query, teamID, start, end, excludeID,
		entity.AppointmentCancelled, entity.AppointmentNoShow).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check appointment overlap: %w", err)
	}
	return exists, nil
}
