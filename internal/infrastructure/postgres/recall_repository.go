package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
)

var _ repository.RecallRepository = (*RecallRepo)(nil)

const recallColumns = `id, franchise_id, patient_id, consultation_id, recall_date, reason, status, notified_at, created_at, updated_at`

// RecallRepo recordatorios de control sobre PostgreSQL.
type RecallRepo struct {
	q Querier
}

// NewRecallRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRecallRepository(q Querier) *RecallRepo {
	return &RecallRepo{q: q}
}

func (r *RecallRepo) Create(ctx context.Context, v *entity.Recall) error {
	_, err := r.q.Exec(ctx, `INSERT INTO recalls (`+recallColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		v.ID, v.FranchiseID, v.PatientID, nullIfEmpty(v.ConsultationID), v.RecallDate, v.Reason, v.Status,
		v.NotifiedAt, v.CreatedAt, v.UpdatedAt)
	if err != nil {
		return mapWriteError("insert recall", err)
	}
	return nil
}

func (r *RecallRepo) GetByID(ctx context.Context, id string) (*entity.Recall, error) {
	v, err := scanRecall(r.q.QueryRow(ctx, `SELECT `+recallColumns+` FROM recalls WHERE id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get recall: %w", err)
	}
	return v, nil
}

func scanRecall(row rowScanner) (*entity.Recall, error) {
	var v entity.Recall
	var consultationID *string
	err := row.Scan(&v.ID, &v.FranchiseID, &v.PatientID, &consultationID, &v.RecallDate, &v.Reason, &v.Status,
		&v.NotifiedAt, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	v.ConsultationID = deref(consultationID)
	return &v, nil
}

func (r *RecallRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.q.Exec(ctx, `UPDATE recalls SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update recall status: %w", err)
	}
	return expectRow(tag, domain.ErrNotFound)
}

func (r *RecallRepo) MarkNotified(ctx context.Context, id string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE recalls SET notified_at = $2, updated_at = now() WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("mark recall notified: %w", err)
	}
	return expectRow(tag, domain.ErrNotFound)
}

// CancelByConsultation anula solo los recordatorios pendientes de la consulta.
func (r *RecallRepo) CancelByConsultation(ctx context.Context, consultationID string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE recalls SET status = $3, updated_at = now() WHERE consultation_id = $1 AND status = $2`,
		consultationID, entity.RecallPending, entity.RecallCancelled)
	if err != nil {
		return fmt.Errorf("cancel recalls: %w", err)
	}
	return nil
}

// List ordena siempre por fecha de control ascendente (próximos primero).
func (r *RecallRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Recall, int, error) {
	var b filterBuilder
	b.eq("franchise_id", f.FranchiseID)
	b.eq("patient_id", f.PatientID)
	b.eq("status", f.Status)
	b.dateRange("recall_date", f.From, f.To)
	total, err := b.count(ctx, r.q, "recalls")
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.q.Query(ctx, `SELECT `+recallColumns+` FROM recalls`+b.where()+b.page("recall_date ASC, created_at ASC", f), b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list recalls: %w", err)
	}
	defer rows.Close()
	var list []*entity.Recall
	for rows.Next() {
		v, err := scanRecall(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan recall: %w", err)
		}
		list = append(list, v)
	}
	return list, total, rows.Err()
}
