package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
)

var _ repository.ReceiptRepository = (*ReceiptRepo)(nil)

const receiptColumns = `id, franchise_id, patient_id, receipt_no, kind, reference_id, amount, payment_mode, date, notes,
	cancelled, created_by, created_at`

var receiptSort = map[string]string{"date": "date", "receipt_no": "receipt_no", "amount": "amount", "created_at": "created_at"}

// ReceiptRepo recibos de caja sobre PostgreSQL.
type ReceiptRepo struct {
	q Querier
}

// NewReceiptRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReceiptRepository(q Querier) *ReceiptRepo {
	return &ReceiptRepo{q: q}
}

func (r *ReceiptRepo) Create(ctx context.Context, v *entity.Receipt) error {
	query := `
		INSERT INTO receipts (` + receiptColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		v.ID, v.FranchiseID, v.PatientID, v.ReceiptNo, v.Kind, nullIfEmpty(v.ReferenceID), v.Amount, v.PaymentMode,
		v.Date, v.Notes, v.Cancelled, nullIfEmpty(v.CreatedBy), v.CreatedAt,
	)
	if err != nil {
		return mapWriteError("insert receipt", err)
	}
	return nil
}

func (r *ReceiptRepo) GetByID(ctx context.Context, id string) (*entity.Receipt, error) {
	return r.findOne(ctx, `SELECT `+receiptColumns+` FROM receipts WHERE id = $1`, id)
}

func (r *ReceiptRepo) GetByReference(ctx context.Context, kind, referenceID string) (*entity.Receipt, error) {
	return r.findOne(ctx,
		`SELECT `+receiptColumns+` FROM receipts WHERE kind = $1 AND reference_id = $2 AND NOT cancelled LIMIT 1`,
		kind, referenceID)
}

func (r *ReceiptRepo) findOne(ctx context.Context, query string, args ...any) (*entity.Receipt, error) {
	v, err := scanReceipt(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get receipt: %w", err)
	}
	return v, nil
}

func scanReceipt(row rowScanner) (*entity.Receipt, error) {
	var v entity.Receipt
	var referenceID, createdBy *string
	err := row.Scan(&v.ID, &v.FranchiseID, &v.PatientID, &v.ReceiptNo, &v.Kind, &referenceID, &v.Amount,
		&v.PaymentMode, &v.Date, &v.Notes, &v.Cancelled, &createdBy, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	v.ReferenceID = deref(referenceID)
	v.CreatedBy = deref(createdBy)
	return &v, nil
}

func (r *ReceiptRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Receipt, int, error) {
	var b filterBuilder
	b.eq("franchise_id", f.FranchiseID)
	b.eq("patient_id", f.PatientID)
	b.eq("kind", f.Kind)
	b.dateRange("date", f.From, f.To)
	b.search(f.Search, "receipt_no")
	total, err := b.count(ctx, r.q, "receipts")
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.q.Query(ctx, `SELECT `+receiptColumns+` FROM receipts`+b.where()+b.page(orderBy(f, receiptSort, "created_at"), f), b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Receipt
	for rows.Next() {
		v, err := scanReceipt(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan receipt: %w", err)
		}
		list = append(list, v)
	}
	return list, total, rows.Err()
}

// UpdateByReference no toca recibos anulados.
func (r *ReceiptRepo) UpdateByReference(ctx context.Context, kind, referenceID string, amount decimal.Decimal, paymentMode string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE receipts SET amount = $3, payment_mode = $4 WHERE kind = $1 AND reference_id = $2 AND NOT cancelled`,
		kind, referenceID, amount, paymentMode)
	if err != nil {
		return fmt.Errorf("update receipt by reference: %w", err)
	}
	return nil
}

func (r *ReceiptRepo) CancelByReference(ctx context.Context, kind, referenceID string) error {
	_, err := r.q.Exec(ctx, `UPDATE receipts SET cancelled = TRUE WHERE kind = $1 AND reference_id = $2`, kind, referenceID)
	if err != nil {
		return fmt.Errorf("cancel receipt by reference: %w", err)
	}
	return nil
}
