package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
)

var _ repository.MedicineBillRepository = (*MedicineBillRepo)(nil)

const billColumns = `id, franchise_id, patient_id, team_id, bill_no, bill_date, net_total, discount, tax_total, grand_total,
	payment_mode, status, created_by, created_at, updated_at`

var billSort = map[string]string{"bill_date": "bill_date", "bill_no": "bill_no", "grand_total": "grand_total", "created_at": "created_at"}

// MedicineBillRepo facturas de medicamentos a pacientes (cabecera + ítems).
type MedicineBillRepo struct {
	q Querier
}

// NewMedicineBillRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMedicineBillRepository(q Querier) *MedicineBillRepo {
	return &MedicineBillRepo{q: q}
}

func (r *MedicineBillRepo) Create(ctx context.Context, b *entity.MedicineBill) error {
	query := `
		INSERT INTO medicine_bills (` + billColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.FranchiseID, b.PatientID, nullIfEmpty(b.TeamID), b.BillNo, b.BillDate, b.NetTotal, b.Discount,
		b.TaxTotal, b.GrandTotal, b.PaymentMode, b.Status, nullIfEmpty(b.CreatedBy), b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert medicine bill", err)
	}
	item := `
		INSERT INTO medicine_bill_items (id, bill_id, line_no, medicine_id, batch_no, quantity, rate, tax_rate, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for i := range b.Items {
		it := &b.Items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.BillID = b.ID
		if _, err := r.q.Exec(ctx, item, it.ID, b.ID, i+1, it.MedicineID, it.BatchNo, it.Quantity, it.Rate, it.TaxRate, it.Amount); err != nil {
			return mapWriteError("insert medicine bill item", err)
		}
	}
	return nil
}

func (r *MedicineBillRepo) GetByID(ctx context.Context, id string) (*entity.MedicineBill, error) {
	return r.get(ctx, `SELECT `+billColumns+` FROM medicine_bills WHERE id = $1`, id)
}

func (r *MedicineBillRepo) GetForUpdate(ctx context.Context, id string) (*entity.MedicineBill, error) {
	return r.get(ctx, `SELECT `+billColumns+` FROM medicine_bills WHERE id = $1 FOR UPDATE`, id)
}

func (r *MedicineBillRepo) get(ctx context.Context, query, id string) (*entity.MedicineBill, error) {
	b, err := scanBill(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get medicine bill: %w", err)
	}
	if err := r.attachItems(ctx, []*entity.MedicineBill{b}); err != nil {
		return nil, err
	}
	return b, nil
}

func scanBill(row rowScanner) (*entity.MedicineBill, error) {
	var b entity.MedicineBill
	var teamID, createdBy *string
	err := row.Scan(&b.ID, &b.FranchiseID, &b.PatientID, &teamID, &b.BillNo, &b.BillDate, &b.NetTotal, &b.Discount,
		&b.TaxTotal, &b.GrandTotal, &b.PaymentMode, &b.Status, &createdBy, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.TeamID = deref(teamID)
	b.CreatedBy = deref(createdBy)
	return &b, nil
}

func (r *MedicineBillRepo) attachItems(ctx context.Context, bills []*entity.MedicineBill) error {
	if len(bills) == 0 {
		return nil
	}
	ids := make([]string, len(bills))
	byID := make(map[string]*entity.MedicineBill, len(bills))
	for i, b := range bills {
		ids[i] = b.ID
		byID[b.ID] = b
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, bill_id, medicine_id, batch_no, quantity, rate, tax_rate, amount
		FROM medicine_bill_items WHERE bill_id = ANY($1::uuid[]) ORDER BY bill_id, line_no`, ids)
	if err != nil {
		return fmt.Errorf("list medicine bill items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.MedicineBillItem
		if err := rows.Scan(&it.ID, &it.BillID, &it.MedicineID, &it.BatchNo, &it.Quantity, &it.Rate, &it.TaxRate, &it.Amount); err != nil {
			return fmt.Errorf("scan medicine bill item: %w", err)
		}
		b := byID[it.BillID]
		b.Items = append(b.Items, it)
	}
	return rows.Err()
}

func (r *MedicineBillRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.q.Exec(ctx, `UPDATE medicine_bills SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update medicine bill status: %w", err)
	}
	return expectRow(tag, domain.ErrNotFound)
}

func (r *MedicineBillRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.MedicineBill, int, error) {
	var b filterBuilder
	b.eq("franchise_id", f.FranchiseID)
	b.eq("patient_id", f.PatientID)
	b.eq("status", f.Status)
	b.dateRange("bill_date", f.From, f.To)
	b.search(f.Search, "bill_no")
	total, err := b.count(ctx, r.q, "medicine_bills")
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.q.Query(ctx, `SELECT `+billColumns+` FROM medicine_bills`+b.where()+b.page(orderBy(f, billSort, "created_at"), f), b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list medicine bills: %w", err)
	}
	var list []*entity.MedicineBill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("scan medicine bill: %w", err)
		}
		list = append(list, bill)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list medicine bills: %w", err)
	}
	if err := r.attachItems(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
