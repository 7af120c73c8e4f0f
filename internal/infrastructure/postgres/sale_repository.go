package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, franchise_id, invoice_no, invoice_date, net_total, tax_total, grand_total, dispatch_status, notes, created_by, created_at, updated_at`

var saleSort = map[string]string{
	"invoice_date": "invoice_date",
	"invoice_no":   "invoice_no",
	"grand_total":  "grand_total",
	"created_at":   "created_at",
}

// SaleRepo ventas de la central a franquicias (cabecera + detalle).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera y sus líneas.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.FranchiseID, s.InvoiceNo, s.InvoiceDate, s.NetTotal, s.TaxTotal, s.GrandTotal, s.DispatchStatus,
		s.Notes, nullIfEmpty(s.CreatedBy), s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert sale", err)
	}
	return r.insertDetails(ctx, s)
}

func (r *SaleRepo) insertDetails(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sale_details (id, sale_id, line_no, medicine_id, quantity, rate, tax_rate, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for i := range s.Details {
		d := &s.Details[i]
		if d.ID == "" {
			d.ID = uuid.New().String()
		}
		d.SaleID = s.ID
		if _, err := r.q.Exec(ctx, query, d.ID, s.ID, i+1, d.MedicineID, d.Quantity, d.Rate, d.TaxRate, d.Amount); err != nil {
			return mapWriteError("insert sale detail", err)
		}
	}
	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
}

// GetForUpdate bloquea la cabecera hasta el fin de la transacción.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id)
}

func (r *SaleRepo) get(ctx context.Context, query, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if err := r.attachDetails(ctx, []*entity.Sale{s}); err != nil {
		return nil, err
	}
	return s, nil
}

func scanSale(row rowScanner) (*entity.Sale, error) {
	var s entity.Sale
	var createdBy *string
	err := row.Scan(&s.ID, &s.FranchiseID, &s.InvoiceNo, &s.InvoiceDate, &s.NetTotal, &s.TaxTotal, &s.GrandTotal,
		&s.DispatchStatus, &s.Notes, &createdBy, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.CreatedBy = deref(createdBy)
	return &s, nil
}

// attachDetails carga las líneas de varias ventas en una sola consulta.
func (r *SaleRepo) attachDetails(ctx context.Context, sales []*entity.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	ids := make([]string, len(sales))
	byID := make(map[string]*entity.Sale, len(sales))
	for i, s := range sales {
		ids[i] = s.ID
		byID[s.ID] = s
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, medicine_id, quantity, rate, tax_rate, amount
		FROM sale_details WHERE sale_id = ANY($1::uuid[]) ORDER BY sale_id, line_no`, ids)
	if err != nil {
		return fmt.Errorf("list sale details: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d entity.SaleDetail
		if err := rows.Scan(&d.ID, &d.SaleID, &d.MedicineID, &d.Quantity, &d.Rate, &d.TaxRate, &d.Amount); err != nil {
			return fmt.Errorf("scan sale detail: %w", err)
		}
		s := byID[d.SaleID]
		s.Details = append(s.Details, d)
	}
	return rows.Err()
}

// Update reescribe la cabecera y reemplaza todas las líneas.
func (r *SaleRepo) Update(ctx context.Context, s *entity.Sale) error {
	query := `
		UPDATE sales SET invoice_date = $2, net_total = $3, tax_total = $4, grand_total = $5,
			dispatch_status = $6, notes = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		s.ID, s.InvoiceDate, s.NetTotal, s.TaxTotal, s.GrandTotal, s.DispatchStatus, s.Notes, s.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update sale", err)
	}
	if err := expectRow(tag, domain.ErrNotFound); err != nil {
		return err
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM sale_details WHERE sale_id = $1`, s.ID); err != nil {
		return fmt.Errorf("delete sale details: %w", err)
	}
	for i := range s.Details {
		s.Details[i].ID = ""
	}
	return r.insertDetails(ctx, s)
}

func (r *SaleRepo) UpdateDispatchStatus(ctx context.Context, id, status string) error {
	tag, err := r.q.Exec(ctx, `UPDATE sales SET dispatch_status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update sale dispatch status: %w", err)
	}
	return expectRow(tag, domain.ErrNotFound)
}

// Delete borra la venta; el detalle cae por ON DELETE CASCADE.
func (r *SaleRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("delete sale", err)
	}
	return expectRow(tag, domain.ErrNotFound)
}

func (r *SaleRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Sale, int, error) {
	var b filterBuilder
	b.eq("franchise_id", f.FranchiseID)
	b.eq("dispatch_status", f.Status)
	b.dateRange("invoice_date", f.From, f.To)
	b.search(f.Search, "invoice_no")
	total, err := b.count(ctx, r.q, "sales")
	if err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + saleColumns + ` FROM sales` + b.where() + b.page(orderBy(f, saleSort, "created_at"), f)
	rows, err := r.q.Query(ctx, query, b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	if err := r.attachDetails(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
