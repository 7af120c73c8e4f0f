package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// GetBalanceForUpdate asegura la fila (en cero si no existía) y la bloquea (SELECT FOR UPDATE),
// así dos transacciones que reciben el primer ingreso de un medicamento no se pisan.
func (r *StockRepo) GetBalanceForUpdate(ctx context.Context, owner, medicineID string) (*entity.StockBalance, error) {
	ensure := `
		INSERT INTO stock_balances (owner, medicine_id, quantity, avg_cost, updated_at)
		VALUES ($1, $2, 0, 0, now())
		ON CONFLICT (owner, medicine_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, ensure, owner, medicineID); err != nil {
		return nil, mapWriteError("ensure stock balance", err)
	}
	query := `
		SELECT owner, medicine_id, quantity, avg_cost, updated_at
		FROM stock_balances WHERE owner = $1 AND medicine_id = $2
		FOR UPDATE`
	var b entity.StockBalance
	err := r.q.QueryRow(ctx, query, owner, medicineID).Scan(&b.Owner, &b.MedicineID, &b.Quantity, &b.AvgCost, &b.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return &b, nil
}

// UpsertBalance inserta o actualiza cantidad y costo promedio del dueño.
func (r *StockRepo) UpsertBalance(ctx context.Context, b *entity.StockBalance) error {
	query := `
		INSERT INTO stock_balances (owner, medicine_id, quantity, avg_cost, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (owner, medicine_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, avg_cost = EXCLUDED.avg_cost, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, b.Owner, b.MedicineID, b.Quantity, b.AvgCost); err != nil {
		return mapWriteError("upsert stock", err)
	}
	return nil
}

// GetBatchForUpdate devuelve el lote bloqueado, o uno en cero si no existe.
// El lock del balance del mismo medicamento ya serializa los lotes nuevos.
func (r *StockRepo) GetBatchForUpdate(ctx context.Context, owner, medicineID, batchNo string) (*entity.StockBatchBalance, error) {
	query := `
		SELECT owner, medicine_id, batch_no, expiry_date, quantity, updated_at
		FROM stock_batches WHERE owner = $1 AND medicine_id = $2 AND batch_no = $3
		FOR UPDATE`
	b, err := scanBatch(r.q.QueryRow(ctx, query, owner, medicineID, batchNo))
	if err != nil {
		if noRows(err) {
			return &entity.StockBatchBalance{Owner: owner, MedicineID: medicineID, BatchNo: batchNo}, nil
		}
		return nil, fmt.Errorf("get batch for update: %w", err)
	}
	return b, nil
}

func scanBatch(row rowScanner) (*entity.StockBatchBalance, error) {
	var b entity.StockBatchBalance
	if err := row.Scan(&b.Owner, &b.MedicineID, &b.BatchNo, &b.ExpiryDate, &b.Quantity, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// fefoOrder vencimiento más próximo primero; sin vencimiento al final.
const fefoOrder = ` ORDER BY expiry_date ASC NULLS LAST, batch_no ASC`

// ListBatchesForUpdate lotes con existencia positiva en orden FEFO, bloqueados.
func (r *StockRepo) ListBatchesForUpdate(ctx context.Context, owner, medicineID string) ([]entity.StockBatchBalance, error) {
	query := `
		SELECT owner, medicine_id, batch_no, expiry_date, quantity, updated_at
		FROM stock_batches WHERE owner = $1 AND medicine_id = $2 AND quantity > 0` + fefoOrder + `
		FOR UPDATE`
	rows, err := r.q.Query(ctx, query, owner, medicineID)
	if err != nil {
		return nil, fmt.Errorf("list batches for update: %w", err)
	}
	defer rows.Close()
	var list []entity.StockBatchBalance
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, *b)
	}
	return list, rows.Err()
}

func (r *StockRepo) UpsertBatch(ctx context.Context, b *entity.StockBatchBalance) error {
	query := `
		INSERT INTO stock_batches (owner, medicine_id, batch_no, expiry_date, quantity, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (owner, medicine_id, batch_no)
		DO UPDATE SET quantity = EXCLUDED.quantity,
		              expiry_date = COALESCE(EXCLUDED.expiry_date, stock_batches.expiry_date),
		              updated_at = now()`
	if _, err := r.q.Exec(ctx, query, b.Owner, b.MedicineID, b.BatchNo, b.ExpiryDate, b.Quantity); err != nil {
		return mapWriteError("upsert batch", err)
	}
	return nil
}

// AddLedger registra un movimiento del kardex.
func (r *StockRepo) AddLedger(ctx context.Context, l *entity.StockLedger) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_ledger (id, owner, medicine_id, batch_no, type, quantity, unit_cost, balance_after,
			reference_type, reference_id, date, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.Owner, l.MedicineID, l.BatchNo, l.Type, l.Quantity, l.UnitCost, l.BalanceAfter,
		l.ReferenceType, l.ReferenceID, l.Date, nullIfEmpty(l.CreatedBy), l.CreatedAt,
	)
	if err != nil {
		return mapWriteError("insert ledger", err)
	}
	return nil
}

// ListBalances existencias con datos del medicamento; LowStockOnly filtra por nivel de reorden.
func (r *StockRepo) ListBalances(ctx context.Context, f repository.ListFilter) ([]entity.StockBalanceRow, int, error) {
	if f.LowStockOnly && f.Owner == entity.OwnerCentral {
		return r.listLowStock(ctx, f)
	}
	var b filterBuilder
	b.eq("s.owner", f.Owner)
	if f.LowStockOnly {
		b.add("m.reorder_level > 0 AND s.quantity <= m.reorder_level")
	}
	b.search(f.Search, "m.name", "m.code")
	from := "stock_balances s JOIN medicines m ON m.id = s.medicine_id"
	total, err := b.count(ctx, r.q, from)
	if err != nil {
		return nil, 0, err
	}
	query := `
		SELECT s.owner, s.medicine_id, s.quantity, s.avg_cost, s.updated_at, m.name, m.code, m.reorder_level
		FROM ` + from + b.where() + b.page("m.name ASC, s.owner ASC", f)
	list, err := r.queryBalances(ctx, query, b.args)
	return list, total, err
}

// listLowStock parte del catálogo activo para que los medicamentos que la central nunca
// compró aparezcan con existencia 0.
func (r *StockRepo) listLowStock(ctx context.Context, f repository.ListFilter) ([]entity.StockBalanceRow, int, error) {
	var b filterBuilder
	b.args = append(b.args, f.Owner)
	b.eq("m.status", entity.StatusActive)
	b.add("m.reorder_level > 0 AND COALESCE(s.quantity, 0) <= m.reorder_level")
	b.search(f.Search, "m.name", "m.code")
	from := "medicines m LEFT JOIN stock_balances s ON s.medicine_id = m.id AND s.owner = $1"
	total, err := b.count(ctx, r.q, from)
	if err != nil {
		return nil, 0, err
	}
	query := `
		SELECT COALESCE(s.owner, $1), m.id, COALESCE(s.quantity, 0), COALESCE(s.avg_cost, m.avg_cost),
		       COALESCE(s.updated_at, m.updated_at), m.name, m.code, m.reorder_level
		FROM ` + from + b.where() + b.page("m.name ASC", f)
	list, err := r.queryBalances(ctx, query, b.args)
	return list, total, err
}

func (r *StockRepo) queryBalances(ctx context.Context, query string, args []any) ([]entity.StockBalanceRow, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []entity.StockBalanceRow
	for rows.Next() {
		var row entity.StockBalanceRow
		if err := rows.Scan(&row.Owner, &row.MedicineID, &row.Quantity, &row.AvgCost, &row.UpdatedAt,
			&row.MedicineName, &row.MedicineCode, &row.ReorderLevel); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

// ListBatches lotes del dueño en orden FEFO (incluye lotes agotados).
func (r *StockRepo) ListBatches(ctx context.Context, f repository.ListFilter) ([]entity.StockBatchBalance, int, error) {
	var b filterBuilder
	b.eq("owner", f.Owner)
	b.eq("medicine_id", f.MedicineID)
	total, err := b.count(ctx, r.q, "stock_batches")
	if err != nil {
		return nil, 0, err
	}
	query := `SELECT owner, medicine_id, batch_no, expiry_date, quantity, updated_at FROM stock_batches` + b.where()
	if f.Limit > 0 {
		b.args = append(b.args, f.Limit, f.Offset)
		query += fefoOrder + fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(b.args)-1, len(b.args))
	} else {
		query += fefoOrder
	}
	rows, err := r.q.Query(ctx, query, b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	var list []entity.StockBatchBalance
	for rows.Next() {
		batch, err := scanBatch(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, *batch)
	}
	return list, total, rows.Err()
}

// ListLedger kardex filtrado por dueño, medicamento, tipo (Kind) y rango de fechas.
func (r *StockRepo) ListLedger(ctx context.Context, f repository.ListFilter) ([]entity.StockLedger, int, error) {
	var b filterBuilder
	b.eq("owner", f.Owner)
	b.eq("medicine_id", f.MedicineID)
	b.eq("type", f.Kind)
	b.dateRange("date", f.From, f.To)
	total, err := b.count(ctx, r.q, "stock_ledger")
	if err != nil {
		return nil, 0, err
	}
	query := `
		SELECT id, owner, medicine_id, batch_no, type, quantity, unit_cost, balance_after,
			reference_type, reference_id, date, created_by, created_at
		FROM stock_ledger` + b.where() + b.page("date DESC, created_at DESC", f)
	rows, err := r.q.Query(ctx, query, b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list ledger: %w", err)
	}
	defer rows.Close()
	var list []entity.StockLedger
	for rows.Next() {
		var l entity.StockLedger
		var createdBy *string
		if err := rows.Scan(&l.ID, &l.Owner, &l.MedicineID, &l.BatchNo, &l.Type, &l.Quantity, &l.UnitCost,
			&l.BalanceAfter, &l.ReferenceType, &l.ReferenceID, &l.Date, &createdBy, &l.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan ledger: %w", err)
		}
		l.CreatedBy = deref(createdBy)
		list = append(list, l)
	}
	return list, total, rows.Err()
}
