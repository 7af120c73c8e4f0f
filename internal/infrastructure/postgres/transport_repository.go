package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
)

var _ repository.TransportRepository = (*TransportRepo)(nil)

const transportColumns = `id, sale_id, franchise_id, dispatch_no, dispatch_date, transporter, vehicle_no, lr_no, status,
	received_at, received_by, notes, created_by, created_at, updated_at`

var transportSort = map[string]string{"dispatch_date": "dispatch_date", "dispatch_no": "dispatch_no", "created_at": "created_at"}

// TransportRepo despachos (guías) de la central hacia franquicias.
type TransportRepo struct {
	q Querier
}

// NewTransportRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransportRepository(q Querier) *TransportRepo {
	return &TransportRepo{q: q}
}

func (r *TransportRepo) Create(ctx context.Context, t *entity.Transport) error {
	query := `
		INSERT INTO transports (` + transportColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.SaleID, t.FranchiseID, t.DispatchNo, t.DispatchDate, t.Transporter, t.VehicleNo, t.LRNo, t.Status,
		t.ReceivedAt, nullIfEmpty(t.ReceivedBy), t.Notes, nullIfEmpty(t.CreatedBy), t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert transport", err)
	}
	detail := `
		INSERT INTO transport_details (id, transport_id, line_no, medicine_id, batch_no, expiry_date, quantity, rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for i := range t.Details {
		d := &t.Details[i]
		if d.ID == "" {
			d.ID = uuid.New().String()
		}
		d.TransportID = t.ID
		if _, err := r.q.Exec(ctx, detail, d.ID, t.ID, i+1, d.MedicineID, d.BatchNo, d.ExpiryDate, d.Quantity, d.Rate); err != nil {
			return mapWriteError("insert transport detail", err)
		}
	}
	return nil
}

func (r *TransportRepo) GetByID(ctx context.Context, id string) (*entity.Transport, error) {
	return r.get(ctx, `SELECT `+transportColumns+` FROM transports WHERE id = $1`, id)
}

func (r *TransportRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transport, error) {
	return r.get(ctx, `SELECT `+transportColumns+` FROM transports WHERE id = $1 FOR UPDATE`, id)
}

func (r *TransportRepo) get(ctx context.Context, query, id string) (*entity.Transport, error) {
	t, err := scanTransport(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transport: %w", err)
	}
	if err := r.attachDetails(ctx, []*entity.Transport{t}); err != nil {
		return nil, err
	}
	return t, nil
}

func scanTransport(row rowScanner) (*entity.Transport, error) {
	var t entity.Transport
	var receivedBy, createdBy *string
	err := row.Scan(&t.ID, &t.SaleID, &t.FranchiseID, &t.DispatchNo, &t.DispatchDate, &t.Transporter, &t.VehicleNo,
		&t.LRNo, &t.Status, &t.ReceivedAt, &receivedBy, &t.Notes, &createdBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.ReceivedBy = deref(receivedBy)
	t.CreatedBy = deref(createdBy)
	return &t, nil
}

func (r *TransportRepo) attachDetails(ctx context.Context, list []*entity.Transport) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]string, len(list))
	byID := make(map[string]*entity.Transport, len(list))
	for i, t := range list {
		ids[i] = t.ID
		byID[t.ID] = t
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, transport_id, medicine_id, batch_no, expiry_date, quantity, rate
		FROM transport_details WHERE transport_id = ANY($1::uuid[]) ORDER BY transport_id, line_no`, ids)
	if err != nil {
		return fmt.Errorf("list transport details: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d entity.TransportDetail
		if err := rows.Scan(&d.ID, &d.TransportID, &d.MedicineID, &d.BatchNo, &d.ExpiryDate, &d.Quantity, &d.Rate); err != nil {
			return fmt.Errorf("scan transport detail: %w", err)
		}
		t := byID[d.TransportID]
		t.Details = append(t.Details, d)
	}
	return rows.Err()
}

// ListBySale devuelve todos los despachos de la venta en orden de creación.
func (r *TransportRepo) ListBySale(ctx context.Context, saleID string) ([]entity.Transport, error) {
	ptrs, err := r.query(ctx, `SELECT `+transportColumns+` FROM transports WHERE sale_id = $1 ORDER BY created_at`, saleID)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Transport, len(ptrs))
	for i, t := range ptrs {
		out[i] = *t
	}
	return out, nil
}

func (r *TransportRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Transport, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transports: %w", err)
	}
	var list []*entity.Transport
	for rows.Next() {
		t, err := scanTransport(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan transport: %w", err)
		}
		list = append(list, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transports: %w", err)
	}
	if err := r.attachDetails(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *TransportRepo) UpdateStatus(ctx context.Context, t *entity.Transport) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE transports SET status = $2, received_at = $3, received_by = $4, updated_at = $5 WHERE id = $1`,
		t.ID, t.Status, t.ReceivedAt, nullIfEmpty(t.ReceivedBy), t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update transport status: %w", err)
	}
	return expectRow(tag, domain.ErrNotFound)
}

func (r *TransportRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Transport, int, error) {
	var b filterBuilder
	b.eq("franchise_id", f.FranchiseID)
	b.eq("sale_id", f.SaleID)
	b.eq("status", f.Status)
	b.dateRange("dispatch_date", f.From, f.To)
	b.search(f.Search, "dispatch_no", "vehicle_no", "lr_no")
	total, err := b.count(ctx, r.q, "transports")
	if err != nil {
		return nil, 0, err
	}
	list, err := r.query(ctx, `SELECT `+transportColumns+` FROM transports`+b.where()+b.page(orderBy(f, transportSort, "created_at"), f), b.args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
