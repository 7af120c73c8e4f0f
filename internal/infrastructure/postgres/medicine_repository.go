package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
)

var (
	_ repository.MedicineRepository = (*MedicineRepo)(nil)
	_ repository.ServiceRepository  = (*ServiceRepo)(nil)
	_ repository.PackageRepository  = (*PackageRepo)(nil)
)

const medicineColumns = `id, name, code, manufacturer, unit, hsn_code, mrp, purchase_rate, tax_rate, avg_cost, reorder_level, status, created_at, updated_at`

var catalogSort = map[string]string{"name": "name", "code": "code", "created_at": "created_at"}

// MedicineRepo catálogo de medicamentos sobre PostgreSQL (usable con pool o tx).
type MedicineRepo struct {
	q Querier
}

// NewMedicineRepository construye el adaptador de persistencia para medicamentos.
func NewMedicineRepository(q Querier) *MedicineRepo {
	return &MedicineRepo{q: q}
}

// Create persiste un nuevo medicamento. avg_cost inicia en 0.
func (r *MedicineRepo) Create(ctx context.Context, m *entity.Medicine) error {
	query := `
		INSERT INTO medicines (` + medicineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.Name, m.Code, m.Manufacturer, m.Unit, m.HSNCode, m.MRP, m.PurchaseRate, m.TaxRate,
		m.AvgCost, m.ReorderLevel, m.Status, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert medicine", err)
	}
	return nil
}

// GetByID obtiene un medicamento por ID.
func (r *MedicineRepo) GetByID(ctx context.Context, id string) (*entity.Medicine, error) {
	m, err := scanMedicine(r.q.QueryRow(ctx, `SELECT `+medicineColumns+` FROM medicines WHERE id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get medicine: %w", err)
	}
	return m, nil
}

func scanMedicine(row rowScanner) (*entity.Medicine, error) {
	var m entity.Medicine
	err := row.Scan(&m.ID, &m.Name, &m.Code, &m.Manufacturer, &m.Unit, &m.HSNCode, &m.MRP, &m.PurchaseRate,
		&m.TaxRate, &m.AvgCost, &m.ReorderLevel, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Update persiste los campos editables; avg_cost solo cambia vía UpdateAvgCost.
func (r *MedicineRepo) Update(ctx context.Context, m *entity.Medicine) error {
	query := `
		UPDATE medicines SET name = $2, code = $3, manufacturer = $4, unit = $5, hsn_code = $6, mrp = $7,
			purchase_rate = $8, tax_rate = $9, reorder_level = $10, status = $11, updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		m.ID, m.Name, m.Code, m.Manufacturer, m.Unit, m.HSNCode, m.MRP, m.PurchaseRate, m.TaxRate,
		m.ReorderLevel, m.Status, m.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update medicine", err)
	}
	return expectRow(tag, domain.ErrNotFound)
}

// UpdateAvgCost actualiza el costo promedio ponderado.
func (r *MedicineRepo) UpdateAvgCost(ctx context.Context, id string, cost decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE medicines SET avg_cost = $2, updated_at = now() WHERE id = $1`, id, cost)
	if err != nil {
		return fmt.Errorf("update medicine cost: %w", err)
	}
	return expectRow(tag, domain.ErrNotFound)
}

// Delete falla con ErrConflict si el medicamento tiene stock o documentos.
func (r *MedicineRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM medicines WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("delete medicine", err)
	}
	return expectRow(tag, domain.ErrNotFound)
}

func (r *MedicineRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Medicine, int, error) {
	var b filterBuilder
	b.eq("status", f.Status)
	b.search(f.Search, "name", "code", "manufacturer")
	total, err := b.count(ctx, r.q, "medicines")
	if err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + medicineColumns + ` FROM medicines` + b.where() + b.page(orderBy(f, catalogSort, "created_at"), f)
	rows, err := r.q.Query(ctx, query, b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list medicines: %w", err)
	}
	defer rows.Close()
	var list []*entity.Medicine
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan medicine: %w", err)
		}
		list = append(list, m)
	}
	return list, total, rows.Err()
}

// Options medicamentos activos para selectores, con el MRP como precio.
func (r *MedicineRepo) Options(ctx context.Context) ([]entity.CatalogOption, error) {
	return listOptions(ctx, r.q, `SELECT id, code, name, mrp FROM medicines WHERE status = $1 ORDER BY name`)
}

func listOptions(ctx context.Context, q Querier, query string) ([]entity.CatalogOption, error) {
	rows, err := q.Query(ctx, query, entity.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("list options: %w", err)
	}
	defer rows.Close()
	out := []entity.CatalogOption{}
	for rows.Next() {
		var o entity.CatalogOption
		if err := rows.Scan(&o.ID, &o.Code, &o.Name, &o.Price); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ServiceRepo catálogo de servicios.
type ServiceRepo struct {
	q Querier
}

// NewServiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewServiceRepository(q Querier) *ServiceRepo {
	return &ServiceRepo{q: q}
}

const serviceColumns = `id, name, code, charge, tax_rate, status, created_at, updated_at`

func (r *ServiceRepo) Create(ctx context.Context, s *entity.Service) error {
	_, err := r.q.Exec(ctx, `INSERT INTO services (`+serviceColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.Name, s.Code, s.Charge, s.TaxRate, s.Status, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return mapWriteError("insert service", err)
	}
	return nil
}

func (r *ServiceRepo) GetByID(ctx context.Context, id string) (*entity.Service, error) {
	s, err := scanService(r.q.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service: %w", err)
	}
	return s, nil
}

func scanService(row rowScanner) (*entity.Service, error) {
	var s entity.Service
	if err := row.Scan(&s.ID, &s.Name, &s.Code, &s.Charge, &s.TaxRate, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ServiceRepo) Update(ctx context.Context, s *entity.Service) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE services SET name = $2, code = $3, charge = $4, tax_rate = $5, status = $6, updated_at = $7 WHERE id = $1`,
		s.ID, s.Name, s.Code, s.Charge, s.TaxRate, s.Status, s.UpdatedAt)
	if err != nil {
		return mapWriteError("update service", err)
	}
	return expectRow(tag, domain.ErrNotFound)
}

func (r *ServiceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("delete service", err)
	}
	return expectRow(tag, domain.ErrNotFound)
}

func (r *ServiceRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Service, int, error) {
	var b filterBuilder
	b.eq("status", f.Status)
	b.search(f.Search, "name", "code")
	total, err := b.count(ctx, r.q, "services")
	if err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + serviceColumns + ` FROM services` + b.where() + b.page(orderBy(f, catalogSort, "created_at"), f)
	rows, err := r.q.Query(ctx, query, b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()
	var list []*entity.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan service: %w", err)
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}

func (r *ServiceRepo) Options(ctx context.Context) ([]entity.CatalogOption, error) {
	return listOptions(ctx, r.q, `SELECT id, code, name, charge FROM services WHERE status = $1 ORDER BY name`)
}

// PackageRepo catálogo de paquetes; service_ids se guarda como arreglo.
type PackageRepo struct {
	q Querier
}

// NewPackageRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPackageRepository(q Querier) *PackageRepo {
	return &PackageRepo{q: q}
}

const packageColumns = `id, name, code, price, sessions, validity_days, service_ids, status, created_at, updated_at`

func (r *PackageRepo) Create(ctx context.Context, p *entity.Package) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO packages (`+packageColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.Name, p.Code, p.Price, p.Sessions, p.ValidityDays, serviceIDs(p.ServiceIDs), p.Status, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return mapWriteError("insert package", err)
	}
	return nil
}

func serviceIDs(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

func (r *PackageRepo) GetByID(ctx context.Context, id string) (*entity.Package, error) {
	p, err := scanPackage(r.q.QueryRow(ctx, `SELECT `+packageColumns+` FROM packages WHERE id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get package: %w", err)
	}
	return p, nil
}

func scanPackage(row rowScanner) (*entity.Package, error) {
	var p entity.Package
	err := row.Scan(&p.ID, &p.Name, &p.Code, &p.Price, &p.Sessions, &p.ValidityDays, &p.ServiceIDs, &p.Status,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PackageRepo) Update(ctx context.Context, p *entity.Package) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE packages SET name = $2, code = $3, price = $4, sessions = $5, validity_days = $6,
			service_ids = $7, status = $8, updated_at = $9
		WHERE id = $1`,
		p.ID, p.Name, p.Code, p.Price, p.Sessions, p.ValidityDays, serviceIDs(p.ServiceIDs), p.Status, p.UpdatedAt)
	if err != nil {
		return mapWriteError("update package", err)
	}
	return expectRow(tag, domain.ErrNotFound)
}

func (r *PackageRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM packages WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("delete package", err)
	}
	return expectRow(tag, domain.ErrNotFound)
}

func (r *PackageRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Package, int, error) {
	var b filterBuilder
	b.eq("status", f.Status)
	b.search(f.Search, "name", "code")
	total, err := b.count(ctx, r.q, "packages")
	if err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + packageColumns + ` FROM packages` + b.where() + b.page(orderBy(f, catalogSort, "created_at"), f)
	rows, err := r.q.Query(ctx, query, b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()
	var list []*entity.Package
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan package: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

func (r *PackageRepo) Options(ctx context.Context) ([]entity.CatalogOption, error) {
	return listOptions(ctx, r.q, `SELECT id, code, name, price FROM packages WHERE status = $1 ORDER BY name`)
}
