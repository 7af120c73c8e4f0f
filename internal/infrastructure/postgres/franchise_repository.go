package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
)

var _ repository.FranchiseRepository = (*FranchiseRepo)(nil)

const franchiseColumns = `id, name, code, owner_name, phone, email, address, city, state, gstin, status, created_at, updated_at`

var franchiseSort = map[string]string{
	"name":       "name",
	"code":       "code",
	"city":       "city",
	"created_at": "created_at",
}

// FranchiseRepo implementación de FranchiseRepository sobre PostgreSQL.
type FranchiseRepo struct {
	q Querier
}

// NewFranchiseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFranchiseRepository(q Querier) *FranchiseRepo {
	return &FranchiseRepo{q: q}
}

// Create persiste una franquicia; el código es único.
func (r *FranchiseRepo) Create(ctx context.Context, f *entity.Franchise) error {
	query := `
		INSERT INTO franchises (` + franchiseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		f.ID, f.Name, f.Code, f.OwnerName, f.Phone, f.Email, f.Address, f.City, f.State, f.GSTIN,
		f.Status, f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert franchise", err)
	}
	return nil
}

// GetByID obtiene una franquicia por ID.
func (r *FranchiseRepo) GetByID(ctx context.Context, id string) (*entity.Franchise, error) {
	return r.findOne(ctx, `SELECT `+franchiseColumns+` FROM franchises WHERE id = $1`, id)
}

// GetByCode obtiene una franquicia por código (sin distinguir mayúsculas).
func (r *FranchiseRepo) GetByCode(ctx context.Context, code string) (*entity.Franchise, error) {
	return r.findOne(ctx, `SELECT `+franchiseColumns+` FROM franchises WHERE upper(code) = upper($1)`, code)
}

func (r *FranchiseRepo) findOne(ctx context.Context, query string, arg any) (*entity.Franchise, error) {
	f, err := scanFranchise(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get franchise: %w", err)
	}
	return f, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFranchise(row rowScanner) (*entity.Franchise, error) {
	var f entity.Franchise
	err := row.Scan(&f.ID, &f.Name, &f.Code, &f.OwnerName, &f.Phone, &f.Email, &f.Address, &f.City,
		&f.State, &f.GSTIN, &f.Status, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Update persiste los datos editables de la franquicia.
func (r *FranchiseRepo) Update(ctx context.Context, f *entity.Franchise) error {
	query := `
		UPDATE franchises SET name = $2, code = $3, owner_name = $4, phone = $5, email = $6, address = $7,
			city = $8, state = $9, gstin = $10, status = $11, updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		f.ID, f.Name, f.Code, f.OwnerName, f.Phone, f.Email, f.Address, f.City, f.State, f.GSTIN,
		f.Status, f.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update franchise", err)
	}
	return expectRow(tag, domain.ErrNotFound)
}

// Delete elimina la franquicia. Las llaves foráneas de pacientes, personal y ventas la protegen.
func (r *FranchiseRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM franchises WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("delete franchise", err)
	}
	return expectRow(tag, domain.ErrNotFound)
}

// List lista franquicias con filtro por estado y búsqueda por nombre, código o ciudad.
func (r *FranchiseRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Franchise, int, error) {
	var b filterBuilder
	b.eq("status", f.Status)
	b.search(f.Search, "name", "code", "city")
	total, err := b.count(ctx, r.q, "franchises")
	if err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + franchiseColumns + ` FROM franchises` + b.where() + b.page(orderBy(f, franchiseSort, "created_at"), f)
	rows, err := r.q.Query(ctx, query, b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list franchises: %w", err)
	}
	defer rows.Close()
	var list []*entity.Franchise
	for rows.Next() {
		fr, err := scanFranchise(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan franchise: %w", err)
		}
		list = append(list, fr)
	}
	return list, total, rows.Err()
}
