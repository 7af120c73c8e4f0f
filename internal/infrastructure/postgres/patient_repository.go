package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
)

var _ repository.PatientRepository = (*PatientRepo)(nil)

const patientColumns = `id, franchise_id, code, name, gender, date_of_birth, phone, email, address, blood_group, photo_url, notes, created_at, updated_at`

var patientSort = map[string]string{"name": "name", "code": "code", "created_at": "created_at"}

// PatientRepo pacientes sobre PostgreSQL. (franchise_id, code) es único.
type PatientRepo struct {
	q Querier
}

// NewPatientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPatientRepository(q Querier) *PatientRepo {
	return &PatientRepo{q: q}
}

func (r *PatientRepo) Create(ctx context.Context, p *entity.Patient) error {
	query := `
		INSERT INTO patients (` + patientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.FranchiseID, p.Code, p.Name, p.Gender, p.DateOfBirth, p.Phone, p.Email, p.Address,
		p.BloodGroup, p.PhotoURL, p.Notes, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert patient", err)
	}
	return nil
}

func (r *PatientRepo) GetByID(ctx context.Context, id string) (*entity.Patient, error) {
	p, err := scanPatient(r.q.QueryRow(ctx, `SELECT `+patientColumns+` FROM patients WHERE id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get patient: %w", err)
	}
	return p, nil
}

func scanPatient(row rowScanner) (*entity.Patient, error) {
	var p entity.Patient
	err := row.Scan(&p.ID, &p.FranchiseID, &p.Code, &p.Name, &p.Gender, &p.DateOfBirth, &p.Phone, &p.Email,
		&p.Address, &p.BloodGroup, &p.PhotoURL, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Update no modifica franchise_id ni code.
func (r *PatientRepo) Update(ctx context.Context, p *entity.Patient) error {
	query := `
		UPDATE patients SET name = $2, gender = $3, date_of_birth = $4, phone = $5, email = $6, address = $7,
			blood_group = $8, photo_url = $9, notes = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Gender, p.DateOfBirth, p.Phone, p.Email, p.Address, p.BloodGroup, p.PhotoURL,
		p.Notes, p.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update patient", err)
	}
	return expectRow(tag, domain.ErrNotFound)
}

func (r *PatientRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("delete patient", err)
	}
	return expectRow(tag, domain.ErrNotFound)
}

func (r *PatientRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Patient, int, error) {
	var b filterBuilder
	b.eq("franchise_id", f.FranchiseID)
	b.search(f.Search, "name", "phone", "code")
	total, err := b.count(ctx, r.q, "patients")
	if err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + patientColumns + ` FROM patients` + b.where() + b.page(orderBy(f, patientSort, "created_at"), f)
	rows, err := r.q.Query(ctx, query, b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()
	var list []*entity.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan patient: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}
