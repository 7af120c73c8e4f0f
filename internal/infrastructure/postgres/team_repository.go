package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
)

var _ repository.TeamRepository = (*TeamRepo)(nil)

const teamColumns = `id, franchise_id, user_id, name, designation, phone, email, qualification, consultation_fee, status, created_at, updated_at`

var teamSort = map[string]string{"name": "name", "designation": "designation", "created_at": "created_at"}

// TeamRepo personal de franquicias sobre PostgreSQL.
type TeamRepo struct {
	q Querier
}

// NewTeamRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTeamRepository(q Querier) *TeamRepo {
	return &TeamRepo{q: q}
}

func (r *TeamRepo) Create(ctx context.Context, t *entity.Team) error {
	query := `
		INSERT INTO teams (` + teamColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.FranchiseID, nullIfEmpty(t.UserID), t.Name, t.Designation, t.Phone, t.Email, t.Qualification,
		t.ConsultationFee, t.Status, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert team", err)
	}
	return nil
}

func (r *TeamRepo) GetByID(ctx context.Context, id string) (*entity.Team, error) {
	return r.findOne(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila del profesional hasta el fin de la transacción.
func (r *TeamRepo) GetForUpdate(ctx context.Context, id string) (*entity.Team, error) {
	return r.findOne(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1 FOR UPDATE`, id)
}

func (r *TeamRepo) findOne(ctx context.Context, query, id string) (*entity.Team, error) {
	t, err := scanTeam(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get team: %w", err)
	}
	return t, nil
}

func scanTeam(row rowScanner) (*entity.Team, error) {
	var t entity.Team
	var userID *string
	err := row.Scan(&t.ID, &t.FranchiseID, &userID, &t.Name, &t.Designation, &t.Phone, &t.Email,
		&t.Qualification, &t.ConsultationFee, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.UserID = deref(userID)
	return &t, nil
}

func (r *TeamRepo) Update(ctx context.Context, t *entity.Team) error {
	query := `
		UPDATE teams SET user_id = $2, name = $3, designation = $4, phone = $5, email = $6, qualification = $7,
			consultation_fee = $8, status = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		t.ID, nullIfEmpty(t.UserID), t.Name, t.Designation, t.Phone, t.Email, t.Qualification,
		t.ConsultationFee, t.Status, t.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update team", err)
	}
	return expectRow(tag, domain.ErrNotFound)
}

// Delete falla con ErrConflict si el profesional tiene citas o consultas.
func (r *TeamRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("delete team", err)
	}
	return expectRow(tag, domain.ErrNotFound)
}

func (r *TeamRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Team, int, error) {
	var b filterBuilder
	b.eq("franchise_id", f.FranchiseID)
	b.eq("status", f.Status)
	b.search(f.Search, "name", "phone", "email")
	total, err := b.count(ctx, r.q, "teams")
	if err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + teamColumns + ` FROM teams` + b.where() + b.page(orderBy(f, teamSort, "created_at"), f)
	rows, err := r.q.Query(ctx, query, b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()
	var list []*entity.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan team: %w", err)
		}
		list = append(list, t)
	}
	return list, total, rows.Err()
}
