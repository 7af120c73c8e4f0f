package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
)

// Querier es lo común entre *pgxpool.Pool y pgx.Tx; los repositorios funcionan con ambos.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == "23505"
}

// isForeignKeyViolation verifica si un error es una violación de llave foránea (23503).
func isForeignKeyViolation(err error) bool {
	return pgCode(err) == "23503"
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// mapWriteError traduce errores de constraint a errores de dominio; el resto se envuelve con op.
func mapWriteError(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return domain.ErrDuplicate
	case isForeignKeyViolation(err):
		return domain.ErrConflict
	}
	return fmt.Errorf("%s: %w", op, err)
}

// expectRow devuelve notFound si el comando no afectó filas.
func expectRow(tag pgconn.CommandTag, notFound error) error {
	if tag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// filterBuilder arma el WHERE dinámico de los listados con placeholders posicionales.
type filterBuilder struct {
	conds []string
	args  []any
}

// add agrega una condición; cada "?" se reemplaza por el siguiente $n.
func (b *filterBuilder) add(cond string, args ...any) {
	for range args {
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(b.args)+1), 1)
		b.args = append(b.args, args[0])
		args = args[1:]
	}
	b.conds = append(b.conds, cond)
}

func (b *filterBuilder) eq(column, value string) {
	if value != "" {
		b.add(column+" = ?", value)
	}
}

// dateRange filtra por días completos: "to" incluye todo ese día, también en columnas TIMESTAMPTZ.
func (b *filterBuilder) dateRange(column string, from, to *time.Time) {
	if from != nil {
		b.add(column+" >= ?", *from)
	}
	if to != nil {
		b.add(column+" < ?", to.AddDate(0, 0, 1))
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// search agrega ILIKE sobre varias columnas con un único parámetro.
// Los comodines que escribe el usuario se buscan literalmente.
func (b *filterBuilder) search(term string, columns ...string) {
	if term == "" {
		return
	}
	b.args = append(b.args, "%"+likeEscaper.Replace(term)+"%")
	p := fmt.Sprintf("$%d", len(b.args))
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = c + " ILIKE " + p + ` ESCAPE '\'`
	}
	b.conds = append(b.conds, "("+strings.Join(parts, " OR ")+")")
}

func (b *filterBuilder) where() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// page devuelve ORDER BY + LIMIT/OFFSET. Limit 0 = sin límite.
func (b *filterBuilder) page(orderBy string, f repository.ListFilter) string {
	out := " ORDER BY " + orderBy
	if f.Limit > 0 {
		b.args = append(b.args, f.Limit, f.Offset)
		out += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(b.args)-1, len(b.args))
	}
	return out
}

// orderBy valida sort contra la lista blanca de columnas; def se usa si no aplica.
func orderBy(f repository.ListFilter, allowed map[string]string, def string) string {
	col, ok := allowed[f.Sort]
	if !ok {
		col = def
	}
	dir := "DESC"
	if strings.EqualFold(f.Order, "asc") {
		dir = "ASC"
	}
	return col + " " + dir
}

// count ejecuta SELECT COUNT(*) con el WHERE actual (antes de page).
func (b *filterBuilder) count(ctx context.Context, q Querier, from string) (int, error) {
	var total int
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM "+from+b.where(), b.args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return total, nil
}

func noRows(err error) bool { return errors.Is(err, pgx.ErrNoRows) }
