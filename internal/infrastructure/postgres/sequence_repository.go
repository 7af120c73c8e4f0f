package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo consecutivos por ámbito. El upsert toma el lock de la fila, así que dentro
// de una transacción dos documentos del mismo ámbito nunca reciben el mismo número.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

func (r *SequenceRepo) Next(ctx context.Context, scope string) (int64, error) {
	query := `
		INSERT INTO sequences (scope, value) VALUES ($1, 1)
		ON CONFLICT (scope) DO UPDATE SET value = sequences.value + 1
		RETURNING value`
	var next int64
	if err := r.q.QueryRow(ctx, query, scope).Scan(&next); err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", scope, err)
	}
	return next, nil
}
