package repository

import (
	"context"

	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
)

// TeamRepository persistencia del personal de franquicias.
type TeamRepository interface {
	Create(ctx context.Context, t *entity.Team) error
	GetByID(ctx context.Context, id string) (*entity.Team, error)
	// GetForUpdate bloquea la fila del profesional; serializa la agenda al crear citas.
	GetForUpdate(ctx context.Context, id string) (*entity.Team, error)
	Update(ctx context.Context, t *entity.Team) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ListFilter) ([]*entity.Team, int, error)
}
