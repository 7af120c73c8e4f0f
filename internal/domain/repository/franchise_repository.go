package repository

import (
	"context"

	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
)

// FranchiseRepository define el puerto de persistencia para Franchise (DIP).
type FranchiseRepository interface {
	Create(ctx context.Context, f *entity.Franchise) error
	GetByID(ctx context.Context, id string) (*entity.Franchise, error)
	GetByCode(ctx context.Context, code string) (*entity.Franchise, error)
	Update(ctx context.Context, f *entity.Franchise) error
	// Delete devuelve ErrConflict si la franquicia tiene registros asociados.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ListFilter) ([]*entity.Franchise, int, error)
}
