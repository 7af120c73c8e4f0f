package repository

import (
	"context"

	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
)

// SaleRepository persistencia de ventas a franquicias. Create/Update escriben cabecera y detalle.
type SaleRepository interface {
	Create(ctx context.Context, s *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE) y carga el detalle.
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	Update(ctx context.Context, s *entity.Sale) error
	UpdateDispatchStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ListFilter) ([]*entity.Sale, int, error)
}
