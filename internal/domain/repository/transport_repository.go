package repository

import (
	"context"

	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
)

// TransportRepository persistencia de despachos.
type TransportRepository interface {
	Create(ctx context.Context, t *entity.Transport) error
	GetByID(ctx context.Context, id string) (*entity.Transport, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Transport, error)
	// ListBySale devuelve todos los transportes de la venta (cualquier estado) con detalle.
	ListBySale(ctx context.Context, saleID string) ([]entity.Transport, error)
	// UpdateStatus persiste Status, ReceivedAt y ReceivedBy.
	UpdateStatus(ctx context.Context, t *entity.Transport) error
	List(ctx context.Context, f ListFilter) ([]*entity.Transport, int, error)
}
