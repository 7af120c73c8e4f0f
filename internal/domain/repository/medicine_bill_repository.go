package repository

import (
	"context"

	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
)

// MedicineBillRepository persistencia de facturas de medicamentos a pacientes.
type MedicineBillRepository interface {
	Create(ctx context.Context, b *entity.MedicineBill) error
	GetByID(ctx context.Context, id string) (*entity.MedicineBill, error)
	GetForUpdate(ctx context.Context, id string) (*entity.MedicineBill, error)
	UpdateStatus(ctx context.Context, id, status string) error
	List(ctx context.Context, f ListFilter) ([]*entity.MedicineBill, int, error)
}
