package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
)

// MedicineRepository define el puerto de persistencia para el catálogo de medicamentos (DIP).
type MedicineRepository interface {
	Create(ctx context.Context, m *entity.Medicine) error
	GetByID(ctx context.Context, id string) (*entity.Medicine, error)
	Update(ctx context.Context, m *entity.Medicine) error
	// UpdateAvgCost actualiza solo el costo promedio (usado por el motor de stock).
	UpdateAvgCost(ctx context.Context, id string, cost decimal.Decimal) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ListFilter) ([]*entity.Medicine, int, error)
	Options(ctx context.Context) ([]entity.CatalogOption, error)
}

// ServiceRepository catálogo de servicios.
type ServiceRepository interface {
	Create(ctx context.Context, s *entity.Service) error
	GetByID(ctx context.Context, id string) (*entity.Service, error)
	Update(ctx context.Context, s *entity.Service) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ListFilter) ([]*entity.Service, int, error)
	Options(ctx context.Context) ([]entity.CatalogOption, error)
}

// PackageRepository catálogo de paquetes.
type PackageRepository interface {
	Create(ctx context.Context, p *entity.Package) error
	GetByID(ctx context.Context, id string) (*entity.Package, error)
	Update(ctx context.Context, p *entity.Package) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ListFilter) ([]*entity.Package, int, error)
	Options(ctx context.Context) ([]entity.CatalogOption, error)
}
