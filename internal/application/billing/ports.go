package billing

import (
	"context"

	"github.com/jhoicas/clinic-franchise-api/internal/application/inventory"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
)

// StockEngine interfaz para integrar facturación con inventario.
// Todos los métodos usan los repositorios del caller (misma transacción).
// Si retornan error (ej: ErrInsufficientStock), el caller debe hacer rollback.
type StockEngine interface {
	IssueInTx(ctx context.Context, r repository.Repos, out inventory.StockOut) (*inventory.Issued, error)
	IssueFEFOInTx(ctx context.Context, r repository.Repos, out inventory.StockOut) ([]inventory.Issued, error)
	ReturnInTx(ctx context.Context, r repository.Repos, in inventory.StockIn) error
}
