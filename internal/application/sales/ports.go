// Package sales ventas de la central a las franquicias y sus despachos (transportes).
package sales

import (
	"context"

	"github.com/jhoicas/clinic-franchise-api/internal/application/inventory"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
)

// StockEngine movimientos de inventario dentro de la transacción del caller.
// Lo implementa *inventory.StockUseCase.
type StockEngine interface {
	ReceiveInTx(ctx context.Context, r repository.Repos, in inventory.StockIn) error
	ReturnInTx(ctx context.Context, r repository.Repos, in inventory.StockIn) error
	IssueInTx(ctx context.Context, r repository.Repos, out inventory.StockOut) (*inventory.Issued, error)
	IssueFEFOInTx(ctx context.Context, r repository.Repos, out inventory.StockOut) ([]inventory.Issued, error)
}

// Tipo de referencia en el kardex para los movimientos de un transporte.
const referenceTransport = "transport"
