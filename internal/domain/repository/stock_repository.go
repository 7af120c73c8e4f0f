package repository

import (
	"context"

	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
)

// StockRepository define el puerto para existencias por dueño+medicamento(+lote) y su kardex.
// Los métodos *ForUpdate se usan dentro de transacciones (SELECT FOR UPDATE).
type StockRepository interface {
	// GetBalanceForUpdate devuelve un balance en cero si no existe la fila.
	GetBalanceForUpdate(ctx context.Context, owner, medicineID string) (*entity.StockBalance, error)
	UpsertBalance(ctx context.Context, b *entity.StockBalance) error
	// GetBatchForUpdate devuelve un lote en cero si no existe la fila.
	GetBatchForUpdate(ctx context.Context, owner, medicineID, batchNo string) (*entity.StockBatchBalance, error)
	// ListBatchesForUpdate lotes con existencia positiva en orden FEFO.
	ListBatchesForUpdate(ctx context.Context, owner, medicineID string) ([]entity.StockBatchBalance, error)
	UpsertBatch(ctx context.Context, b *entity.StockBatchBalance) error
	AddLedger(ctx context.Context, l *entity.StockLedger) error

	ListBalances(ctx context.Context, f ListFilter) ([]entity.StockBalanceRow, int, error)
	ListBatches(ctx context.Context, f ListFilter) ([]entity.StockBatchBalance, int, error)
	ListLedger(ctx context.Context, f ListFilter) ([]entity.StockLedger, int, error)
}
