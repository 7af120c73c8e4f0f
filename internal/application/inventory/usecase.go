package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
)

// StockUseCase registra movimientos de stock de forma transaccional (compras, ajustes)
// con bloqueo de fila (SELECT FOR UPDATE) y expone el motor de entradas/salidas a
// despachos y facturación (ReceiveInTx, IssueInTx, IssueFEFOInTx).
type StockUseCase struct {
	txRunner repository.TxRunner
	repos    repository.Repos
	log      *logger.Logger
	now      func() time.Time
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(txRunner repository.TxRunner, repos repository.Repos, log *logger.Logger) *StockUseCase {
	return &StockUseCase{
		txRunner: txRunner,
		repos:    repos,
		log:      log.Component("stock"),
		now:      time.Now,
	}
}

// Purchase registra una compra a proveedor en el almacén central (solo admin).
// Recalcula el costo promedio ponderado del medicamento.
func (uc *StockUseCase) Purchase(ctx context.Context, actor entity.Actor, in dto.PurchaseRequest) (*dto.StockBatchResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	now := uc.now()

	var out dto.StockBatchResponse
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		med, err := r.Medicines.GetByID(ctx, in.MedicineID)
		if err != nil {
			return err
		}
		if med == nil {
			return domain.ErrNotFound
		}
		err = uc.ReceiveInTx(ctx, r, StockIn{
			Owner:         entity.OwnerCentral,
			MedicineID:    in.MedicineID,
			BatchNo:       in.BatchNo,
			ExpiryDate:    dto.DatePtr(in.ExpiryDate),
			Quantity:      in.Quantity,
			UnitCost:      in.UnitCost,
			Type:          entity.LedgerPurchase,
			ReferenceType: entity.LedgerPurchase,
			ReferenceID:   in.Reference,
			UserID:        actor.UserID,
			Date:          now,
		})
		if err != nil {
			return err
		}
		batch, err := r.Stock.GetBatchForUpdate(ctx, entity.OwnerCentral, in.MedicineID, in.BatchNo)
		if err != nil {
			return err
		}
		out = dto.ToStockBatchResponse(*batch)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("medicine_id", in.MedicineID).
		Str("batch_no", in.BatchNo).
		Str("quantity", in.Quantity.String()).
		Str("user_id", actor.UserID).
		Msg("compra registrada en central")
	return &out, nil
}

// Adjust aplica un ajuste con signo sobre un lote: positivo entra al costo promedio vigente,
// negativo sale del lote indicado. Owner vacío = central.
func (uc *StockUseCase) Adjust(ctx context.Context, actor entity.Actor, in dto.AdjustmentRequest) (*dto.StockBatchResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	owner := in.Owner
	if owner == "" {
		owner = entity.OwnerCentral
	}
	now := uc.now()

	var out dto.StockBatchResponse
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		med, err := r.Medicines.GetByID(ctx, in.MedicineID)
		if err != nil {
			return err
		}
		if med == nil {
			return domain.ErrNotFound
		}
		if owner != entity.OwnerCentral {
			f, err := r.Franchises.GetByID(ctx, owner)
			if err != nil {
				return err
			}
			if f == nil {
				return domain.ErrNotFound
			}
		}

		if in.Quantity.IsPositive() {
			err = uc.ReturnInTx(ctx, r, StockIn{
				Owner:         owner,
				MedicineID:    in.MedicineID,
				BatchNo:       in.BatchNo,
				Quantity:      in.Quantity,
				Type:          entity.LedgerAdjustment,
				ReferenceType: entity.LedgerAdjustment,
				ReferenceID:   in.Reason,
				UserID:        actor.UserID,
				Date:          now,
			})
			if err != nil {
				return err
			}
		} else {
			_, err := uc.IssueInTx(ctx, r, StockOut{
				Owner:         owner,
				MedicineID:    in.MedicineID,
				BatchNo:       in.BatchNo,
				Quantity:      in.Quantity.Neg(),
				Type:          entity.LedgerAdjustment,
				ReferenceType: entity.LedgerAdjustment,
				ReferenceID:   in.Reason,
				UserID:        actor.UserID,
				Date:          now,
			})
			if err != nil {
				return err
			}
		}

		batch, err := r.Stock.GetBatchForUpdate(ctx, owner, in.MedicineID, in.BatchNo)
		if err != nil {
			return err
		}
		out = dto.ToStockBatchResponse(*batch)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("owner", owner).
		Str("medicine_id", in.MedicineID).
		Str("batch_no", in.BatchNo).
		Str("quantity", in.Quantity.String()).
		Str("reason", in.Reason).
		Msg("ajuste de stock")
	return &out, nil
}

// BalanceQuery filtros de GET /api/stock/balances.
type BalanceQuery struct {
	Owner        string
	LowStockOnly bool
	Page         dto.PageQuery
}

// ListBalances existencias por medicamento del dueño visible para el actor.
func (uc *StockUseCase) ListBalances(ctx context.Context, actor entity.Actor, q BalanceQuery) (*dto.ListResponse[dto.StockBalanceResponse], error) {
	owner, err := ResolveOwner(actor, q.Owner)
	if err != nil {
		return nil, err
	}
	q.Page.Normalize()
	rows, total, err := uc.repos.Stock.ListBalances(ctx, repository.ListFilter{
		Owner:        owner,
		Search:       q.Page.Search,
		Sort:         q.Page.Sort,
		Order:        q.Page.Order,
		Limit:        q.Page.PerPage,
		Offset:       q.Page.Offset(),
		LowStockOnly: q.LowStockOnly,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockBalanceResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.ToStockBalanceResponse(row))
	}
	return dto.NewListResponse(items, q.Page, total), nil
}

// BatchQuery filtros de GET /api/stock/batches.
type BatchQuery struct {
	Owner      string
	MedicineID string
	Page       dto.PageQuery
}

// ListBatches existencias por lote.
func (uc *StockUseCase) ListBatches(ctx context.Context, actor entity.Actor, q BatchQuery) (*dto.ListResponse[dto.StockBatchResponse], error) {
	owner, err := ResolveOwner(actor, q.Owner)
	if err != nil {
		return nil, err
	}
	q.Page.Normalize()
	rows, total, err := uc.repos.Stock.ListBatches(ctx, repository.ListFilter{
		Owner:      owner,
		MedicineID: q.MedicineID,
		Search:     q.Page.Search,
		Sort:       q.Page.Sort,
		Order:      q.Page.Order,
		Limit:      q.Page.PerPage,
		Offset:     q.Page.Offset(),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockBatchResponse, 0, len(rows))
	for _, b := range rows {
		items = append(items, dto.ToStockBatchResponse(b))
	}
	return dto.NewListResponse(items, q.Page, total), nil
}

// LedgerQuery filtros de GET /api/stock/ledger.
type LedgerQuery struct {
	Owner      string
	MedicineID string
	Type       string
	From       *time.Time
	To         *time.Time
	Page       dto.PageQuery
}

// ListLedger movimientos del kardex en un rango de fechas.
func (uc *StockUseCase) ListLedger(ctx context.Context, actor entity.Actor, q LedgerQuery) (*dto.ListResponse[dto.StockLedgerResponse], error) {
	owner, err := ResolveOwner(actor, q.Owner)
	if err != nil {
		return nil, err
	}
	q.Page.Normalize()
	rows, total, err := uc.repos.Stock.ListLedger(ctx, repository.ListFilter{
		Owner:      owner,
		MedicineID: q.MedicineID,
		Kind:       q.Type,
		From:       q.From,
		To:         q.To,
		Sort:       q.Page.Sort,
		Order:      q.Page.Order,
		Limit:      q.Page.PerPage,
		Offset:     q.Page.Offset(),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockLedgerResponse, 0, len(rows))
	for _, l := range rows {
		items = append(items, dto.ToStockLedgerResponse(l))
	}
	return dto.NewListResponse(items, q.Page, total), nil
}

// ResolveOwner dueño de stock visible para el actor. El admin ve la central por defecto
// y puede pedir cualquier franquicia; el resto solo su propia franquicia.
func ResolveOwner(actor entity.Actor, requested string) (string, error) {
	if actor.IsAdmin() {
		if requested == "" {
			return entity.OwnerCentral, nil
		}
		return requested, nil
	}
	if requested == entity.OwnerCentral {
		return "", domain.ErrForbidden
	}
	return actor.ResolveFranchise(requested)
}
