package inventory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/inventory"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
)

// StockIn entrada de stock a un dueño/lote.
type StockIn struct {
	Owner         string
	MedicineID    string
	BatchNo       string
	ExpiryDate    *time.Time
	Quantity      decimal.Decimal
	UnitCost      decimal.Decimal
	Type          string // purchase, adjustment, dispatch_in, dispatch_cancel, bill_cancel
	ReferenceType string
	ReferenceID   string
	UserID        string
	Date          time.Time
}

// StockOut salida de stock de un dueño/lote.
type StockOut struct {
	Owner         string
	MedicineID    string
	BatchNo       string
	Quantity      decimal.Decimal
	Type          string // adjustment, dispatch_out, bill_out
	ReferenceType string
	ReferenceID   string
	UserID        string
	Date          time.Time
}

// Issued resultado de una salida por lote.
type Issued struct {
	BatchNo    string
	ExpiryDate *time.Time
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal
}

// ReceiveInTx suma stock usando los repositorios del caller (misma transacción).
// Bloquea primero el balance y luego el lote (mismo orden en todas las operaciones),
// recalcula el costo promedio ponderado y registra el kardex.
func (uc *StockUseCase) ReceiveInTx(ctx context.Context, r repository.Repos, in StockIn) error {
	if !in.Quantity.IsPositive() {
		return domain.ErrInvalidInput
	}
	bal, err := r.Stock.GetBalanceForUpdate(ctx, in.Owner, in.MedicineID)
	if err != nil {
		return err
	}
	batch, err := r.Stock.GetBatchForUpdate(ctx, in.Owner, in.MedicineID, in.BatchNo)
	if err != nil {
		return err
	}

	newCost := inventory.CostCalculator(bal.Quantity, bal.AvgCost, in.Quantity, in.UnitCost)
	bal.Quantity = bal.Quantity.Add(in.Quantity)
	bal.AvgCost = newCost
	bal.UpdatedAt = in.Date
	if err := r.Stock.UpsertBalance(ctx, bal); err != nil {
		return err
	}

	batch.Quantity = batch.Quantity.Add(in.Quantity)
	if in.ExpiryDate != nil {
		batch.ExpiryDate = in.ExpiryDate
	}
	batch.UpdatedAt = in.Date
	if err := r.Stock.UpsertBatch(ctx, batch); err != nil {
		return err
	}

	// El costo del catálogo refleja el almacén central
	if in.Owner == entity.OwnerCentral && in.Type == entity.LedgerPurchase {
		if err := r.Medicines.UpdateAvgCost(ctx, in.MedicineID, newCost); err != nil {
			return err
		}
	}

	return r.Stock.AddLedger(ctx, &entity.StockLedger{
		ID:            uuid.New().String(),
		Owner:         in.Owner,
		MedicineID:    in.MedicineID,
		BatchNo:       in.BatchNo,
		Type:          in.Type,
		Quantity:      in.Quantity,
		UnitCost:      in.UnitCost,
		BalanceAfter:  bal.Quantity,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		Date:          in.Date,
		CreatedBy:     in.UserID,
		CreatedAt:     time.Now(),
	})
}

// ReturnInTx reingresa stock al costo promedio vigente del dueño (ajustes positivos,
// anulaciones de despachos y facturas); el promedio no cambia.
func (uc *StockUseCase) ReturnInTx(ctx context.Context, r repository.Repos, in StockIn) error {
	bal, err := r.Stock.GetBalanceForUpdate(ctx, in.Owner, in.MedicineID)
	if err != nil {
		return err
	}
	in.UnitCost = bal.AvgCost
	return uc.ReceiveInTx(ctx, r, in)
}

// LockOrder devuelve una copia de items ordenada por medicamento y lote. Quien descuenta
// varias líneas en una transacción debe recorrerlas en este orden para que dos transacciones
// bloqueen las mismas filas de stock siempre en la misma secuencia.
func LockOrder[T any](items []T, key func(T) (medicineID, batchNo string)) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		ma, ba := key(a)
		mb, bb := key(b)
		if c := strings.Compare(ma, mb); c != 0 {
			return c
		}
		return strings.Compare(ba, bb)
	})
	return out
}

// IssueInTx descuenta stock de un lote concreto (misma transacción del caller).
// ErrInsufficientStock si el lote o el total no alcanzan.
func (uc *StockUseCase) IssueInTx(ctx context.Context, r repository.Repos, out StockOut) (*Issued, error) {
	if !out.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	bal, err := r.Stock.GetBalanceForUpdate(ctx, out.Owner, out.MedicineID)
	if err != nil {
		return nil, err
	}
	batch, err := r.Stock.GetBatchForUpdate(ctx, out.Owner, out.MedicineID, out.BatchNo)
	if err != nil {
		return nil, err
	}
	// Un ajuste puede dar de baja un lote vencido; despachos y facturas no.
	if out.Type != entity.LedgerAdjustment && inventory.Expired(*batch, out.Date) {
		return nil, domain.NewValidationError(map[string]string{
			"batch_no": fmt.Sprintf("el lote %s venció el %s", batch.BatchNo, batch.ExpiryDate.Format("2006-01-02")),
		})
	}
	return uc.issueLocked(ctx, r, out, bal, batch)
}

// IssueFEFOInTx descuenta la cantidad repartiéndola entre lotes, vencimiento más próximo primero.
func (uc *StockUseCase) IssueFEFOInTx(ctx context.Context, r repository.Repos, out StockOut) ([]Issued, error) {
	if !out.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	bal, err := r.Stock.GetBalanceForUpdate(ctx, out.Owner, out.MedicineID)
	if err != nil {
		return nil, err
	}
	batches, err := r.Stock.ListBatchesForUpdate(ctx, out.Owner, out.MedicineID)
	if err != nil {
		return nil, err
	}
	allocs, err := inventory.AllocateFEFO(batches, out.Quantity, out.Date)
	if err != nil {
		return nil, err
	}
	byNo := make(map[string]entity.StockBatchBalance, len(batches))
	for _, b := range batches {
		byNo[b.BatchNo] = b
	}

	issued := make([]Issued, 0, len(allocs))
	for _, a := range allocs {
		batch := byNo[a.BatchNo]
		step := out
		step.BatchNo = a.BatchNo
		step.Quantity = a.Quantity
		res, err := uc.issueLocked(ctx, r, step, bal, &batch)
		if err != nil {
			return nil, err
		}
		issued = append(issued, *res)
	}
	return issued, nil
}

// issueLocked aplica la salida sobre filas ya bloqueadas. bal se actualiza en sitio.
func (uc *StockUseCase) issueLocked(
	ctx context.Context,
	r repository.Repos,
	out StockOut,
	bal *entity.StockBalance,
	batch *entity.StockBatchBalance,
) (*Issued, error) {
	if batch.Quantity.LessThan(out.Quantity) || bal.Quantity.LessThan(out.Quantity) {
		return nil, domain.ErrInsufficientStock
	}
	bal.Quantity = bal.Quantity.Sub(out.Quantity)
	bal.UpdatedAt = out.Date
	if err := r.Stock.UpsertBalance(ctx, bal); err != nil {
		return nil, err
	}
	batch.Quantity = batch.Quantity.Sub(out.Quantity)
	batch.UpdatedAt = out.Date
	if err := r.Stock.UpsertBatch(ctx, batch); err != nil {
		return nil, err
	}
	err := r.Stock.AddLedger(ctx, &entity.StockLedger{
		ID:            uuid.New().String(),
		Owner:         out.Owner,
		MedicineID:    out.MedicineID,
		BatchNo:       out.BatchNo,
		Type:          out.Type,
		Quantity:      out.Quantity.Neg(),
		UnitCost:      bal.AvgCost,
		BalanceAfter:  bal.Quantity,
		ReferenceType: out.ReferenceType,
		ReferenceID:   out.ReferenceID,
		Date:          out.Date,
		CreatedBy:     out.UserID,
		CreatedAt:     time.Now(),
	})
	if err != nil {
		return nil, err
	}
	return &Issued{BatchNo: out.BatchNo, ExpiryDate: batch.ExpiryDate, Quantity: out.Quantity, UnitCost: bal.AvgCost}, nil
}
