package inventory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
)

// BatchAllocation cantidad a descontar de un lote.
type BatchAllocation struct {
	BatchNo    string
	ExpiryDate *time.Time
	Quantity   decimal.Decimal
}

// SortFEFO ordena lotes por vencimiento ascendente (sin vencimiento al final), luego por lote.
func SortFEFO(batches []entity.StockBatchBalance) {
	sort.SliceStable(batches, func(i, j int) bool {
		a, b := batches[i].ExpiryDate, batches[j].ExpiryDate
		switch {
		case a == nil && b == nil:
			return batches[i].BatchNo < batches[j].BatchNo
		case a == nil:
			return false
		case b == nil:
			return true
		case !a.Equal(*b):
			return a.Before(*b)
		}
		return batches[i].BatchNo < batches[j].BatchNo
	})
}

// AllocateFEFO reparte qty entre los lotes disponibles, vencimiento más próximo primero.
// Los lotes vencidos a la fecha asOf se omiten. ErrInsufficientStock si no alcanza.
func AllocateFEFO(batches []entity.StockBatchBalance, qty decimal.Decimal, asOf time.Time) ([]BatchAllocation, error) {
	if !qty.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	sorted := make([]entity.StockBatchBalance, len(batches))
	copy(sorted, batches)
	SortFEFO(sorted)

	day := truncateDay(asOf)
	remaining := qty
	var out []BatchAllocation
	for _, b := range sorted {
		if !b.Quantity.IsPositive() {
			continue
		}
		if Expired(b, day) {
			continue
		}
		take := decimal.Min(b.Quantity, remaining)
		out = append(out, BatchAllocation{BatchNo: b.BatchNo, ExpiryDate: b.ExpiryDate, Quantity: take})
		remaining = remaining.Sub(take)
		if remaining.IsZero() {
			return out, nil
		}
	}
	return nil, domain.ErrInsufficientStock
}

// Expired indica si el lote ya venció a la fecha asOf. El día de vencimiento todavía es utilizable.
func Expired(b entity.StockBatchBalance, asOf time.Time) bool {
	return b.ExpiryDate != nil && truncateDay(*b.ExpiryDate).Before(truncateDay(asOf))
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
