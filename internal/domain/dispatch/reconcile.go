// Package dispatch contiene las reglas de conciliación entre ventas y transportes.
package dispatch

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
)

// LineStatus cantidades por medicamento de una venta.
type LineStatus struct {
	MedicineID string
	Sold       decimal.Decimal
	Dispatched decimal.Decimal
}

// Remaining pendiente de despachar.
func (l LineStatus) Remaining() decimal.Decimal {
	return l.Sold.Sub(l.Dispatched)
}

// Summarize cruza la venta con sus transportes (solo los no cancelados cuentan).
// El resultado se ordena por MedicineID.
func Summarize(sale *entity.Sale, transports []entity.Transport) []LineStatus {
	sold := sale.QuantitiesByMedicine()
	dispatched := DispatchedByMedicine(transports)
	out := make([]LineStatus, 0, len(sold))
	for medID, qty := range sold {
		out = append(out, LineStatus{MedicineID: medID, Sold: qty, Dispatched: dispatched[medID]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MedicineID < out[j].MedicineID })
	return out
}

// DispatchedByMedicine suma lo despachado por medicamento en transportes vigentes.
func DispatchedByMedicine(transports []entity.Transport) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for i := range transports {
		t := &transports[i]
		if !t.CountsAgainstSale() {
			continue
		}
		for _, d := range t.Details {
			out[d.MedicineID] = out[d.MedicineID].Add(d.Quantity)
		}
	}
	return out
}

// Reconcile valida las líneas de un nuevo despacho contra la venta.
// Por medicamento: debe existir en la venta, la suma pedida debe ser > 0 y no superar lo pendiente.
// Devuelve las cantidades pedidas agregadas por medicamento.
func Reconcile(sale *entity.Sale, transports []entity.Transport, lines []entity.TransportDetail) (map[string]decimal.Decimal, error) {
	if len(lines) == 0 {
		return nil, domain.NewValidationError(map[string]string{"items": "debe incluir al menos una línea"})
	}
	requested := make(map[string]decimal.Decimal)
	for _, l := range lines {
		if l.Quantity.IsNegative() {
			return nil, domain.NewValidationError(map[string]string{"items": "cantidad negativa"})
		}
		requested[l.MedicineID] = requested[l.MedicineID].Add(l.Quantity)
	}

	sold := sale.QuantitiesByMedicine()
	dispatched := DispatchedByMedicine(transports)
	for medID, qty := range requested {
		soldQty, ok := sold[medID]
		if !ok {
			return nil, domain.NewValidationError(map[string]string{"items": "medicamento " + medID + " no pertenece a la venta"})
		}
		if !qty.IsPositive() {
			return nil, domain.NewValidationError(map[string]string{"items": "cantidad a despachar debe ser mayor a cero"})
		}
		if qty.GreaterThan(soldQty.Sub(dispatched[medID])) {
			return nil, domain.ErrExceedsRemaining
		}
	}
	return requested, nil
}

// ValidateSaleUpdate verifica que una edición de la venta no deje líneas por debajo de lo despachado.
func ValidateSaleUpdate(updated *entity.Sale, transports []entity.Transport) error {
	sold := updated.QuantitiesByMedicine()
	for medID, qty := range DispatchedByMedicine(transports) {
		if !qty.IsPositive() {
			continue
		}
		if sold[medID].LessThan(qty) {
			return domain.ErrConflict
		}
	}
	return nil
}

// Status calcula el estado de despacho de la venta.
func Status(lines []LineStatus) string {
	anyDispatched, allDone := false, len(lines) > 0
	for _, l := range lines {
		if l.Dispatched.IsPositive() {
			anyDispatched = true
		}
		if l.Remaining().IsPositive() {
			allDone = false
		}
	}
	switch {
	case allDone && anyDispatched:
		return entity.DispatchDispatched
	case anyDispatched:
		return entity.DispatchPartial
	}
	return entity.DispatchPending
}
