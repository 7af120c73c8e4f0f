package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estado de despacho de una venta a franquicia.
const (
	DispatchPending    = "pending"
	DispatchPartial    = "partial"
	DispatchDispatched = "dispatched"
)

// Sale venta de medicamentos de la central a una franquicia (cabecera).
type Sale struct {
	ID             string
	FranchiseID    string
	InvoiceNo      string
	InvoiceDate    time.Time
	NetTotal       decimal.Decimal
	TaxTotal       decimal.Decimal
	GrandTotal     decimal.Decimal
	DispatchStatus string
	Notes          string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Details        []SaleDetail
}

// SaleDetail línea de una venta.
type SaleDetail struct {
	ID         string
	SaleID     string
	MedicineID string
	Quantity   decimal.Decimal
	Rate       decimal.Decimal
	TaxRate    decimal.Decimal
	Amount     decimal.Decimal // Quantity * Rate (sin impuesto)
}

// LineTax impuesto de la línea.
func (d SaleDetail) LineTax() decimal.Decimal {
	return d.Amount.Mul(d.TaxRate).Div(decimal.NewFromInt(100)).Round(2)
}

// ComputeTotals recalcula Amount de cada línea y los totales de la cabecera.
func (s *Sale) ComputeTotals() {
	net, tax := decimal.Zero, decimal.Zero
	for i := range s.Details {
		d := &s.Details[i]
		d.Amount = d.Quantity.Mul(d.Rate).Round(2)
		net = net.Add(d.Amount)
		tax = tax.Add(d.LineTax())
	}
	s.NetTotal = net
	s.TaxTotal = tax
	s.GrandTotal = net.Add(tax)
}

// QuantitiesByMedicine suma las cantidades vendidas por medicamento.
func (s *Sale) QuantitiesByMedicine() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(s.Details))
	for _, d := range s.Details {
		out[d.MedicineID] = out[d.MedicineID].Add(d.Quantity)
	}
	return out
}
