package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una factura de medicamentos.
const (
	BillPaid      = "paid"
	BillCancelled = "cancelled"
)

// MedicineBill venta de medicamentos de una franquicia a un paciente.
type MedicineBill struct {
	ID          string
	FranchiseID string
	PatientID   string
	TeamID      string
	BillNo      string
	BillDate    time.Time
	NetTotal    decimal.Decimal
	Discount    decimal.Decimal
	TaxTotal    decimal.Decimal
	GrandTotal  decimal.Decimal
	PaymentMode string
	Status      string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Items       []MedicineBillItem
}

// MedicineBillItem línea de factura, siempre ligada a un lote concreto.
type MedicineBillItem struct {
	ID         string
	BillID     string
	MedicineID string
	BatchNo    string
	Quantity   decimal.Decimal
	Rate       decimal.Decimal
	TaxRate    decimal.Decimal
	Amount     decimal.Decimal
}

// ComputeTotals recalcula importes. El descuento se aplica sobre el neto antes de impuestos.
func (b *MedicineBill) ComputeTotals() {
	net, tax := decimal.Zero, decimal.Zero
	hundred := decimal.NewFromInt(100)
	for i := range b.Items {
		it := &b.Items[i]
		it.Amount = it.Quantity.Mul(it.Rate).Round(2)
		net = net.Add(it.Amount)
		tax = tax.Add(it.Amount.Mul(it.TaxRate).Div(hundred).Round(2))
	}
	b.NetTotal = net
	b.TaxTotal = tax
	grand := net.Sub(b.Discount).Add(tax)
	if grand.IsNegative() {
		grand = decimal.Zero
	}
	b.GrandTotal = grand
}
