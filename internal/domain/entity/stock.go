package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OwnerCentral dueño del almacén central (administración).
const OwnerCentral = "central"

// Tipos de movimiento del kardex de stock.
const (
	LedgerPurchase       = "purchase"
	LedgerAdjustment     = "adjustment"
	LedgerDispatchOut    = "dispatch_out"
	LedgerDispatchIn     = "dispatch_in"
	LedgerDispatchCancel = "dispatch_cancel"
	LedgerBillOut        = "bill_out"
	LedgerBillCancel     = "bill_cancel"
)

// StockBalance existencia total de un medicamento para un dueño (central o franquicia).
type StockBalance struct {
	Owner      string
	MedicineID string
	Quantity   decimal.Decimal
	AvgCost    decimal.Decimal
	UpdatedAt  time.Time
}

// StockBatchBalance existencia por lote.
type StockBatchBalance struct {
	Owner      string
	MedicineID string
	BatchNo    string
	ExpiryDate *time.Time
	Quantity   decimal.Decimal
	UpdatedAt  time.Time
}

// StockLedger registro inmutable de cada movimiento de stock (cantidad con signo).
type StockLedger struct {
	ID            string
	Owner         string
	MedicineID    string
	BatchNo       string
	Type          string
	Quantity      decimal.Decimal
	UnitCost      decimal.Decimal
	BalanceAfter  decimal.Decimal
	ReferenceType string // sale, transport, medicine_bill, purchase, adjustment
	ReferenceID   string
	Date          time.Time
	CreatedBy     string
	CreatedAt     time.Time
}

// StockBalanceRow fila de listado de existencias con datos del medicamento.
type StockBalanceRow struct {
	StockBalance
	MedicineName string
	MedicineCode string
	ReorderLevel decimal.Decimal
}

// IsLow indica si la existencia está en o bajo el nivel de reorden.
func (r StockBalanceRow) IsLow() bool {
	return r.ReorderLevel.IsPositive() && r.Quantity.LessThanOrEqual(r.ReorderLevel)
}
