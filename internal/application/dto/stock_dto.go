package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

// PurchaseRequest body para POST /api/stock/purchases (entrada a la central).
type PurchaseRequest struct {
	MedicineID string          `json:"medicine_id"`
	BatchNo    string          `json:"batch_no"`
	ExpiryDate string          `json:"expiry_date"` // YYYY-MM-DD
	Quantity   decimal.Decimal `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	Reference  string          `json:"reference"` // factura del proveedor
}

// Validate valida la compra.
func (r PurchaseRequest) Validate() error {
	return FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.MedicineID, validation.Required, is.UUID),
		validation.Field(&r.BatchNo, validation.Required, validation.Length(1, 50)),
		validation.Field(&r.ExpiryDate, validation.Date(DateLayout)),
		validation.Field(&r.Quantity, positive),
		validation.Field(&r.UnitCost, nonNegative),
	))
}

// AdjustmentRequest body para POST /api/stock/adjustments (cantidad con signo).
// Owner vacío = central.
type AdjustmentRequest struct {
	Owner      string          `json:"owner"`
	MedicineID string          `json:"medicine_id"`
	BatchNo    string          `json:"batch_no"`
	Quantity   decimal.Decimal `json:"quantity"`
	Reason     string          `json:"reason"`
}

// Validate valida el ajuste.
func (r AdjustmentRequest) Validate() error {
	return FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.MedicineID, validation.Required, is.UUID),
		validation.Field(&r.BatchNo, validation.Required, validation.Length(1, 50)),
		validation.Field(&r.Quantity, validation.By(func(v interface{}) error {
			if d, ok := asDecimal(v); ok && d.IsZero() {
				return validation.NewError("validation_zero", "no puede ser cero")
			}
			return nil
		})),
		validation.Field(&r.Reason, validation.Required, validation.Length(3, 300)),
	))
}

// StockBalanceResponse existencia de un medicamento.
type StockBalanceResponse struct {
	Owner        string          `json:"owner"`
	MedicineID   string          `json:"medicine_id"`
	MedicineCode string          `json:"medicine_code"`
	MedicineName string          `json:"medicine_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	AvgCost      decimal.Decimal `json:"avg_cost"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	LowStock     bool            `json:"low_stock"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// StockBatchResponse existencia de un lote.
type StockBatchResponse struct {
	Owner      string          `json:"owner"`
	MedicineID string          `json:"medicine_id"`
	BatchNo    string          `json:"batch_no"`
	ExpiryDate *time.Time      `json:"expiry_date,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// StockLedgerResponse movimiento del kardex.
type StockLedgerResponse struct {
	ID            string          `json:"id"`
	Owner         string          `json:"owner"`
	MedicineID    string          `json:"medicine_id"`
	BatchNo       string          `json:"batch_no"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	ReferenceType string          `json:"reference_type"`
	ReferenceID   string          `json:"reference_id"`
	Date          time.Time       `json:"date"`
	CreatedBy     string          `json:"created_by"`
}

// ReplenishmentSuggestionDTO medicamento bajo nivel de reorden en la central con la cantidad sugerida de compra.
type ReplenishmentSuggestionDTO struct {
	Priority            int             `json:"priority"`
	MedicineID          string          `json:"medicine_id"`
	MedicineCode        string          `json:"medicine_code"`
	MedicineName        string          `json:"medicine_name"`
	CurrentStock        decimal.Decimal `json:"current_stock"`
	ReorderLevel        decimal.Decimal `json:"reorder_level"`
	IdealStock          decimal.Decimal `json:"ideal_stock"`
	SuggestedQty        decimal.Decimal `json:"suggested_qty"`
	AvgCost             decimal.Decimal `json:"avg_cost"`
	EstimatedCost       decimal.Decimal `json:"estimated_cost"`
	UnitsSoldLast90Days decimal.Decimal `json:"units_sold_last_90_days"`
}
