package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta. Rate/TaxRate nulos toman los del catálogo.
type SaleItemRequest struct {
	MedicineID string           `json:"medicine_id"`
	Quantity   decimal.Decimal  `json:"quantity"`
	Rate       *decimal.Decimal `json:"rate"`
	TaxRate    *decimal.Decimal `json:"tax_rate"`
}

// Validate valida la línea.
func (r SaleItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.MedicineID, validation.Required, is.UUID),
		validation.Field(&r.Quantity, positive),
		validation.Field(&r.Rate, nonNegative),
		validation.Field(&r.TaxRate, nonNegative, validation.By(maxTax)),
	)
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	FranchiseID string            `json:"franchise_id"`
	InvoiceDate string            `json:"invoice_date"` // YYYY-MM-DD, por defecto hoy
	Notes       string            `json:"notes"`
	Items       []SaleItemRequest `json:"items"`
}

// Validate valida la venta.
func (r CreateSaleRequest) Validate() error {
	return FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.FranchiseID, validation.Required, is.UUID),
		validation.Field(&r.InvoiceDate, validation.Date(DateLayout)),
		validation.Field(&r.Items, validation.Required, validation.Length(1, 200)),
	))
}

// UpdateSaleRequest body para PATCH /api/sales/:id. Items reemplaza el detalle completo.
type UpdateSaleRequest struct {
	InvoiceDate *string           `json:"invoice_date"`
	Notes       *string           `json:"notes"`
	Items       []SaleItemRequest `json:"items"`
}

// Validate valida la actualización.
func (r UpdateSaleRequest) Validate() error {
	return FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.InvoiceDate, validation.Date(DateLayout)),
		validation.Field(&r.Items, validation.Length(0, 200)),
	))
}

// SaleLineResponse línea de la venta con su avance de despacho.
type SaleLineResponse struct {
	ID           string          `json:"id"`
	MedicineID   string          `json:"medicine_id"`
	MedicineName string          `json:"medicine_name,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	Rate         decimal.Decimal `json:"rate"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	Amount       decimal.Decimal `json:"amount"`
	Dispatched   decimal.Decimal `json:"dispatched"`
	Remaining    decimal.Decimal `json:"remaining"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID             string             `json:"id"`
	FranchiseID    string             `json:"franchise_id"`
	InvoiceNo      string             `json:"invoice_no"`
	InvoiceDate    time.Time          `json:"invoice_date"`
	NetTotal       decimal.Decimal    `json:"net_total"`
	TaxTotal       decimal.Decimal    `json:"tax_total"`
	GrandTotal     decimal.Decimal    `json:"grand_total"`
	DispatchStatus string             `json:"dispatch_status"`
	Notes          string             `json:"notes"`
	Items          []SaleLineResponse `json:"items,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}
