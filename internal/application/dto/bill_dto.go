package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

// BillItemRequest línea de factura. Sin batch_no se asignan lotes FEFO; sin rate se usa el MRP.
type BillItemRequest struct {
	MedicineID string           `json:"medicine_id"`
	BatchNo    string           `json:"batch_no"`
	Quantity   decimal.Decimal  `json:"quantity"`
	Rate       *decimal.Decimal `json:"rate"`
}

// Validate valida la línea.
func (r BillItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.MedicineID, validation.Required, is.UUID),
		validation.Field(&r.BatchNo, validation.Length(0, 50)),
		validation.Field(&r.Quantity, positive),
		validation.Field(&r.Rate, nonNegative),
	)
}

// CreateMedicineBillRequest body para POST /api/medicine-bills.
type CreateMedicineBillRequest struct {
	FranchiseID string            `json:"franchise_id"`
	PatientID   string            `json:"patient_id"`
	TeamID      string            `json:"team_id"`
	BillDate    string            `json:"bill_date"` // YYYY-MM-DD, por defecto hoy
	Discount    decimal.Decimal   `json:"discount"`
	PaymentMode string            `json:"payment_mode"`
	Items       []BillItemRequest `json:"items"`
}

// Validate valida la factura.
func (r CreateMedicineBillRequest) Validate() error {
	return FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.FranchiseID, is.UUID),
		validation.Field(&r.PatientID, validation.Required, is.UUID),
		validation.Field(&r.TeamID, is.UUID),
		validation.Field(&r.BillDate, validation.Date(DateLayout)),
		validation.Field(&r.Discount, nonNegative),
		validation.Field(&r.PaymentMode, validation.Required, paymentModes),
		validation.Field(&r.Items, validation.Required, validation.Length(1, 100)),
	))
}

// MedicineBillItemResponse línea facturada.
type MedicineBillItemResponse struct {
	ID         string          `json:"id"`
	MedicineID string          `json:"medicine_id"`
	BatchNo    string          `json:"batch_no"`
	Quantity   decimal.Decimal `json:"quantity"`
	Rate       decimal.Decimal `json:"rate"`
	TaxRate    decimal.Decimal `json:"tax_rate"`
	Amount     decimal.Decimal `json:"amount"`
}

// MedicineBillResponse salida de una factura de medicamentos.
type MedicineBillResponse struct {
	ID          string                     `json:"id"`
	FranchiseID string                     `json:"franchise_id"`
	PatientID   string                     `json:"patient_id"`
	TeamID      string                     `json:"team_id,omitempty"`
	BillNo      string                     `json:"bill_no"`
	BillDate    time.Time                  `json:"bill_date"`
	NetTotal    decimal.Decimal            `json:"net_total"`
	Discount    decimal.Decimal            `json:"discount"`
	TaxTotal    decimal.Decimal            `json:"tax_total"`
	GrandTotal  decimal.Decimal            `json:"grand_total"`
	PaymentMode string                     `json:"payment_mode"`
	Status      string                     `json:"status"`
	ReceiptNo   string                     `json:"receipt_no,omitempty"`
	Items       []MedicineBillItemResponse `json:"items,omitempty"`
	CreatedAt   time.Time                  `json:"created_at"`
}
