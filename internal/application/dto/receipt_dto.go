package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

// CreateReceiptRequest recibo manual (paquetes u otros cobros).
type CreateReceiptRequest struct {
	FranchiseID string          `json:"franchise_id"`
	PatientID   string          `json:"patient_id"`
	Kind        string          `json:"kind"`
	ReferenceID string          `json:"reference_id"` // id del paquete cuando kind=package
	Amount      decimal.Decimal `json:"amount"`
	PaymentMode string          `json:"payment_mode"`
	Date        string          `json:"date"`
	Notes       string          `json:"notes"`
}

// Validate valida el recibo.
func (r CreateReceiptRequest) Validate() error {
	return FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.FranchiseID, is.UUID),
		validation.Field(&r.PatientID, validation.Required, is.UUID),
		validation.Field(&r.Kind, validation.Required, validation.In("package", "other")),
		validation.Field(&r.ReferenceID, validation.When(r.Kind == "package", validation.Required), is.UUID),
		validation.Field(&r.Amount, positive),
		validation.Field(&r.PaymentMode, validation.Required, paymentModes),
		validation.Field(&r.Date, validation.Date(DateLayout)),
	))
}

// ReceiptResponse salida de un recibo.
type ReceiptResponse struct {
	ID          string          `json:"id"`
	FranchiseID string          `json:"franchise_id"`
	PatientID   string          `json:"patient_id"`
	ReceiptNo   string          `json:"receipt_no"`
	Kind        string          `json:"kind"`
	ReferenceID string          `json:"reference_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentMode string          `json:"payment_mode"`
	Date        time.Time       `json:"date"`
	Notes       string          `json:"notes"`
	Cancelled   bool            `json:"cancelled"`
	CreatedAt   time.Time       `json:"created_at"`
}
