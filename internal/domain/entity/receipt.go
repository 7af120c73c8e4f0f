package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de recibo.
const (
	ReceiptConsultation = "consultation"
	ReceiptMedicineBill = "medicine_bill"
	ReceiptPackage      = "package"
	ReceiptOther        = "other"
)

// Receipt comprobante de pago emitido por una franquicia.
type Receipt struct {
	ID          string
	FranchiseID string
	PatientID   string
	ReceiptNo   string
	Kind        string
	ReferenceID string
	Amount      decimal.Decimal
	PaymentMode string
	Date        time.Time
	Notes       string
	Cancelled   bool
	CreatedBy   string
	CreatedAt   time.Time
}
