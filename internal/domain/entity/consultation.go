package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Formas de pago aceptadas en consultas, facturas y recibos.
const (
	PaymentCash   = "cash"
	PaymentCard   = "card"
	PaymentUPI    = "upi"
	PaymentOnline = "online"
	PaymentCredit = "credit"
)

// PaymentModes lista ordenada de formas de pago (totales de reportes).
var PaymentModes = []string{PaymentCash, PaymentCard, PaymentUPI, PaymentOnline, PaymentCredit}

// Consultation atención médica registrada por un profesional.
type Consultation struct {
	ID            string
	FranchiseID   string
	PatientID     string
	TeamID        string
	AppointmentID string
	Date          time.Time
	Complaints    string
	Diagnosis     string
	Advice        string
	Fee           decimal.Decimal
	Discount      decimal.Decimal
	NetAmount     decimal.Decimal
	PaymentMode   string
	NextFollowUp  *time.Time
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ComputeNet calcula NetAmount = Fee - Discount (nunca negativo).
func (c *Consultation) ComputeNet() {
	net := c.Fee.Sub(c.Discount)
	if net.IsNegative() {
		net = decimal.Zero
	}
	c.NetAmount = net
}
