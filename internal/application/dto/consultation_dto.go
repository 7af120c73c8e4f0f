package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

// CreateConsultationRequest entrada para registrar una consulta.
// Fee nulo toma la tarifa del profesional.
type CreateConsultationRequest struct {
	FranchiseID   string           `json:"franchise_id"`
	PatientID     string           `json:"patient_id"`
	TeamID        string           `json:"team_id"`
	AppointmentID string           `json:"appointment_id"`
	Date          string           `json:"date"` // YYYY-MM-DD, por defecto hoy
	Complaints    string           `json:"complaints"`
	Diagnosis     string           `json:"diagnosis"`
	Advice        string           `json:"advice"`
	Fee           *decimal.Decimal `json:"fee"`
	Discount      decimal.Decimal  `json:"discount"`
	PaymentMode   string           `json:"payment_mode"`
	NextFollowUp  string           `json:"next_follow_up"` // YYYY-MM-DD
}

// Validate valida la consulta.
func (r CreateConsultationRequest) Validate() error {
	return FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.FranchiseID, is.UUID),
		validation.Field(&r.PatientID, validation.Required, is.UUID),
		validation.Field(&r.TeamID, validation.Required, is.UUID),
		validation.Field(&r.AppointmentID, is.UUID),
		validation.Field(&r.Date, validation.Date(DateLayout)),
		validation.Field(&r.Fee, nonNegative),
		validation.Field(&r.Discount, nonNegative),
		validation.Field(&r.PaymentMode, validation.Required, paymentModes),
		validation.Field(&r.NextFollowUp, validation.Date(DateLayout)),
	))
}

// UpdateConsultationRequest actualiza datos clínicos y cobro.
type UpdateConsultationRequest struct {
	Complaints   *string          `json:"complaints"`
	Diagnosis    *string          `json:"diagnosis"`
	Advice       *string          `json:"advice"`
	Fee          *decimal.Decimal `json:"fee"`
	Discount     *decimal.Decimal `json:"discount"`
	PaymentMode  *string          `json:"payment_mode"`
	NextFollowUp *string          `json:"next_follow_up"`
}

// Validate valida la actualización.
func (r UpdateConsultationRequest) Validate() error {
	return FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Fee, nonNegative),
		validation.Field(&r.Discount, nonNegative),
		validation.Field(&r.PaymentMode, paymentModes),
		validation.Field(&r.NextFollowUp, validation.Date(DateLayout)),
	))
}

// ConsultationResponse salida de una consulta.
type ConsultationResponse struct {
	ID            string          `json:"id"`
	FranchiseID   string          `json:"franchise_id"`
	PatientID     string          `json:"patient_id"`
	TeamID        string          `json:"team_id"`
	AppointmentID string          `json:"appointment_id,omitempty"`
	Date          time.Time       `json:"date"`
	Complaints    string          `json:"complaints"`
	Diagnosis     string          `json:"diagnosis"`
	Advice        string          `json:"advice"`
	Fee           decimal.Decimal `json:"fee"`
	Discount      decimal.Decimal `json:"discount"`
	NetAmount     decimal.Decimal `json:"net_amount"`
	PaymentMode   string          `json:"payment_mode"`
	NextFollowUp  *time.Time      `json:"next_follow_up,omitempty"`
	RecallID      string          `json:"recall_id,omitempty"`
	ReceiptNo     string          `json:"receipt_no,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
