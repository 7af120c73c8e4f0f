package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// CreateRecallRequest recordatorio de control manual.
type CreateRecallRequest struct {
	FranchiseID    string `json:"franchise_id"`
	PatientID      string `json:"patient_id"`
	ConsultationID string `json:"consultation_id"`
	RecallDate     string `json:"recall_date"`
	Reason         string `json:"reason"`
}

// Validate valida el recordatorio.
func (r CreateRecallRequest) Validate() error {
	return FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.FranchiseID, is.UUID),
		validation.Field(&r.PatientID, validation.Required, is.UUID),
		validation.Field(&r.ConsultationID, is.UUID),
		validation.Field(&r.RecallDate, validation.Required, validation.Date(DateLayout)),
		validation.Field(&r.Reason, validation.Length(0, 500)),
	))
}

// UpdateRecallStatusRequest cambio de estado.
type UpdateRecallStatusRequest struct {
	Status string `json:"status"`
}

// Validate valida el estado.
func (r UpdateRecallStatusRequest) Validate() error {
	return FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required, validation.In("pending", "done", "cancelled")),
	))
}

// RecallResponse salida de un recordatorio.
type RecallResponse struct {
	ID             string     `json:"id"`
	FranchiseID    string     `json:"franchise_id"`
	PatientID      string     `json:"patient_id"`
	ConsultationID string     `json:"consultation_id,omitempty"`
	RecallDate     time.Time  `json:"recall_date"`
	Reason         string     `json:"reason"`
	Status         string     `json:"status"`
	NotifiedAt     *time.Time `json:"notified_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
