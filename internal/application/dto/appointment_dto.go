package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var appointmentStatuses = validation.In("scheduled", "confirmed", "completed", "cancelled", "no_show")

// CreateAppointmentRequest entrada para agendar una cita.
type CreateAppointmentRequest struct {
	FranchiseID     string `json:"franchise_id"`
	PatientID       string `json:"patient_id"`
	TeamID          string `json:"team_id"`
	StartAt         string `json:"start_at"` // RFC3339
	DurationMinutes int    `json:"duration_minutes"`
	Reason          string `json:"reason"`
	Notes           string `json:"notes"`
}

// Validate valida la cita.
func (r CreateAppointmentRequest) Validate() error {
	return FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.FranchiseID, is.UUID),
		validation.Field(&r.PatientID, validation.Required, is.UUID),
		validation.Field(&r.TeamID, validation.Required, is.UUID),
		validation.Field(&r.StartAt, validation.Required, validation.Date(DateTimeLayout)),
		validation.Field(&r.DurationMinutes, validation.Min(0), validation.Max(480)),
		validation.Field(&r.Reason, validation.Length(0, 500)),
	))
}

// UpdateAppointmentRequest reprograma o reasigna una cita.
type UpdateAppointmentRequest struct {
	TeamID          *string `json:"team_id"`
	StartAt         *string `json:"start_at"`
	DurationMinutes *int    `json:"duration_minutes"`
	Reason          *string `json:"reason"`
	Notes           *string `json:"notes"`
}

// Validate valida la actualización.
func (r UpdateAppointmentRequest) Validate() error {
	return FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.TeamID, validation.NilOrNotEmpty, is.UUID),
		validation.Field(&r.StartAt, validation.NilOrNotEmpty, validation.Date(DateTimeLayout)),
		validation.Field(&r.DurationMinutes, validation.Min(1), validation.Max(480)),
	))
}

// UpdateAppointmentStatusRequest cambio de estado de una cita.
type UpdateAppointmentStatusRequest struct {
	Status string `json:"status"`
}

// Validate valida el estado.
func (r UpdateAppointmentStatusRequest) Validate() error {
	return FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required, appointmentStatuses),
	))
}

// AppointmentResponse salida de una cita.
type AppointmentResponse struct {
	ID              string    `json:"id"`
	FranchiseID     string    `json:"franchise_id"`
	PatientID       string    `json:"patient_id"`
	TeamID          string    `json:"team_id"`
	StartAt         time.Time `json:"start_at"`
	EndAt           time.Time `json:"end_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
	Reason          string    `json:"reason"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
