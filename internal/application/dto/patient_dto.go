package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// CreatePatientRequest entrada para registrar un paciente. El código se genera.
type CreatePatientRequest struct {
	FranchiseID string `json:"franchise_id"`
	Name        string `json:"name"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"date_of_birth"` // YYYY-MM-DD
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	BloodGroup  string `json:"blood_group"`
	PhotoURL    string `json:"photo_url"`
	Notes       string `json:"notes"`
}

var bloodGroups = validation.In("A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-")

// Validate valida el registro.
func (r CreatePatientRequest) Validate() error {
	return FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.FranchiseID, is.UUID),
		validation.Field(&r.Name, validation.Required, validation.Length(2, 200)),
		validation.Field(&r.Gender, validation.In("male", "female", "other")),
		validation.Field(&r.DateOfBirth, validation.Date(DateLayout)),
		validation.Field(&r.Phone, validation.Length(0, 30)),
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.BloodGroup, bloodGroups),
	))
}

// UpdatePatientRequest entrada para actualizar un paciente (campos opcionales).
type UpdatePatientRequest struct {
	Name        *string `json:"name"`
	Gender      *string `json:"gender"`
	DateOfBirth *string `json:"date_of_birth"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	Address     *string `json:"address"`
	BloodGroup  *string `json:"blood_group"`
	PhotoURL    *string `json:"photo_url"`
	Notes       *string `json:"notes"`
}

// Validate valida la actualización.
func (r UpdatePatientRequest) Validate() error {
	return FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(2, 200)),
		validation.Field(&r.Gender, validation.In("male", "female", "other")),
		validation.Field(&r.DateOfBirth, validation.Date(DateLayout)),
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.BloodGroup, bloodGroups),
	))
}

// PatientResponse salida de un paciente.
type PatientResponse struct {
	ID          string     `json:"id"`
	FranchiseID string     `json:"franchise_id"`
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Gender      string     `json:"gender"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Phone       string     `json:"phone"`
	Email       string     `json:"email"`
	Address     string     `json:"address"`
	BloodGroup  string     `json:"blood_group"`
	PhotoURL    string     `json:"photo_url"`
	Notes       string     `json:"notes"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// PatientHistoryResponse historial clínico y de facturación del paciente.
type PatientHistoryResponse struct {
	Patient       PatientResponse        `json:"patient"`
	Appointments  []AppointmentResponse  `json:"appointments"`
	Consultations []ConsultationResponse `json:"consultations"`
	Bills         []MedicineBillResponse `json:"bills"`
}
