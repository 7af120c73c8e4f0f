package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

// CreateTeamRequest entrada para crear un miembro del equipo.
// Si trae login_email se crea además un usuario (doctor o franchise según designación).
type CreateTeamRequest struct {
	FranchiseID     string          `json:"franchise_id"`
	Name            string          `json:"name"`
	Designation     string          `json:"designation"`
	Phone           string          `json:"phone"`
	Email           string          `json:"email"`
	Qualification   string          `json:"qualification"`
	ConsultationFee decimal.Decimal `json:"consultation_fee"`
	LoginCredentials
}

// Validate valida la creación.
func (r CreateTeamRequest) Validate() error {
	rules := []*validation.FieldRules{
		validation.Field(&r.FranchiseID, is.UUID),
		validation.Field(&r.Name, validation.Required, validation.Length(2, 200)),
		validation.Field(&r.Designation, validation.Required, validation.In("doctor", "franchise_admin", "staff")),
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.ConsultationFee, nonNegative),
	}
	rules = append(rules, r.LoginCredentials.fields()...)
	return FromValidation(validation.ValidateStruct(&r, rules...))
}

// UpdateTeamRequest entrada para actualizar un miembro (campos opcionales).
type UpdateTeamRequest struct {
	Name            *string          `json:"name"`
	Designation     *string          `json:"designation"`
	Phone           *string          `json:"phone"`
	Email           *string          `json:"email"`
	Qualification   *string          `json:"qualification"`
	ConsultationFee *decimal.Decimal `json:"consultation_fee"`
	Status          *string          `json:"status"`
}

// Validate valida la actualización.
func (r UpdateTeamRequest) Validate() error {
	return FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(2, 200)),
		validation.Field(&r.Designation, validation.In("doctor", "franchise_admin", "staff")),
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.ConsultationFee, nonNegative),
		validation.Field(&r.Status, validation.In("active", "inactive")),
	))
}

// TeamResponse salida de un miembro del equipo.
type TeamResponse struct {
	ID              string          `json:"id"`
	FranchiseID     string          `json:"franchise_id"`
	UserID          string          `json:"user_id,omitempty"`
	Name            string          `json:"name"`
	Designation     string          `json:"designation"`
	Phone           string          `json:"phone"`
	Email           string          `json:"email"`
	Qualification   string          `json:"qualification"`
	ConsultationFee decimal.Decimal `json:"consultation_fee"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
