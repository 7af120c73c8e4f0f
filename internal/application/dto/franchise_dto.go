package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// CreateFranchiseRequest entrada para crear una franquicia; opcionalmente con usuario de acceso.
type CreateFranchiseRequest struct {
	Name      string `json:"name"`
	Code      string `json:"code"`
	OwnerName string `json:"owner_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	GSTIN     string `json:"gstin"`
	LoginCredentials
}

// Validate valida la creación.
func (r CreateFranchiseRequest) Validate() error {
	rules := []*validation.FieldRules{
		validation.Field(&r.Name, validation.Required, validation.Length(2, 200)),
		validation.Field(&r.Code, validation.Required, validation.Length(2, 10), is.Alphanumeric),
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.Phone, validation.Length(0, 30)),
		validation.Field(&r.GSTIN, validation.Length(0, 20)),
	}
	rules = append(rules, r.LoginCredentials.fields()...)
	return FromValidation(validation.ValidateStruct(&r, rules...))
}

// UpdateFranchiseRequest entrada para actualizar una franquicia (campos opcionales).
type UpdateFranchiseRequest struct {
	Name      *string `json:"name"`
	OwnerName *string `json:"owner_name"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	Address   *string `json:"address"`
	City      *string `json:"city"`
	State     *string `json:"state"`
	GSTIN     *string `json:"gstin"`
	Status    *string `json:"status"`
}

// Validate valida la actualización.
func (r UpdateFranchiseRequest) Validate() error {
	return FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(2, 200)),
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.Status, validation.In("active", "inactive")),
	))
}

// FranchiseResponse salida de una franquicia.
type FranchiseResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	OwnerName string    `json:"owner_name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	GSTIN     string    `json:"gstin"`
	Status    string    `json:"status"`
	UserID    string    `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
