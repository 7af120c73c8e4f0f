package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID          string    `json:"id"`
	FranchiseID string    `json:"franchise_id,omitempty"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate valida el login.
func (r LoginRequest) Validate() error {
	return FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	))
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ChangePasswordRequest entrada para cambiar la contraseña propia.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Validate valida el cambio de contraseña.
func (r ChangePasswordRequest) Validate() error {
	return FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.CurrentPassword, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(8, 72),
			validation.NotIn(r.CurrentPassword).Error("debe ser distinta de la actual")),
	))
}

// LoginCredentials credenciales opcionales para crear un usuario junto a una franquicia o miembro del equipo.
type LoginCredentials struct {
	Email    string `json:"login_email"`
	Password string `json:"login_password"`
}

// HasLogin indica si se pidió crear usuario.
func (c LoginCredentials) HasLogin() bool { return c.Email != "" }

func (c *LoginCredentials) fields() []*validation.FieldRules {
	return []*validation.FieldRules{
		validation.Field(&c.Email, is.Email),
		validation.Field(&c.Password, validation.When(c.Email != "", validation.Required, validation.Length(8, 72))),
	}
}

// UpdateUserStatusRequest activa o desactiva un acceso (PATCH /api/users/:id/status).
type UpdateUserStatusRequest struct {
	Status string `json:"status"`
}

// Validate valida el estado.
func (r UpdateUserStatusRequest) Validate() error {
	return FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required, validation.In("active", "inactive")),
	))
}
