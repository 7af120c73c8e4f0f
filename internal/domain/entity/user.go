package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin     = "admin"
	RoleFranchise = "franchise"
	RoleDoctor    = "doctor"
)

// IsValidRole indica si role es uno de los roles conocidos.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleFranchise, RoleDoctor:
		return true
	}
	return false
}

// User representa una cuenta con acceso a la API.
// FranchiseID vacío solo para administradores de la central.
type User struct {
	ID           string
	FranchiseID  string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, franchise, doctor
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
