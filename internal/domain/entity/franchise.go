package entity

import "time"

// Estados genéricos de registros maestros.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Franchise representa una clínica franquiciada (tenant del sistema).
type Franchise struct {
	ID        string
	Name      string
	Code      string // prefijo corto, único; se usa en los códigos de paciente
	OwnerName string
	Phone     string
	Email     string
	Address   string
	City      string
	State     string
	GSTIN     string
	Status    string // active, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
