package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Designaciones de miembros del equipo.
const (
	DesignationDoctor         = "doctor"
	DesignationFranchiseAdmin = "franchise_admin"
	DesignationStaff          = "staff"
)

// Team miembro del personal de una franquicia. UserID presente si tiene acceso a la API.
type Team struct {
	ID              string
	FranchiseID     string
	UserID          string
	Name            string
	Designation     string
	Phone           string
	Email           string
	Qualification   string
	ConsultationFee decimal.Decimal
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
