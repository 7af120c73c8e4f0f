package entity

import (
	"fmt"
	"time"
)

// Patient paciente registrado en una franquicia.
type Patient struct {
	ID          string
	FranchiseID string
	Code        string // <CODIGO_FRANQUICIA>-000001, único por franquicia
	Name        string
	Gender      string
	DateOfBirth *time.Time
	Phone       string
	Email       string
	Address     string
	BloodGroup  string
	PhotoURL    string
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PatientCode arma el código visible del paciente a partir del consecutivo de la franquicia.
func PatientCode(franchiseCode string, seq int64) string {
	return fmt.Sprintf("%s-%06d", franchiseCode, seq)
}
