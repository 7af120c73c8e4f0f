package entity

import "time"

// Estados de un recordatorio de control.
const (
	RecallPending   = "pending"
	RecallDone      = "done"
	RecallCancelled = "cancelled"
)

// Recall recordatorio de control de un paciente.
type Recall struct {
	ID             string
	FranchiseID    string
	PatientID      string
	ConsultationID string
	RecallDate     time.Time
	Reason         string
	Status         string
	NotifiedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
