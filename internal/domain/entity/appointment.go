package entity

import "time"

// Estados de una cita.
const (
	AppointmentScheduled = "scheduled"
	AppointmentConfirmed = "confirmed"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
	AppointmentNoShow    = "no_show"
)

// IsValidAppointmentStatus indica si s es un estado de cita conocido.
func IsValidAppointmentStatus(s string) bool {
	switch s {
	case AppointmentScheduled, AppointmentConfirmed, AppointmentCompleted, AppointmentCancelled, AppointmentNoShow:
		return true
	}
	return false
}

// Appointment cita de un paciente con un miembro del equipo.
type Appointment struct {
	ID              string
	FranchiseID     string
	PatientID       string
	TeamID          string
	StartAt         time.Time
	DurationMinutes int
	Status          string
	Reason          string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// EndAt fin de la cita.
func (a *Appointment) EndAt() time.Time {
	return a.StartAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// BlocksAgenda indica si la cita ocupa la agenda del profesional.
func (a *Appointment) BlocksAgenda() bool {
	return a.Status != AppointmentCancelled && a.Status != AppointmentNoShow
}

// Overlaps indica si dos intervalos [start, end) se solapan.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
