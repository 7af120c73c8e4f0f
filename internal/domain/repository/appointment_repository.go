package repository

import (
	"context"
	"time"

	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
)

// AppointmentRepository persistencia de citas.
type AppointmentRepository interface {
	Create(ctx context.Context, a *entity.Appointment) error
	GetByID(ctx context.Context, id string) (*entity.Appointment, error)
	Update(ctx context.Context, a *entity.Appointment) error
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ListFilter) ([]*entity.Appointment, int, error)
	// HasOverlap indica si el profesional tiene otra cita activa que se cruce con [start, end).
	HasOverlap(ctx context.Context, teamID string, start, end time.Time, excludeID string) (bool, error)
}
