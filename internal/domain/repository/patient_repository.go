package repository

import (
	"context"

	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
)

// PatientRepository persistencia de pacientes.
type PatientRepository interface {
	Create(ctx context.Context, p *entity.Patient) error
	GetByID(ctx context.Context, id string) (*entity.Patient, error)
	Update(ctx context.Context, p *entity.Patient) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ListFilter) ([]*entity.Patient, int, error)
}
