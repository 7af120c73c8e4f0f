package repository

import (
	"context"

	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
)

// ConsultationRepository persistencia de consultas médicas.
type ConsultationRepository interface {
	Create(ctx context.Context, c *entity.Consultation) error
	GetByID(ctx context.Context, id string) (*entity.Consultation, error)
	Update(ctx context.Context, c *entity.Consultation) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ListFilter) ([]*entity.Consultation, int, error)
}
