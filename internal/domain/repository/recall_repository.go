package repository

import (
	"context"
	"time"

	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
)

// RecallRepository persistencia de recordatorios de control.
type RecallRepository interface {
	Create(ctx context.Context, r *entity.Recall) error
	GetByID(ctx context.Context, id string) (*entity.Recall, error)
	UpdateStatus(ctx context.Context, id, status string) error
	MarkNotified(ctx context.Context, id string, at time.Time) error
	CancelByConsultation(ctx context.Context, consultationID string) error
	List(ctx context.Context, f ListFilter) ([]*entity.Recall, int, error)
}
