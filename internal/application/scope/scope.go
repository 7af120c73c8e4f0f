// Package scope verifica que los registros referenciados pertenezcan a la franquicia de la operación.
package scope

import (
	"context"

	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
)

// Franchise carga la franquicia; ErrNotFound si no existe, ErrForbidden si está inactiva.
func Franchise(ctx context.Context, repo repository.FranchiseRepository, id string) (*entity.Franchise, error) {
	f, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.ErrNotFound
	}
	if f.Status != entity.StatusActive {
		return nil, domain.ErrForbidden
	}
	return f, nil
}

// Patient carga el paciente y exige que sea de franchiseID.
func Patient(ctx context.Context, repo repository.PatientRepository, franchiseID, id string) (*entity.Patient, error) {
	p, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if p.FranchiseID != franchiseID {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

// Team carga el profesional y exige que sea de franchiseID.
// Con lock=true bloquea la fila (serializa la agenda dentro de la transacción).
func Team(ctx context.Context, repo repository.TeamRepository, franchiseID, id string, lock bool) (*entity.Team, error) {
	get := repo.GetByID
	if lock {
		get = repo.GetForUpdate
	}
	t, err := get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	if t.FranchiseID != franchiseID {
		return nil, domain.ErrForbidden
	}
	return t, nil
}
