package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// NewRepos construye todos los repositorios sobre q (pool o tx).
func NewRepos(q Querier) repository.Repos {
	return repository.Repos{
		Franchises:    NewFranchiseRepository(q),
		Users:         NewUserRepository(q),
		Teams:         NewTeamRepository(q),
		Patients:      NewPatientRepository(q),
		Appointments:  NewAppointmentRepository(q),
		Consultations: NewConsultationRepository(q),
		Medicines:     NewMedicineRepository(q),
		Services:      NewServiceRepository(q),
		Packages:      NewPackageRepository(q),
		Sales:         NewSaleRepository(q),
		Transports:    NewTransportRepository(q),
		Stock:         NewStockRepository(q),
		Bills:         NewMedicineBillRepository(q),
		Receipts:      NewReceiptRepository(q),
		Recalls:       NewRecallRepository(q),
		Sequences:     NewSequenceRepository(q),
	}
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
