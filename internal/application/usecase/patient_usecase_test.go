package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clinic-franchise-api/internal/application/apptest"
	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
)

func TestPatientCreate_CodigoConsecutivoPorFranquicia(t *testing.T) {
	store := apptest.NewStore()
	nor := store.AddFranchise("NOR")
	sur := store.AddFranchise("SUR")
	uc := NewPatientUseCase(store.TxRunner(), store.Repos())
	ctx := context.Background()

	p1, err := uc.Create(ctx, apptest.FranchiseActor(nor.ID), dto.CreatePatientRequest{Name: "Ana", DateOfBirth: "1990-04-02"})
	require.NoError(t, err)
	p2, err := uc.Create(ctx, apptest.DoctorActor(nor.ID), dto.CreatePatientRequest{Name: "Luis"})
	require.NoError(t, err)
	p3, err := uc.Create(ctx, apptest.Admin(), dto.CreatePatientRequest{FranchiseID: sur.ID, Name: "Eva"})
	require.NoError(t, err)

	assert.Equal(t, "NOR-000001", p1.Code)
	assert.Equal(t, "NOR-000002", p2.Code)
	assert.Equal(t, "SUR-000001", p3.Code)
	require.NotNil(t, p1.DateOfBirth)
	assert.Equal(t, 1990, p1.DateOfBirth.Year())
}

func TestPatientCreate_FranquiciaAjena(t *testing.T) {
	store := apptest.NewStore()
	nor := store.AddFranchise("NOR")
	sur := store.AddFranchise("SUR")
	_, err := NewPatientUseCase(store.TxRunner(), store.Repos()).Create(context.Background(),
		apptest.FranchiseActor(nor.ID), dto.CreatePatientRequest{FranchiseID: sur.ID, Name: "Ana"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestPatientCreate_FranquiciaInactiva(t *testing.T) {
	store := apptest.NewStore()
	nor := store.AddFranchise("NOR")
	nor.Status = entity.StatusInactive
	require.NoError(t, store.Repos().Franchises.Update(context.Background(), &nor))

	_, err := NewPatientUseCase(store.TxRunner(), store.Repos()).Create(context.Background(),
		apptest.FranchiseActor(nor.ID), dto.CreatePatientRequest{Name: "Ana"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestPatientHistory(t *testing.T) {
	store := apptest.NewStore()
	f := store.AddFranchise("NOR")
	p := store.AddPatient(f.ID, "Ana", "")
	team := store.AddTeam(f.ID, "Dr. X", apptest.Dec("50"))
	ctx := context.Background()
	now := time.Now()

	store.AddAppointment(entity.Appointment{FranchiseID: f.ID, PatientID: p.ID, TeamID: team.ID, StartAt: now, DurationMinutes: 15, Status: entity.AppointmentScheduled, CreatedAt: now})
	require.NoError(t, store.Repos().Consultations.Create(ctx, &entity.Consultation{
		ID: uuid.New().String(), FranchiseID: f.ID, PatientID: p.ID, TeamID: team.ID, Date: now, CreatedAt: now,
	}))
	other := store.AddPatient(f.ID, "Luis", "")
	store.AddAppointment(entity.Appointment{FranchiseID: f.ID, PatientID: other.ID, TeamID: team.ID, StartAt: now, CreatedAt: now})

	uc := NewPatientUseCase(store.TxRunner(), store.Repos())
	h, err := uc.History(ctx, apptest.DoctorActor(f.ID), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, h.Patient.ID)
	assert.Len(t, h.Appointments, 1)
	assert.Len(t, h.Consultations, 1)
	assert.Empty(t, h.Bills)

	_, err = uc.History(ctx, apptest.DoctorActor("otra"), p.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestPatientDelete_ConConsultasEsConflicto(t *testing.T) {
	store := apptest.NewStore()
	f := store.AddFranchise("NOR")
	p := store.AddPatient(f.ID, "Ana", "")
	require.NoError(t, store.Repos().Consultations.Create(context.Background(), &entity.Consultation{
		ID: uuid.New().String(), FranchiseID: f.ID, PatientID: p.ID, Date: time.Now(),
	}))
	uc := NewPatientUseCase(store.TxRunner(), store.Repos())

	assert.ErrorIs(t, uc.Delete(context.Background(), apptest.DoctorActor(f.ID), p.ID), domain.ErrForbidden)
	assert.ErrorIs(t, uc.Delete(context.Background(), apptest.FranchiseActor(f.ID), p.ID), domain.ErrConflict)
}
