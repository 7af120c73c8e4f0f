package clinic

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clinic-franchise-api/internal/application/apptest"
	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
)

type clinicFixture struct {
	store     *apptest.Store
	franchise entity.Franchise
	team      entity.Team
	patient   entity.Patient
	actor     entity.Actor
}

func newClinicFixture(t *testing.T) clinicFixture {
	t.Helper()
	store := apptest.NewStore()
	f := store.AddFranchise("NOR")
	return clinicFixture{
		store:     store,
		franchise: f,
		team:      store.AddTeam(f.ID, "Dra. Rojas", apptest.Dec("500")),
		patient:   store.AddPatient(f.ID, "Ana", "ana@mail.test"),
		actor:     apptest.FranchiseActor(f.ID),
	}
}

func (fx clinicFixture) appointment(start string) dto.CreateAppointmentRequest {
	return dto.CreateAppointmentRequest{PatientID: fx.patient.ID, TeamID: fx.team.ID, StartAt: start}
}

func TestAppointmentCreate_CruceDeAgenda(t *testing.T) {
	fx := newClinicFixture(t)
	uc := NewAppointmentUseCase(fx.store.TxRunner(), fx.store.Repos(), logger.Nop())
	ctx := context.Background()

	first, err := uc.Create(ctx, fx.actor, fx.appointment("2030-01-10T09:00:00Z"))
	require.NoError(t, err)
	assert.Equal(t, DefaultAppointmentMinutes, first.DurationMinutes)
	assert.Equal(t, entity.AppointmentScheduled, first.Status)

	_, err = uc.Create(ctx, fx.actor, fx.appointment("2030-01-10T09:10:00Z"))
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.Create(ctx, fx.actor, fx.appointment("2030-01-10T09:15:00Z"))
	assert.NoError(t, err, "una cita contigua no se cruza")

	other := fx.store.AddTeam(fx.franchise.ID, "Dr. Soto", apptest.Dec("300"))
	req := fx.appointment("2030-01-10T09:00:00Z")
	req.TeamID = other.ID
	_, err = uc.Create(ctx, fx.actor, req)
	assert.NoError(t, err, "otro profesional tiene su propia agenda")
}

func TestAppointmentCreate_Alcance(t *testing.T) {
	fx := newClinicFixture(t)
	uc := NewAppointmentUseCase(fx.store.TxRunner(), fx.store.Repos(), logger.Nop())
	sur := fx.store.AddFranchise("SUR")
	foreignTeam := fx.store.AddTeam(sur.ID, "Dr. Sur", apptest.Dec("100"))
	foreignPatient := fx.store.AddPatient(sur.ID, "Luis", "")

	req := fx.appointment("2030-01-10T09:00:00Z")
	req.TeamID = foreignTeam.ID
	_, err := uc.Create(context.Background(), fx.actor, req)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	req = fx.appointment("2030-01-10T09:00:00Z")
	req.PatientID = foreignPatient.ID
	_, err = uc.Create(context.Background(), fx.actor, req)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Create(context.Background(), apptest.Admin(), fx.appointment("2030-01-10T09:00:00Z"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "admin debe indicar franchise_id")
}

func TestAppointmentStatus_ReactivarExigeAgendaLibre(t *testing.T) {
	fx := newClinicFixture(t)
	uc := NewAppointmentUseCase(fx.store.TxRunner(), fx.store.Repos(), logger.Nop())
	ctx := context.Background()

	first, err := uc.Create(ctx, fx.actor, fx.appointment("2030-01-10T09:00:00Z"))
	require.NoError(t, err)
	_, err = uc.UpdateStatus(ctx, fx.actor, first.ID, dto.UpdateAppointmentStatusRequest{Status: entity.AppointmentCancelled})
	require.NoError(t, err)

	_, err = uc.Create(ctx, fx.actor, fx.appointment("2030-01-10T09:00:00Z"))
	require.NoError(t, err, "la cita cancelada libera el horario")

	_, err = uc.UpdateStatus(ctx, fx.actor, first.ID, dto.UpdateAppointmentStatusRequest{Status: entity.AppointmentScheduled})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, entity.AppointmentCancelled, fx.store.Appointment(first.ID).Status)
}

func TestAppointmentUpdate_Reprogramar(t *testing.T) {
	fx := newClinicFixture(t)
	uc := NewAppointmentUseCase(fx.store.TxRunner(), fx.store.Repos(), logger.Nop())
	ctx := context.Background()

	a, err := uc.Create(ctx, fx.actor, fx.appointment("2030-01-10T09:00:00Z"))
	require.NoError(t, err)
	_, err = uc.Create(ctx, fx.actor, fx.appointment("2030-01-10T10:00:00Z"))
	require.NoError(t, err)

	start := "2030-01-10T09:05:00Z"
	moved, err := uc.Update(ctx, fx.actor, a.ID, dto.UpdateAppointmentRequest{StartAt: &start})
	require.NoError(t, err, "no choca consigo misma")
	assert.Equal(t, 9, moved.StartAt.Hour())
	assert.Equal(t, 5, moved.StartAt.Minute())

	mins := 60
	_, err = uc.Update(ctx, fx.actor, a.ID, dto.UpdateAppointmentRequest{DurationMinutes: &mins})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAppointmentDelete(t *testing.T) {
	fx := newClinicFixture(t)
	uc := NewAppointmentUseCase(fx.store.TxRunner(), fx.store.Repos(), logger.Nop())
	ctx := context.Background()
	a, err := uc.Create(ctx, fx.actor, fx.appointment("2030-01-10T09:00:00Z"))
	require.NoError(t, err)

	assert.ErrorIs(t, uc.Delete(ctx, apptest.DoctorActor(fx.franchise.ID), a.ID), domain.ErrForbidden)
	assert.ErrorIs(t, uc.Delete(ctx, apptest.FranchiseActor("otra"), a.ID), domain.ErrForbidden)
	require.NoError(t, uc.Delete(ctx, fx.actor, a.ID))
	_, err = uc.GetByID(ctx, fx.actor, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAppointmentList_FiltraPorProfesional(t *testing.T) {
	fx := newClinicFixture(t)
	uc := NewAppointmentUseCase(fx.store.TxRunner(), fx.store.Repos(), logger.Nop())
	ctx := context.Background()
	other := fx.store.AddTeam(fx.franchise.ID, "Dr. Soto", apptest.Dec("300"))

	_, err := uc.Create(ctx, fx.actor, fx.appointment("2030-01-10T09:00:00Z"))
	require.NoError(t, err)
	req := fx.appointment("2030-01-10T09:00:00Z")
	req.TeamID = other.ID
	_, err = uc.Create(ctx, fx.actor, req)
	require.NoError(t, err)

	res, err := uc.List(ctx, fx.actor, AppointmentQuery{TeamID: other.ID})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, other.ID, res.Items[0].TeamID)
	assert.Equal(t, 1, res.Page.Total)
}

func TestAppointmentList_RangoDeUnSoloDia(t *testing.T) {
	fx := newClinicFixture(t)
	uc := NewAppointmentUseCase(fx.store.TxRunner(), fx.store.Repos(), logger.Nop())
	ctx := context.Background()

	_, err := uc.Create(ctx, fx.actor, fx.appointment("2030-01-10T09:00:00Z"))
	require.NoError(t, err)
	_, err = uc.Create(ctx, fx.actor, fx.appointment("2030-01-11T09:00:00Z"))
	require.NoError(t, err)

	day := apptest.Day(2030, time.January, 10)
	res, err := uc.List(ctx, fx.actor, AppointmentQuery{From: &day, To: &day})
	require.NoError(t, err)
	require.Len(t, res.Items, 1, "el día final del rango se incluye completo")
	assert.Equal(t, 10, res.Items[0].StartAt.Day())
}
