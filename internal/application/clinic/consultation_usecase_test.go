package clinic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clinic-franchise-api/internal/application/apptest"
	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
)

func TestConsultationCreate_CompletaCitaRecordatorioYRecibo(t *testing.T) {
	fx := newClinicFixture(t)
	ctx := context.Background()
	appt := fx.store.AddAppointment(entity.Appointment{
		FranchiseID:     fx.franchise.ID,
		PatientID:       fx.patient.ID,
		TeamID:          fx.team.ID,
		StartAt:         apptest.Day(2030, 1, 10),
		DurationMinutes: 15,
		Status:          entity.AppointmentConfirmed,
	})
	uc := NewConsultationUseCase(fx.store.TxRunner(), fx.store.Repos(), logger.Nop())

	c, err := uc.Create(ctx, apptest.DoctorActor(fx.franchise.ID), dto.CreateConsultationRequest{
		PatientID:     fx.patient.ID,
		TeamID:        fx.team.ID,
		AppointmentID: appt.ID,
		Diagnosis:     "Migraña",
		Discount:      apptest.Dec("100"),
		PaymentMode:   entity.PaymentUPI,
		NextFollowUp:  "2030-02-10",
	})
	require.NoError(t, err)

	assert.True(t, c.Fee.Equal(apptest.Dec("500")), "tarifa del profesional")
	assert.True(t, c.NetAmount.Equal(apptest.Dec("400")))
	assert.Equal(t, "NOR-R-000001", c.ReceiptNo)
	assert.NotEmpty(t, c.RecallID)
	assert.Equal(t, entity.AppointmentCompleted, fx.store.Appointment(appt.ID).Status)

	recalls := fx.store.Recalls()
	require.Len(t, recalls, 1)
	assert.Equal(t, apptest.Day(2030, 2, 10), recalls[0].RecallDate)
	assert.Equal(t, "Control: Migraña", recalls[0].Reason)

	receipts := fx.store.Receipts()
	require.Len(t, receipts, 1)
	assert.Equal(t, entity.ReceiptConsultation, receipts[0].Kind)
	assert.True(t, receipts[0].Amount.Equal(apptest.Dec("400")))

	got, err := uc.GetByID(ctx, fx.actor, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ReceiptNo, got.ReceiptNo)
	assert.Equal(t, c.RecallID, got.RecallID)
}

func TestConsultationCreate_CitaInvalida(t *testing.T) {
	fx := newClinicFixture(t)
	other := fx.store.AddPatient(fx.franchise.ID, "Luis", "")
	cancelled := fx.store.AddAppointment(entity.Appointment{
		FranchiseID: fx.franchise.ID, PatientID: fx.patient.ID, TeamID: fx.team.ID,
		StartAt: apptest.Day(2030, 1, 10), DurationMinutes: 15, Status: entity.AppointmentCancelled,
	})
	ofOther := fx.store.AddAppointment(entity.Appointment{
		FranchiseID: fx.franchise.ID, PatientID: other.ID, TeamID: fx.team.ID,
		StartAt: apptest.Day(2030, 1, 11), DurationMinutes: 15, Status: entity.AppointmentScheduled,
	})
	uc := NewConsultationUseCase(fx.store.TxRunner(), fx.store.Repos(), logger.Nop())

	tests := []struct {
		name          string
		appointmentID string
		want          error
	}{
		{"cita cancelada", cancelled.ID, domain.ErrConflict},
		{"cita de otro paciente", ofOther.ID, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), fx.actor, dto.CreateConsultationRequest{
				PatientID:     fx.patient.ID,
				TeamID:        fx.team.ID,
				AppointmentID: tt.appointmentID,
				PaymentMode:   entity.PaymentCash,
			})
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, fx.store.Receipts(), "la transacción se revierte")
}

func TestConsultationUpdate_SincronizaReciboYRecordatorio(t *testing.T) {
	fx := newClinicFixture(t)
	ctx := context.Background()
	uc := NewConsultationUseCase(fx.store.TxRunner(), fx.store.Repos(), logger.Nop())
	c, err := uc.Create(ctx, fx.actor, dto.CreateConsultationRequest{
		PatientID:    fx.patient.ID,
		TeamID:       fx.team.ID,
		PaymentMode:  entity.PaymentCash,
		NextFollowUp: "2030-02-10",
	})
	require.NoError(t, err)

	fee := apptest.Dec("650")
	mode := entity.PaymentCard
	next := "2030-03-01"
	updated, err := uc.Update(ctx, fx.actor, c.ID, dto.UpdateConsultationRequest{Fee: &fee, PaymentMode: &mode, NextFollowUp: &next})
	require.NoError(t, err)
	assert.True(t, updated.NetAmount.Equal(apptest.Dec("650")))
	assert.NotEqual(t, c.RecallID, updated.RecallID)

	rc := fx.store.Receipts()[0]
	assert.True(t, rc.Amount.Equal(apptest.Dec("650")))
	assert.Equal(t, entity.PaymentCard, rc.PaymentMode)

	statuses := map[string]string{}
	for _, r := range fx.store.Recalls() {
		statuses[r.ID] = r.Status
	}
	assert.Equal(t, entity.RecallCancelled, statuses[c.RecallID])
	assert.Equal(t, entity.RecallPending, statuses[updated.RecallID])
}

func TestConsultationDelete_AnulaReciboYRecordatorio(t *testing.T) {
	fx := newClinicFixture(t)
	ctx := context.Background()
	uc := NewConsultationUseCase(fx.store.TxRunner(), fx.store.Repos(), logger.Nop())
	c, err := uc.Create(ctx, fx.actor, dto.CreateConsultationRequest{
		PatientID:    fx.patient.ID,
		TeamID:       fx.team.ID,
		PaymentMode:  entity.PaymentCash,
		NextFollowUp: "2030-02-10",
	})
	require.NoError(t, err)

	assert.ErrorIs(t, uc.Delete(ctx, apptest.DoctorActor(fx.franchise.ID), c.ID), domain.ErrForbidden)
	require.NoError(t, uc.Delete(ctx, fx.actor, c.ID))

	assert.True(t, fx.store.Receipts()[0].Cancelled)
	assert.Equal(t, entity.RecallCancelled, fx.store.Recalls()[0].Status)
	_, err = uc.GetByID(ctx, fx.actor, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConsultationList_Alcance(t *testing.T) {
	fx := newClinicFixture(t)
	ctx := context.Background()
	uc := NewConsultationUseCase(fx.store.TxRunner(), fx.store.Repos(), logger.Nop())
	_, err := uc.Create(ctx, fx.actor, dto.CreateConsultationRequest{PatientID: fx.patient.ID, TeamID: fx.team.ID, PaymentMode: entity.PaymentCash})
	require.NoError(t, err)

	res, err := uc.List(ctx, apptest.Admin(), ConsultationQuery{})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)

	_, err = uc.List(ctx, apptest.DoctorActor("otra"), ConsultationQuery{FranchiseID: fx.franchise.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
