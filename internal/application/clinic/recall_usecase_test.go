package clinic

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clinic-franchise-api/internal/application/apptest"
	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
)

func TestRecallNotify(t *testing.T) {
	fx := newClinicFixture(t)
	ctx := context.Background()
	notifier := &apptest.Notifier{}
	uc := NewRecallUseCase(fx.store.TxRunner(), fx.store.Repos(), notifier, logger.Nop())

	rec, err := uc.Create(ctx, fx.actor, dto.CreateRecallRequest{PatientID: fx.patient.ID, RecallDate: "2030-02-10", Reason: "Control"})
	require.NoError(t, err)
	assert.Equal(t, entity.RecallPending, rec.Status)

	got, err := uc.Notify(ctx, fx.actor, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got.NotifiedAt)
	require.Len(t, notifier.Sent, 1)
	assert.Equal(t, "ana@mail.test", notifier.Sent[0].To)
	assert.Equal(t, fx.franchise.Name, notifier.Sent[0].FranchiseName)
	assert.Equal(t, apptest.Day(2030, 2, 10), notifier.Sent[0].RecallDate)

	_, err = uc.UpdateStatus(ctx, fx.actor, rec.ID, dto.UpdateRecallStatusRequest{Status: entity.RecallDone})
	require.NoError(t, err)
	_, err = uc.Notify(ctx, fx.actor, rec.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "solo se avisan recordatorios pendientes")
}

func TestRecallNotify_Errores(t *testing.T) {
	fx := newClinicFixture(t)
	ctx := context.Background()
	noMail := fx.store.AddPatient(fx.franchise.ID, "Luis", "")
	notifier := &apptest.Notifier{}
	uc := NewRecallUseCase(fx.store.TxRunner(), fx.store.Repos(), notifier, logger.Nop())

	rec, err := uc.Create(ctx, fx.actor, dto.CreateRecallRequest{PatientID: noMail.ID, RecallDate: "2030-02-10"})
	require.NoError(t, err)
	_, err = uc.Notify(ctx, fx.actor, rec.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	rec, err = uc.Create(ctx, fx.actor, dto.CreateRecallRequest{PatientID: fx.patient.ID, RecallDate: "2030-02-10"})
	require.NoError(t, err)
	notifier.Err = errors.New("smtp caído")
	_, err = uc.Notify(ctx, fx.actor, rec.ID)
	assert.Error(t, err)
	for _, r := range fx.store.Recalls() {
		assert.Nil(t, r.NotifiedAt)
	}

	_, err = uc.Notify(ctx, apptest.FranchiseActor("otra"), rec.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRecallList_OrdenPorFecha(t *testing.T) {
	fx := newClinicFixture(t)
	ctx := context.Background()
	uc := NewRecallUseCase(fx.store.TxRunner(), fx.store.Repos(), &apptest.Notifier{}, logger.Nop())
	for _, d := range []string{"2030-03-01", "2030-01-15", "2030-02-01"} {
		_, err := uc.Create(ctx, fx.actor, dto.CreateRecallRequest{PatientID: fx.patient.ID, RecallDate: d})
		require.NoError(t, err)
	}
	from := apptest.Day(2030, 1, 20)
	res, err := uc.List(ctx, fx.actor, RecallQuery{From: &from, Status: entity.RecallPending})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, apptest.Day(2030, 2, 1), res.Items[0].RecallDate)
	assert.Equal(t, apptest.Day(2030, 3, 1), res.Items[1].RecallDate)
}
