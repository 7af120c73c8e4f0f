package billing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clinic-franchise-api/internal/application/apptest"
	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
)

func TestReceiptCreate_NumeracionPorFranquicia(t *testing.T) {
	store := apptest.NewStore()
	nor := store.AddFranchise("NOR")
	sur := store.AddFranchise("SUR")
	pn := store.AddPatient(nor.ID, "Ana", "")
	ps := store.AddPatient(sur.ID, "Luis", "")
	uc := NewReceiptUseCase(store.TxRunner(), store.Repos(), logger.Nop())
	ctx := context.Background()

	req := func(patientID string) dto.CreateReceiptRequest {
		return dto.CreateReceiptRequest{PatientID: patientID, Kind: entity.ReceiptOther, Amount: apptest.Dec("50"), PaymentMode: entity.PaymentCash}
	}

	r1, err := uc.Create(ctx, apptest.FranchiseActor(nor.ID), req(pn.ID))
	require.NoError(t, err)
	r2, err := uc.Create(ctx, apptest.FranchiseActor(nor.ID), req(pn.ID))
	require.NoError(t, err)
	r3, err := uc.Create(ctx, apptest.FranchiseActor(sur.ID), req(ps.ID))
	require.NoError(t, err)

	assert.Equal(t, "NOR-R-000001", r1.ReceiptNo)
	assert.Equal(t, "NOR-R-000002", r2.ReceiptNo)
	assert.Equal(t, "SUR-R-000001", r3.ReceiptNo)
	assert.False(t, r1.Date.IsZero())
}

func TestReceiptCreate_Errores(t *testing.T) {
	store := apptest.NewStore()
	nor := store.AddFranchise("NOR")
	sur := store.AddFranchise("SUR")
	foreign := store.AddPatient(sur.ID, "Luis", "")
	own := store.AddPatient(nor.ID, "Ana", "")
	uc := NewReceiptUseCase(store.TxRunner(), store.Repos(), logger.Nop())
	ctx := context.Background()
	actor := apptest.FranchiseActor(nor.ID)

	tests := []struct {
		name string
		req  dto.CreateReceiptRequest
		want error
	}{
		{"paciente ajeno", dto.CreateReceiptRequest{PatientID: foreign.ID, Kind: entity.ReceiptOther, Amount: apptest.Dec("10"), PaymentMode: entity.PaymentCash}, domain.ErrForbidden},
		{"paquete inexistente", dto.CreateReceiptRequest{PatientID: own.ID, Kind: entity.ReceiptPackage, ReferenceID: uuid.New().String(), Amount: apptest.Dec("10"), PaymentMode: entity.PaymentCash}, domain.ErrNotFound},
		{"paquete sin referencia", dto.CreateReceiptRequest{PatientID: own.ID, Kind: entity.ReceiptPackage, Amount: apptest.Dec("10"), PaymentMode: entity.PaymentCash}, domain.ErrInvalidInput},
		{"tipo automático", dto.CreateReceiptRequest{PatientID: own.ID, Kind: entity.ReceiptConsultation, Amount: apptest.Dec("10"), PaymentMode: entity.PaymentCash}, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(ctx, actor, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, store.Receipts())
}

func TestReceiptGetByID_Alcance(t *testing.T) {
	store := apptest.NewStore()
	nor := store.AddFranchise("NOR")
	p := store.AddPatient(nor.ID, "Ana", "")
	uc := NewReceiptUseCase(store.TxRunner(), store.Repos(), logger.Nop())
	ctx := context.Background()

	rc, err := uc.Create(ctx, apptest.FranchiseActor(nor.ID), dto.CreateReceiptRequest{
		PatientID: p.ID, Kind: entity.ReceiptOther, Amount: apptest.Dec("10"), PaymentMode: entity.PaymentCard,
	})
	require.NoError(t, err)

	got, err := uc.GetByID(ctx, apptest.Admin(), rc.ID)
	require.NoError(t, err)
	assert.Equal(t, rc.ReceiptNo, got.ReceiptNo)

	_, err = uc.GetByID(ctx, apptest.FranchiseActor("otra"), rc.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.GetByID(ctx, apptest.Admin(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
