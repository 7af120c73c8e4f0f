package billing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clinic-franchise-api/internal/application/apptest"
	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/internal/application/inventory"
	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
)

type billFixture struct {
	store     *apptest.Store
	uc        *MedicineBillUseCase
	franchise entity.Franchise
	patient   entity.Patient
	medicine  entity.Medicine
}

func newBillFixture(t *testing.T) billFixture {
	t.Helper()
	store := apptest.NewStore()
	f := store.AddFranchise("NOR")
	p := store.AddPatient(f.ID, "Ana", "")
	m := store.AddMedicine("IBU", apptest.Dec("10"), apptest.Dec("12"), apptest.Dec("0"))
	soon := time.Now().AddDate(0, 1, 0)
	late := time.Now().AddDate(1, 0, 0)
	store.AddStock(f.ID, m.ID, "TARDE", apptest.Dec("10"), apptest.Dec("6"), &late)
	store.AddStock(f.ID, m.ID, "PRONTO", apptest.Dec("4"), apptest.Dec("6"), &soon)

	stock := inventory.NewStockUseCase(store.TxRunner(), store.Repos(), logger.Nop())
	uc := NewMedicineBillUseCase(store.TxRunner(), store.Repos(), stock, logger.Nop())
	return billFixture{store: store, uc: uc, franchise: f, patient: p, medicine: m}
}

func (fx billFixture) request(qty string) dto.CreateMedicineBillRequest {
	return dto.CreateMedicineBillRequest{
		PatientID:   fx.patient.ID,
		PaymentMode: entity.PaymentCash,
		Items:       []dto.BillItemRequest{{MedicineID: fx.medicine.ID, Quantity: apptest.Dec(qty)}},
	}
}

func TestCreateBill_AsignaLotesFEFOYEmiteRecibo(t *testing.T) {
	fx := newBillFixture(t)

	bill, err := fx.uc.Create(context.Background(), apptest.DoctorActor(fx.franchise.ID), fx.request("6"))
	require.NoError(t, err)

	require.Len(t, bill.Items, 2)
	assert.Equal(t, "PRONTO", bill.Items[0].BatchNo)
	assert.True(t, bill.Items[0].Quantity.Equal(apptest.Dec("4")))
	assert.Equal(t, "TARDE", bill.Items[1].BatchNo)
	assert.True(t, bill.NetTotal.Equal(apptest.Dec("60")))
	assert.True(t, bill.TaxTotal.Equal(apptest.Dec("7.2")))
	assert.True(t, bill.GrandTotal.Equal(apptest.Dec("67.2")))
	assert.Equal(t, "NOR-B-000001", bill.BillNo)
	assert.Equal(t, "NOR-R-000001", bill.ReceiptNo)

	assert.True(t, fx.store.Balance(fx.franchise.ID, fx.medicine.ID).Equal(apptest.Dec("8")))
	receipts := fx.store.Receipts()
	require.Len(t, receipts, 1)
	assert.Equal(t, entity.ReceiptMedicineBill, receipts[0].Kind)
	assert.True(t, receipts[0].Amount.Equal(apptest.Dec("67.2")))
	for _, l := range fx.store.Ledger() {
		assert.Equal(t, entity.LedgerBillOut, l.Type)
		assert.Equal(t, bill.ID, l.ReferenceID)
	}
}

func TestCreateBill_SinStockNoDejaRastros(t *testing.T) {
	fx := newBillFixture(t)

	_, err := fx.uc.Create(context.Background(), apptest.FranchiseActor(fx.franchise.ID), fx.request("20"))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, fx.store.Balance(fx.franchise.ID, fx.medicine.ID).Equal(apptest.Dec("14")))
	assert.Empty(t, fx.store.Receipts())
	assert.Empty(t, fx.store.Ledger())
}

func TestCreateBill_PacienteDeOtraFranquicia(t *testing.T) {
	fx := newBillFixture(t)
	other := fx.store.AddFranchise("SUR")
	foreign := fx.store.AddPatient(other.ID, "Luis", "")
	req := fx.request("1")
	req.PatientID = foreign.ID

	_, err := fx.uc.Create(context.Background(), apptest.FranchiseActor(fx.franchise.ID), req)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreateBill_LoteIndicadoYTarifaManual(t *testing.T) {
	fx := newBillFixture(t)
	rate := apptest.Dec("8")
	req := fx.request("3")
	req.Items[0].BatchNo = "TARDE"
	req.Items[0].Rate = &rate
	req.Discount = apptest.Dec("4")

	bill, err := fx.uc.Create(context.Background(), apptest.FranchiseActor(fx.franchise.ID), req)
	require.NoError(t, err)
	require.Len(t, bill.Items, 1)
	assert.Equal(t, "TARDE", bill.Items[0].BatchNo)
	assert.True(t, bill.NetTotal.Equal(apptest.Dec("24")))
	assert.True(t, bill.GrandTotal.Equal(apptest.Dec("22.88")), "24 - 4 + 2.88")
	assert.True(t, fx.store.BatchQty(fx.franchise.ID, fx.medicine.ID, "TARDE").Equal(apptest.Dec("7")))
}

func TestCancelBill_RestauraStockYAnulaRecibo(t *testing.T) {
	fx := newBillFixture(t)
	ctx := context.Background()
	actor := apptest.FranchiseActor(fx.franchise.ID)
	bill, err := fx.uc.Create(ctx, actor, fx.request("6"))
	require.NoError(t, err)

	_, err = fx.uc.Cancel(ctx, apptest.DoctorActor(fx.franchise.ID), bill.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	res, err := fx.uc.Cancel(ctx, actor, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BillCancelled, res.Status)
	assert.True(t, fx.store.BatchQty(fx.franchise.ID, fx.medicine.ID, "PRONTO").Equal(apptest.Dec("4")))
	assert.True(t, fx.store.Balance(fx.franchise.ID, fx.medicine.ID).Equal(apptest.Dec("14")))
	assert.True(t, fx.store.Receipts()[0].Cancelled)

	_, err = fx.uc.Cancel(ctx, actor, bill.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestListBills_Alcance(t *testing.T) {
	fx := newBillFixture(t)
	ctx := context.Background()
	_, err := fx.uc.Create(ctx, apptest.FranchiseActor(fx.franchise.ID), fx.request("1"))
	require.NoError(t, err)

	res, err := fx.uc.List(ctx, apptest.FranchiseActor(fx.franchise.ID), BillQuery{})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)

	res, err = fx.uc.List(ctx, apptest.FranchiseActor("otra"), BillQuery{})
	require.NoError(t, err)
	assert.Empty(t, res.Items)

	_, err = fx.uc.List(ctx, apptest.FranchiseActor("otra"), BillQuery{FranchiseID: fx.franchise.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDownloadBillPDF(t *testing.T) {
	fx := newBillFixture(t)
	ctx := context.Background()
	bill, err := fx.uc.Create(ctx, apptest.FranchiseActor(fx.franchise.ID), fx.request("2"))
	require.NoError(t, err)

	gen := &apptest.PDF{}
	pdf, name, err := NewPDFUseCase(fx.store.Repos(), gen).DownloadBillPDF(ctx, apptest.FranchiseActor(fx.franchise.ID), bill.ID)
	require.NoError(t, err)
	assert.Equal(t, "factura_NOR-B-000001.pdf", name)
	assert.NotEmpty(t, pdf)
	require.NotNil(t, gen.LastBill)
	assert.Equal(t, "NOR-R-000001", gen.LastBill.ReceiptNo)
	assert.Equal(t, "Medicamento IBU", gen.LastBill.MedicineNames[fx.medicine.ID])

	_, _, err = NewPDFUseCase(fx.store.Repos(), gen).DownloadBillPDF(ctx, apptest.FranchiseActor("otra"), bill.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreateBill_DescuentaStockEnOrdenDeMedicamento(t *testing.T) {
	fx := newBillFixture(t)
	other := fx.store.AddMedicine("AMX", apptest.Dec("20"), apptest.Dec("0"), apptest.Dec("0"))
	fx.store.AddStock(fx.franchise.ID, other.ID, "A1", apptest.Dec("5"), apptest.Dec("9"), nil)

	first, second := fx.medicine.ID, other.ID
	if second < first {
		first, second = second, first
	}
	req := fx.request("1")
	req.Items = []dto.BillItemRequest{
		{MedicineID: second, Quantity: apptest.Dec("1")},
		{MedicineID: first, Quantity: apptest.Dec("1")},
	}
	_, err := fx.uc.Create(context.Background(), apptest.DoctorActor(fx.franchise.ID), req)
	require.NoError(t, err)

	ledger := fx.store.Ledger()
	require.Len(t, ledger, 2)
	assert.Equal(t, first, ledger[0].MedicineID)
	assert.Equal(t, second, ledger[1].MedicineID)
	assert.Equal(t, second, req.Items[0].MedicineID, "el request del cliente no se reordena")
}
