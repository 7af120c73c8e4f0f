package sales

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

type salesFixture struct {
	store      *apptest.Store
	sales      *SaleUseCase
	transports *TransportUseCase
	pdf        *apptest.PDF
	franchise  entity.Franchise
	med        entity.Medicine
	other      entity.Medicine
}

func newSalesFixture(t *testing.T) salesFixture {
	t.Helper()
	store := apptest.NewStore()
	f := store.AddFranchise("NOR")
	med := store.AddMedicine("IBU", apptest.Dec("10"), apptest.Dec("12"), apptest.Dec("0"))
	other := store.AddMedicine("AMX", apptest.Dec("20"), apptest.Dec("5"), apptest.Dec("0"))
	soon := time.Now().AddDate(0, 2, 0)
	late := time.Now().AddDate(1, 0, 0)
	store.AddStock(entity.OwnerCentral, med.ID, "C-LATE", apptest.Dec("50"), apptest.Dec("6"), &late)
	store.AddStock(entity.OwnerCentral, med.ID, "C-SOON", apptest.Dec("5"), apptest.Dec("6"), &soon)
	store.AddStock(entity.OwnerCentral, other.ID, "A1", apptest.Dec("20"), apptest.Dec("15"), &late)

	stock := inventory.NewStockUseCase(store.TxRunner(), store.Repos(), logger.Nop())
	pdf := &apptest.PDF{}
	return salesFixture{
		store:      store,
		sales:      NewSaleUseCase(store.TxRunner(), store.Repos(), logger.Nop()),
		transports: NewTransportUseCase(store.TxRunner(), store.Repos(), stock, pdf, logger.Nop()),
		pdf:        pdf,
		franchise:  f,
		med:        med,
		other:      other,
	}
}

func (fx salesFixture) createSale(t *testing.T) *dto.SaleResponse {
	t.Helper()
	rate := apptest.Dec("8")
	sale, err := fx.sales.Create(context.Background(), apptest.Admin(), dto.CreateSaleRequest{
		FranchiseID: fx.franchise.ID,
		Items: []dto.SaleItemRequest{
			{MedicineID: fx.med.ID, Quantity: apptest.Dec("10"), Rate: &rate},
			{MedicineID: fx.other.ID, Quantity: apptest.Dec("4")},
		},
	})
	require.NoError(t, err)
	return sale
}

func (fx salesFixture) dispatch(saleID string, items ...dto.TransportItemRequest) (*dto.TransportResponse, error) {
	return fx.transports.Create(context.Background(), apptest.Admin(), dto.CreateTransportRequest{SaleID: saleID, Items: items})
}

func TestSaleCreate_TotalesYNumero(t *testing.T) {
	fx := newSalesFixture(t)
	sale := fx.createSale(t)

	assert.Equal(t, "INV-000001", sale.InvoiceNo)
	assert.Equal(t, entity.DispatchPending, sale.DispatchStatus)
	// 10*8=80 (12%: 9.6) + 4*20=80 (5%: 4)
	assert.True(t, sale.NetTotal.Equal(apptest.Dec("160")))
	assert.True(t, sale.TaxTotal.Equal(apptest.Dec("13.6")))
	assert.True(t, sale.GrandTotal.Equal(apptest.Dec("173.6")))

	_, err := fx.sales.Create(context.Background(), apptest.FranchiseActor(fx.franchise.ID), dto.CreateSaleRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestTransportCreate_FEFODesdeCentralYEstadoParcial(t *testing.T) {
	fx := newSalesFixture(t)
	sale := fx.createSale(t)

	tr, err := fx.dispatch(sale.ID, dto.TransportItemRequest{MedicineID: fx.med.ID, Quantity: apptest.Dec("7")})
	require.NoError(t, err)
	assert.Equal(t, "DSP-000001", tr.DispatchNo)
	assert.Equal(t, fx.franchise.ID, tr.FranchiseID)
	require.Len(t, tr.Items, 2)
	assert.Equal(t, "C-SOON", tr.Items[0].BatchNo)
	assert.True(t, tr.Items[0].Quantity.Equal(apptest.Dec("5")))
	assert.Equal(t, "C-LATE", tr.Items[1].BatchNo)
	assert.True(t, tr.Items[1].Rate.Equal(apptest.Dec("8")), "tarifa de la venta")

	assert.True(t, fx.store.Balance(entity.OwnerCentral, fx.med.ID).Equal(apptest.Dec("48")))
	assert.Equal(t, entity.DispatchPartial, fx.store.Sale(sale.ID).DispatchStatus)

	got, err := fx.sales.GetByID(context.Background(), apptest.FranchiseActor(fx.franchise.ID), sale.ID)
	require.NoError(t, err)
	for _, l := range got.Items {
		if l.MedicineID == fx.med.ID {
			assert.True(t, l.Dispatched.Equal(apptest.Dec("7")))
			assert.True(t, l.Remaining.Equal(apptest.Dec("3")))
			assert.Equal(t, "Medicamento IBU", l.MedicineName)
		}
	}
}

func TestTransportCreate_ExcedePendiente(t *testing.T) {
	fx := newSalesFixture(t)
	sale := fx.createSale(t)
	_, err := fx.dispatch(sale.ID, dto.TransportItemRequest{MedicineID: fx.med.ID, Quantity: apptest.Dec("6")})
	require.NoError(t, err)

	_, err = fx.dispatch(sale.ID,
		dto.TransportItemRequest{MedicineID: fx.med.ID, Quantity: apptest.Dec("3")},
		dto.TransportItemRequest{MedicineID: fx.med.ID, Quantity: apptest.Dec("2")},
	)
	assert.ErrorIs(t, err, domain.ErrExceedsRemaining)
	assert.True(t, fx.store.Balance(entity.OwnerCentral, fx.med.ID).Equal(apptest.Dec("49")))
}

func TestTransportCreate_SinStockCentralRevierte(t *testing.T) {
	fx := newSalesFixture(t)
	sale := fx.createSale(t)
	_, err := fx.dispatch(sale.ID, dto.TransportItemRequest{MedicineID: fx.med.ID, BatchNo: "C-SOON", Quantity: apptest.Dec("6")})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, entity.DispatchPending, fx.store.Sale(sale.ID).DispatchStatus)
	assert.Empty(t, fx.store.Ledger())
}

func TestTransportReceiveYCancel(t *testing.T) {
	fx := newSalesFixture(t)
	ctx := context.Background()
	sale := fx.createSale(t)
	full, err := fx.dispatch(sale.ID,
		dto.TransportItemRequest{MedicineID: fx.med.ID, BatchNo: "C-LATE", Quantity: apptest.Dec("10")},
		dto.TransportItemRequest{MedicineID: fx.other.ID, Quantity: apptest.Dec("4")},
	)
	require.NoError(t, err)
	assert.Equal(t, entity.DispatchDispatched, fx.store.Sale(sale.ID).DispatchStatus)

	// la franquicia recibe
	_, err = fx.transports.Receive(ctx, apptest.FranchiseActor("otra"), full.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	got, err := fx.transports.Receive(ctx, apptest.FranchiseActor(fx.franchise.ID), full.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransportDelivered, got.Status)
	require.NotNil(t, got.ReceivedAt)
	assert.True(t, fx.store.BatchQty(fx.franchise.ID, fx.med.ID, "C-LATE").Equal(apptest.Dec("10")))

	// un despacho recibido ya no se anula
	_, err = fx.transports.Cancel(ctx, apptest.Admin(), full.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = fx.transports.Receive(ctx, apptest.FranchiseActor(fx.franchise.ID), full.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestTransportCancel_DevuelveStockYLiberaPendiente(t *testing.T) {
	fx := newSalesFixture(t)
	ctx := context.Background()
	sale := fx.createSale(t)
	tr, err := fx.dispatch(sale.ID, dto.TransportItemRequest{MedicineID: fx.med.ID, Quantity: apptest.Dec("10")})
	require.NoError(t, err)

	_, err = fx.transports.Cancel(ctx, apptest.FranchiseActor(fx.franchise.ID), tr.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	res, err := fx.transports.Cancel(ctx, apptest.Admin(), tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransportCancelled, res.Status)
	assert.True(t, fx.store.Balance(entity.OwnerCentral, fx.med.ID).Equal(apptest.Dec("55")))
	assert.True(t, fx.store.BatchQty(entity.OwnerCentral, fx.med.ID, "C-SOON").Equal(apptest.Dec("5")))
	assert.Equal(t, entity.DispatchPending, fx.store.Sale(sale.ID).DispatchStatus)

	_, err = fx.dispatch(sale.ID, dto.TransportItemRequest{MedicineID: fx.med.ID, Quantity: apptest.Dec("10")})
	assert.NoError(t, err, "lo anulado vuelve a estar pendiente")
}

func TestSaleUpdateYDelete(t *testing.T) {
	fx := newSalesFixture(t)
	ctx := context.Background()
	sale := fx.createSale(t)
	_, err := fx.dispatch(sale.ID, dto.TransportItemRequest{MedicineID: fx.med.ID, Quantity: apptest.Dec("6")})
	require.NoError(t, err)

	_, err = fx.sales.Update(ctx, apptest.Admin(), sale.ID, dto.UpdateSaleRequest{Items: []dto.SaleItemRequest{
		{MedicineID: fx.med.ID, Quantity: apptest.Dec("5")},
	}})
	assert.ErrorIs(t, err, domain.ErrConflict, "no puede quedar por debajo de lo despachado")

	updated, err := fx.sales.Update(ctx, apptest.Admin(), sale.ID, dto.UpdateSaleRequest{Items: []dto.SaleItemRequest{
		{MedicineID: fx.med.ID, Quantity: apptest.Dec("6")},
	}})
	require.NoError(t, err)
	assert.Equal(t, entity.DispatchDispatched, updated.DispatchStatus)
	assert.True(t, updated.NetTotal.Equal(apptest.Dec("60")), "6 x tarifa de catálogo 10")

	assert.ErrorIs(t, fx.sales.Delete(ctx, apptest.Admin(), sale.ID), domain.ErrConflict)

	fresh := fx.createSale(t)
	require.NoError(t, fx.sales.Delete(ctx, apptest.Admin(), fresh.ID))
	_, err = fx.sales.GetByID(ctx, apptest.Admin(), fresh.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaleDelete_DespachoAnuladoTambienBloquea(t *testing.T) {
	fx := newSalesFixture(t)
	ctx := context.Background()
	sale := fx.createSale(t)
	tr, err := fx.dispatch(sale.ID, dto.TransportItemRequest{MedicineID: fx.med.ID, Quantity: apptest.Dec("4")})
	require.NoError(t, err)
	_, err = fx.transports.Cancel(ctx, apptest.Admin(), tr.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, fx.sales.Delete(ctx, apptest.Admin(), sale.ID), domain.ErrConflict)
	_, err = fx.sales.GetByID(ctx, apptest.Admin(), sale.ID)
	assert.NoError(t, err)
}

func TestChallanPDF(t *testing.T) {
	fx := newSalesFixture(t)
	sale := fx.createSale(t)
	tr, err := fx.dispatch(sale.ID, dto.TransportItemRequest{MedicineID: fx.other.ID, Quantity: apptest.Dec("2")})
	require.NoError(t, err)

	pdf, name, err := fx.transports.ChallanPDF(context.Background(), apptest.FranchiseActor(fx.franchise.ID), tr.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, "guia_DSP-000001.pdf", name)
	require.NotNil(t, fx.pdf.LastChallan)
	assert.Equal(t, sale.InvoiceNo, fx.pdf.LastChallan.Sale.InvoiceNo)
	assert.Equal(t, "Medicamento AMX", fx.pdf.LastChallan.MedicineNames[fx.other.ID])
}
