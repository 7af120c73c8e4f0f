package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clinic-franchise-api/internal/application/apptest"
	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
)

type reportFixture struct {
	store *apptest.Store
	uc    *ReportUseCase
	pdf   *apptest.PDF
	xlsx  *apptest.XLSX
	nor   entity.Franchise
	sur   entity.Franchise
}

func newReportFixture(t *testing.T) reportFixture {
	t.Helper()
	store := apptest.NewStore()
	nor := store.AddFranchise("NOR")
	sur := store.AddFranchise("SUR")
	ana := store.AddPatient(nor.ID, "Ana", "")
	luis := store.AddPatient(sur.ID, "Luis", "")
	team := store.AddTeam(nor.ID, "Dra. Rojas", apptest.Dec("500"))

	store.AddConsultation(entity.Consultation{
		FranchiseID: nor.ID, PatientID: ana.ID, TeamID: team.ID,
		Date: apptest.Day(2030, 1, 10), NetAmount: apptest.Dec("400"), PaymentMode: entity.PaymentCash,
	})
	store.AddBill(entity.MedicineBill{
		FranchiseID: nor.ID, PatientID: ana.ID, BillNo: "NOR-B-000001",
		BillDate: apptest.Day(2030, 1, 9), GrandTotal: apptest.Dec("67.2"), PaymentMode: entity.PaymentCard,
	})
	store.AddBill(entity.MedicineBill{
		FranchiseID: nor.ID, PatientID: ana.ID, BillNo: "NOR-B-000002", Status: entity.BillCancelled,
		BillDate: apptest.Day(2030, 1, 10), GrandTotal: apptest.Dec("99"), PaymentMode: entity.PaymentCash,
	})
	store.AddBill(entity.MedicineBill{
		FranchiseID: sur.ID, PatientID: luis.ID, BillNo: "SUR-B-000001",
		BillDate: apptest.Day(2030, 1, 10), GrandTotal: apptest.Dec("30"), PaymentMode: entity.PaymentCash,
	})
	store.AddConsultation(entity.Consultation{
		FranchiseID: nor.ID, PatientID: ana.ID, TeamID: team.ID,
		Date: apptest.Day(2030, 1, 12), NetAmount: apptest.Dec("999"), PaymentMode: entity.PaymentCash,
	})

	pdf, xlsx := &apptest.PDF{}, &apptest.XLSX{}
	return reportFixture{
		store: store,
		uc:    NewReportUseCase(store.Report(), store.Repos(), pdf, xlsx, logger.Nop()),
		pdf:   pdf,
		xlsx:  xlsx,
		nor:   nor,
		sur:   sur,
	}
}

func TestDayBook_TotalesPorFormaDePago(t *testing.T) {
	fx := newReportFixture(t)

	book, err := fx.uc.DayBook(context.Background(), apptest.FranchiseActor(fx.nor.ID), DayBookQuery{From: "2030-01-09", To: "2030-01-10"})
	require.NoError(t, err)

	require.Len(t, book.Entries, 2, "excluye facturas anuladas, otras franquicias y fuera de rango")
	assert.Equal(t, repository.DayBookMedicineBill, book.Entries[0].Kind)
	assert.Equal(t, "NOR-B-000001", book.Entries[0].Number)
	assert.Equal(t, repository.DayBookConsultation, book.Entries[1].Kind)
	assert.Equal(t, "Dra. Rojas", book.Entries[1].TeamName)

	assert.True(t, book.TotalsByMode[entity.PaymentCash].Equal(apptest.Dec("400")))
	assert.True(t, book.TotalsByMode[entity.PaymentCard].Equal(apptest.Dec("67.2")))
	assert.True(t, book.TotalsByMode[entity.PaymentUPI].IsZero())
	assert.True(t, book.ConsultationTotal.Equal(apptest.Dec("400")))
	assert.True(t, book.MedicineTotal.Equal(apptest.Dec("67.2")))
	assert.True(t, book.GrandTotal.Equal(apptest.Dec("467.2")))
}

func TestDayBook_AdminVeTodaLaRed(t *testing.T) {
	fx := newReportFixture(t)
	book, err := fx.uc.DayBook(context.Background(), apptest.Admin(), DayBookQuery{From: "2030-01-10", To: "2030-01-10"})
	require.NoError(t, err)
	assert.Len(t, book.Entries, 2)
	assert.True(t, book.GrandTotal.Equal(apptest.Dec("430")))
}

func TestDayBook_Errores(t *testing.T) {
	fx := newReportFixture(t)
	ctx := context.Background()

	_, err := fx.uc.DayBook(ctx, apptest.FranchiseActor(fx.nor.ID), DayBookQuery{FranchiseID: fx.sur.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = fx.uc.DayBook(ctx, apptest.Admin(), DayBookQuery{From: "2030-01-10", To: "2030-01-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = fx.uc.DayBook(ctx, apptest.Admin(), DayBookQuery{From: "10/01/2030"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = fx.uc.DayBook(ctx, apptest.Admin(), DayBookQuery{From: "2028-01-01", To: "2030-01-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDayBook_DefaultHoy(t *testing.T) {
	fx := newReportFixture(t)
	book, err := fx.uc.DayBook(context.Background(), apptest.Admin(), DayBookQuery{})
	require.NoError(t, err)
	y, m, d := time.Now().Date()
	assert.Equal(t, time.Date(y, m, d, 0, 0, 0, 0, time.UTC), book.From)
	assert.Equal(t, book.From, book.To)
	assert.NotNil(t, book.Entries)
}

func TestDayBookExports(t *testing.T) {
	fx := newReportFixture(t)
	ctx := context.Background()
	q := DayBookQuery{From: "2030-01-09", To: "2030-01-10"}

	pdf, name, err := fx.uc.DayBookPDF(ctx, apptest.FranchiseActor(fx.nor.ID), q)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, "libro_diario_2030-01-09_2030-01-10.pdf", name)
	assert.Equal(t, "Libro diario - Clínica NOR", fx.pdf.LastTitle)

	_, name, err = fx.uc.DayBookXLSX(ctx, apptest.Admin(), q)
	require.NoError(t, err)
	assert.Equal(t, "libro_diario_2030-01-09_2030-01-10.xlsx", name)
	require.NotNil(t, fx.xlsx.LastDayBook)
	assert.Len(t, fx.xlsx.LastDayBook.Entries, 3)
}

func TestStockReport(t *testing.T) {
	fx := newReportFixture(t)
	ctx := context.Background()
	low := fx.store.AddMedicine("IBU", apptest.Dec("10"), apptest.Dec("12"), apptest.Dec("20"))
	ok := fx.store.AddMedicine("AMX", apptest.Dec("20"), apptest.Dec("5"), apptest.Dec("5"))
	fx.store.AddStock(fx.nor.ID, low.ID, "L1", apptest.Dec("10"), apptest.Dec("6"), nil)
	fx.store.AddStock(fx.nor.ID, ok.ID, "L1", apptest.Dec("50"), apptest.Dec("1.5"), nil)
	fx.store.AddStock(entity.OwnerCentral, ok.ID, "C1", apptest.Dec("500"), apptest.Dec("1.5"), nil)

	report, err := fx.uc.StockReport(ctx, apptest.FranchiseActor(fx.nor.ID), "")
	require.NoError(t, err)
	assert.Equal(t, fx.nor.ID, report.Owner)
	assert.Len(t, report.Items, 2)
	assert.Equal(t, 1, report.LowStock)
	assert.True(t, report.TotalValue.Equal(apptest.Dec("135")), "10*6 + 50*1.5")

	_, err = fx.uc.StockReport(ctx, apptest.FranchiseActor(fx.nor.ID), entity.OwnerCentral)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, name, err := fx.uc.StockXLSX(ctx, apptest.Admin(), "")
	require.NoError(t, err)
	assert.Contains(t, name, "stock_central_")
	require.NotNil(t, fx.xlsx.LastStock)
	assert.True(t, fx.xlsx.LastStock.TotalValue.Equal(apptest.Dec("750")))
}
