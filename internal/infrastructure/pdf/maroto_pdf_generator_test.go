package pdf

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/internal/application/ports"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
)

func sampleFranchise() entity.Franchise {
	return entity.Franchise{ID: "f1", Name: "Clínica Norte", Code: "NOR", City: "Pune", Phone: "555-0101"}
}

func TestBillPDF(t *testing.T) {
	g := NewMarotoPDFGenerator("es")
	bill := entity.MedicineBill{
		BillNo:      "NOR-B-000001",
		BillDate:    time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		PaymentMode: entity.PaymentCash,
		Status:      entity.BillPaid,
		Items: []entity.MedicineBillItem{
			{MedicineID: "m1", BatchNo: "L1", Quantity: decimal.NewFromInt(2), Rate: decimal.NewFromInt(150), TaxRate: decimal.NewFromInt(5)},
		},
	}
	bill.ComputeTotals()

	out, err := g.BillPDF(ports.BillDocument{
		Franchise:     sampleFranchise(),
		Patient:       entity.Patient{Name: "Ana Pérez", Code: "NOR-000001"},
		Bill:          bill,
		MedicineNames: map[string]string{"m1": "Arnica 30C"},
		ReceiptNo:     "NOR-R-000001",
	})
	require.NoError(t, err)
	assert.True(t, len(out) > 4)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestChallanPDF(t *testing.T) {
	g := NewMarotoPDFGenerator("es")
	expiry := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	out, err := g.ChallanPDF(ports.ChallanDocument{
		Franchise: sampleFranchise(),
		Sale:      entity.Sale{InvoiceNo: "INV-000007"},
		Transport: entity.Transport{
			DispatchNo:   "DSP-000003",
			DispatchDate: time.Now(),
			Status:       entity.TransportDispatched,
			Details: []entity.TransportDetail{
				{MedicineID: "m1", BatchNo: "L1", ExpiryDate: &expiry, Quantity: decimal.NewFromInt(10), Rate: decimal.NewFromInt(80)},
				{MedicineID: "m2", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(5)},
			},
		},
		MedicineNames: map[string]string{"m1": "Arnica 30C"},
	})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestDayBookPDF_SinMovimientos(t *testing.T) {
	g := NewMarotoPDFGenerator("es")
	book := dto.DayBookResponse{
		From:         time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		To:           time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		TotalsByMode: map[string]decimal.Decimal{},
	}
	out, err := g.DayBookPDF(book, "Libro diario")
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestMoneyUsaSeparadoresDelIdioma(t *testing.T) {
	g := NewMarotoPDFGenerator("en")
	assert.Equal(t, "1,234.50", g.money(decimal.RequireFromString("1234.5")))
}

func TestKindLabel(t *testing.T) {
	assert.Equal(t, "Consulta", kindLabel("consultation"))
	assert.Equal(t, "Medicamentos", kindLabel("medicine_bill"))
	assert.Equal(t, "otro", kindLabel("otro"))
}
