package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clinic-franchise-api/internal/domain"
)

func TestActor_ResolveFranchise(t *testing.T) {
	admin := Actor{UserID: "u1", Role: RoleAdmin}
	doc := Actor{UserID: "u2", FranchiseID: "f1", Role: RoleDoctor}

	id, err := admin.ResolveFranchise("")
	require.NoError(t, err)
	assert.Empty(t, id, "admin sin filtro ve todas las franquicias")

	id, err = admin.ResolveFranchise("f9")
	require.NoError(t, err)
	assert.Equal(t, "f9", id)

	id, err = doc.ResolveFranchise("")
	require.NoError(t, err)
	assert.Equal(t, "f1", id)

	_, err = doc.ResolveFranchise("f2")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestActor_RequireFranchise_AdminSinFranquicia(t *testing.T) {
	_, err := Actor{Role: RoleAdmin}.RequireFranchise("")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "franchise_id")
}

func TestSale_ComputeTotals(t *testing.T) {
	s := &Sale{Details: []SaleDetail{
		{MedicineID: "m1", Quantity: decimal.NewFromInt(10), Rate: decimal.NewFromInt(5), TaxRate: decimal.NewFromInt(12)},
		{MedicineID: "m2", Quantity: decimal.NewFromInt(2), Rate: decimal.RequireFromString("7.50"), TaxRate: decimal.Zero},
		{MedicineID: "m1", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(5), TaxRate: decimal.NewFromInt(12)},
	}}
	s.ComputeTotals()

	assert.True(t, s.NetTotal.Equal(decimal.NewFromInt(70)), "neto = 50 + 15 + 5")
	assert.True(t, s.TaxTotal.Equal(decimal.RequireFromString("6.6")), "impuesto = 6 + 0 + 0.6")
	assert.True(t, s.GrandTotal.Equal(decimal.RequireFromString("76.6")))

	q := s.QuantitiesByMedicine()
	assert.True(t, q["m1"].Equal(decimal.NewFromInt(11)))
	assert.True(t, q["m2"].Equal(decimal.NewFromInt(2)))
}

func TestMedicineBill_DescuentoNoDejaNegativo(t *testing.T) {
	b := &MedicineBill{
		Discount: decimal.NewFromInt(500),
		Items:    []MedicineBillItem{{Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(100), TaxRate: decimal.Zero}},
	}
	b.ComputeTotals()
	assert.True(t, b.GrandTotal.IsZero())
}

func TestAppointment_Overlaps(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	a := &Appointment{StartAt: base, DurationMinutes: 30}

	assert.True(t, Overlaps(a.StartAt, a.EndAt(), base.Add(15*time.Minute), base.Add(45*time.Minute)))
	assert.False(t, Overlaps(a.StartAt, a.EndAt(), base.Add(30*time.Minute), base.Add(60*time.Minute)),
		"una cita que empieza justo al terminar otra no se solapa")
}

func TestPatientCode(t *testing.T) {
	assert.Equal(t, "DEL-000042", PatientCode("DEL", 42))
}
