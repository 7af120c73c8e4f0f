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
)

func TestDashboardSummary(t *testing.T) {
	store := apptest.NewStore()
	f := store.AddFranchise("NOR")
	p := store.AddPatient(f.ID, "Ana", "")
	team := store.AddTeam(f.ID, "Dra. Rojas", apptest.Dec("500"))
	med := store.AddMedicine("IBU", apptest.Dec("10"), apptest.Dec("12"), apptest.Dec("20"))
	store.AddStock(f.ID, med.ID, "L1", apptest.Dec("5"), apptest.Dec("6"), nil)

	y, m, d := time.Now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	store.AddAppointment(entity.Appointment{FranchiseID: f.ID, PatientID: p.ID, TeamID: team.ID, StartAt: today.Add(9 * time.Hour), DurationMinutes: 15, Status: entity.AppointmentScheduled})
	store.AddAppointment(entity.Appointment{FranchiseID: f.ID, PatientID: p.ID, TeamID: team.ID, StartAt: today.Add(10 * time.Hour), DurationMinutes: 15, Status: entity.AppointmentCancelled})
	store.AddConsultation(entity.Consultation{FranchiseID: f.ID, PatientID: p.ID, TeamID: team.ID, Date: today, NetAmount: apptest.Dec("400"), PaymentMode: entity.PaymentCash})
	store.AddBill(entity.MedicineBill{
		FranchiseID: f.ID, PatientID: p.ID, BillDate: today, GrandTotal: apptest.Dec("22.4"), PaymentMode: entity.PaymentCash,
		Items: []entity.MedicineBillItem{{MedicineID: med.ID, BatchNo: "L1", Quantity: apptest.Dec("2"), Rate: apptest.Dec("10"), Amount: apptest.Dec("20")}},
	})

	uc := NewDashboardUseCase(store.Report(), store.Repos().Stock)
	sum, err := uc.GetSummary(context.Background(), apptest.FranchiseActor(f.ID), "")
	require.NoError(t, err)

	assert.Equal(t, 1, sum.TodayAppointments, "las canceladas no cuentan")
	assert.Equal(t, 1, sum.TodayConsultations)
	assert.Equal(t, 1, sum.TodayBills)
	assert.True(t, sum.TodayRevenue.Equal(apptest.Dec("422.4")))
	assert.True(t, sum.MonthConsultationRevenue.Equal(apptest.Dec("400")))
	assert.True(t, sum.MonthMedicineRevenue.Equal(apptest.Dec("22.4")))
	require.Len(t, sum.TopMedicines, 1)
	assert.Equal(t, "IBU", sum.TopMedicines[0].Code)
	assert.Equal(t, 1, sum.LowStockItems)
	assert.NotEmpty(t, sum.DateLabel)

	_, err = uc.GetSummary(context.Background(), apptest.FranchiseActor(f.ID), "otra")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "Febrero 2026", monthLabel(time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Diciembre 2030", monthLabel(time.Date(2030, 12, 31, 0, 0, 0, 0, time.UTC)))
}
