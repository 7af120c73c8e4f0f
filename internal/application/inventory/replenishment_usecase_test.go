package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clinic-franchise-api/internal/application/apptest"
	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
)

func TestGenerateList_PriorizaPorConsumo(t *testing.T) {
	store := apptest.NewStore()
	f := store.AddFranchise("NOR")
	p := store.AddPatient(f.ID, "Ana", "")
	slow := store.AddMedicine("LENTO", apptest.Dec("10"), apptest.Dec("0"), apptest.Dec("10"))
	fast := store.AddMedicine("RAPIDO", apptest.Dec("10"), apptest.Dec("0"), apptest.Dec("10"))
	ok := store.AddMedicine("SOBRA", apptest.Dec("10"), apptest.Dec("0"), apptest.Dec("10"))
	store.AddStock(entity.OwnerCentral, slow.ID, "L1", apptest.Dec("2"), apptest.Dec("3"), nil)
	store.AddStock(entity.OwnerCentral, fast.ID, "L1", apptest.Dec("8"), apptest.Dec("3"), nil)
	store.AddStock(entity.OwnerCentral, ok.ID, "L1", apptest.Dec("50"), apptest.Dec("3"), nil)

	now := time.Now()
	require.NoError(t, store.Repos().Bills.Create(context.Background(), &entity.MedicineBill{
		ID: uuid.New().String(), FranchiseID: f.ID, PatientID: p.ID, BillNo: "B1",
		BillDate: now.AddDate(0, 0, -3), Status: entity.BillPaid,
		Items: []entity.MedicineBillItem{{MedicineID: fast.ID, Quantity: apptest.Dec("30"), Amount: apptest.Dec("300")}},
	}))

	uc := NewReplenishmentUseCase(store.Repos().Stock, store.Report())
	list, err := uc.GenerateList(context.Background(), apptest.Admin())
	require.NoError(t, err)
	require.Len(t, list, 2, "SOBRA está sobre el nivel de reorden")

	assert.Equal(t, fast.ID, list[0].MedicineID)
	assert.Equal(t, 1, list[0].Priority)
	assert.True(t, list[0].SuggestedQty.Equal(apptest.Dec("7")), "15 ideal - 8 actuales")
	assert.True(t, list[0].UnitsSoldLast90Days.Equal(apptest.Dec("30")))

	assert.Equal(t, slow.ID, list[1].MedicineID)
	assert.True(t, list[1].SuggestedQty.Equal(apptest.Dec("13")))
	assert.True(t, list[1].EstimatedCost.Equal(apptest.Dec("39")))
}

func TestGenerateList_SoloAdmin(t *testing.T) {
	store := apptest.NewStore()
	uc := NewReplenishmentUseCase(store.Repos().Stock, store.Report())
	_, err := uc.GenerateList(context.Background(), apptest.FranchiseActor("f1"))
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestGenerateList_IncluyeMedicamentosSinExistencia(t *testing.T) {
	store := apptest.NewStore()
	nuevo := store.AddMedicine("NUEVO", apptest.Dec("10"), apptest.Dec("0"), apptest.Dec("10"))
	inactivo := store.AddMedicine("BAJA", apptest.Dec("10"), apptest.Dec("0"), apptest.Dec("10"))
	inactivo.Status = entity.StatusInactive
	require.NoError(t, store.Repos().Medicines.Update(context.Background(), &inactivo))

	uc := NewReplenishmentUseCase(store.Repos().Stock, store.Report())
	list, err := uc.GenerateList(context.Background(), apptest.Admin())
	require.NoError(t, err)
	require.Len(t, list, 1, "los medicamentos inactivos no se reponen")
	assert.Equal(t, nuevo.ID, list[0].MedicineID)
	assert.True(t, list[0].CurrentStock.IsZero())
	assert.True(t, list[0].SuggestedQty.Equal(apptest.Dec("15")))
}
