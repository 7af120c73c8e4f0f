package usecase

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

func newCatalog(store *apptest.Store, cache *apptest.Cache) *CatalogUseCase {
	return NewCatalogUseCase(store.Repos(), cache, logger.Nop())
}

func TestMedicineOptions_CacheEInvalidacion(t *testing.T) {
	store := apptest.NewStore()
	cache := apptest.NewCache()
	uc := newCatalog(store, cache)
	ctx := context.Background()

	_, err := uc.CreateMedicine(ctx, apptest.Admin(), dto.MedicineRequest{Name: "Paracetamol", Code: "para", MRP: apptest.Dec("10")})
	require.NoError(t, err)
	assert.False(t, cache.Has(CacheKeyMedicineOptions))

	opts, err := uc.MedicineOptions(ctx)
	require.NoError(t, err)
	require.Len(t, opts, 1)
	assert.Equal(t, "PARA", opts[0].Code)
	assert.True(t, cache.Has(CacheKeyMedicineOptions))

	opts, err = uc.MedicineOptions(ctx)
	require.NoError(t, err)
	require.Len(t, opts, 1)
	assert.True(t, opts[0].Price.Equal(apptest.Dec("10")))
	assert.Equal(t, 1, cache.Hits)

	_, err = uc.CreateMedicine(ctx, apptest.Admin(), dto.MedicineRequest{Name: "Ibuprofeno", Code: "ibu", MRP: apptest.Dec("8")})
	require.NoError(t, err)
	assert.False(t, cache.Has(CacheKeyMedicineOptions), "una escritura invalida la lista")

	opts, err = uc.MedicineOptions(ctx)
	require.NoError(t, err)
	assert.Len(t, opts, 2)
}

func TestMedicineOptions_CacheCaidaNoRompeLectura(t *testing.T) {
	store := apptest.NewStore()
	store.AddMedicine("PARA", apptest.Dec("10"), apptest.Dec("0"), apptest.Dec("0"))
	cache := apptest.NewCache()
	cache.Fails = true

	opts, err := newCatalog(store, cache).MedicineOptions(context.Background())
	require.NoError(t, err)
	assert.Len(t, opts, 1)
}

func TestOptions_ListaVaciaNoEsNull(t *testing.T) {
	opts, err := newCatalog(apptest.NewStore(), apptest.NewCache()).ServiceOptions(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, opts)
	assert.Empty(t, opts)
}

func TestCatalog_EscriturasSoloAdmin(t *testing.T) {
	store := apptest.NewStore()
	uc := newCatalog(store, apptest.NewCache())
	ctx := context.Background()
	actor := apptest.FranchiseActor("f1")

	_, err := uc.CreateMedicine(ctx, actor, dto.MedicineRequest{Name: "X", Code: "X1"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.CreateService(ctx, actor, dto.ServiceRequest{Name: "X", Code: "X1"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.CreatePackage(ctx, actor, dto.PackageRequest{Name: "X", Code: "X1"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateMedicine_NoTocaCostoPromedio(t *testing.T) {
	store := apptest.NewStore()
	m := store.AddMedicine("PARA", apptest.Dec("10"), apptest.Dec("0"), apptest.Dec("0"))
	require.NoError(t, store.Repos().Medicines.UpdateAvgCost(context.Background(), m.ID, apptest.Dec("4.5")))

	res, err := newCatalog(store, apptest.NewCache()).UpdateMedicine(context.Background(), apptest.Admin(), m.ID,
		dto.MedicineRequest{Name: "Paracetamol 500", Code: "PARA", MRP: apptest.Dec("12"), Status: entity.StatusInactive})
	require.NoError(t, err)
	assert.Equal(t, "Paracetamol 500", res.Name)
	assert.True(t, res.AvgCost.Equal(apptest.Dec("4.5")))
	assert.Equal(t, entity.StatusInactive, res.Status)
}

func TestCreatePackage_ServiciosDebenExistir(t *testing.T) {
	store := apptest.NewStore()
	uc := newCatalog(store, apptest.NewCache())
	ctx := context.Background()

	svc, err := uc.CreateService(ctx, apptest.Admin(), dto.ServiceRequest{Name: "Fisioterapia", Code: "fisio", Charge: apptest.Dec("30")})
	require.NoError(t, err)

	pkg, err := uc.CreatePackage(ctx, apptest.Admin(), dto.PackageRequest{
		Name: "Plan 10", Code: "p10", Price: apptest.Dec("250"), ServiceIDs: []string{svc.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, pkg.Sessions)
	assert.Equal(t, []string{svc.ID}, pkg.ServiceIDs)

	_, err = uc.CreatePackage(ctx, apptest.Admin(), dto.PackageRequest{
		Name: "Plan X", Code: "px", Price: apptest.Dec("10"), ServiceIDs: []string{"6f1d2a3b-4c5d-4e6f-8a9b-0c1d2e3f4a5b"},
	})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "service_ids")
}

func TestDeleteMedicine_ConStockEsConflicto(t *testing.T) {
	store := apptest.NewStore()
	m := store.AddMedicine("PARA", apptest.Dec("10"), apptest.Dec("0"), apptest.Dec("0"))
	store.AddStock(entity.OwnerCentral, m.ID, "L1", apptest.Dec("5"), apptest.Dec("2"), nil)

	err := newCatalog(store, apptest.NewCache()).DeleteMedicine(context.Background(), apptest.Admin(), m.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}
