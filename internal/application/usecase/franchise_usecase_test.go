package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clinic-franchise-api/internal/application/apptest"
	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
)

func newFranchiseUC(store *apptest.Store) *FranchiseUseCase {
	return NewFranchiseUseCase(store.TxRunner(), store.Repos().Franchises, logger.Nop())
}

func TestFranchiseCreate_ConUsuarioEnLaMismaTransaccion(t *testing.T) {
	store := apptest.NewStore()
	uc := newFranchiseUC(store)

	res, err := uc.Create(context.Background(), apptest.Admin(), dto.CreateFranchiseRequest{
		Name: "Clínica Norte", Code: "nor",
		LoginCredentials: dto.LoginCredentials{Email: "norte@clinic.test", Password: "secreta123"},
	})
	require.NoError(t, err)
	assert.Equal(t, "NOR", res.Code)
	assert.Equal(t, entity.StatusActive, res.Status)
	require.NotEmpty(t, res.UserID)

	users := store.Users()
	require.Len(t, users, 1)
	assert.Equal(t, res.ID, users[0].FranchiseID)
	assert.Equal(t, entity.RoleFranchise, users[0].Role)
	assert.Equal(t, 1, store.TxCount)
}

func TestFranchiseCreate_EmailDuplicadoRevierteFranquicia(t *testing.T) {
	store := apptest.NewStore()
	store.AddUser(entity.User{Email: "norte@clinic.test", Role: entity.RoleAdmin})
	uc := newFranchiseUC(store)

	_, err := uc.Create(context.Background(), apptest.Admin(), dto.CreateFranchiseRequest{
		Name: "Clínica Norte", Code: "NOR",
		LoginCredentials: dto.LoginCredentials{Email: "norte@clinic.test", Password: "secreta123"},
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	list, err := uc.List(context.Background(), apptest.Admin(), dto.PageQuery{}, "")
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestFranchiseCreate_CodigoDuplicado(t *testing.T) {
	store := apptest.NewStore()
	store.AddFranchise("NOR")
	_, err := newFranchiseUC(store).Create(context.Background(), apptest.Admin(), dto.CreateFranchiseRequest{Name: "Otra", Code: "nor"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestFranchise_Permisos(t *testing.T) {
	store := apptest.NewStore()
	own := store.AddFranchise("NOR")
	other := store.AddFranchise("SUR")
	uc := newFranchiseUC(store)
	ctx := context.Background()
	actor := apptest.FranchiseActor(own.ID)

	_, err := uc.Create(ctx, actor, dto.CreateFranchiseRequest{Name: "X", Code: "XX"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := uc.GetByID(ctx, actor, own.ID)
	require.NoError(t, err)
	assert.Equal(t, "NOR", got.Code)

	_, err = uc.GetByID(ctx, actor, other.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.List(ctx, actor, dto.PageQuery{}, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestFranchiseUpdate_NoCambiaCodigo(t *testing.T) {
	store := apptest.NewStore()
	f := store.AddFranchise("NOR")
	name, status := "  Nuevo nombre ", entity.StatusInactive

	res, err := newFranchiseUC(store).Update(context.Background(), apptest.Admin(), f.ID, dto.UpdateFranchiseRequest{Name: &name, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "Nuevo nombre", res.Name)
	assert.Equal(t, "NOR", res.Code)
	assert.Equal(t, entity.StatusInactive, res.Status)
}

func TestFranchiseDelete_ConPacientesEsConflicto(t *testing.T) {
	store := apptest.NewStore()
	f := store.AddFranchise("NOR")
	store.AddPatient(f.ID, "Ana", "")

	err := newFranchiseUC(store).Delete(context.Background(), apptest.Admin(), f.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}
