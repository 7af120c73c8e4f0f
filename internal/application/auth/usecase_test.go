package auth

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
	"github.com/jhoicas/clinic-franchise-api/pkg/jwt"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
)

const testSecret = "secreto-de-pruebas"

func newAuth(store *apptest.Store) *AuthUseCase {
	r := store.Repos()
	return NewAuthUseCase(r.Users, r.Franchises, JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "test"}, logger.Nop())
}

func seedUser(t *testing.T, store *apptest.Store, franchiseID, email, password, role string) entity.User {
	t.Helper()
	u, err := NewUser(franchiseID, email, password, "", role)
	require.NoError(t, err)
	return store.AddUser(*u)
}

func TestLogin_TokenConClaimsDeFranquicia(t *testing.T) {
	store := apptest.NewStore()
	f := store.AddFranchise("NOR")
	u := seedUser(t, store, f.ID, "doc@clinic.test", "secreta123", entity.RoleDoctor)

	res, err := newAuth(store).Login(context.Background(), dto.LoginRequest{Email: "DOC@clinic.test", Password: "secreta123"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)

	claims, err := jwt.Parse(testSecret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, f.ID, claims.FranchiseID)
	assert.Equal(t, entity.RoleDoctor, claims.Role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	store := apptest.NewStore()
	seedUser(t, store, "", "admin@clinic.test", "secreta123", entity.RoleAdmin)
	uc := newAuth(store)

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "admin@clinic.test", Password: "otra-cosa"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@clinic.test", Password: "otra-cosa"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_FranquiciaInactiva(t *testing.T) {
	store := apptest.NewStore()
	f := store.AddFranchise("NOR")
	f.Status = entity.StatusInactive
	require.NoError(t, store.Repos().Franchises.Update(context.Background(), &f))
	seedUser(t, store, f.ID, "fr@clinic.test", "secreta123", entity.RoleFranchise)

	_, err := newAuth(store).Login(context.Background(), dto.LoginRequest{Email: "fr@clinic.test", Password: "secreta123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestChangePassword(t *testing.T) {
	store := apptest.NewStore()
	u := seedUser(t, store, "", "admin@clinic.test", "secreta123", entity.RoleAdmin)
	uc := newAuth(store)
	actor := entity.Actor{UserID: u.ID, Role: entity.RoleAdmin}

	err := uc.ChangePassword(context.Background(), actor, dto.ChangePasswordRequest{CurrentPassword: "mala", NewPassword: "nueva-secreta"})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "current_password")

	require.NoError(t, uc.ChangePassword(context.Background(), actor, dto.ChangePasswordRequest{CurrentPassword: "secreta123", NewPassword: "nueva-secreta"}))
	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "admin@clinic.test", Password: "nueva-secreta"})
	assert.NoError(t, err)
}

func TestSeedAdmin_NoDuplica(t *testing.T) {
	store := apptest.NewStore()
	uc := newAuth(store)

	res, err := uc.SeedAdmin(context.Background(), "root@clinic.test", "secreta123", "Root")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, res.Role)
	assert.Empty(t, res.FranchiseID)

	_, err = uc.SeedAdmin(context.Background(), "root@clinic.test", "secreta123", "Root")
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}
