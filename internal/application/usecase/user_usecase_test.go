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

func TestUserSetStatus(t *testing.T) {
	store := apptest.NewStore()
	f := store.AddFranchise("NOR")
	u := store.AddUser(entity.User{FranchiseID: f.ID, Email: "doc@clinic.test", Role: entity.RoleDoctor})
	uc := NewUserUseCase(store.Repos().Users, logger.Nop())
	ctx := context.Background()
	off := dto.UpdateUserStatusRequest{Status: entity.StatusInactive}

	_, err := uc.SetStatus(ctx, apptest.FranchiseActor(f.ID), u.ID, off)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	res, err := uc.SetStatus(ctx, apptest.Admin(), u.ID, off)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusInactive, res.Status)
	assert.Equal(t, entity.StatusInactive, store.Users()[0].Status)

	_, err = uc.SetStatus(ctx, apptest.Admin(), apptest.Admin().UserID, off)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.SetStatus(ctx, apptest.Admin(), "no-existe", dto.UpdateUserStatusRequest{Status: entity.StatusActive})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserGetByID_Alcance(t *testing.T) {
	store := apptest.NewStore()
	f := store.AddFranchise("NOR")
	u := store.AddUser(entity.User{FranchiseID: f.ID, Email: "doc@clinic.test", Role: entity.RoleDoctor})
	admin := store.AddUser(entity.User{Email: "root@clinic.test", Role: entity.RoleAdmin})
	uc := NewUserUseCase(store.Repos().Users, logger.Nop())
	ctx := context.Background()

	got, err := uc.GetByID(ctx, apptest.FranchiseActor(f.ID), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "doc@clinic.test", got.Email)

	_, err = uc.GetByID(ctx, apptest.FranchiseActor(f.ID), admin.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
