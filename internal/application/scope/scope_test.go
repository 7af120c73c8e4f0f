package scope

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clinic-franchise-api/internal/application/apptest"
	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
)

func TestPatientYTeam_PertenenciaAFranquicia(t *testing.T) {
	store := apptest.NewStore()
	nor := store.AddFranchise("NOR")
	sur := store.AddFranchise("SUR")
	p := store.AddPatient(nor.ID, "Ana", "")
	tm := store.AddTeam(nor.ID, "Dr. X", apptest.Dec("10"))
	r := store.Repos()
	ctx := context.Background()

	got, err := Patient(ctx, r.Patients, nor.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = Patient(ctx, r.Patients, sur.ID, p.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = Patient(ctx, r.Patients, nor.ID, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = Team(ctx, r.Teams, nor.ID, tm.ID, true)
	assert.NoError(t, err)
	_, err = Team(ctx, r.Teams, sur.ID, tm.ID, false)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestFranchise_Inactiva(t *testing.T) {
	store := apptest.NewStore()
	f := store.AddFranchise("NOR")
	f.Status = entity.StatusInactive
	require.NoError(t, store.Repos().Franchises.Update(context.Background(), &f))

	_, err := Franchise(context.Background(), store.Repos().Franchises, f.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
