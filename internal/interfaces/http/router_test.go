package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clinic-franchise-api/internal/application/apptest"
	"github.com/jhoicas/clinic-franchise-api/internal/application/auth"
	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/internal/application/usecase"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	apphttp "github.com/jhoicas/clinic-franchise-api/internal/interfaces/http"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
	pkgjwt "github.com/jhoicas/clinic-franchise-api/pkg/jwt"
)

// newRouterApp arma la API completa sobre el store en memoria.
// Solo se construyen los casos de uso que ejercitan estos tests.
func newRouterApp(t *testing.T, store *apptest.Store) *fiber.App {
	t.Helper()
	repos := store.Repos()
	log := logger.Nop()
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:     auth.NewAuthUseCase(repos.Users, repos.Franchises, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer}, log),
		PatientUC:  usecase.NewPatientUseCase(store.TxRunner(), repos),
		JWTSecret:  testJWTSecret,
		LoginLimit: apphttp.RateLimiterConfig{RequestsPerSecond: 0.01, Burst: 2, IdleTTL: time.Minute},
		Logger:     log,
	})
	return app
}

func bearer(t *testing.T, actor entity.Actor) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, actor.UserID, actor.FranchiseID, actor.Role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func send(t *testing.T, app *fiber.App, method, path, auth, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Code
}

func TestRouter_RutaProtegidaSinToken(t *testing.T) {
	app := newRouterApp(t, apptest.NewStore())
	resp := send(t, app, http.MethodGet, "/api/patients", "", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", errorCode(t, resp))
}

func TestRouter_PacientesAcotadosALaFranquicia(t *testing.T) {
	store := apptest.NewStore()
	norte := store.AddFranchise("NOR")
	sur := store.AddFranchise("SUR")
	store.AddPatient(norte.ID, "Ana Pérez", "")
	store.AddPatient(norte.ID, "Luis Gómez", "")
	store.AddPatient(sur.ID, "Marta Ruiz", "")
	app := newRouterApp(t, store)

	resp := send(t, app, http.MethodGet, "/api/patients", bearer(t, apptest.DoctorActor(norte.ID)), "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list dto.ListResponse[dto.PatientResponse]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Equal(t, 2, list.Page.Total)
	for _, p := range list.Items {
		assert.Equal(t, norte.ID, p.FranchiseID)
	}

	other := send(t, app, http.MethodGet, "/api/patients?franchise_id="+sur.ID, bearer(t, apptest.DoctorActor(norte.ID)), "")
	defer other.Body.Close()
	assert.Equal(t, http.StatusForbidden, other.StatusCode)

	all := send(t, app, http.MethodGet, "/api/patients", bearer(t, apptest.Admin()), "")
	defer all.Body.Close()
	var adminList dto.ListResponse[dto.PatientResponse]
	require.NoError(t, json.NewDecoder(all.Body).Decode(&adminList))
	assert.Equal(t, 3, adminList.Page.Total)
}

func TestRouter_CrearPaciente(t *testing.T) {
	store := apptest.NewStore()
	norte := store.AddFranchise("NOR")
	app := newRouterApp(t, store)
	token := bearer(t, apptest.FranchiseActor(norte.ID))

	bad := send(t, app, http.MethodPost, "/api/patients", token, "{no es json")
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
	assert.Equal(t, "INVALID_BODY", errorCode(t, bad))

	invalid := send(t, app, http.MethodPost, "/api/patients", token, `{"name":""}`)
	defer invalid.Body.Close()
	assert.Equal(t, http.StatusBadRequest, invalid.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, invalid))

	ok := send(t, app, http.MethodPost, "/api/patients", token, `{"name":"Ana Pérez","gender":"female"}`)
	defer ok.Body.Close()
	require.Equal(t, http.StatusCreated, ok.StatusCode)
	var created dto.PatientResponse
	require.NoError(t, json.NewDecoder(ok.Body).Decode(&created))
	assert.Equal(t, norte.ID, created.FranchiseID)
	assert.Equal(t, "NOR-000001", created.Code)
}

func TestRouter_PacienteDeOtraFranquicia(t *testing.T) {
	store := apptest.NewStore()
	norte := store.AddFranchise("NOR")
	sur := store.AddFranchise("SUR")
	p := store.AddPatient(sur.ID, "Marta Ruiz", "")
	app := newRouterApp(t, store)

	resp := send(t, app, http.MethodGet, "/api/patients/"+p.ID, bearer(t, apptest.DoctorActor(norte.ID)), "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouter_RutasSoloAdmin(t *testing.T) {
	store := apptest.NewStore()
	norte := store.AddFranchise("NOR")
	app := newRouterApp(t, store)
	token := bearer(t, apptest.FranchiseActor(norte.ID))

	for _, path := range []string{"/api/sales", "/api/franchises", "/api/stock/replenishment"} {
		resp := send(t, app, http.MethodGet, path, token, "")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)
		resp.Body.Close()
	}
	resp := send(t, app, http.MethodPost, "/api/medicines", token, `{}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouter_LoginConLimitePorIP(t *testing.T) {
	app := newRouterApp(t, apptest.NewStore())
	body := `{"email":"nadie@clinic.test","password":"secreto123"}`

	for i := 0; i < 2; i++ {
		resp := send(t, app, http.MethodPost, "/api/auth/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	}
	resp := send(t, app, http.MethodPost, "/api/auth/login", "", body)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "RATE_LIMITED", errorCode(t, resp))
}
