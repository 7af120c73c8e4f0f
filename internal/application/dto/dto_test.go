package dto

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clinic-franchise-api/internal/domain"
)

func TestPageQuery_Normalize(t *testing.T) {
	q := PageQuery{Page: 0, PerPage: 500, Order: " ASC "}
	q.Normalize()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, MaxPerPage, q.PerPage)
	assert.Equal(t, "asc", q.Order)
	assert.Equal(t, 0, q.Offset())

	q = PageQuery{Page: 3, Order: "cualquiera"}
	q.Normalize()
	assert.Equal(t, DefaultPerPage, q.PerPage)
	assert.Equal(t, "desc", q.Order)
	assert.Equal(t, 40, q.Offset())
}

func TestNewListResponse(t *testing.T) {
	q := PageQuery{Page: 2, PerPage: 20}
	resp := NewListResponse[string](nil, q, 41)
	assert.NotNil(t, resp.Items, "items nunca debe serializar como null")
	assert.Equal(t, 3, resp.Page.TotalPages)
	assert.Equal(t, 41, resp.Page.Total)
}

func TestValidate_CamposAnidados(t *testing.T) {
	req := CreateSaleRequest{
		FranchiseID: "no-es-uuid",
		Items: []SaleItemRequest{
			{MedicineID: "8d5e9a5e-4a7e-4f5b-9a51-0f3c1a2b3c4d", Quantity: decimal.NewFromInt(2)},
			{MedicineID: "8d5e9a5e-4a7e-4f5b-9a51-0f3c1a2b3c4d", Quantity: decimal.Zero},
		},
	}
	err := req.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "franchise_id")
	assert.Contains(t, ve.Fields, "items.1.quantity")
	assert.NotContains(t, ve.Fields, "items.0.quantity")
}

func TestValidate_CredencialesOpcionales(t *testing.T) {
	req := CreateFranchiseRequest{Name: "Clínica Norte", Code: "NOR1"}
	assert.NoError(t, req.Validate())

	req.LoginCredentials = LoginCredentials{Email: "norte@clinic.test"}
	err := req.Validate()
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "login_password")
}

func TestValidate_ReciboPaqueteExigeReferencia(t *testing.T) {
	req := CreateReceiptRequest{
		PatientID:   "8d5e9a5e-4a7e-4f5b-9a51-0f3c1a2b3c4d",
		Kind:        "package",
		Amount:      decimal.NewFromInt(100),
		PaymentMode: "cash",
	}
	var ve *domain.ValidationError
	require.True(t, errors.As(req.Validate(), &ve))
	assert.Contains(t, ve.Fields, "reference_id")
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-02-28")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, 28, d.Day())

	d, err = ParseDate("")
	assert.NoError(t, err)
	assert.Nil(t, d)

	_, err = ParseDate("28/02/2026")
	assert.Error(t, err)
}
