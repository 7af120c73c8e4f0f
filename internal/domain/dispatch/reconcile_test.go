package dispatch

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
)

func q(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func sampleSale() *entity.Sale {
	return &entity.Sale{ID: "s1", Details: []entity.SaleDetail{
		{MedicineID: "m1", Quantity: q(10)},
		{MedicineID: "m2", Quantity: q(5)},
	}}
}

func transport(status string, lines ...entity.TransportDetail) entity.Transport {
	return entity.Transport{Status: status, Details: lines}
}

func line(med string, qty int64) entity.TransportDetail {
	return entity.TransportDetail{MedicineID: med, Quantity: q(qty)}
}

func TestReconcile_DentroDeLoPendiente(t *testing.T) {
	prev := []entity.Transport{transport(entity.TransportDispatched, line("m1", 4))}
	req, err := Reconcile(sampleSale(), prev, []entity.TransportDetail{line("m1", 3), line("m1", 3), line("m2", 5)})
	require.NoError(t, err)
	assert.True(t, req["m1"].Equal(q(6)), "las líneas del mismo medicamento se agregan")
	assert.True(t, req["m2"].Equal(q(5)))
}

func TestReconcile_ExcedePendiente(t *testing.T) {
	prev := []entity.Transport{transport(entity.TransportDelivered, line("m1", 8))}
	_, err := Reconcile(sampleSale(), prev, []entity.TransportDetail{line("m1", 2), line("m1", 1)})
	assert.ErrorIs(t, err, domain.ErrExceedsRemaining)
}

func TestReconcile_TransporteCanceladoNoCuenta(t *testing.T) {
	prev := []entity.Transport{transport(entity.TransportCancelled, line("m1", 10))}
	_, err := Reconcile(sampleSale(), prev, []entity.TransportDetail{line("m1", 10)})
	assert.NoError(t, err)
}

func TestReconcile_MedicamentoAjeno(t *testing.T) {
	_, err := Reconcile(sampleSale(), nil, []entity.TransportDetail{line("m9", 1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReconcile_SumaCero(t *testing.T) {
	_, err := Reconcile(sampleSale(), nil, []entity.TransportDetail{line("m1", 0)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = Reconcile(sampleSale(), nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestValidateSaleUpdate(t *testing.T) {
	prev := []entity.Transport{transport(entity.TransportDispatched, line("m1", 6))}

	reduced := &entity.Sale{Details: []entity.SaleDetail{{MedicineID: "m1", Quantity: q(5)}}}
	assert.ErrorIs(t, ValidateSaleUpdate(reduced, prev), domain.ErrConflict)

	dropped := &entity.Sale{Details: []entity.SaleDetail{{MedicineID: "m2", Quantity: q(5)}}}
	assert.ErrorIs(t, ValidateSaleUpdate(dropped, prev), domain.ErrConflict)

	ok := &entity.Sale{Details: []entity.SaleDetail{{MedicineID: "m1", Quantity: q(6)}}}
	assert.NoError(t, ValidateSaleUpdate(ok, prev))
}

func TestStatusYSummarize(t *testing.T) {
	sale := sampleSale()
	assert.Equal(t, entity.DispatchPending, Status(Summarize(sale, nil)))

	partial := []entity.Transport{transport(entity.TransportDispatched, line("m1", 10))}
	lines := Summarize(sale, partial)
	require.Len(t, lines, 2)
	assert.Equal(t, "m1", lines[0].MedicineID)
	assert.True(t, lines[0].Remaining().IsZero())
	assert.True(t, lines[1].Remaining().Equal(q(5)))
	assert.Equal(t, entity.DispatchPartial, Status(lines))

	full := append(partial, transport(entity.TransportDelivered, line("m2", 5)))
	assert.Equal(t, entity.DispatchDispatched, Status(Summarize(sale, full)))
}
