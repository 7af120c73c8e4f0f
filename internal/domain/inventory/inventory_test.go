package inventory

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func day(y int, m time.Month, dd int) *time.Time {
	t := time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	// 10 uds a 100 + 10 uds a 200 = 150
	got := CostCalculator(d(10), d(100), d(10), d(200))
	assert.True(t, got.Equal(d(150)), "got %s", got)
}

func TestCostCalculator_SinStockPrevio(t *testing.T) {
	got := CostCalculator(decimal.Zero, decimal.Zero, d(5), d(40))
	assert.True(t, got.Equal(d(40)))
}

func TestCostCalculator_SumaNoPositiva(t *testing.T) {
	assert.True(t, CostCalculator(decimal.Zero, d(10), decimal.Zero, d(10)).IsZero())
}

func TestAllocateFEFO_VencimientoMasProximoPrimero(t *testing.T) {
	batches := []entity.StockBatchBalance{
		{BatchNo: "B-LATE", ExpiryDate: day(2027, 6, 1), Quantity: d(10)},
		{BatchNo: "B-NONE", ExpiryDate: nil, Quantity: d(10)},
		{BatchNo: "B-SOON", ExpiryDate: day(2026, 12, 1), Quantity: d(4)},
	}
	out, err := AllocateFEFO(batches, d(12), time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "B-SOON", out[0].BatchNo)
	assert.True(t, out[0].Quantity.Equal(d(4)))
	assert.Equal(t, "B-LATE", out[1].BatchNo)
	assert.True(t, out[1].Quantity.Equal(d(8)))

	assert.Equal(t, "B-LATE", batches[0].BatchNo, "no debe reordenar el slice de entrada")
}

func TestAllocateFEFO_OmiteVencidos(t *testing.T) {
	batches := []entity.StockBatchBalance{
		{BatchNo: "OLD", ExpiryDate: day(2026, 1, 1), Quantity: d(100)},
		{BatchNo: "OK", ExpiryDate: day(2027, 1, 1), Quantity: d(3)},
	}
	_, err := AllocateFEFO(batches, d(5), time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestAllocateFEFO_CantidadInvalida(t *testing.T) {
	_, err := AllocateFEFO(nil, decimal.Zero, time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSortFEFO_SinVencimientoAlFinal(t *testing.T) {
	batches := []entity.StockBatchBalance{
		{BatchNo: "Z", ExpiryDate: nil},
		{BatchNo: "A", ExpiryDate: day(2028, 1, 1)},
		{BatchNo: "B", ExpiryDate: day(2027, 1, 1)},
	}
	SortFEFO(batches)
	assert.Equal(t, []string{"B", "A", "Z"}, []string{batches[0].BatchNo, batches[1].BatchNo, batches[2].BatchNo})
}

func TestExpired(t *testing.T) {
	asOf := time.Date(2026, 10, 18, 15, 30, 0, 0, time.UTC)
	assert.False(t, Expired(entity.StockBatchBalance{BatchNo: "SIN"}, asOf))
	assert.False(t, Expired(entity.StockBatchBalance{ExpiryDate: day(2026, 10, 18)}, asOf), "vence hoy: todavía sirve")
	assert.True(t, Expired(entity.StockBatchBalance{ExpiryDate: day(2026, 10, 17)}, asOf))
}
