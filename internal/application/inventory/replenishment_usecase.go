package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
)

// maxReplenishmentRows tope de medicamentos evaluados en una sola lista.
const maxReplenishmentRows = 1000

// ReplenishmentUseCase genera la lista de reposición del almacén central.
// Combina existencias bajo nivel de reorden con el consumo de pacientes de toda la red
// para priorizar los medicamentos críticos.
type ReplenishmentUseCase struct {
	stockRepo  repository.StockRepository
	reportRepo repository.ReportRepository
	now        func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(stockRepo repository.StockRepository, reportRepo repository.ReportRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{stockRepo: stockRepo, reportRepo: reportRepo, now: time.Now}
}

// GenerateList devuelve los medicamentos de la central en o bajo su nivel de reorden con la
// cantidad sugerida de compra (1.5 x reorden - existencia) y un ranking de prioridad.
func (uc *ReplenishmentUseCase) GenerateList(ctx context.Context, actor entity.Actor) ([]dto.ReplenishmentSuggestionDTO, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	// 1. Existencias bajo el nivel de reorden
	rows, _, err := uc.stockRepo.ListBalances(ctx, repository.ListFilter{
		Owner:        entity.OwnerCentral,
		LowStockOnly: true,
		Limit:        maxReplenishmentRows,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	// 2. Consumo de los últimos 90 días en todas las franquicias
	end := uc.now()
	start := end.AddDate(0, 0, -90)
	top, err := uc.reportRepo.TopMedicines(ctx, "", start, end, maxReplenishmentRows)
	if err != nil {
		return nil, err
	}
	soldByID := make(map[string]decimal.Decimal, len(top))
	for _, m := range top {
		soldByID[m.MedicineID] = m.QuantitySold
	}

	// 3. Sugerencias
	factor := decimal.NewFromFloat(1.5)
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(rows))
	for _, row := range rows {
		ideal := row.ReorderLevel.Mul(factor)
		qty := ideal.Sub(row.Quantity)
		if qty.IsNegative() {
			qty = decimal.Zero
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			MedicineID:          row.MedicineID,
			MedicineCode:        row.MedicineCode,
			MedicineName:        row.MedicineName,
			CurrentStock:        row.Quantity,
			ReorderLevel:        row.ReorderLevel,
			IdealStock:          ideal,
			SuggestedQty:        qty,
			AvgCost:             row.AvgCost,
			EstimatedCost:       qty.Mul(row.AvgCost).Round(2),
			UnitsSoldLast90Days: soldByID[row.MedicineID],
		})
	}

	// 4. Mayor consumo primero; desempate por mayor déficit bajo el reorden
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if !a.UnitsSoldLast90Days.Equal(b.UnitsSoldLast90Days) {
			return a.UnitsSoldLast90Days.GreaterThan(b.UnitsSoldLast90Days)
		}
		defA := a.ReorderLevel.Sub(a.CurrentStock)
		defB := b.ReorderLevel.Sub(b.CurrentStock)
		return defA.GreaterThan(defB)
	})

	// 5. Prioridad (1 = más urgente)
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
