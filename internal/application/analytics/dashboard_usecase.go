// Package analytics contiene los casos de uso del libro diario, el reporte de stock y el
// dashboard de actividad de las clínicas.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
)

const dashboardTopMedicines = 5 // número de medicamentos en el widget del dashboard

// DashboardUseCase genera el resumen de actividad del día y del mes en curso.
//
// Fuente de datos: ReportRepository y StockRepository (consultas read-only).
type DashboardUseCase struct {
	reportRepo repository.ReportRepository
	stockRepo  repository.StockRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(reportRepo repository.ReportRepository, stockRepo repository.StockRepository) *DashboardUseCase {
	return &DashboardUseCase{reportRepo: reportRepo, stockRepo: stockRepo}
}

// GetSummary construye el DashboardSummaryDTO de la franquicia (o de toda la red para el admin).
//
// Cuatro llamadas en paralelo:
//  1. Activity(hoy)              → citas, consultas, facturas e ingreso del día
//  2. Activity(mes)              → ingresos del mes por consultas y medicamentos
//  3. TopMedicines(mes, top 5)   → TopMedicines
//  4. ListBalances(bajo mínimo)  → LowStockItems (central para el admin)
func (uc *DashboardUseCase) GetSummary(
	ctx context.Context,
	actor entity.Actor,
	franchiseID string,
) (*dto.DashboardSummaryDTO, error) {
	fid, err := actor.ResolveFranchise(franchiseID)
	if err != nil {
		return nil, err
	}
	owner := fid
	if owner == "" {
		owner = entity.OwnerCentral
	}
	now := time.Now()

	// ── Rangos de fecha ────────────────────────────────────────────────────────
	// Hoy: 00:00:00.000 – 23:59:59.999
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)

	// Mes en curso: día 1 a las 00:00 – hoy a las 23:59:59
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := todayEnd

	// ── Goroutines para paralelizar las 4 consultas DB ────────────────────────
	type activityResult struct {
		m   repository.ActivityMetrics
		err error
	}
	type topResult struct {
		rows []repository.TopMedicineResult
		err  error
	}
	type lowResult struct {
		count int
		err   error
	}

	todayCh := make(chan activityResult, 1)
	monthCh := make(chan activityResult, 1)
	topCh := make(chan topResult, 1)
	lowCh := make(chan lowResult, 1)

	go func() {
		m, err := uc.reportRepo.Activity(ctx, fid, todayStart, todayEnd)
		todayCh <- activityResult{m, err}
	}()
	go func() {
		m, err := uc.reportRepo.Activity(ctx, fid, monthStart, monthEnd)
		monthCh <- activityResult{m, err}
	}()
	go func() {
		rows, err := uc.reportRepo.TopMedicines(ctx, fid, monthStart, monthEnd, dashboardTopMedicines)
		topCh <- topResult{rows, err}
	}()
	go func() {
		_, total, err := uc.stockRepo.ListBalances(ctx, repository.ListFilter{Owner: owner, LowStockOnly: true, Limit: 1})
		lowCh <- lowResult{total, err}
	}()

	today := <-todayCh
	month := <-monthCh
	top := <-topCh
	low := <-lowCh

	if today.err != nil {
		return nil, fmt.Errorf("dashboard: actividad de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: actividad del mes: %w", month.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("dashboard: top medicamentos: %w", top.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo mínimo: %w", low.err)
	}

	// ── Construir DTO ──────────────────────────────────────────────────────────
	topMeds := make([]dto.TopMedicineDTO, 0, len(top.rows))
	for _, r := range top.rows {
		topMeds = append(topMeds, dto.TopMedicineDTO{
			MedicineID:   r.MedicineID,
			Code:         r.Code,
			Name:         r.Name,
			QuantitySold: r.QuantitySold,
			Revenue:      r.Revenue.Round(2),
		})
	}
	return &dto.DashboardSummaryDTO{
		TodayAppointments:        today.m.Appointments,
		TodayConsultations:       today.m.Consultations,
		TodayBills:               today.m.Bills,
		TodayRevenue:             today.m.ConsultationAmount.Add(today.m.BillAmount).Round(2),
		MonthConsultationRevenue: month.m.ConsultationAmount.Round(2),
		MonthMedicineRevenue:     month.m.BillAmount.Round(2),
		MonthRevenue:             month.m.ConsultationAmount.Add(month.m.BillAmount).Round(2),
		TopMedicines:             topMeds,
		LowStockItems:            low.count,
		DateLabel:                monthLabel(now),
	}, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
