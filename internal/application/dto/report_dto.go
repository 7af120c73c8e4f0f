package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DayBookEntry fila del libro diario.
type DayBookEntry struct {
	Date        time.Time       `json:"date"`
	Kind        string          `json:"kind"`
	ReferenceID string          `json:"reference_id"`
	Number      string          `json:"number,omitempty"`
	FranchiseID string          `json:"franchise_id"`
	PatientName string          `json:"patient_name"`
	TeamName    string          `json:"team_name,omitempty"`
	PaymentMode string          `json:"payment_mode"`
	Amount      decimal.Decimal `json:"amount"`
}

// DayBookResponse respuesta de GET /api/reports/day-book.
type DayBookResponse struct {
	From              time.Time                  `json:"from"`
	To                time.Time                  `json:"to"`
	FranchiseID       string                     `json:"franchise_id,omitempty"`
	Entries           []DayBookEntry             `json:"entries"`
	TotalsByMode      map[string]decimal.Decimal `json:"totals_by_payment_mode"`
	ConsultationTotal decimal.Decimal            `json:"consultation_total"`
	MedicineTotal     decimal.Decimal            `json:"medicine_total"`
	GrandTotal        decimal.Decimal            `json:"grand_total"`
}

// StockReportResponse respuesta de GET /api/reports/stock.
type StockReportResponse struct {
	Owner      string                 `json:"owner"`
	Items      []StockBalanceResponse `json:"items"`
	TotalValue decimal.Decimal        `json:"total_value"` // sum(quantity * avg_cost)
	LowStock   int                    `json:"low_stock"`
}

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	// Actividad del día actual (00:00 – 23:59)
	TodayAppointments  int             `json:"today_appointments"`
	TodayConsultations int             `json:"today_consultations"`
	TodayBills         int             `json:"today_bills"`
	TodayRevenue       decimal.Decimal `json:"today_revenue"`

	// Mes en curso (día 1 – hoy)
	MonthConsultationRevenue decimal.Decimal `json:"month_consultation_revenue"`
	MonthMedicineRevenue     decimal.Decimal `json:"month_medicine_revenue"`
	MonthRevenue             decimal.Decimal `json:"month_revenue"`

	TopMedicines  []TopMedicineDTO `json:"top_medicines"`
	LowStockItems int              `json:"low_stock_items"`
	DateLabel     string           `json:"date_label"` // ej: "Octubre 2026"
}

// TopMedicineDTO medicamento del widget del dashboard.
type TopMedicineDTO struct {
	MedicineID   string          `json:"medicine_id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	QuantitySold decimal.Decimal `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// UploadResponse archivo almacenado.
type UploadResponse struct {
	Name         string `json:"name"`
	OriginalName string `json:"original_name"`
	ContentType  string `json:"content_type"`
	Size         int64  `json:"size"`
	URL          string `json:"url"`
}
