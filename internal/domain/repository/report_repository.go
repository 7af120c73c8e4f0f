package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de entrada del libro diario.
const (
	DayBookConsultation = "consultation"
	DayBookMedicineBill = "medicine_bill"
)

// DayBookRow fila cruda del libro diario (consultas + facturas de medicamentos).
type DayBookRow struct {
	Date        time.Time
	Kind        string // consultation | medicine_bill
	ReferenceID string
	Number      string // bill_no; vacío en consultas
	FranchiseID string
	PatientName string
	TeamName    string
	PaymentMode string
	Amount      decimal.Decimal
}

// ActivityMetrics conteos y totales de actividad clínica de un período.
type ActivityMetrics struct {
	Appointments       int
	Consultations      int
	ConsultationAmount decimal.Decimal
	Bills              int
	BillAmount         decimal.Decimal
}

// TopMedicineResult medicamento más vendido a pacientes en el período.
type TopMedicineResult struct {
	MedicineID   string
	Code         string
	Name         string
	QuantitySold decimal.Decimal
	Revenue      decimal.Decimal
}

// ReportRepository consultas de lectura para reportes y dashboard.
// franchiseID vacío = todas las franquicias (solo admin).
type ReportRepository interface {
	// DayBook devuelve consultas y facturas vigentes del rango [from, to], ordenadas por fecha.
	DayBook(ctx context.Context, franchiseID string, from, to time.Time) ([]DayBookRow, error)

	// Activity devuelve conteos de citas, consultas y facturas del rango.
	// Usa COALESCE para devolver cero si no hay registros.
	Activity(ctx context.Context, franchiseID string, from, to time.Time) (ActivityMetrics, error)

	// TopMedicines devuelve los `limit` medicamentos con más unidades facturadas.
	TopMedicines(ctx context.Context, franchiseID string, from, to time.Time, limit int) ([]TopMedicineResult, error)
}
