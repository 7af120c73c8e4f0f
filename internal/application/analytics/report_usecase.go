package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/internal/application/inventory"
	"github.com/jhoicas/clinic-franchise-api/internal/application/ports"
	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
)

// maxDayBookDays rango máximo del libro diario en una consulta.
const maxDayBookDays = 366

// DayBookQuery parámetros de GET /api/reports/day-book (fechas YYYY-MM-DD, por defecto hoy).
type DayBookQuery struct {
	FranchiseID string
	From        string
	To          string
}

// ReportUseCase libro diario y reporte de existencias, con sus exportaciones PDF y XLSX.
type ReportUseCase struct {
	reportRepo repository.ReportRepository
	repos      repository.Repos
	pdf        ports.PDFGenerator
	xlsx       ports.SpreadsheetExporter
	log        *logger.Logger
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	reportRepo repository.ReportRepository,
	repos repository.Repos,
	pdf ports.PDFGenerator,
	xlsx ports.SpreadsheetExporter,
	log *logger.Logger,
) *ReportUseCase {
	return &ReportUseCase{reportRepo: reportRepo, repos: repos, pdf: pdf, xlsx: xlsx, log: log.Component("reports")}
}

// DayBook combina consultas y facturas vigentes del rango, ordenadas por fecha,
// con totales por forma de pago y por tipo.
func (uc *ReportUseCase) DayBook(ctx context.Context, actor entity.Actor, q DayBookQuery) (*dto.DayBookResponse, error) {
	fid, err := actor.ResolveFranchise(q.FranchiseID)
	if err != nil {
		return nil, err
	}
	from, to, err := dayRange(q.From, q.To)
	if err != nil {
		return nil, err
	}
	rows, err := uc.reportRepo.DayBook(ctx, fid, from, to.Add(24*time.Hour-time.Nanosecond))
	if err != nil {
		return nil, fmt.Errorf("libro diario: %w", err)
	}

	book := &dto.DayBookResponse{
		From:              from,
		To:                to,
		FranchiseID:       fid,
		Entries:           make([]dto.DayBookEntry, 0, len(rows)),
		TotalsByMode:      make(map[string]decimal.Decimal, len(entity.PaymentModes)),
		ConsultationTotal: decimal.Zero,
		MedicineTotal:     decimal.Zero,
		GrandTotal:        decimal.Zero,
	}
	for _, mode := range entity.PaymentModes {
		book.TotalsByMode[mode] = decimal.Zero
	}
	for _, r := range rows {
		book.Entries = append(book.Entries, dto.DayBookEntry{
			Date:        r.Date,
			Kind:        r.Kind,
			ReferenceID: r.ReferenceID,
			Number:      r.Number,
			FranchiseID: r.FranchiseID,
			PatientName: r.PatientName,
			TeamName:    r.TeamName,
			PaymentMode: r.PaymentMode,
			Amount:      r.Amount,
		})
		book.TotalsByMode[r.PaymentMode] = book.TotalsByMode[r.PaymentMode].Add(r.Amount)
		switch r.Kind {
		case repository.DayBookConsultation:
			book.ConsultationTotal = book.ConsultationTotal.Add(r.Amount)
		case repository.DayBookMedicineBill:
			book.MedicineTotal = book.MedicineTotal.Add(r.Amount)
		}
		book.GrandTotal = book.GrandTotal.Add(r.Amount)
	}
	return book, nil
}

// dayRange interpreta from/to (inclusive); vacíos son hoy.
func dayRange(fromS, toS string) (time.Time, time.Time, error) {
	from, errFrom := dto.ParseDate(fromS)
	to, errTo := dto.ParseDate(toS)
	errs := map[string]string{}
	if errFrom != nil {
		errs["from"] = "formato esperado YYYY-MM-DD"
	}
	if errTo != nil {
		errs["to"] = "formato esperado YYYY-MM-DD"
	}
	if len(errs) > 0 {
		return time.Time{}, time.Time{}, domain.NewValidationError(errs)
	}
	y, m, d := time.Now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if from == nil {
		from = &today
	}
	if to == nil {
		to = from
	}
	if to.Before(*from) {
		return time.Time{}, time.Time{}, domain.NewValidationError(map[string]string{"to": "debe ser posterior o igual a from"})
	}
	if to.Sub(*from) > maxDayBookDays*24*time.Hour {
		return time.Time{}, time.Time{}, domain.NewValidationError(map[string]string{"to": fmt.Sprintf("rango máximo %d días", maxDayBookDays)})
	}
	return *from, *to, nil
}

// DayBookPDF libro diario imprimible.
func (uc *ReportUseCase) DayBookPDF(ctx context.Context, actor entity.Actor, q DayBookQuery) ([]byte, string, error) {
	book, err := uc.DayBook(ctx, actor, q)
	if err != nil {
		return nil, "", err
	}
	title, err := uc.title(ctx, book.FranchiseID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.pdf.DayBookPDF(*book, title)
	if err != nil {
		return nil, "", fmt.Errorf("libro diario: generación PDF: %w", err)
	}
	return pdf, dayBookFilename(book, "pdf"), nil
}

// DayBookXLSX libro diario como hoja de cálculo.
func (uc *ReportUseCase) DayBookXLSX(ctx context.Context, actor entity.Actor, q DayBookQuery) ([]byte, string, error) {
	book, err := uc.DayBook(ctx, actor, q)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.xlsx.DayBookXLSX(*book)
	if err != nil {
		return nil, "", fmt.Errorf("libro diario: generación XLSX: %w", err)
	}
	return data, dayBookFilename(book, "xlsx"), nil
}

func (uc *ReportUseCase) title(ctx context.Context, franchiseID string) (string, error) {
	if franchiseID == "" {
		return "Libro diario - Todas las franquicias", nil
	}
	f, err := uc.repos.Franchises.GetByID(ctx, franchiseID)
	if err != nil {
		return "", err
	}
	if f == nil {
		return "", domain.ErrNotFound
	}
	return "Libro diario - " + f.Name, nil
}

func dayBookFilename(book *dto.DayBookResponse, ext string) string {
	return fmt.Sprintf("libro_diario_%s_%s.%s", book.From.Format(dto.DateLayout), book.To.Format(dto.DateLayout), ext)
}

// StockReport existencias completas del dueño (central o franquicia) con valorización.
func (uc *ReportUseCase) StockReport(ctx context.Context, actor entity.Actor, owner string) (*dto.StockReportResponse, error) {
	owner, err := inventory.ResolveOwner(actor, owner)
	if err != nil {
		return nil, err
	}
	rows, _, err := uc.repos.Stock.ListBalances(ctx, repository.ListFilter{Owner: owner, Sort: "name", Order: "asc"})
	if err != nil {
		return nil, fmt.Errorf("reporte de stock: %w", err)
	}
	report := &dto.StockReportResponse{
		Owner:      owner,
		Items:      make([]dto.StockBalanceResponse, 0, len(rows)),
		TotalValue: decimal.Zero,
	}
	for _, r := range rows {
		report.Items = append(report.Items, dto.ToStockBalanceResponse(r))
		report.TotalValue = report.TotalValue.Add(r.Quantity.Mul(r.AvgCost))
		if r.IsLow() {
			report.LowStock++
		}
	}
	report.TotalValue = report.TotalValue.Round(2)
	return report, nil
}

// StockXLSX reporte de stock como hoja de cálculo.
func (uc *ReportUseCase) StockXLSX(ctx context.Context, actor entity.Actor, owner string) ([]byte, string, error) {
	report, err := uc.StockReport(ctx, actor, owner)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.xlsx.StockXLSX(*report)
	if err != nil {
		return nil, "", fmt.Errorf("reporte de stock: generación XLSX: %w", err)
	}
	uc.log.Debug().Str("owner", report.Owner).Int("rows", len(report.Items)).Msg("reporte de stock exportado")
	return data, fmt.Sprintf("stock_%s_%s.xlsx", report.Owner, time.Now().Format("20060102")), nil
}
