package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/clinic-franchise-api/internal/application/analytics"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
)

// ReportHandler libro diario y reporte de existencias (JSON, PDF y XLSX).
type ReportHandler struct {
	uc  *appanalytics.ReportUseCase
	log *logger.Logger
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *appanalytics.ReportUseCase, log *logger.Logger) *ReportHandler {
	return &ReportHandler{uc: uc, log: log}
}

func dayBookQuery(c *fiber.Ctx) appanalytics.DayBookQuery {
	return appanalytics.DayBookQuery{
		FranchiseID: c.Query("franchise_id"),
		From:        c.Query("from"),
		To:          c.Query("to"),
	}
}

// DayBook godoc
// @Summary      Libro diario
// @Description  Consultas y facturas vigentes del rango, ordenadas por fecha, con totales por forma de pago.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from          query  string  true   "Desde (YYYY-MM-DD)"
// @Param        to            query  string  true   "Hasta (YYYY-MM-DD)"
// @Param        franchise_id  query  string  false  "Solo admin; vacío = todas"
// @Success      200  {object}  dto.DayBookResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/reports/day-book [get]
func (h *ReportHandler) DayBook(c *fiber.Ctx) error {
	out, err := h.uc.DayBook(c.UserContext(), actorFrom(c), dayBookQuery(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// DayBookPDF GET /api/reports/day-book.pdf
func (h *ReportHandler) DayBookPDF(c *fiber.Ctx) error {
	data, filename, err := h.uc.DayBookPDF(c.UserContext(), actorFrom(c), dayBookQuery(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return sendFile(c, mimePDF, filename, data)
}

// DayBookXLSX GET /api/reports/day-book.xlsx
func (h *ReportHandler) DayBookXLSX(c *fiber.Ctx) error {
	data, filename, err := h.uc.DayBookXLSX(c.UserContext(), actorFrom(c), dayBookQuery(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return sendFile(c, mimeXLSX, filename, data)
}

// Stock GET /api/reports/stock?franchise_id=
func (h *ReportHandler) Stock(c *fiber.Ctx) error {
	out, err := h.uc.StockReport(c.UserContext(), actorFrom(c), owner(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// StockXLSX GET /api/reports/stock.xlsx
func (h *ReportHandler) StockXLSX(c *fiber.Ctx) error {
	data, filename, err := h.uc.StockXLSX(c.UserContext(), actorFrom(c), owner(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return sendFile(c, mimeXLSX, filename, data)
}

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc  *appanalytics.DashboardUseCase
	log *logger.Logger
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, log: log}
}

// GetSummary devuelve la actividad del día y los ingresos del mes en curso.
// GET /api/dashboard/summary[?franchise_id=]
//
// Respuesta: DashboardSummaryDTO (today_appointments, today_consultations, today_bills,
// today_revenue, month_*, top_medicines[5], low_stock_items, date_label).
// Las fechas se calculan en el servidor; el admin ve toda la red salvo que filtre.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext(), actorFrom(c), c.Query("franchise_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(summary)
}
