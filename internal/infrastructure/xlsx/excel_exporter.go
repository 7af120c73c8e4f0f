// Package xlsx exporta reportes a libros de Excel con excelize.
package xlsx

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/internal/application/ports"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
)

var _ ports.SpreadsheetExporter = (*ExcelExporter)(nil)

const (
	sheetDayBook = "Libro diario"
	sheetTotals  = "Totales"
	sheetStock   = "Existencias"
)

// ExcelExporter implementa ports.SpreadsheetExporter.
type ExcelExporter struct{}

func NewExcelExporter() *ExcelExporter { return &ExcelExporter{} }

// DayBookXLSX una hoja con los movimientos y otra con los totales por forma de pago.
func (e *ExcelExporter) DayBookXLSX(book dto.DayBookResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetDayBook); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	bold, err := headerStyle(f)
	if err != nil {
		return nil, err
	}

	w := sheetWriter{f: f, sheet: sheetDayBook}
	w.row(1, "Fecha", "Tipo", "Número", "Franquicia", "Paciente", "Equipo", "Forma de pago", "Monto")
	for i, entry := range book.Entries {
		w.row(i+2,
			entry.Date.Format("2006-01-02"),
			entry.Kind,
			entry.Number,
			entry.FranchiseID,
			entry.PatientName,
			entry.TeamName,
			entry.PaymentMode,
			amount(entry.Amount),
		)
	}
	w.style("A1", "H1", bold)
	w.widths(map[string]float64{"A": 12, "B": 14, "C": 16, "D": 38, "E": 28, "F": 18, "G": 14, "H": 14})

	if _, err := f.NewSheet(sheetTotals); err != nil {
		return nil, fmt.Errorf("xlsx: crear hoja: %w", err)
	}
	t := sheetWriter{f: f, sheet: sheetTotals}
	t.row(1, "Concepto", "Monto")
	r := 2
	for _, mode := range entity.PaymentModes {
		t.row(r, mode, amount(book.TotalsByMode[mode]))
		r++
	}
	t.row(r, "Consultas", amount(book.ConsultationTotal))
	t.row(r+1, "Medicamentos", amount(book.MedicineTotal))
	t.row(r+2, "Total", amount(book.GrandTotal))
	t.style("A1", "B1", bold)
	t.widths(map[string]float64{"A": 18, "B": 14})

	if w.err != nil {
		return nil, w.err
	}
	if t.err != nil {
		return nil, t.err
	}
	return toBytes(f)
}

// StockXLSX existencias del dueño con costo promedio y valor.
func (e *ExcelExporter) StockXLSX(report dto.StockReportResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetStock); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	bold, err := headerStyle(f)
	if err != nil {
		return nil, err
	}

	w := sheetWriter{f: f, sheet: sheetStock}
	w.row(1, "Código", "Medicamento", "Cantidad", "Costo promedio", "Valor", "Nivel de reorden", "Stock bajo")
	for i, it := range report.Items {
		low := ""
		if it.LowStock {
			low = "SÍ"
		}
		w.row(i+2,
			it.MedicineCode,
			it.MedicineName,
			amount(it.Quantity),
			amount(it.AvgCost),
			amount(it.Quantity.Mul(it.AvgCost).Round(2)),
			amount(it.ReorderLevel),
			low,
		)
	}
	last := len(report.Items) + 2
	w.row(last, "", "TOTAL", "", "", amount(report.TotalValue), "", report.LowStock)
	w.style("A1", "G1", bold)
	w.style(fmt.Sprintf("A%d", last), fmt.Sprintf("G%d", last), bold)
	w.widths(map[string]float64{"A": 14, "B": 32, "C": 12, "D": 16, "E": 14, "F": 16, "G": 12})

	if w.err != nil {
		return nil, w.err
	}
	return toBytes(f)
}

// sheetWriter acumula el primer error de escritura para no cortar el flujo en cada celda.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) row(n int, values ...any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(w.sheet, cell, &values); err != nil {
		w.err = fmt.Errorf("xlsx: escribir fila %d: %w", n, err)
	}
}

func (w *sheetWriter) style(from, to string, styleID int) {
	if w.err != nil {
		return
	}
	if err := w.f.SetCellStyle(w.sheet, from, to, styleID); err != nil {
		w.err = fmt.Errorf("xlsx: estilo: %w", err)
	}
}

func (w *sheetWriter) widths(cols map[string]float64) {
	for c, width := range cols {
		if w.err != nil {
			return
		}
		if err := w.f.SetColWidth(w.sheet, c, c, width); err != nil {
			w.err = fmt.Errorf("xlsx: ancho de columna: %w", err)
		}
	}
}

func headerStyle(f *excelize.File) (int, error) {
	id, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"006666"}, Pattern: 1},
	})
	if err != nil {
		return 0, fmt.Errorf("xlsx: estilo de cabecera: %w", err)
	}
	return id, nil
}

// amount número con dos decimales para que Excel lo trate como valor y no como texto.
func amount(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func toBytes(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: serializar libro: %w", err)
	}
	return buf.Bytes(), nil
}
