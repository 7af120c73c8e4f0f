// Package pdf genera los documentos imprimibles de la red de clínicas con Maroto v2.
//
// Layout común de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Franquicia + contacto  │  Tipo de documento + N°   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DESTINATARIO: paciente o franquicia                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: líneas del documento                                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES                                                    │
//	│  FOOTER: QR con el número del documento + leyenda           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/internal/application/ports"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 102, Blue: 102}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var _ ports.PDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa ports.PDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	printer *message.Printer
}

// NewMarotoPDFGenerator construye el generador. Los montos se imprimen con separadores
// de miles del idioma indicado (ej. "es" → 1.234,50).
func NewMarotoPDFGenerator(lang string) *MarotoPDFGenerator {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Spanish
	}
	return &MarotoPDFGenerator{printer: message.NewPrinter(tag)}
}

func (g *MarotoPDFGenerator) newDocument(title, author string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(author, true).
		Build()
	return maroto.New(cfg)
}

func render(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// BillPDF factura de medicamentos al paciente.
func (g *MarotoPDFGenerator) BillPDF(doc ports.BillDocument) ([]byte, error) {
	b := doc.Bill
	m := g.newDocument("Factura "+b.BillNo, doc.Franchise.Name)

	m.AddRows(headerRow(doc.Franchise, "FACTURA DE MEDICAMENTOS", b.BillNo, b.BillDate))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partyRow("PACIENTE", doc.Patient.Name, fmt.Sprintf("Código: %s   |   Tel: %s   |   Email: %s",
		doc.Patient.Code, nonEmpty(doc.Patient.Phone, "-"), nonEmpty(doc.Patient.Email, "-"))))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(
		header{"Cant.", 1, align.Center},
		header{"Medicamento", 5, align.Left},
		header{"Lote", 2, align.Left},
		header{"Precio", 1, align.Right},
		header{"Imp.%", 1, align.Center},
		header{"Subtotal", 2, align.Right},
	))
	for _, it := range b.Items {
		m.AddRows(row.New(7).Add(
			cell(1, it.Quantity.String(), align.Center),
			cell(5, nonEmpty(doc.MedicineNames[it.MedicineID], it.MedicineID), align.Left),
			cell(2, nonEmpty(it.BatchNo, "-"), align.Left),
			cell(1, g.money(it.Rate), align.Right),
			cell(1, it.TaxRate.String()+"%", align.Center),
			cell(2, g.money(it.Amount), align.Right),
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(
		total{"Subtotal neto:", b.NetTotal},
		total{"Descuento:", b.Discount},
		total{"Impuestos:", b.TaxTotal},
		total{"TOTAL A PAGAR:", b.GrandTotal},
	))

	legend := "Forma de pago: " + b.PaymentMode
	if doc.ReceiptNo != "" {
		legend += "   |   Recibo: " + doc.ReceiptNo
	}
	if b.Status == entity.BillCancelled {
		legend += "   |   ANULADA"
	}
	m.AddRows(footerRows(b.BillNo, legend)...)
	return render(m)
}

// ChallanPDF guía de despacho de la central hacia la franquicia.
func (g *MarotoPDFGenerator) ChallanPDF(doc ports.ChallanDocument) ([]byte, error) {
	t := doc.Transport
	m := g.newDocument("Guía "+t.DispatchNo, "Central")

	m.AddRows(headerRow(doc.Franchise, "GUÍA DE DESPACHO", t.DispatchNo, t.DispatchDate))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partyRow("DESTINO", doc.Franchise.Name, fmt.Sprintf("Factura: %s   |   Transportador: %s   |   Vehículo: %s   |   Guía: %s",
		doc.Sale.InvoiceNo, nonEmpty(t.Transporter, "-"), nonEmpty(t.VehicleNo, "-"), nonEmpty(t.LRNo, "-"))))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(
		header{"Cant.", 1, align.Center},
		header{"Medicamento", 5, align.Left},
		header{"Lote", 2, align.Left},
		header{"Vence", 1, align.Center},
		header{"Precio", 1, align.Right},
		header{"Subtotal", 2, align.Right},
	))
	value := decimal.Zero
	for _, d := range t.Details {
		amount := d.Quantity.Mul(d.Rate).Round(2)
		value = value.Add(amount)
		expiry := "-"
		if d.ExpiryDate != nil {
			expiry = d.ExpiryDate.Format("01/2006")
		}
		m.AddRows(row.New(7).Add(
			cell(1, d.Quantity.String(), align.Center),
			cell(5, nonEmpty(doc.MedicineNames[d.MedicineID], d.MedicineID), align.Left),
			cell(2, nonEmpty(d.BatchNo, "-"), align.Left),
			cell(1, expiry, align.Center),
			cell(1, g.money(d.Rate), align.Right),
			cell(2, g.money(amount), align.Right),
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(total{"VALOR DESPACHADO:", value}))
	m.AddRows(footerRows(t.DispatchNo, "Estado: "+t.Status+"   |   Recibido por: ________________________")...)
	return render(m)
}

// DayBookPDF libro diario con totales por forma de pago.
func (g *MarotoPDFGenerator) DayBookPDF(book dto.DayBookResponse, title string) ([]byte, error) {
	m := g.newDocument(title, "Central")

	m.AddRows(row.New(16).Add(
		col.New(8).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
		),
		col.New(4).Add(
			text.New(fmt.Sprintf("%s al %s", book.From.Format("02/01/2006"), book.To.Format("02/01/2006")), props.Text{
				Size: 9, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow(
		header{"Fecha", 2, align.Left},
		header{"Tipo", 2, align.Left},
		header{"Número", 2, align.Left},
		header{"Paciente", 3, align.Left},
		header{"Pago", 1, align.Center},
		header{"Monto", 2, align.Right},
	))
	for _, e := range book.Entries {
		m.AddRows(row.New(6).Add(
			cell(2, e.Date.Format("02/01/2006"), align.Left),
			cell(2, kindLabel(e.Kind), align.Left),
			cell(2, nonEmpty(e.Number, "-"), align.Left),
			cell(3, e.PatientName, align.Left),
			cell(1, e.PaymentMode, align.Center),
			cell(2, g.money(e.Amount), align.Right),
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	totals := make([]total, 0, len(entity.PaymentModes)+3)
	for _, mode := range entity.PaymentModes {
		totals = append(totals, total{mode + ":", book.TotalsByMode[mode]})
	}
	totals = append(totals,
		total{"Consultas:", book.ConsultationTotal},
		total{"Medicamentos:", book.MedicineTotal},
		total{"TOTAL:", book.GrandTotal},
	)
	m.AddRows(g.totalsRow(totals...))
	return render(m)
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: franquicia + contacto (izq) y tipo, número y fecha del documento (der).
func headerRow(f entity.Franchise, kind, number string, date time.Time) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(f.Name, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("%s %s   |   Tel: %s", nonEmpty(f.Address, ""), nonEmpty(f.City, ""), nonEmpty(f.Phone, "-")),
				props.Text{Size: 8, Top: 9, Color: colorGray}),
			text.New("GSTIN: "+nonEmpty(f.GSTIN, "-"), props.Text{Size: 8, Top: 13, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(kind, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(number, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7}),
			text.New("Fecha: "+date.Format("02/01/2006"), props.Text{Size: 8, Align: align.Right, Top: 14, Color: colorGray}),
		),
	)
}

func partyRow(label, name, detail string) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(detail, props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

type header struct {
	label string
	size  int
	align align.Type
}

func tableHeaderRow(cols ...header) core.Row {
	out := make([]core.Col, len(cols))
	for i, h := range cols {
		out[i] = col.New(h.size).Add(text.New(h.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: h.align,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(out...)
}

func cell(size int, value string, a align.Type) core.Col {
	return col.New(size).Add(text.New(value, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
}

type total struct {
	label string
	value decimal.Decimal
}

// totalsRow: bloque de totales alineado a la derecha; la última línea va resaltada.
func (g *MarotoPDFGenerator) totalsRow(lines ...total) core.Row {
	labels := col.New(3)
	values := col.New(3)
	for i, l := range lines {
		style := props.Text{Size: 9, Align: align.Right, Right: 2, Top: float64(i * 5)}
		if i == len(lines)-1 {
			style.Style = fontstyle.Bold
			style.Color = colorPrimary
		}
		labels.Add(text.New(l.label, style))
		values.Add(text.New(g.money(l.value), style))
	}
	return row.New(float64(len(lines)*5 + 4)).Add(col.New(6), labels, values)
}

func footerRows(number, legend string) []core.Row {
	return []core.Row{
		line.NewRow(3),
		line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}),
		row.New(30).Add(
			col.New(3).Add(code.NewQr(number, props.Rect{Percent: 90, Center: true})),
			col.New(9).Add(
				text.New(legend, props.Text{Size: 8, Top: 4, Left: 3, Color: colorGray}),
				text.New("Documento generado electrónicamente.", props.Text{Size: 7, Top: 14, Left: 3, Color: colorGray}),
			),
		),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// money formatea con dos decimales y separador de miles del idioma del generador.
func (g *MarotoPDFGenerator) money(d decimal.Decimal) string {
	return g.printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

func kindLabel(kind string) string {
	switch kind {
	case "consultation":
		return "Consulta"
	case "medicine_bill":
		return "Medicamentos"
	}
	return kind
}
