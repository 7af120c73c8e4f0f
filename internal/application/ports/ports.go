package ports

import (
	"context"
	"io"
	"time"

	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
)

// CatalogCache define el puerto de salida para cachear listas de opciones del catálogo.
// Cualquier adaptador (Redis, no-op, memoria) debe implementar esta interfaz.
// Un fallo de caché nunca debe romper la lectura: el caso de uso cae a la base de datos.
type CatalogCache interface {
	// Get decodifica en dest el valor guardado; found=false si no existe.
	Get(ctx context.Context, key string, dest any) (found bool, err error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, keys ...string) error
}

// RecallNotice datos del correo de recordatorio de control.
type RecallNotice struct {
	To             string
	PatientName    string
	FranchiseName  string
	FranchisePhone string
	RecallDate     time.Time
	Reason         string
}

// Notifier envía recordatorios a pacientes (SMTP o solo log).
type Notifier interface {
	SendRecall(ctx context.Context, n RecallNotice) error
}

// BillDocument datos para imprimir una factura de medicamentos.
type BillDocument struct {
	Franchise     entity.Franchise
	Patient       entity.Patient
	Bill          entity.MedicineBill
	MedicineNames map[string]string
	ReceiptNo     string
}

// ChallanDocument datos para imprimir la guía de despacho de un transporte.
type ChallanDocument struct {
	Franchise     entity.Franchise
	Sale          entity.Sale
	Transport     entity.Transport
	MedicineNames map[string]string
}

// PDFGenerator genera documentos PDF (bytes) a partir de datos ya resueltos.
type PDFGenerator interface {
	BillPDF(doc BillDocument) ([]byte, error)
	ChallanPDF(doc ChallanDocument) ([]byte, error)
	DayBookPDF(book dto.DayBookResponse, title string) ([]byte, error)
}

// SpreadsheetExporter genera libros XLSX de reportes.
type SpreadsheetExporter interface {
	DayBookXLSX(book dto.DayBookResponse) ([]byte, error)
	StockXLSX(report dto.StockReportResponse) ([]byte, error)
}

// FileStore almacenamiento de archivos subidos.
type FileStore interface {
	// Save escribe src bajo name y devuelve los bytes escritos.
	Save(ctx context.Context, name string, src io.Reader) (int64, error)
	// Path ruta absoluta de name; ErrNotFound si no existe, ErrInvalidInput si name no es seguro.
	Path(name string) (string, error)
	Remove(name string) error
}
