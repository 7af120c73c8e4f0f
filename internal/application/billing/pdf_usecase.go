package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/clinic-franchise-api/internal/application/ports"
	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
)

// PDFUseCase genera la representación impresa (PDF) de una factura de medicamentos.
type PDFUseCase struct {
	repos     repository.Repos
	generator ports.PDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(repos repository.Repos, generator ports.PDFGenerator) *PDFUseCase {
	return &PDFUseCase{repos: repos, generator: generator}
}

// DownloadBillPDF recupera todos los datos de la factura y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
//   - domain.ErrForbidden        si la factura no pertenece a la franquicia del token.
func (uc *PDFUseCase) DownloadBillPDF(ctx context.Context, actor entity.Actor, billID string) (pdfBytes []byte, filename string, err error) {
	// ── 1. Cargar factura ─────────────────────────────────────────────────────
	bill, err := uc.repos.Bills.GetByID(ctx, billID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if bill == nil {
		return nil, "", domain.ErrNotFound
	}
	if !actor.CanAccess(bill.FranchiseID) {
		return nil, "", domain.ErrForbidden
	}

	// ── 2. Cargar franquicia y paciente ───────────────────────────────────────
	franchise, err := uc.repos.Franchises.GetByID(ctx, bill.FranchiseID)
	if err != nil || franchise == nil {
		return nil, "", fmt.Errorf("pdf: obtener franquicia: %w", orNotFound(err))
	}
	patient, err := uc.repos.Patients.GetByID(ctx, bill.PatientID)
	if err != nil || patient == nil {
		return nil, "", fmt.Errorf("pdf: obtener paciente: %w", orNotFound(err))
	}

	// ── 3. Nombres de medicamentos y recibo ───────────────────────────────────
	names := make(map[string]string, len(bill.Items))
	for _, it := range bill.Items {
		if _, ok := names[it.MedicineID]; ok {
			continue
		}
		names[it.MedicineID] = "Medicamento " + it.MedicineID // fallback
		if med, mErr := uc.repos.Medicines.GetByID(ctx, it.MedicineID); mErr == nil && med != nil {
			names[it.MedicineID] = med.Name
		}
	}
	doc := ports.BillDocument{Franchise: *franchise, Patient: *patient, Bill: *bill, MedicineNames: names}
	if rc, rErr := uc.repos.Receipts.GetByReference(ctx, entity.ReceiptMedicineBill, bill.ID); rErr == nil && rc != nil {
		doc.ReceiptNo = rc.ReceiptNo
	}

	// ── 4. Generar PDF ────────────────────────────────────────────────────────
	pdfBytes, err = uc.generator.BillPDF(doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("factura_%s.pdf", bill.BillNo), nil
}

func orNotFound(err error) error {
	if err != nil {
		return err
	}
	return domain.ErrNotFound
}
