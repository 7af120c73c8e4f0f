package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/internal/application/inventory"
	"github.com/jhoicas/clinic-franchise-api/internal/application/scope"
	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
)

// BillQuery filtros del listado de facturas.
type BillQuery struct {
	FranchiseID string
	PatientID   string
	Status      string
	From, To    *time.Time
	Page        dto.PageQuery
}

// MedicineBillUseCase crea una factura de medicamentos y descuenta el stock de la franquicia
// en una sola transacción.
type MedicineBillUseCase struct {
	txRunner repository.TxRunner
	repos    repository.Repos
	stock    StockEngine
	log      *logger.Logger
}

// NewMedicineBillUseCase construye el caso de uso.
func NewMedicineBillUseCase(txRunner repository.TxRunner, repos repository.Repos, stock StockEngine, log *logger.Logger) *MedicineBillUseCase {
	return &MedicineBillUseCase{txRunner: txRunner, repos: repos, stock: stock, log: log.Component("medicine_bills")}
}

// Create crea la factura, registra las salidas de inventario por cada línea, guarda cabecera
// y detalle y emite el recibo. Sin batch_no la cantidad se reparte FEFO y cada lote
// consumido queda como una línea propia.
func (uc *MedicineBillUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateMedicineBillRequest) (*dto.MedicineBillResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	franchiseID, err := actor.RequireFranchise(in.FranchiseID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	bill := &entity.MedicineBill{
		ID:          uuid.New().String(), // se usa como referencia en el kardex
		FranchiseID: franchiseID,
		PatientID:   in.PatientID,
		TeamID:      in.TeamID,
		BillDate:    dto.DateOr(in.BillDate, today()),
		Discount:    in.Discount,
		PaymentMode: in.PaymentMode,
		Status:      entity.BillPaid,
		CreatedBy:   actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	var receipt *entity.Receipt

	err = uc.txRunner.Run(ctx, func(r repository.Repos) error {
		f, err := scope.Franchise(ctx, r.Franchises, franchiseID)
		if err != nil {
			return err
		}
		if _, err := scope.Patient(ctx, r.Patients, franchiseID, in.PatientID); err != nil {
			return err
		}
		if in.TeamID != "" {
			if _, err := scope.Team(ctx, r.Teams, franchiseID, in.TeamID, false); err != nil {
				return err
			}
		}

		// 1) Salidas de inventario; un error (ej: sin stock) revierte todo
		items := inventory.LockOrder(in.Items, func(it dto.BillItemRequest) (string, string) {
			return it.MedicineID, it.BatchNo
		})
		for _, it := range items {
			med, err := r.Medicines.GetByID(ctx, it.MedicineID)
			if err != nil {
				return err
			}
			if med == nil {
				return domain.ErrNotFound
			}
			rate := med.MRP
			if it.Rate != nil {
				rate = *it.Rate
			}
			out := inventory.StockOut{
				Owner:         franchiseID,
				MedicineID:    it.MedicineID,
				BatchNo:       it.BatchNo,
				Quantity:      it.Quantity,
				Type:          entity.LedgerBillOut,
				ReferenceType: entity.ReceiptMedicineBill,
				ReferenceID:   bill.ID,
				UserID:        actor.UserID,
				Date:          bill.BillDate,
			}
			var issued []inventory.Issued
			if it.BatchNo != "" {
				one, err := uc.stock.IssueInTx(ctx, r, out)
				if err != nil {
					return err
				}
				issued = []inventory.Issued{*one}
			} else {
				issued, err = uc.stock.IssueFEFOInTx(ctx, r, out)
				if err != nil {
					return err
				}
			}
			for _, iss := range issued {
				bill.Items = append(bill.Items, entity.MedicineBillItem{
					ID:         uuid.New().String(),
					BillID:     bill.ID,
					MedicineID: it.MedicineID,
					BatchNo:    iss.BatchNo,
					Quantity:   iss.Quantity,
					Rate:       rate,
					TaxRate:    med.TaxRate,
				})
			}
		}

		// 2) Totales y número
		bill.ComputeTotals()
		seq, err := r.Sequences.Next(ctx, "bill:"+franchiseID)
		if err != nil {
			return err
		}
		bill.BillNo = entity.FranchiseDocumentNo(f.Code, entity.PrefixBill, seq)
		if err := r.Bills.Create(ctx, bill); err != nil {
			return err
		}

		// 3) Recibo
		receipt = &entity.Receipt{
			FranchiseID: franchiseID,
			PatientID:   bill.PatientID,
			Kind:        entity.ReceiptMedicineBill,
			ReferenceID: bill.ID,
			Amount:      bill.GrandTotal,
			PaymentMode: bill.PaymentMode,
			Date:        bill.BillDate,
			CreatedBy:   actor.UserID,
		}
		return IssueReceiptInTx(ctx, r, receipt)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("bill_id", bill.ID).
		Str("bill_no", bill.BillNo).
		Str("franchise_id", franchiseID).
		Str("grand_total", bill.GrandTotal.String()).
		Msg("factura de medicamentos creada")
	out := dto.ToMedicineBillResponse(bill)
	out.ReceiptNo = receipt.ReceiptNo
	return out, nil
}

// Cancel anula una factura pagada: reingresa el stock a cada lote y anula su recibo.
func (uc *MedicineBillUseCase) Cancel(ctx context.Context, actor entity.Actor, id string) (*dto.MedicineBillResponse, error) {
	if actor.Role == entity.RoleDoctor {
		return nil, domain.ErrForbidden
	}
	var bill *entity.MedicineBill
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		var err error
		bill, err = r.Bills.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if bill == nil {
			return domain.ErrNotFound
		}
		if !actor.CanAccess(bill.FranchiseID) {
			return domain.ErrForbidden
		}
		if bill.Status == entity.BillCancelled {
			return domain.ErrConflict
		}
		now := time.Now()
		for _, it := range bill.Items {
			err := uc.stock.ReturnInTx(ctx, r, inventory.StockIn{
				Owner:         bill.FranchiseID,
				MedicineID:    it.MedicineID,
				BatchNo:       it.BatchNo,
				Quantity:      it.Quantity,
				Type:          entity.LedgerBillCancel,
				ReferenceType: entity.ReceiptMedicineBill,
				ReferenceID:   bill.ID,
				UserID:        actor.UserID,
				Date:          now,
			})
			if err != nil {
				return err
			}
		}
		if err := r.Bills.UpdateStatus(ctx, bill.ID, entity.BillCancelled); err != nil {
			return err
		}
		bill.Status = entity.BillCancelled
		return r.Receipts.CancelByReference(ctx, entity.ReceiptMedicineBill, bill.ID)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("bill_id", bill.ID).Str("user_id", actor.UserID).Msg("factura de medicamentos anulada")
	return dto.ToMedicineBillResponse(bill), nil
}

// GetByID obtiene una factura con su detalle y el número de recibo.
func (uc *MedicineBillUseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.MedicineBillResponse, error) {
	bill, err := uc.repos.Bills.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.CanAccess(bill.FranchiseID) {
		return nil, domain.ErrForbidden
	}
	out := dto.ToMedicineBillResponse(bill)
	rc, err := uc.repos.Receipts.GetByReference(ctx, entity.ReceiptMedicineBill, bill.ID)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		out.ReceiptNo = rc.ReceiptNo
	}
	return out, nil
}

// List lista facturas (sin detalle).
func (uc *MedicineBillUseCase) List(ctx context.Context, actor entity.Actor, q BillQuery) (*dto.ListResponse[dto.MedicineBillResponse], error) {
	fid, err := actor.ResolveFranchise(q.FranchiseID)
	if err != nil {
		return nil, err
	}
	q.Page.Normalize()
	list, total, err := uc.repos.Bills.List(ctx, repository.ListFilter{
		FranchiseID: fid,
		PatientID:   q.PatientID,
		Status:      q.Status,
		From:        q.From,
		To:          q.To,
		Search:      q.Page.Search,
		Sort:        q.Page.Sort,
		Order:       q.Page.Order,
		Limit:       q.Page.PerPage,
		Offset:      q.Page.Offset(),
	})
	if err != nil {
		return nil, err
	}
	return dto.NewListResponse(dto.MapList(list, dto.ToMedicineBillResponse), q.Page, total), nil
}
