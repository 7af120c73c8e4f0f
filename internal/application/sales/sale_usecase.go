package sales

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/internal/application/scope"
	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/dispatch"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
)

// SaleQuery filtros del listado de ventas.
type SaleQuery struct {
	FranchiseID    string
	DispatchStatus string
	From, To       *time.Time
	Page           dto.PageQuery
}

// SaleUseCase ventas de medicamentos de la central a una franquicia.
type SaleUseCase struct {
	txRunner repository.TxRunner
	repos    repository.Repos
	log      *logger.Logger
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(txRunner repository.TxRunner, repos repository.Repos, log *logger.Logger) *SaleUseCase {
	return &SaleUseCase{txRunner: txRunner, repos: repos, log: log.Component("sales")}
}

// Create registra la venta con totales calculados y número de factura INV-000001.
func (uc *SaleUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	now := time.Now()
	sale := &entity.Sale{
		ID:             uuid.New().String(),
		FranchiseID:    in.FranchiseID,
		InvoiceDate:    dto.DateOr(in.InvoiceDate, today()),
		DispatchStatus: entity.DispatchPending,
		Notes:          in.Notes,
		CreatedBy:      actor.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		if _, err := scope.Franchise(ctx, r.Franchises, sale.FranchiseID); err != nil {
			return err
		}
		details, err := buildDetails(ctx, r, sale.ID, in.Items)
		if err != nil {
			return err
		}
		sale.Details = details
		sale.ComputeTotals()
		seq, err := r.Sequences.Next(ctx, "invoice")
		if err != nil {
			return err
		}
		sale.InvoiceNo = entity.DocumentNo(entity.PrefixInvoice, seq)
		return r.Sales.Create(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("invoice_no", sale.InvoiceNo).
		Str("franchise_id", sale.FranchiseID).
		Str("grand_total", sale.GrandTotal.String()).
		Msg("venta registrada")
	return dto.ToSaleResponse(sale, nil), nil
}

// buildDetails arma el detalle tomando tarifa e impuesto del catálogo cuando no vienen.
func buildDetails(ctx context.Context, r repository.Repos, saleID string, items []dto.SaleItemRequest) ([]entity.SaleDetail, error) {
	out := make([]entity.SaleDetail, 0, len(items))
	for _, it := range items {
		med, err := r.Medicines.GetByID(ctx, it.MedicineID)
		if err != nil {
			return nil, err
		}
		if med == nil {
			return nil, domain.ErrNotFound
		}
		d := entity.SaleDetail{
			ID:         uuid.New().String(),
			SaleID:     saleID,
			MedicineID: it.MedicineID,
			Quantity:   it.Quantity,
			Rate:       med.PurchaseRate,
			TaxRate:    med.TaxRate,
		}
		if it.Rate != nil {
			d.Rate = *it.Rate
		}
		if it.TaxRate != nil {
			d.TaxRate = *it.TaxRate
		}
		out = append(out, d)
	}
	return out, nil
}

// GetByID devuelve la venta con lo despachado y pendiente por línea.
func (uc *SaleUseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.SaleResponse, error) {
	sale, err := uc.repos.Sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.CanAccess(sale.FranchiseID) {
		return nil, domain.ErrForbidden
	}
	transports, err := uc.repos.Transports.ListBySale(ctx, sale.ID)
	if err != nil {
		return nil, err
	}
	names, err := medicineNames(ctx, uc.repos.Medicines, saleMedicineIDs(sale))
	if err != nil {
		return nil, err
	}
	progress := make(map[string]dto.SaleLineResponse)
	for _, l := range dispatch.Summarize(sale, transports) {
		progress[l.MedicineID] = dto.SaleLineResponse{
			MedicineName: names[l.MedicineID],
			Dispatched:   l.Dispatched,
			Remaining:    l.Remaining(),
		}
	}
	return dto.ToSaleResponse(sale, progress), nil
}

// Update edita fecha, notas o reemplaza el detalle. Ninguna línea puede quedar por debajo
// de lo ya despachado y el estado de despacho se recalcula.
func (uc *SaleUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateSaleRequest) (*dto.SaleResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var sale *entity.Sale
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		var err error
		sale, err = r.Sales.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if in.InvoiceDate != nil {
			sale.InvoiceDate = dto.DateOr(*in.InvoiceDate, sale.InvoiceDate)
		}
		if in.Notes != nil {
			sale.Notes = *in.Notes
		}
		transports, err := r.Transports.ListBySale(ctx, sale.ID)
		if err != nil {
			return err
		}
		if len(in.Items) > 0 {
			details, err := buildDetails(ctx, r, sale.ID, in.Items)
			if err != nil {
				return err
			}
			sale.Details = details
			sale.ComputeTotals()
			if err := dispatch.ValidateSaleUpdate(sale, transports); err != nil {
				return err
			}
		}
		sale.DispatchStatus = dispatch.Status(dispatch.Summarize(sale, transports))
		sale.UpdatedAt = time.Now()
		return r.Sales.Update(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("sale_id", sale.ID).Str("dispatch_status", sale.DispatchStatus).Msg("venta actualizada")
	return uc.GetByID(ctx, actor, sale.ID)
}

// Delete elimina una venta que nunca tuvo despachos. Un despacho anulado también bloquea:
// queda como rastro del movimiento de stock.
func (uc *SaleUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	return uc.txRunner.Run(ctx, func(r repository.Repos) error {
		sale, err := r.Sales.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		transports, err := r.Transports.ListBySale(ctx, sale.ID)
		if err != nil {
			return err
		}
		if len(transports) > 0 {
			return domain.ErrConflict
		}
		return r.Sales.Delete(ctx, sale.ID)
	})
}

// List lista ventas; una franquicia solo ve las suyas.
func (uc *SaleUseCase) List(ctx context.Context, actor entity.Actor, q SaleQuery) (*dto.ListResponse[dto.SaleResponse], error) {
	fid, err := actor.ResolveFranchise(q.FranchiseID)
	if err != nil {
		return nil, err
	}
	q.Page.Normalize()
	list, total, err := uc.repos.Sales.List(ctx, repository.ListFilter{
		FranchiseID: fid,
		Status:      q.DispatchStatus,
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
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *dto.ToSaleResponse(s, nil))
	}
	return dto.NewListResponse(items, q.Page, total), nil
}

func saleMedicineIDs(s *entity.Sale) []string {
	ids := make([]string, 0, len(s.Details))
	for _, d := range s.Details {
		ids = append(ids, d.MedicineID)
	}
	return ids
}

// medicineNames resuelve nombres para respuestas y documentos impresos.
func medicineNames(ctx context.Context, repo repository.MedicineRepository, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	for _, id := range ids {
		if _, ok := names[id]; ok {
			continue
		}
		m, err := repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if m != nil {
			names[id] = m.Name
		}
	}
	return names, nil
}

func today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
