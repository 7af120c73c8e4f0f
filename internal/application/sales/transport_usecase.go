package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/internal/application/inventory"
	"github.com/jhoicas/clinic-franchise-api/internal/application/ports"
	"github.com/jhoicas/clinic-franchise-api/internal/application/scope"
	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/dispatch"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
)

// TransportQuery filtros del listado de transportes.
type TransportQuery struct {
	FranchiseID string
	SaleID      string
	Status      string
	From, To    *time.Time
	Page        dto.PageQuery
}

// TransportUseCase despacho de stock de la central a la franquicia contra una venta.
// Toda operación bloquea primero la venta y luego el transporte.
type TransportUseCase struct {
	txRunner repository.TxRunner
	repos    repository.Repos
	stock    StockEngine
	pdf      ports.PDFGenerator
	log      *logger.Logger
}

// NewTransportUseCase construye el caso de uso.
func NewTransportUseCase(txRunner repository.TxRunner, repos repository.Repos, stock StockEngine, pdf ports.PDFGenerator, log *logger.Logger) *TransportUseCase {
	return &TransportUseCase{txRunner: txRunner, repos: repos, stock: stock, pdf: pdf, log: log.Component("transports")}
}

// Create despacha líneas de la venta:
//  1. bloquea la venta y concilia lo pedido contra lo pendiente por medicamento
//  2. descuenta el stock central por lote (indicado o FEFO)
//  3. numera el despacho DSP-000001 y recalcula el estado de la venta
func (uc *TransportUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateTransportRequest) (*dto.TransportResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	now := time.Now()
	t := &entity.Transport{
		ID:           uuid.New().String(),
		SaleID:       in.SaleID,
		DispatchDate: dto.DateOr(in.DispatchDate, today()),
		Transporter:  in.Transporter,
		VehicleNo:    in.VehicleNo,
		LRNo:         in.LRNo,
		Status:       entity.TransportDispatched,
		Notes:        in.Notes,
		CreatedBy:    actor.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		sale, err := r.Sales.GetForUpdate(ctx, in.SaleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if _, err := scope.Franchise(ctx, r.Franchises, sale.FranchiseID); err != nil {
			return err
		}
		t.FranchiseID = sale.FranchiseID
		transports, err := r.Transports.ListBySale(ctx, sale.ID)
		if err != nil {
			return err
		}

		// 1) Conciliación
		lines := make([]entity.TransportDetail, 0, len(in.Items))
		for _, it := range in.Items {
			lines = append(lines, entity.TransportDetail{MedicineID: it.MedicineID, Quantity: it.Quantity})
		}
		if _, err := dispatch.Reconcile(sale, transports, lines); err != nil {
			return err
		}

		// 2) Salidas de la central
		rates := saleRates(sale)
		items := inventory.LockOrder(in.Items, func(it dto.TransportItemRequest) (string, string) {
			return it.MedicineID, it.BatchNo
		})
		for _, it := range items {
			if !it.Quantity.IsPositive() {
				continue
			}
			out := inventory.StockOut{
				Owner:         entity.OwnerCentral,
				MedicineID:    it.MedicineID,
				BatchNo:       it.BatchNo,
				Quantity:      it.Quantity,
				Type:          entity.LedgerDispatchOut,
				ReferenceType: referenceTransport,
				ReferenceID:   t.ID,
				UserID:        actor.UserID,
				Date:          t.DispatchDate,
			}
			issued, err := uc.issue(ctx, r, out)
			if err != nil {
				return err
			}
			for _, iss := range issued {
				t.Details = append(t.Details, entity.TransportDetail{
					ID:          uuid.New().String(),
					TransportID: t.ID,
					MedicineID:  it.MedicineID,
					BatchNo:     iss.BatchNo,
					ExpiryDate:  iss.ExpiryDate,
					Quantity:    iss.Quantity,
					Rate:        rates[it.MedicineID],
				})
			}
		}

		// 3) Número y estado de la venta
		seq, err := r.Sequences.Next(ctx, "dispatch")
		if err != nil {
			return err
		}
		t.DispatchNo = entity.DocumentNo(entity.PrefixDispatch, seq)
		if err := r.Transports.Create(ctx, t); err != nil {
			return err
		}
		return refreshSaleStatus(ctx, r, sale, append(transports, *t))
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("transport_id", t.ID).
		Str("dispatch_no", t.DispatchNo).
		Str("sale_id", t.SaleID).
		Int("lines", len(t.Details)).
		Msg("despacho registrado")
	return dto.ToTransportResponse(t), nil
}

func (uc *TransportUseCase) issue(ctx context.Context, r repository.Repos, out inventory.StockOut) ([]inventory.Issued, error) {
	if out.BatchNo != "" {
		one, err := uc.stock.IssueInTx(ctx, r, out)
		if err != nil {
			return nil, err
		}
		return []inventory.Issued{*one}, nil
	}
	return uc.stock.IssueFEFOInTx(ctx, r, out)
}

// saleRates tarifa de venta por medicamento (primera línea de la venta).
func saleRates(s *entity.Sale) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(s.Details))
	for _, d := range s.Details {
		if _, ok := out[d.MedicineID]; !ok {
			out[d.MedicineID] = d.Rate
		}
	}
	return out
}

func refreshSaleStatus(ctx context.Context, r repository.Repos, sale *entity.Sale, transports []entity.Transport) error {
	status := dispatch.Status(dispatch.Summarize(sale, transports))
	if status == sale.DispatchStatus {
		return nil
	}
	sale.DispatchStatus = status
	return r.Sales.UpdateDispatchStatus(ctx, sale.ID, status)
}

// lockTransport bloquea la venta y luego el transporte, en ese orden.
func lockTransport(ctx context.Context, r repository.Repos, id string) (*entity.Sale, *entity.Transport, error) {
	head, err := r.Transports.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if head == nil {
		return nil, nil, domain.ErrNotFound
	}
	sale, err := r.Sales.GetForUpdate(ctx, head.SaleID)
	if err != nil {
		return nil, nil, err
	}
	if sale == nil {
		return nil, nil, domain.ErrNotFound
	}
	t, err := r.Transports.GetForUpdate(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if t == nil {
		return nil, nil, domain.ErrNotFound
	}
	return sale, t, nil
}

// Receive acredita el stock despachado a la franquicia destino, lote por lote, a la
// tarifa de la venta. Lo puede hacer la franquicia destino o el admin.
func (uc *TransportUseCase) Receive(ctx context.Context, actor entity.Actor, id string) (*dto.TransportResponse, error) {
	if actor.Role == entity.RoleDoctor {
		return nil, domain.ErrForbidden
	}
	var t *entity.Transport
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		var err error
		if _, t, err = lockTransport(ctx, r, id); err != nil {
			return err
		}
		if !actor.CanAccess(t.FranchiseID) {
			return domain.ErrForbidden
		}
		if t.Status != entity.TransportDispatched {
			return domain.ErrConflict
		}
		now := time.Now()
		for _, d := range t.Details {
			err := uc.stock.ReceiveInTx(ctx, r, inventory.StockIn{
				Owner:         t.FranchiseID,
				MedicineID:    d.MedicineID,
				BatchNo:       d.BatchNo,
				ExpiryDate:    d.ExpiryDate,
				Quantity:      d.Quantity,
				UnitCost:      d.Rate,
				Type:          entity.LedgerDispatchIn,
				ReferenceType: referenceTransport,
				ReferenceID:   t.ID,
				UserID:        actor.UserID,
				Date:          now,
			})
			if err != nil {
				return err
			}
		}
		t.Status = entity.TransportDelivered
		t.ReceivedAt = &now
		t.ReceivedBy = actor.UserID
		t.UpdatedAt = now
		return r.Transports.UpdateStatus(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("transport_id", t.ID).Str("franchise_id", t.FranchiseID).Msg("despacho recibido")
	return dto.ToTransportResponse(t), nil
}

// Cancel anula un despacho aún no recibido: devuelve el stock a la central y libera
// las cantidades pendientes de la venta.
func (uc *TransportUseCase) Cancel(ctx context.Context, actor entity.Actor, id string) (*dto.TransportResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	var t *entity.Transport
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		sale, locked, err := lockTransport(ctx, r, id)
		if err != nil {
			return err
		}
		t = locked
		if t.Status != entity.TransportDispatched {
			return domain.ErrConflict
		}
		now := time.Now()
		for _, d := range t.Details {
			err := uc.stock.ReturnInTx(ctx, r, inventory.StockIn{
				Owner:         entity.OwnerCentral,
				MedicineID:    d.MedicineID,
				BatchNo:       d.BatchNo,
				ExpiryDate:    d.ExpiryDate,
				Quantity:      d.Quantity,
				Type:          entity.LedgerDispatchCancel,
				ReferenceType: referenceTransport,
				ReferenceID:   t.ID,
				UserID:        actor.UserID,
				Date:          now,
			})
			if err != nil {
				return err
			}
		}
		t.Status = entity.TransportCancelled
		t.UpdatedAt = now
		if err := r.Transports.UpdateStatus(ctx, t); err != nil {
			return err
		}
		transports, err := r.Transports.ListBySale(ctx, sale.ID)
		if err != nil {
			return err
		}
		return refreshSaleStatus(ctx, r, sale, transports)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("transport_id", t.ID).Str("user_id", actor.UserID).Msg("despacho anulado")
	return dto.ToTransportResponse(t), nil
}

func (uc *TransportUseCase) get(ctx context.Context, actor entity.Actor, id string) (*entity.Transport, error) {
	t, err := uc.repos.Transports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.CanAccess(t.FranchiseID) {
		return nil, domain.ErrForbidden
	}
	return t, nil
}

// GetByID obtiene un transporte con su detalle.
func (uc *TransportUseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.TransportResponse, error) {
	t, err := uc.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return dto.ToTransportResponse(t), nil
}

// List lista transportes; una franquicia ve solo los que llegan a ella.
func (uc *TransportUseCase) List(ctx context.Context, actor entity.Actor, q TransportQuery) (*dto.ListResponse[dto.TransportResponse], error) {
	fid, err := actor.ResolveFranchise(q.FranchiseID)
	if err != nil {
		return nil, err
	}
	q.Page.Normalize()
	list, total, err := uc.repos.Transports.List(ctx, repository.ListFilter{
		FranchiseID: fid,
		SaleID:      q.SaleID,
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
	return dto.NewListResponse(dto.MapList(list, dto.ToTransportResponse), q.Page, total), nil
}

// ChallanPDF genera la guía de despacho imprimible.
func (uc *TransportUseCase) ChallanPDF(ctx context.Context, actor entity.Actor, id string) ([]byte, string, error) {
	t, err := uc.get(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}
	sale, err := uc.repos.Sales.GetByID(ctx, t.SaleID)
	if err != nil {
		return nil, "", err
	}
	if sale == nil {
		return nil, "", domain.ErrNotFound
	}
	franchise, err := uc.repos.Franchises.GetByID(ctx, t.FranchiseID)
	if err != nil {
		return nil, "", err
	}
	if franchise == nil {
		return nil, "", domain.ErrNotFound
	}
	ids := make([]string, 0, len(t.Details))
	for _, d := range t.Details {
		ids = append(ids, d.MedicineID)
	}
	names, err := medicineNames(ctx, uc.repos.Medicines, ids)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.pdf.ChallanPDF(ports.ChallanDocument{
		Franchise:     *franchise,
		Sale:          *sale,
		Transport:     *t,
		MedicineNames: names,
	})
	if err != nil {
		return nil, "", fmt.Errorf("challan: generación fallida: %w", err)
	}
	return pdf, fmt.Sprintf("guia_%s.pdf", t.DispatchNo), nil
}
