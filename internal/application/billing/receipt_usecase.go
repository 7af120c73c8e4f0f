package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/internal/application/scope"
	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
)

// IssueReceiptInTx numera y guarda un recibo dentro de la transacción del caller.
// El número es <CODIGO_FRANQUICIA>-R-000001, consecutivo por franquicia.
func IssueReceiptInTx(ctx context.Context, r repository.Repos, rc *entity.Receipt) error {
	f, err := r.Franchises.GetByID(ctx, rc.FranchiseID)
	if err != nil {
		return err
	}
	if f == nil {
		return domain.ErrNotFound
	}
	seq, err := r.Sequences.Next(ctx, "receipt:"+rc.FranchiseID)
	if err != nil {
		return err
	}
	if rc.ID == "" {
		rc.ID = uuid.New().String()
	}
	rc.ReceiptNo = entity.FranchiseDocumentNo(f.Code, entity.PrefixReceipt, seq)
	rc.CreatedAt = time.Now()
	return r.Receipts.Create(ctx, rc)
}

// ReceiptQuery filtros del listado de recibos.
type ReceiptQuery struct {
	FranchiseID string
	PatientID   string
	Kind        string
	From, To    *time.Time
	Page        dto.PageQuery
}

// ReceiptUseCase recibos: los automáticos (consultas, facturas) y los manuales (paquetes u otros).
type ReceiptUseCase struct {
	txRunner repository.TxRunner
	repos    repository.Repos
	log      *logger.Logger
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(txRunner repository.TxRunner, repos repository.Repos, log *logger.Logger) *ReceiptUseCase {
	return &ReceiptUseCase{txRunner: txRunner, repos: repos, log: log.Component("receipts")}
}

// Create emite un recibo manual de tipo package u other.
func (uc *ReceiptUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateReceiptRequest) (*dto.ReceiptResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	franchiseID, err := actor.RequireFranchise(in.FranchiseID)
	if err != nil {
		return nil, err
	}
	rc := &entity.Receipt{
		FranchiseID: franchiseID,
		PatientID:   in.PatientID,
		Kind:        in.Kind,
		ReferenceID: in.ReferenceID,
		Amount:      in.Amount,
		PaymentMode: in.PaymentMode,
		Date:        dto.DateOr(in.Date, today()),
		Notes:       in.Notes,
		CreatedBy:   actor.UserID,
	}
	err = uc.txRunner.Run(ctx, func(r repository.Repos) error {
		if _, err := scope.Patient(ctx, r.Patients, franchiseID, in.PatientID); err != nil {
			return err
		}
		if in.Kind == entity.ReceiptPackage {
			p, err := r.Packages.GetByID(ctx, in.ReferenceID)
			if err != nil {
				return err
			}
			if p == nil {
				return domain.ErrNotFound
			}
		}
		return IssueReceiptInTx(ctx, r, rc)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("receipt_no", rc.ReceiptNo).Str("kind", rc.Kind).Str("franchise_id", franchiseID).Msg("recibo emitido")
	return dto.ToReceiptResponse(rc), nil
}

// GetByID obtiene un recibo visible para el actor.
func (uc *ReceiptUseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.ReceiptResponse, error) {
	rc, err := uc.repos.Receipts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rc == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.CanAccess(rc.FranchiseID) {
		return nil, domain.ErrForbidden
	}
	return dto.ToReceiptResponse(rc), nil
}

// List lista recibos por tipo, paciente y rango de fechas.
func (uc *ReceiptUseCase) List(ctx context.Context, actor entity.Actor, q ReceiptQuery) (*dto.ListResponse[dto.ReceiptResponse], error) {
	fid, err := actor.ResolveFranchise(q.FranchiseID)
	if err != nil {
		return nil, err
	}
	q.Page.Normalize()
	list, total, err := uc.repos.Receipts.List(ctx, repository.ListFilter{
		FranchiseID: fid,
		PatientID:   q.PatientID,
		Kind:        q.Kind,
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
	return dto.NewListResponse(dto.MapList(list, dto.ToReceiptResponse), q.Page, total), nil
}

func today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
