package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
)

// ReceiptRepository persistencia de recibos.
type ReceiptRepository interface {
	Create(ctx context.Context, r *entity.Receipt) error
	GetByID(ctx context.Context, id string) (*entity.Receipt, error)
	// GetByReference recibo vigente generado para kind/referenceID; nil si no existe.
	GetByReference(ctx context.Context, kind, referenceID string) (*entity.Receipt, error)
	List(ctx context.Context, f ListFilter) ([]*entity.Receipt, int, error)
	// UpdateByReference sincroniza monto y forma de pago del recibo generado por kind/referenceID.
	UpdateByReference(ctx context.Context, kind, referenceID string, amount decimal.Decimal, paymentMode string) error
	CancelByReference(ctx context.Context, kind, referenceID string) error
}
