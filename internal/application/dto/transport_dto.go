package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

// TransportItemRequest línea a despachar. Sin batch_no se asignan lotes FEFO de la central.
type TransportItemRequest struct {
	MedicineID string          `json:"medicine_id"`
	BatchNo    string          `json:"batch_no"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// Validate valida la línea.
func (r TransportItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.MedicineID, validation.Required, is.UUID),
		validation.Field(&r.BatchNo, validation.Length(0, 50)),
		validation.Field(&r.Quantity, nonNegative),
	)
}

// CreateTransportRequest body para POST /api/transports.
type CreateTransportRequest struct {
	SaleID       string                 `json:"sale_id"`
	DispatchDate string                 `json:"dispatch_date"` // YYYY-MM-DD, por defecto hoy
	Transporter  string                 `json:"transporter"`
	VehicleNo    string                 `json:"vehicle_no"`
	LRNo         string                 `json:"lr_no"`
	Notes        string                 `json:"notes"`
	Items        []TransportItemRequest `json:"items"`
}

// Validate valida el despacho.
func (r CreateTransportRequest) Validate() error {
	return FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.SaleID, validation.Required, is.UUID),
		validation.Field(&r.DispatchDate, validation.Date(DateLayout)),
		validation.Field(&r.Transporter, validation.Length(0, 200)),
		validation.Field(&r.VehicleNo, validation.Length(0, 30)),
		validation.Field(&r.Items, validation.Required, validation.Length(1, 200)),
	))
}

// TransportLineResponse línea despachada.
type TransportLineResponse struct {
	ID         string          `json:"id"`
	MedicineID string          `json:"medicine_id"`
	BatchNo    string          `json:"batch_no"`
	ExpiryDate *time.Time      `json:"expiry_date,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	Rate       decimal.Decimal `json:"rate"`
}

// TransportResponse salida de un transporte.
type TransportResponse struct {
	ID           string                  `json:"id"`
	SaleID       string                  `json:"sale_id"`
	FranchiseID  string                  `json:"franchise_id"`
	DispatchNo   string                  `json:"dispatch_no"`
	DispatchDate time.Time               `json:"dispatch_date"`
	Transporter  string                  `json:"transporter"`
	VehicleNo    string                  `json:"vehicle_no"`
	LRNo         string                  `json:"lr_no"`
	Status       string                  `json:"status"`
	ReceivedAt   *time.Time              `json:"received_at,omitempty"`
	ReceivedBy   string                  `json:"received_by,omitempty"`
	Notes        string                  `json:"notes"`
	Items        []TransportLineResponse `json:"items,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
}
