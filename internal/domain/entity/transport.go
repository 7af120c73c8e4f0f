package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un transporte.
const (
	TransportDispatched = "dispatched"
	TransportDelivered  = "delivered"
	TransportCancelled  = "cancelled"
)

// Transport envío de stock desde la central a una franquicia contra una venta.
type Transport struct {
	ID           string
	SaleID       string
	FranchiseID  string
	DispatchNo   string
	DispatchDate time.Time
	Transporter  string
	VehicleNo    string
	LRNo         string
	Status       string
	ReceivedAt   *time.Time
	ReceivedBy   string
	Notes        string
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Details      []TransportDetail
}

// TransportDetail línea despachada (medicamento + lote).
type TransportDetail struct {
	ID          string
	TransportID string
	MedicineID  string
	BatchNo     string
	ExpiryDate  *time.Time
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
}

// CountsAgainstSale indica si las cantidades del transporte consumen lo pendiente de la venta.
func (t *Transport) CountsAgainstSale() bool { return t.Status != TransportCancelled }
