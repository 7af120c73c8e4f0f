package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

var statusRule = validation.In("active", "inactive")

// MedicineRequest entrada para crear/actualizar un medicamento (reemplazo completo).
// AvgCost no se edita: lo mantienen las compras.
type MedicineRequest struct {
	Name         string          `json:"name"`
	Code         string          `json:"code"`
	Manufacturer string          `json:"manufacturer"`
	Unit         string          `json:"unit"`
	HSNCode      string          `json:"hsn_code"`
	MRP          decimal.Decimal `json:"mrp"`
	PurchaseRate decimal.Decimal `json:"purchase_rate"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	Status       string          `json:"status"`
}

// Validate valida el medicamento.
func (r MedicineRequest) Validate() error {
	return FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 200)),
		validation.Field(&r.Code, validation.Required, validation.Length(1, 50)),
		validation.Field(&r.Unit, validation.Length(0, 20)),
		validation.Field(&r.MRP, nonNegative),
		validation.Field(&r.PurchaseRate, nonNegative),
		validation.Field(&r.TaxRate, nonNegative, validation.By(maxTax)),
		validation.Field(&r.ReorderLevel, nonNegative),
		validation.Field(&r.Status, statusRule),
	))
}

func maxTax(v interface{}) error {
	d, ok := asDecimal(v)
	if ok && d.GreaterThan(decimal.NewFromInt(100)) {
		return validation.NewError("validation_tax_max", "no puede superar 100")
	}
	return nil
}

// MedicineResponse salida de un medicamento.
type MedicineResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Code         string          `json:"code"`
	Manufacturer string          `json:"manufacturer"`
	Unit         string          `json:"unit"`
	HSNCode      string          `json:"hsn_code"`
	MRP          decimal.Decimal `json:"mrp"`
	PurchaseRate decimal.Decimal `json:"purchase_rate"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	AvgCost      decimal.Decimal `json:"avg_cost"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ServiceRequest entrada para crear/actualizar un servicio.
type ServiceRequest struct {
	Name    string          `json:"name"`
	Code    string          `json:"code"`
	Charge  decimal.Decimal `json:"charge"`
	TaxRate decimal.Decimal `json:"tax_rate"`
	Status  string          `json:"status"`
}

// Validate valida el servicio.
func (r ServiceRequest) Validate() error {
	return FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 200)),
		validation.Field(&r.Code, validation.Required, validation.Length(1, 50)),
		validation.Field(&r.Charge, nonNegative),
		validation.Field(&r.TaxRate, nonNegative, validation.By(maxTax)),
		validation.Field(&r.Status, statusRule),
	))
}

// ServiceResponse salida de un servicio.
type ServiceResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Code      string          `json:"code"`
	Charge    decimal.Decimal `json:"charge"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// PackageRequest entrada para crear/actualizar un paquete.
type PackageRequest struct {
	Name         string          `json:"name"`
	Code         string          `json:"code"`
	Price        decimal.Decimal `json:"price"`
	Sessions     int             `json:"sessions"`
	ValidityDays int             `json:"validity_days"`
	ServiceIDs   []string        `json:"service_ids"`
	Status       string          `json:"status"`
}

// Validate valida el paquete.
func (r PackageRequest) Validate() error {
	return FromValidation(validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 200)),
		validation.Field(&r.Code, validation.Required, validation.Length(1, 50)),
		validation.Field(&r.Price, nonNegative),
		validation.Field(&r.Sessions, validation.Min(1)),
		validation.Field(&r.ValidityDays, validation.Min(0)),
		validation.Field(&r.ServiceIDs, validation.Each(is.UUID)),
		validation.Field(&r.Status, statusRule),
	))
}

// PackageResponse salida de un paquete.
type PackageResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Code         string          `json:"code"`
	Price        decimal.Decimal `json:"price"`
	Sessions     int             `json:"sessions"`
	ValidityDays int             `json:"validity_days"`
	ServiceIDs   []string        `json:"service_ids"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
