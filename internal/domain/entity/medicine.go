package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Medicine ítem del catálogo global de medicamentos (administrado por la central).
// AvgCost se actualiza vía compras (costo promedio ponderado), no por CRUD.
type Medicine struct {
	ID           string
	Name         string
	Code         string
	Manufacturer string
	Unit         string
	HSNCode      string
	MRP          decimal.Decimal
	PurchaseRate decimal.Decimal
	TaxRate      decimal.Decimal // porcentaje, ej. 12 = 12%
	AvgCost      decimal.Decimal
	ReorderLevel decimal.Decimal
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Service servicio clínico facturable del catálogo global.
type Service struct {
	ID        string
	Name      string
	Code      string
	Charge    decimal.Decimal
	TaxRate   decimal.Decimal
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Package paquete de sesiones/servicios con precio cerrado.
type Package struct {
	ID           string
	Name         string
	Code         string
	Price        decimal.Decimal
	Sessions     int
	ValidityDays int
	ServiceIDs   []string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CatalogOption elemento reducido para selects del cliente (id, code, name, precio).
type CatalogOption struct {
	ID    string          `json:"id"`
	Code  string          `json:"code"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}
