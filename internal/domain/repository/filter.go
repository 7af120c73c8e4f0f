package repository

import "time"

// ListFilter criterios comunes de listado. Cada repositorio usa solo los campos que aplican
// y valida Sort contra su propia lista blanca de columnas.
type ListFilter struct {
	FranchiseID  string // vacío = todas (solo admin)
	Owner        string // dueño de stock: "central" o id de franquicia
	Search       string
	Sort         string
	Order        string // asc | desc
	Limit        int
	Offset       int
	From         *time.Time
	To           *time.Time // día inclusivo
	Status       string
	PatientID    string
	TeamID       string
	MedicineID   string
	SaleID       string
	Kind         string
	LowStockOnly bool
}
