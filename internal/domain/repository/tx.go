package repository

import "context"

// Repos agrupa todos los puertos de persistencia atados a una misma conexión o transacción.
type Repos struct {
	Franchises    FranchiseRepository
	Users         UserRepository
	Teams         TeamRepository
	Patients      PatientRepository
	Appointments  AppointmentRepository
	Consultations ConsultationRepository
	Medicines     MedicineRepository
	Services      ServiceRepository
	Packages      PackageRepository
	Sales         SaleRepository
	Transports    TransportRepository
	Stock         StockRepository
	Bills         MedicineBillRepository
	Receipts      ReceiptRepository
	Recalls       RecallRepository
	Sequences     SequenceRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD con repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
