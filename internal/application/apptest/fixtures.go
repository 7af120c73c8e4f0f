package apptest

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
)

// Actores típicos para tests.
func Admin() entity.Actor { return entity.Actor{UserID: "admin-user", Role: entity.RoleAdmin} }

// FranchiseActor usuario de rol franchise de la franquicia dada.
func FranchiseActor(franchiseID string) entity.Actor {
	return entity.Actor{UserID: "fr-" + franchiseID, FranchiseID: franchiseID, Role: entity.RoleFranchise}
}

// DoctorActor usuario de rol doctor de la franquicia dada.
func DoctorActor(franchiseID string) entity.Actor {
	return entity.Actor{UserID: "doc-" + franchiseID, FranchiseID: franchiseID, Role: entity.RoleDoctor}
}

// Dec atajo para decimales en tablas de tests.
func Dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Day fecha a medianoche UTC.
func Day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

// AddFranchise guarda una franquicia activa.
func (s *Store) AddFranchise(code string) entity.Franchise {
	f := entity.Franchise{
		ID:        uuid.New().String(),
		Name:      "Clínica " + code,
		Code:      code,
		Email:     code + "@clinic.test",
		Status:    entity.StatusActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.mu.Lock()
	s.franchises[f.ID] = f
	s.mu.Unlock()
	return f
}

// AddTeam guarda un profesional activo de la franquicia.
func (s *Store) AddTeam(franchiseID, name string, fee decimal.Decimal) entity.Team {
	t := entity.Team{
		ID:              uuid.New().String(),
		FranchiseID:     franchiseID,
		Name:            name,
		Designation:     entity.DesignationDoctor,
		ConsultationFee: fee,
		Status:          entity.StatusActive,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	s.mu.Lock()
	s.teams[t.ID] = t
	s.mu.Unlock()
	return t
}

// AddPatient guarda un paciente de la franquicia.
func (s *Store) AddPatient(franchiseID, name, email string) entity.Patient {
	p := entity.Patient{
		ID:          uuid.New().String(),
		FranchiseID: franchiseID,
		Code:        "P-" + uuid.New().String()[:6],
		Name:        name,
		Email:       email,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	s.mu.Lock()
	s.patients[p.ID] = p
	s.mu.Unlock()
	return p
}

// AddMedicine guarda un medicamento activo del catálogo.
func (s *Store) AddMedicine(code string, mrp, taxRate, reorder decimal.Decimal) entity.Medicine {
	m := entity.Medicine{
		ID:           uuid.New().String(),
		Name:         "Medicamento " + code,
		Code:         code,
		Unit:         "tab",
		MRP:          mrp,
		PurchaseRate: mrp,
		TaxRate:      taxRate,
		ReorderLevel: reorder,
		Status:       entity.StatusActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	s.mu.Lock()
	s.medicines[m.ID] = m
	s.mu.Unlock()
	return m
}

// AddStock deja existencia de un lote sin pasar por el kardex (estado inicial de tests).
func (s *Store) AddStock(owner, medicineID, batchNo string, qty, avgCost decimal.Decimal, expiry *time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := owner + "|" + medicineID
	bal := s.balances[key]
	bal.Owner, bal.MedicineID = owner, medicineID
	bal.Quantity = bal.Quantity.Add(qty)
	bal.AvgCost = avgCost
	s.balances[key] = bal

	bkey := key + "|" + batchNo
	b := s.batches[bkey]
	b.Owner, b.MedicineID, b.BatchNo = owner, medicineID, batchNo
	b.Quantity = b.Quantity.Add(qty)
	b.ExpiryDate = expiry
	s.batches[bkey] = b
}

// AddUser guarda un usuario con el hash dado.
func (s *Store) AddUser(u entity.User) entity.User {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Status == "" {
		u.Status = entity.StatusActive
	}
	s.mu.Lock()
	s.users[u.ID] = u
	s.mu.Unlock()
	return u
}

// AddAppointment guarda una cita tal cual.
func (s *Store) AddAppointment(a entity.Appointment) entity.Appointment {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	s.mu.Lock()
	s.appointments[a.ID] = a
	s.mu.Unlock()
	return a
}

// Appointment devuelve la cita guardada.
func (s *Store) Appointment(id string) entity.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appointments[id]
}

// Recalls copia de todos los recordatorios.
func (s *Store) Recalls() []entity.Recall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Recall, 0, len(s.recalls))
	for _, r := range s.recalls {
		out = append(out, r)
	}
	return out
}

// Medicine devuelve el medicamento guardado.
func (s *Store) Medicine(id string) entity.Medicine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.medicines[id]
}

// Sale devuelve la venta guardada.
func (s *Store) Sale(id string) entity.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *cloneSale(s.sales[id])
}

// Users copia de todos los usuarios.
func (s *Store) Users() []entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out
}

// AddConsultation guarda una consulta tal cual (NetAmount ya calculado por el test).
func (s *Store) AddConsultation(c entity.Consultation) entity.Consultation {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	s.mu.Lock()
	s.consultations[c.ID] = c
	s.mu.Unlock()
	return c
}

// AddBill guarda una factura tal cual.
func (s *Store) AddBill(b entity.MedicineBill) entity.MedicineBill {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.Status == "" {
		b.Status = entity.BillPaid
	}
	s.mu.Lock()
	s.bills[b.ID] = b
	s.mu.Unlock()
	return b
}
