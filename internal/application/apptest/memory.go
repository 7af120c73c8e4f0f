// Package apptest provee repositorios en memoria para probar casos de uso sin PostgreSQL.
package apptest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/inventory"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
)

// Store estado completo de la base en memoria.
type Store struct {
	mu sync.Mutex

	franchises    map[string]entity.Franchise
	users         map[string]entity.User
	teams         map[string]entity.Team
	patients      map[string]entity.Patient
	appointments  map[string]entity.Appointment
	consultations map[string]entity.Consultation
	medicines     map[string]entity.Medicine
	services      map[string]entity.Service
	packages      map[string]entity.Package
	sales         map[string]entity.Sale
	transports    map[string]entity.Transport
	balances      map[string]entity.StockBalance
	batches       map[string]entity.StockBatchBalance
	ledger        []entity.StockLedger
	bills         map[string]entity.MedicineBill
	receipts      map[string]entity.Receipt
	recalls       map[string]entity.Recall
	sequences     map[string]int64

	// TxCount cuántas transacciones se ejecutaron (confirmadas o no).
	TxCount int
}

// NewStore crea una base vacía.
func NewStore() *Store {
	return &Store{
		franchises:    map[string]entity.Franchise{},
		users:         map[string]entity.User{},
		teams:         map[string]entity.Team{},
		patients:      map[string]entity.Patient{},
		appointments:  map[string]entity.Appointment{},
		consultations: map[string]entity.Consultation{},
		medicines:     map[string]entity.Medicine{},
		services:      map[string]entity.Service{},
		packages:      map[string]entity.Package{},
		sales:         map[string]entity.Sale{},
		transports:    map[string]entity.Transport{},
		balances:      map[string]entity.StockBalance{},
		batches:       map[string]entity.StockBatchBalance{},
		bills:         map[string]entity.MedicineBill{},
		receipts:      map[string]entity.Receipt{},
		recalls:       map[string]entity.Recall{},
		sequences:     map[string]int64{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *Store) snapshot() *Store {
	return &Store{
		franchises:    cloneMap(s.franchises),
		users:         cloneMap(s.users),
		teams:         cloneMap(s.teams),
		patients:      cloneMap(s.patients),
		appointments:  cloneMap(s.appointments),
		consultations: cloneMap(s.consultations),
		medicines:     cloneMap(s.medicines),
		services:      cloneMap(s.services),
		packages:      cloneMap(s.packages),
		sales:         cloneMap(s.sales),
		transports:    cloneMap(s.transports),
		balances:      cloneMap(s.balances),
		batches:       cloneMap(s.batches),
		ledger:        append([]entity.StockLedger(nil), s.ledger...),
		bills:         cloneMap(s.bills),
		receipts:      cloneMap(s.receipts),
		recalls:       cloneMap(s.recalls),
		sequences:     cloneMap(s.sequences),
	}
}

func (s *Store) restore(snap *Store) {
	s.franchises = snap.franchises
	s.users = snap.users
	s.teams = snap.teams
	s.patients = snap.patients
	s.appointments = snap.appointments
	s.consultations = snap.consultations
	s.medicines = snap.medicines
	s.services = snap.services
	s.packages = snap.packages
	s.sales = snap.sales
	s.transports = snap.transports
	s.balances = snap.balances
	s.batches = snap.batches
	s.ledger = snap.ledger
	s.bills = snap.bills
	s.receipts = snap.receipts
	s.recalls = snap.recalls
	s.sequences = snap.sequences
}

// Repos devuelve los puertos atados a este store.
func (s *Store) Repos() repository.Repos {
	return repository.Repos{
		Franchises:    franchiseRepo{s},
		Users:         userRepo{s},
		Teams:         teamRepo{s},
		Patients:      patientRepo{s},
		Appointments:  appointmentRepo{s},
		Consultations: consultationRepo{s},
		Medicines:     medicineRepo{s},
		Services:      serviceRepo{s},
		Packages:      packageRepo{s},
		Sales:         saleRepo{s},
		Transports:    transportRepo{s},
		Stock:         stockRepo{s},
		Bills:         billRepo{s},
		Receipts:      receiptRepo{s},
		Recalls:       recallRepo{s},
		Sequences:     sequenceRepo{s},
	}
}

// TxRunner ejecuta fn sobre el mismo store y deshace los cambios si fn devuelve error.
func (s *Store) TxRunner() repository.TxRunner { return txRunner{s} }

type txRunner struct{ s *Store }

func (t txRunner) Run(_ context.Context, fn func(r repository.Repos) error) error {
	t.s.mu.Lock()
	t.s.TxCount++
	snap := t.s.snapshot()
	t.s.mu.Unlock()

	if err := fn(t.s.Repos()); err != nil {
		t.s.mu.Lock()
		t.s.restore(snap)
		t.s.mu.Unlock()
		return err
	}
	return nil
}

// Ledger copia del kardex completo.
func (s *Store) Ledger() []entity.StockLedger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.StockLedger(nil), s.ledger...)
}

// Balance existencia actual (cero si no hay fila).
func (s *Store) Balance(owner, medicineID string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances[owner+"|"+medicineID].Quantity
}

// BatchQty existencia actual de un lote.
func (s *Store) BatchQty(owner, medicineID, batchNo string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batches[owner+"|"+medicineID+"|"+batchNo].Quantity
}

// Receipts copia de todos los recibos.
func (s *Store) Receipts() []entity.Receipt {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Receipt, 0, len(s.receipts))
	for _, r := range s.receipts {
		out = append(out, r)
	}
	return out
}

// ---- helpers de filtrado ----

func paginate[T any](items []T, f repository.ListFilter) ([]T, int) {
	total := len(items)
	if f.Offset > 0 {
		if f.Offset >= len(items) {
			return []T{}, total
		}
		items = items[f.Offset:]
	}
	if f.Limit > 0 && len(items) > f.Limit {
		items = items[:f.Limit]
	}
	return items, total
}

func matches(search string, values ...string) bool {
	if search == "" {
		return true
	}
	search = strings.ToLower(search)
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), search) {
			return true
		}
	}
	return false
}

func inRange(t time.Time, f repository.ListFilter) bool {
	if f.From != nil && t.Before(*f.From) {
		return false
	}
	if f.To != nil && !t.Before(f.To.AddDate(0, 0, 1)) {
		return false
	}
	return true
}

func sortByTime[T any](items []*T, created func(*T) time.Time, order string) {
	sort.SliceStable(items, func(i, j int) bool {
		if order == "asc" {
			return created(items[i]).Before(created(items[j]))
		}
		return created(items[i]).After(created(items[j]))
	})
}

func ptr[T any](v T) *T { return &v }

// ---- franchises ----

type franchiseRepo struct{ s *Store }

func (r franchiseRepo) Create(_ context.Context, f *entity.Franchise) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.franchises {
		if strings.EqualFold(x.Code, f.Code) {
			return domain.ErrDuplicate
		}
	}
	r.s.franchises[f.ID] = *f
	return nil
}

func (r franchiseRepo) GetByID(_ context.Context, id string) (*entity.Franchise, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if f, ok := r.s.franchises[id]; ok {
		return ptr(f), nil
	}
	return nil, nil
}

func (r franchiseRepo) GetByCode(_ context.Context, code string) (*entity.Franchise, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, f := range r.s.franchises {
		if strings.EqualFold(f.Code, code) {
			return ptr(f), nil
		}
	}
	return nil, nil
}

func (r franchiseRepo) Update(_ context.Context, f *entity.Franchise) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.franchises[f.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.franchises[f.ID] = *f
	return nil
}

func (r franchiseRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.franchises[id]; !ok {
		return domain.ErrNotFound
	}
	for _, p := range r.s.patients {
		if p.FranchiseID == id {
			return domain.ErrConflict
		}
	}
	for _, t := range r.s.teams {
		if t.FranchiseID == id {
			return domain.ErrConflict
		}
	}
	for _, s := range r.s.sales {
		if s.FranchiseID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.franchises, id)
	return nil
}

func (r franchiseRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Franchise, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Franchise
	for _, x := range r.s.franchises {
		if f.Status != "" && x.Status != f.Status {
			continue
		}
		if !matches(f.Search, x.Name, x.Code, x.City) {
			continue
		}
		out = append(out, ptr(x))
	}
	sortByTime(out, func(x *entity.Franchise) time.Time { return x.CreatedAt }, f.Order)
	page, total := paginate(out, f)
	return page, total, nil
}

// ---- users ----

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.users {
		if strings.EqualFold(x.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		return ptr(u), nil
	}
	return nil, nil
}

func (r userRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return ptr(u), nil
		}
	}
	return nil, nil
}

func (r userRepo) UpdatePassword(_ context.Context, id, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	r.s.users[id] = u
	return nil
}

func (r userRepo) SetStatus(_ context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Status = status
	r.s.users[id] = u
	return nil
}

// ---- teams ----

type teamRepo struct{ s *Store }

func (r teamRepo) Create(_ context.Context, t *entity.Team) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.teams[t.ID] = *t
	return nil
}

func (r teamRepo) GetByID(_ context.Context, id string) (*entity.Team, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t, ok := r.s.teams[id]; ok {
		return ptr(t), nil
	}
	return nil, nil
}

func (r teamRepo) GetForUpdate(ctx context.Context, id string) (*entity.Team, error) {
	return r.GetByID(ctx, id)
}

func (r teamRepo) Update(_ context.Context, t *entity.Team) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.teams[t.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.teams[t.ID] = *t
	return nil
}

func (r teamRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.teams[id]; !ok {
		return domain.ErrNotFound
	}
	for _, a := range r.s.appointments {
		if a.TeamID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.teams, id)
	return nil
}

func (r teamRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Team, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Team
	for _, x := range r.s.teams {
		if f.FranchiseID != "" && x.FranchiseID != f.FranchiseID {
			continue
		}
		if f.Status != "" && x.Status != f.Status {
			continue
		}
		if !matches(f.Search, x.Name, x.Phone, x.Email) {
			continue
		}
		out = append(out, ptr(x))
	}
	sortByTime(out, func(x *entity.Team) time.Time { return x.CreatedAt }, f.Order)
	page, total := paginate(out, f)
	return page, total, nil
}

// ---- patients ----

type patientRepo struct{ s *Store }

func (r patientRepo) Create(_ context.Context, p *entity.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.patients {
		if x.FranchiseID == p.FranchiseID && x.Code == p.Code {
			return domain.ErrDuplicate
		}
	}
	r.s.patients[p.ID] = *p
	return nil
}

func (r patientRepo) GetByID(_ context.Context, id string) (*entity.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.patients[id]; ok {
		return ptr(p), nil
	}
	return nil, nil
}

func (r patientRepo) Update(_ context.Context, p *entity.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.patients[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.patients[p.ID] = *p
	return nil
}

func (r patientRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.patients[id]; !ok {
		return domain.ErrNotFound
	}
	for _, c := range r.s.consultations {
		if c.PatientID == id {
			return domain.ErrConflict
		}
	}
	for _, b := range r.s.bills {
		if b.PatientID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.patients, id)
	return nil
}

func (r patientRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Patient, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Patient
	for _, x := range r.s.patients {
		if f.FranchiseID != "" && x.FranchiseID != f.FranchiseID {
			continue
		}
		if !matches(f.Search, x.Name, x.Phone, x.Code) {
			continue
		}
		out = append(out, ptr(x))
	}
	sortByTime(out, func(x *entity.Patient) time.Time { return x.CreatedAt }, f.Order)
	page, total := paginate(out, f)
	return page, total, nil
}

// ---- appointments ----

type appointmentRepo struct{ s *Store }

func (r appointmentRepo) Create(_ context.Context, a *entity.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.appointments[a.ID] = *a
	return nil
}

func (r appointmentRepo) GetByID(_ context.Context, id string) (*entity.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a, ok := r.s.appointments[id]; ok {
		return ptr(a), nil
	}
	return nil, nil
}

func (r appointmentRepo) Update(_ context.Context, a *entity.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.appointments[a.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.appointments[a.ID] = *a
	return nil
}

func (r appointmentRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.appointments[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Status = status
	r.s.appointments[id] = a
	return nil
}

func (r appointmentRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.appointments[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.appointments, id)
	return nil
}

func (r appointmentRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Appointment, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Appointment
	for _, x := range r.s.appointments {
		if f.FranchiseID != "" && x.FranchiseID != f.FranchiseID {
			continue
		}
		if f.TeamID != "" && x.TeamID != f.TeamID {
			continue
		}
		if f.PatientID != "" && x.PatientID != f.PatientID {
			continue
		}
		if f.Status != "" && x.Status != f.Status {
			continue
		}
		if !inRange(x.StartAt, f) {
			continue
		}
		out = append(out, ptr(x))
	}
	sortByTime(out, func(x *entity.Appointment) time.Time { return x.StartAt }, f.Order)
	page, total := paginate(out, f)
	return page, total, nil
}

func (r appointmentRepo) HasOverlap(_ context.Context, teamID string, start, end time.Time, excludeID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.appointments {
		if a.TeamID != teamID || a.ID == excludeID || !a.BlocksAgenda() {
			continue
		}
		if entity.Overlaps(a.StartAt, a.EndAt(), start, end) {
			return true, nil
		}
	}
	return false, nil
}

// ---- consultations ----

type consultationRepo struct{ s *Store }

func (r consultationRepo) Create(_ context.Context, c *entity.Consultation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.consultations[c.ID] = *c
	return nil
}

func (r consultationRepo) GetByID(_ context.Context, id string) (*entity.Consultation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.consultations[id]; ok {
		return ptr(c), nil
	}
	return nil, nil
}

func (r consultationRepo) Update(_ context.Context, c *entity.Consultation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.consultations[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.consultations[c.ID] = *c
	return nil
}

func (r consultationRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.consultations[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.consultations, id)
	return nil
}

func (r consultationRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Consultation, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Consultation
	for _, x := range r.s.consultations {
		if f.FranchiseID != "" && x.FranchiseID != f.FranchiseID {
			continue
		}
		if f.TeamID != "" && x.TeamID != f.TeamID {
			continue
		}
		if f.PatientID != "" && x.PatientID != f.PatientID {
			continue
		}
		if !inRange(x.Date, f) {
			continue
		}
		if !matches(f.Search, x.Diagnosis, x.Complaints) {
			continue
		}
		out = append(out, ptr(x))
	}
	sortByTime(out, func(x *entity.Consultation) time.Time { return x.CreatedAt }, f.Order)
	page, total := paginate(out, f)
	return page, total, nil
}

// ---- catálogo ----

type medicineRepo struct{ s *Store }

func (r medicineRepo) Create(_ context.Context, m *entity.Medicine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.medicines {
		if strings.EqualFold(x.Code, m.Code) {
			return domain.ErrDuplicate
		}
	}
	r.s.medicines[m.ID] = *m
	return nil
}

func (r medicineRepo) GetByID(_ context.Context, id string) (*entity.Medicine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m, ok := r.s.medicines[id]; ok {
		return ptr(m), nil
	}
	return nil, nil
}

func (r medicineRepo) Update(_ context.Context, m *entity.Medicine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.medicines[m.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.medicines[m.ID] = *m
	return nil
}

func (r medicineRepo) UpdateAvgCost(_ context.Context, id string, cost decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.medicines[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.AvgCost = cost
	r.s.medicines[id] = m
	return nil
}

func (r medicineRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.medicines[id]; !ok {
		return domain.ErrNotFound
	}
	for _, b := range r.s.balances {
		if b.MedicineID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.medicines, id)
	return nil
}

func (r medicineRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Medicine, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Medicine
	for _, x := range r.s.medicines {
		if f.Status != "" && x.Status != f.Status {
			continue
		}
		if !matches(f.Search, x.Name, x.Code, x.Manufacturer) {
			continue
		}
		out = append(out, ptr(x))
	}
	sortByTime(out, func(x *entity.Medicine) time.Time { return x.CreatedAt }, f.Order)
	page, total := paginate(out, f)
	return page, total, nil
}

func (r medicineRepo) Options(_ context.Context) ([]entity.CatalogOption, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.CatalogOption
	for _, x := range r.s.medicines {
		if x.Status == entity.StatusActive {
			out = append(out, entity.CatalogOption{ID: x.ID, Code: x.Code, Name: x.Name, Price: x.MRP})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type serviceRepo struct{ s *Store }

func (r serviceRepo) Create(_ context.Context, v *entity.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.services {
		if strings.EqualFold(x.Code, v.Code) {
			return domain.ErrDuplicate
		}
	}
	r.s.services[v.ID] = *v
	return nil
}

func (r serviceRepo) GetByID(_ context.Context, id string) (*entity.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if v, ok := r.s.services[id]; ok {
		return ptr(v), nil
	}
	return nil, nil
}

func (r serviceRepo) Update(_ context.Context, v *entity.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.services[v.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.services[v.ID] = *v
	return nil
}

func (r serviceRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.services[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.services, id)
	return nil
}

func (r serviceRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Service, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Service
	for _, x := range r.s.services {
		if !matches(f.Search, x.Name, x.Code) {
			continue
		}
		out = append(out, ptr(x))
	}
	sortByTime(out, func(x *entity.Service) time.Time { return x.CreatedAt }, f.Order)
	page, total := paginate(out, f)
	return page, total, nil
}

func (r serviceRepo) Options(_ context.Context) ([]entity.CatalogOption, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.CatalogOption
	for _, x := range r.s.services {
		if x.Status == entity.StatusActive {
			out = append(out, entity.CatalogOption{ID: x.ID, Code: x.Code, Name: x.Name, Price: x.Charge})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type packageRepo struct{ s *Store }

func (r packageRepo) Create(_ context.Context, v *entity.Package) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.packages {
		if strings.EqualFold(x.Code, v.Code) {
			return domain.ErrDuplicate
		}
	}
	r.s.packages[v.ID] = *v
	return nil
}

func (r packageRepo) GetByID(_ context.Context, id string) (*entity.Package, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if v, ok := r.s.packages[id]; ok {
		return ptr(v), nil
	}
	return nil, nil
}

func (r packageRepo) Update(_ context.Context, v *entity.Package) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.packages[v.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.packages[v.ID] = *v
	return nil
}

func (r packageRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.packages[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.packages, id)
	return nil
}

func (r packageRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Package, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Package
	for _, x := range r.s.packages {
		if !matches(f.Search, x.Name, x.Code) {
			continue
		}
		out = append(out, ptr(x))
	}
	sortByTime(out, func(x *entity.Package) time.Time { return x.CreatedAt }, f.Order)
	page, total := paginate(out, f)
	return page, total, nil
}

func (r packageRepo) Options(_ context.Context) ([]entity.CatalogOption, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.CatalogOption
	for _, x := range r.s.packages {
		if x.Status == entity.StatusActive {
			out = append(out, entity.CatalogOption{ID: x.ID, Code: x.Code, Name: x.Name, Price: x.Price})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ---- sales ----

type saleRepo struct{ s *Store }

func cloneSale(s entity.Sale) *entity.Sale {
	s.Details = append([]entity.SaleDetail(nil), s.Details...)
	return &s
}

func (r saleRepo) Create(_ context.Context, s *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.sales {
		if x.InvoiceNo == s.InvoiceNo {
			return domain.ErrDuplicate
		}
	}
	r.s.sales[s.ID] = *cloneSale(*s)
	return nil
}

func (r saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if s, ok := r.s.sales[id]; ok {
		return cloneSale(s), nil
	}
	return nil, nil
}

func (r saleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r saleRepo) Update(_ context.Context, s *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.sales[s.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.sales[s.ID] = *cloneSale(*s)
	return nil
}

func (r saleRepo) UpdateDispatchStatus(_ context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	s, ok := r.s.sales[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.DispatchStatus = status
	r.s.sales[id] = s
	return nil
}

func (r saleRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.sales[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.sales, id)
	return nil
}

func (r saleRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Sale, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Sale
	for _, x := range r.s.sales {
		if f.FranchiseID != "" && x.FranchiseID != f.FranchiseID {
			continue
		}
		if f.Status != "" && x.DispatchStatus != f.Status {
			continue
		}
		if !inRange(x.InvoiceDate, f) || !matches(f.Search, x.InvoiceNo) {
			continue
		}
		out = append(out, cloneSale(x))
	}
	sortByTime(out, func(x *entity.Sale) time.Time { return x.CreatedAt }, f.Order)
	page, total := paginate(out, f)
	return page, total, nil
}

// ---- transports ----

type transportRepo struct{ s *Store }

func cloneTransport(t entity.Transport) *entity.Transport {
	t.Details = append([]entity.TransportDetail(nil), t.Details...)
	return &t
}

func (r transportRepo) Create(_ context.Context, t *entity.Transport) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.transports[t.ID] = *cloneTransport(*t)
	return nil
}

func (r transportRepo) GetByID(_ context.Context, id string) (*entity.Transport, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t, ok := r.s.transports[id]; ok {
		return cloneTransport(t), nil
	}
	return nil, nil
}

func (r transportRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transport, error) {
	return r.GetByID(ctx, id)
}

func (r transportRepo) ListBySale(_ context.Context, saleID string) ([]entity.Transport, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Transport
	for _, t := range r.s.transports {
		if t.SaleID == saleID {
			out = append(out, *cloneTransport(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r transportRepo) UpdateStatus(_ context.Context, t *entity.Transport) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.transports[t.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Status = t.Status
	cur.ReceivedAt = t.ReceivedAt
	cur.ReceivedBy = t.ReceivedBy
	cur.UpdatedAt = t.UpdatedAt
	r.s.transports[t.ID] = cur
	return nil
}

func (r transportRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Transport, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Transport
	for _, x := range r.s.transports {
		if f.FranchiseID != "" && x.FranchiseID != f.FranchiseID {
			continue
		}
		if f.SaleID != "" && x.SaleID != f.SaleID {
			continue
		}
		if f.Status != "" && x.Status != f.Status {
			continue
		}
		if !inRange(x.DispatchDate, f) || !matches(f.Search, x.DispatchNo, x.VehicleNo, x.LRNo) {
			continue
		}
		out = append(out, cloneTransport(x))
	}
	sortByTime(out, func(x *entity.Transport) time.Time { return x.CreatedAt }, f.Order)
	page, total := paginate(out, f)
	return page, total, nil
}

// ---- stock ----

type stockRepo struct{ s *Store }

func (r stockRepo) GetBalanceForUpdate(_ context.Context, owner, medicineID string) (*entity.StockBalance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b, ok := r.s.balances[owner+"|"+medicineID]; ok {
		return ptr(b), nil
	}
	return &entity.StockBalance{Owner: owner, MedicineID: medicineID, Quantity: decimal.Zero, AvgCost: decimal.Zero}, nil
}

func (r stockRepo) UpsertBalance(_ context.Context, b *entity.StockBalance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.balances[b.Owner+"|"+b.MedicineID] = *b
	return nil
}

func (r stockRepo) GetBatchForUpdate(_ context.Context, owner, medicineID, batchNo string) (*entity.StockBatchBalance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b, ok := r.s.batches[owner+"|"+medicineID+"|"+batchNo]; ok {
		return ptr(b), nil
	}
	return &entity.StockBatchBalance{Owner: owner, MedicineID: medicineID, BatchNo: batchNo, Quantity: decimal.Zero}, nil
}

func (r stockRepo) ListBatchesForUpdate(_ context.Context, owner, medicineID string) ([]entity.StockBatchBalance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.StockBatchBalance
	for _, b := range r.s.batches {
		if b.Owner == owner && b.MedicineID == medicineID && b.Quantity.IsPositive() {
			out = append(out, b)
		}
	}
	inventory.SortFEFO(out)
	return out, nil
}

func (r stockRepo) UpsertBatch(_ context.Context, b *entity.StockBatchBalance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.batches[b.Owner+"|"+b.MedicineID+"|"+b.BatchNo] = *b
	return nil
}

func (r stockRepo) AddLedger(_ context.Context, l *entity.StockLedger) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.ledger = append(r.s.ledger, *l)
	return nil
}

func (r stockRepo) ListBalances(_ context.Context, f repository.ListFilter) ([]entity.StockBalanceRow, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.StockBalanceRow
	if f.LowStockOnly && f.Owner == entity.OwnerCentral {
		for _, m := range r.s.medicines {
			if m.Status != entity.StatusActive {
				continue
			}
			b, ok := r.s.balances[f.Owner+"|"+m.ID]
			if !ok {
				b = entity.StockBalance{Owner: f.Owner, MedicineID: m.ID, AvgCost: m.AvgCost, UpdatedAt: m.UpdatedAt}
			}
			row := entity.StockBalanceRow{StockBalance: b, MedicineName: m.Name, MedicineCode: m.Code, ReorderLevel: m.ReorderLevel}
			if row.IsLow() && matches(f.Search, m.Name, m.Code) {
				out = append(out, row)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].MedicineName < out[j].MedicineName })
		page, total := paginate(out, f)
		return page, total, nil
	}
	for _, b := range r.s.balances {
		if f.Owner != "" && b.Owner != f.Owner {
			continue
		}
		m := r.s.medicines[b.MedicineID]
		row := entity.StockBalanceRow{StockBalance: b, MedicineName: m.Name, MedicineCode: m.Code, ReorderLevel: m.ReorderLevel}
		if f.LowStockOnly && !row.IsLow() {
			continue
		}
		if !matches(f.Search, m.Name, m.Code) {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MedicineName < out[j].MedicineName })
	page, total := paginate(out, f)
	return page, total, nil
}

func (r stockRepo) ListBatches(_ context.Context, f repository.ListFilter) ([]entity.StockBatchBalance, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.StockBatchBalance
	for _, b := range r.s.batches {
		if f.Owner != "" && b.Owner != f.Owner {
			continue
		}
		if f.MedicineID != "" && b.MedicineID != f.MedicineID {
			continue
		}
		out = append(out, b)
	}
	inventory.SortFEFO(out)
	page, total := paginate(out, f)
	return page, total, nil
}

func (r stockRepo) ListLedger(_ context.Context, f repository.ListFilter) ([]entity.StockLedger, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.StockLedger
	for _, l := range r.s.ledger {
		if f.Owner != "" && l.Owner != f.Owner {
			continue
		}
		if f.MedicineID != "" && l.MedicineID != f.MedicineID {
			continue
		}
		if f.Kind != "" && l.Type != f.Kind {
			continue
		}
		if !inRange(l.Date, f) {
			continue
		}
		out = append(out, l)
	}
	page, total := paginate(out, f)
	return page, total, nil
}

// ---- medicine bills ----

type billRepo struct{ s *Store }

func cloneBill(b entity.MedicineBill) *entity.MedicineBill {
	b.Items = append([]entity.MedicineBillItem(nil), b.Items...)
	return &b
}

func (r billRepo) Create(_ context.Context, b *entity.MedicineBill) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.bills {
		if x.FranchiseID == b.FranchiseID && x.BillNo == b.BillNo {
			return domain.ErrDuplicate
		}
	}
	r.s.bills[b.ID] = *cloneBill(*b)
	return nil
}

func (r billRepo) GetByID(_ context.Context, id string) (*entity.MedicineBill, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b, ok := r.s.bills[id]; ok {
		return cloneBill(b), nil
	}
	return nil, nil
}

func (r billRepo) GetForUpdate(ctx context.Context, id string) (*entity.MedicineBill, error) {
	return r.GetByID(ctx, id)
}

func (r billRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bills[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.Status = status
	r.s.bills[id] = b
	return nil
}

func (r billRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.MedicineBill, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.MedicineBill
	for _, x := range r.s.bills {
		if f.FranchiseID != "" && x.FranchiseID != f.FranchiseID {
			continue
		}
		if f.PatientID != "" && x.PatientID != f.PatientID {
			continue
		}
		if f.Status != "" && x.Status != f.Status {
			continue
		}
		if !inRange(x.BillDate, f) || !matches(f.Search, x.BillNo) {
			continue
		}
		out = append(out, cloneBill(x))
	}
	sortByTime(out, func(x *entity.MedicineBill) time.Time { return x.CreatedAt }, f.Order)
	page, total := paginate(out, f)
	return page, total, nil
}

// ---- receipts ----

type receiptRepo struct{ s *Store }

func (r receiptRepo) Create(_ context.Context, v *entity.Receipt) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.receipts[v.ID] = *v
	return nil
}

func (r receiptRepo) GetByID(_ context.Context, id string) (*entity.Receipt, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if v, ok := r.s.receipts[id]; ok {
		return ptr(v), nil
	}
	return nil, nil
}

func (r receiptRepo) GetByReference(_ context.Context, kind, referenceID string) (*entity.Receipt, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, v := range r.s.receipts {
		if v.Kind == kind && v.ReferenceID == referenceID && !v.Cancelled {
			return ptr(v), nil
		}
	}
	return nil, nil
}

func (r receiptRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Receipt, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Receipt
	for _, x := range r.s.receipts {
		if f.FranchiseID != "" && x.FranchiseID != f.FranchiseID {
			continue
		}
		if f.PatientID != "" && x.PatientID != f.PatientID {
			continue
		}
		if f.Kind != "" && x.Kind != f.Kind {
			continue
		}
		if !inRange(x.Date, f) || !matches(f.Search, x.ReceiptNo) {
			continue
		}
		out = append(out, ptr(x))
	}
	sortByTime(out, func(x *entity.Receipt) time.Time { return x.CreatedAt }, f.Order)
	page, total := paginate(out, f)
	return page, total, nil
}

func (r receiptRepo) UpdateByReference(_ context.Context, kind, referenceID string, amount decimal.Decimal, paymentMode string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, v := range r.s.receipts {
		if v.Kind == kind && v.ReferenceID == referenceID && !v.Cancelled {
			v.Amount = amount
			v.PaymentMode = paymentMode
			r.s.receipts[id] = v
		}
	}
	return nil
}

func (r receiptRepo) CancelByReference(_ context.Context, kind, referenceID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, v := range r.s.receipts {
		if v.Kind == kind && v.ReferenceID == referenceID {
			v.Cancelled = true
			r.s.receipts[id] = v
		}
	}
	return nil
}

// ---- recalls ----

type recallRepo struct{ s *Store }

func (r recallRepo) Create(_ context.Context, v *entity.Recall) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.recalls[v.ID] = *v
	return nil
}

func (r recallRepo) GetByID(_ context.Context, id string) (*entity.Recall, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if v, ok := r.s.recalls[id]; ok {
		return ptr(v), nil
	}
	return nil, nil
}

func (r recallRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.recalls[id]
	if !ok {
		return domain.ErrNotFound
	}
	v.Status = status
	r.s.recalls[id] = v
	return nil
}

func (r recallRepo) MarkNotified(_ context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.recalls[id]
	if !ok {
		return domain.ErrNotFound
	}
	v.NotifiedAt = &at
	r.s.recalls[id] = v
	return nil
}

func (r recallRepo) CancelByConsultation(_ context.Context, consultationID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, v := range r.s.recalls {
		if v.ConsultationID == consultationID && v.Status == entity.RecallPending {
			v.Status = entity.RecallCancelled
			r.s.recalls[id] = v
		}
	}
	return nil
}

func (r recallRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Recall, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Recall
	for _, x := range r.s.recalls {
		if f.FranchiseID != "" && x.FranchiseID != f.FranchiseID {
			continue
		}
		if f.PatientID != "" && x.PatientID != f.PatientID {
			continue
		}
		if f.Status != "" && x.Status != f.Status {
			continue
		}
		if !inRange(x.RecallDate, f) {
			continue
		}
		out = append(out, ptr(x))
	}
	sortByTime(out, func(x *entity.Recall) time.Time { return x.RecallDate }, "asc")
	page, total := paginate(out, f)
	return page, total, nil
}

// ---- sequences ----

type sequenceRepo struct{ s *Store }

func (r sequenceRepo) Next(_ context.Context, scope string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sequences[scope]++
	return r.s.sequences[scope], nil
}
