package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/internal/application/ports"
	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
)

// Claves de caché de las listas de opciones.
const (
	CacheKeyMedicineOptions = "catalog:options:medicines"
	CacheKeyServiceOptions  = "catalog:options:services"
	CacheKeyPackageOptions  = "catalog:options:packages"
)

// CatalogUseCase CRUD del catálogo global (medicamentos, servicios, paquetes).
// Escribe solo la central; las listas de opciones activas se cachean y se invalidan en cada escritura.
// AvgCost de medicamentos se maneja vía compras, nunca por CRUD.
type CatalogUseCase struct {
	repos repository.Repos
	cache ports.CatalogCache
	log   *logger.Logger
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(repos repository.Repos, cache ports.CatalogCache, log *logger.Logger) *CatalogUseCase {
	return &CatalogUseCase{repos: repos, cache: cache, log: log.Component("catalog")}
}

func defaultStatus(s string) string {
	if s == "" {
		return entity.StatusActive
	}
	return s
}

func (uc *CatalogUseCase) invalidate(ctx context.Context, key string) {
	if err := uc.cache.Delete(ctx, key); err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("no se pudo invalidar la caché")
	}
}

// options lee de caché y cae a la base de datos ante miss o error de caché.
func (uc *CatalogUseCase) options(ctx context.Context, key string, load func(context.Context) ([]entity.CatalogOption, error)) ([]entity.CatalogOption, error) {
	var cached []entity.CatalogOption
	found, err := uc.cache.Get(ctx, key, &cached)
	if err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("lectura de caché fallida")
	}
	if found && err == nil {
		return cached, nil
	}
	list, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []entity.CatalogOption{}
	}
	if err := uc.cache.Set(ctx, key, list); err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("escritura de caché fallida")
	}
	return list, nil
}

// ---- medicamentos ----

// CreateMedicine crea un medicamento del catálogo. AvgCost inicia en 0.
func (uc *CatalogUseCase) CreateMedicine(ctx context.Context, actor entity.Actor, in dto.MedicineRequest) (*dto.MedicineResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	now := time.Now()
	m := &entity.Medicine{
		ID:        uuid.New().String(),
		CreatedAt: now,
	}
	applyMedicine(m, in, now)
	if err := uc.repos.Medicines.Create(ctx, m); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, CacheKeyMedicineOptions)
	return dto.ToMedicineResponse(m), nil
}

func applyMedicine(m *entity.Medicine, in dto.MedicineRequest, now time.Time) {
	m.Name = strings.TrimSpace(in.Name)
	m.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	m.Manufacturer = in.Manufacturer
	m.Unit = in.Unit
	m.HSNCode = in.HSNCode
	m.MRP = in.MRP
	m.PurchaseRate = in.PurchaseRate
	m.TaxRate = in.TaxRate
	m.ReorderLevel = in.ReorderLevel
	m.Status = defaultStatus(in.Status)
	m.UpdatedAt = now
}

// GetMedicine obtiene un medicamento.
func (uc *CatalogUseCase) GetMedicine(ctx context.Context, id string) (*dto.MedicineResponse, error) {
	m, err := uc.repos.Medicines.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToMedicineResponse(m), nil
}

// UpdateMedicine reemplaza los datos editables del medicamento.
func (uc *CatalogUseCase) UpdateMedicine(ctx context.Context, actor entity.Actor, id string, in dto.MedicineRequest) (*dto.MedicineResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	m, err := uc.repos.Medicines.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	applyMedicine(m, in, time.Now())
	if err := uc.repos.Medicines.Update(ctx, m); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, CacheKeyMedicineOptions)
	return dto.ToMedicineResponse(m), nil
}

// DeleteMedicine elimina un medicamento sin movimientos (ErrConflict si tiene stock o ventas).
func (uc *CatalogUseCase) DeleteMedicine(ctx context.Context, actor entity.Actor, id string) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	if err := uc.repos.Medicines.Delete(ctx, id); err != nil {
		return err
	}
	uc.invalidate(ctx, CacheKeyMedicineOptions)
	return nil
}

// ListMedicines lista el catálogo de medicamentos.
func (uc *CatalogUseCase) ListMedicines(ctx context.Context, q dto.PageQuery, status string) (*dto.ListResponse[dto.MedicineResponse], error) {
	q.Normalize()
	list, total, err := uc.repos.Medicines.List(ctx, pageFilter(q, repository.ListFilter{Status: status}))
	if err != nil {
		return nil, err
	}
	return dto.NewListResponse(dto.MapList(list, dto.ToMedicineResponse), q, total), nil
}

// MedicineOptions medicamentos activos para selects (cacheado).
func (uc *CatalogUseCase) MedicineOptions(ctx context.Context) ([]entity.CatalogOption, error) {
	return uc.options(ctx, CacheKeyMedicineOptions, uc.repos.Medicines.Options)
}

// ---- servicios ----

// CreateService crea un servicio.
func (uc *CatalogUseCase) CreateService(ctx context.Context, actor entity.Actor, in dto.ServiceRequest) (*dto.ServiceResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	now := time.Now()
	s := &entity.Service{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		Code:      strings.ToUpper(strings.TrimSpace(in.Code)),
		Charge:    in.Charge,
		TaxRate:   in.TaxRate,
		Status:    defaultStatus(in.Status),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repos.Services.Create(ctx, s); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, CacheKeyServiceOptions)
	return dto.ToServiceResponse(s), nil
}

// GetService obtiene un servicio.
func (uc *CatalogUseCase) GetService(ctx context.Context, id string) (*dto.ServiceResponse, error) {
	s, err := uc.repos.Services.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToServiceResponse(s), nil
}

// UpdateService reemplaza los datos del servicio.
func (uc *CatalogUseCase) UpdateService(ctx context.Context, actor entity.Actor, id string, in dto.ServiceRequest) (*dto.ServiceResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	s, err := uc.repos.Services.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	s.Name = strings.TrimSpace(in.Name)
	s.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	s.Charge = in.Charge
	s.TaxRate = in.TaxRate
	s.Status = defaultStatus(in.Status)
	s.UpdatedAt = time.Now()
	if err := uc.repos.Services.Update(ctx, s); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, CacheKeyServiceOptions)
	return dto.ToServiceResponse(s), nil
}

// DeleteService elimina un servicio.
func (uc *CatalogUseCase) DeleteService(ctx context.Context, actor entity.Actor, id string) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	if err := uc.repos.Services.Delete(ctx, id); err != nil {
		return err
	}
	uc.invalidate(ctx, CacheKeyServiceOptions)
	return nil
}

// ListServices lista servicios.
func (uc *CatalogUseCase) ListServices(ctx context.Context, q dto.PageQuery) (*dto.ListResponse[dto.ServiceResponse], error) {
	q.Normalize()
	list, total, err := uc.repos.Services.List(ctx, pageFilter(q, repository.ListFilter{}))
	if err != nil {
		return nil, err
	}
	return dto.NewListResponse(dto.MapList(list, dto.ToServiceResponse), q, total), nil
}

// ServiceOptions servicios activos (cacheado).
func (uc *CatalogUseCase) ServiceOptions(ctx context.Context) ([]entity.CatalogOption, error) {
	return uc.options(ctx, CacheKeyServiceOptions, uc.repos.Services.Options)
}

// ---- paquetes ----

// checkServices verifica que cada servicio del paquete exista.
func (uc *CatalogUseCase) checkServices(ctx context.Context, ids []string) error {
	for _, id := range ids {
		s, err := uc.repos.Services.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.NewValidationError(map[string]string{"service_ids": "servicio inexistente: " + id})
		}
	}
	return nil
}

func sessionsOrDefault(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}

// CreatePackage crea un paquete de servicios.
func (uc *CatalogUseCase) CreatePackage(ctx context.Context, actor entity.Actor, in dto.PackageRequest) (*dto.PackageResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := uc.checkServices(ctx, in.ServiceIDs); err != nil {
		return nil, err
	}
	now := time.Now()
	p := &entity.Package{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Code:         strings.ToUpper(strings.TrimSpace(in.Code)),
		Price:        in.Price,
		Sessions:     sessionsOrDefault(in.Sessions),
		ValidityDays: in.ValidityDays,
		ServiceIDs:   in.ServiceIDs,
		Status:       defaultStatus(in.Status),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repos.Packages.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, CacheKeyPackageOptions)
	return dto.ToPackageResponse(p), nil
}

// GetPackage obtiene un paquete.
func (uc *CatalogUseCase) GetPackage(ctx context.Context, id string) (*dto.PackageResponse, error) {
	p, err := uc.repos.Packages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToPackageResponse(p), nil
}

// UpdatePackage reemplaza los datos del paquete.
func (uc *CatalogUseCase) UpdatePackage(ctx context.Context, actor entity.Actor, id string, in dto.PackageRequest) (*dto.PackageResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p, err := uc.repos.Packages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.checkServices(ctx, in.ServiceIDs); err != nil {
		return nil, err
	}
	p.Name = strings.TrimSpace(in.Name)
	p.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	p.Price = in.Price
	p.Sessions = sessionsOrDefault(in.Sessions)
	p.ValidityDays = in.ValidityDays
	p.ServiceIDs = in.ServiceIDs
	p.Status = defaultStatus(in.Status)
	p.UpdatedAt = time.Now()
	if err := uc.repos.Packages.Update(ctx, p); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, CacheKeyPackageOptions)
	return dto.ToPackageResponse(p), nil
}

// DeletePackage elimina un paquete.
func (uc *CatalogUseCase) DeletePackage(ctx context.Context, actor entity.Actor, id string) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	if err := uc.repos.Packages.Delete(ctx, id); err != nil {
		return err
	}
	uc.invalidate(ctx, CacheKeyPackageOptions)
	return nil
}

// ListPackages lista paquetes.
func (uc *CatalogUseCase) ListPackages(ctx context.Context, q dto.PageQuery) (*dto.ListResponse[dto.PackageResponse], error) {
	q.Normalize()
	list, total, err := uc.repos.Packages.List(ctx, pageFilter(q, repository.ListFilter{}))
	if err != nil {
		return nil, err
	}
	return dto.NewListResponse(dto.MapList(list, dto.ToPackageResponse), q, total), nil
}

// PackageOptions paquetes activos (cacheado).
func (uc *CatalogUseCase) PackageOptions(ctx context.Context) ([]entity.CatalogOption, error) {
	return uc.options(ctx, CacheKeyPackageOptions, uc.repos.Packages.Options)
}
