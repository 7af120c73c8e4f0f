package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/clinic-franchise-api/internal/application/dto"
	"github.com/jhoicas/clinic-franchise-api/internal/application/scope"
	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
)

// historyLimit máximo de registros por sección del historial del paciente.
const historyLimit = 100

// PatientUseCase CRUD de pacientes con código correlativo por franquicia.
type PatientUseCase struct {
	txRunner repository.TxRunner
	repos    repository.Repos
}

// NewPatientUseCase construye el caso de uso.
func NewPatientUseCase(txRunner repository.TxRunner, repos repository.Repos) *PatientUseCase {
	return &PatientUseCase{txRunner: txRunner, repos: repos}
}

// Create registra un paciente con código <CODIGO_FRANQUICIA>-000001 (consecutivo atómico por franquicia).
func (uc *PatientUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	franchiseID, err := actor.RequireFranchise(in.FranchiseID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	p := &entity.Patient{
		ID:          uuid.New().String(),
		FranchiseID: franchiseID,
		Name:        strings.TrimSpace(in.Name),
		Gender:      in.Gender,
		DateOfBirth: dto.DatePtr(in.DateOfBirth),
		Phone:       in.Phone,
		Email:       in.Email,
		Address:     in.Address,
		BloodGroup:  in.BloodGroup,
		PhotoURL:    in.PhotoURL,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = uc.txRunner.Run(ctx, func(r repository.Repos) error {
		f, err := scope.Franchise(ctx, r.Franchises, franchiseID)
		if err != nil {
			return err
		}
		seq, err := r.Sequences.Next(ctx, "patient:"+franchiseID)
		if err != nil {
			return err
		}
		p.Code = entity.PatientCode(f.Code, seq)
		return r.Patients.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return dto.ToPatientResponse(p), nil
}

func (uc *PatientUseCase) get(ctx context.Context, actor entity.Actor, id string) (*entity.Patient, error) {
	p, err := uc.repos.Patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.CanAccess(p.FranchiseID) {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

// GetByID obtiene un paciente.
func (uc *PatientUseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.PatientResponse, error) {
	p, err := uc.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return dto.ToPatientResponse(p), nil
}

// Update actualiza los campos enviados. El código y la franquicia no cambian.
func (uc *PatientUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p, err := uc.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	setString(&p.Name, in.Name)
	setString(&p.Gender, in.Gender)
	setString(&p.Phone, in.Phone)
	setString(&p.Email, in.Email)
	setString(&p.Address, in.Address)
	setString(&p.BloodGroup, in.BloodGroup)
	setString(&p.PhotoURL, in.PhotoURL)
	setString(&p.Notes, in.Notes)
	if in.DateOfBirth != nil {
		p.DateOfBirth = dto.DatePtr(*in.DateOfBirth)
	}
	p.UpdatedAt = time.Now()
	if err := uc.repos.Patients.Update(ctx, p); err != nil {
		return nil, err
	}
	return dto.ToPatientResponse(p), nil
}

// Delete elimina un paciente sin consultas ni facturas (ErrConflict en caso contrario).
func (uc *PatientUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	if !canManageStaff(actor) {
		return domain.ErrForbidden
	}
	p, err := uc.get(ctx, actor, id)
	if err != nil {
		return err
	}
	return uc.repos.Patients.Delete(ctx, p.ID)
}

// List busca pacientes por nombre, teléfono o código.
func (uc *PatientUseCase) List(ctx context.Context, actor entity.Actor, q dto.PageQuery, franchiseID string) (*dto.ListResponse[dto.PatientResponse], error) {
	fid, err := actor.ResolveFranchise(franchiseID)
	if err != nil {
		return nil, err
	}
	q.Normalize()
	list, total, err := uc.repos.Patients.List(ctx, pageFilter(q, repository.ListFilter{FranchiseID: fid}))
	if err != nil {
		return nil, err
	}
	return dto.NewListResponse(dto.MapList(list, dto.ToPatientResponse), q, total), nil
}

// History devuelve citas, consultas y facturas del paciente (más recientes primero).
func (uc *PatientUseCase) History(ctx context.Context, actor entity.Actor, id string) (*dto.PatientHistoryResponse, error) {
	p, err := uc.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	f := repository.ListFilter{FranchiseID: p.FranchiseID, PatientID: p.ID, Order: "desc", Limit: historyLimit}

	appts, _, err := uc.repos.Appointments.List(ctx, f)
	if err != nil {
		return nil, err
	}
	cons, _, err := uc.repos.Consultations.List(ctx, f)
	if err != nil {
		return nil, err
	}
	bills, _, err := uc.repos.Bills.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &dto.PatientHistoryResponse{
		Patient:       *dto.ToPatientResponse(p),
		Appointments:  dto.MapList(appts, dto.ToAppointmentResponse),
		Consultations: dto.MapList(cons, dto.ToConsultationResponse),
		Bills:         dto.MapList(bills, dto.ToMedicineBillResponse),
	}, nil
}
