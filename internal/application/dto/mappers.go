package dto

import "github.com/jhoicas/clinic-franchise-api/internal/domain/entity"

// Conversión entidad -> respuesta. Compartidas entre casos de uso.

func ToUserResponse(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:          u.ID,
		FranchiseID: u.FranchiseID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		Status:      u.Status,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func ToFranchiseResponse(f *entity.Franchise) *FranchiseResponse {
	if f == nil {
		return nil
	}
	return &FranchiseResponse{
		ID:        f.ID,
		Name:      f.Name,
		Code:      f.Code,
		OwnerName: f.OwnerName,
		Phone:     f.Phone,
		Email:     f.Email,
		Address:   f.Address,
		City:      f.City,
		State:     f.State,
		GSTIN:     f.GSTIN,
		Status:    f.Status,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

func ToTeamResponse(t *entity.Team) *TeamResponse {
	if t == nil {
		return nil
	}
	return &TeamResponse{
		ID:              t.ID,
		FranchiseID:     t.FranchiseID,
		UserID:          t.UserID,
		Name:            t.Name,
		Designation:     t.Designation,
		Phone:           t.Phone,
		Email:           t.Email,
		Qualification:   t.Qualification,
		ConsultationFee: t.ConsultationFee,
		Status:          t.Status,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func ToPatientResponse(p *entity.Patient) *PatientResponse {
	if p == nil {
		return nil
	}
	return &PatientResponse{
		ID:          p.ID,
		FranchiseID: p.FranchiseID,
		Code:        p.Code,
		Name:        p.Name,
		Gender:      p.Gender,
		DateOfBirth: p.DateOfBirth,
		Phone:       p.Phone,
		Email:       p.Email,
		Address:     p.Address,
		BloodGroup:  p.BloodGroup,
		PhotoURL:    p.PhotoURL,
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToAppointmentResponse(a *entity.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}
	return &AppointmentResponse{
		ID:              a.ID,
		FranchiseID:     a.FranchiseID,
		PatientID:       a.PatientID,
		TeamID:          a.TeamID,
		StartAt:         a.StartAt,
		EndAt:           a.EndAt(),
		DurationMinutes: a.DurationMinutes,
		Status:          a.Status,
		Reason:          a.Reason,
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func ToConsultationResponse(c *entity.Consultation) *ConsultationResponse {
	if c == nil {
		return nil
	}
	return &ConsultationResponse{
		ID:            c.ID,
		FranchiseID:   c.FranchiseID,
		PatientID:     c.PatientID,
		TeamID:        c.TeamID,
		AppointmentID: c.AppointmentID,
		Date:          c.Date,
		Complaints:    c.Complaints,
		Diagnosis:     c.Diagnosis,
		Advice:        c.Advice,
		Fee:           c.Fee,
		Discount:      c.Discount,
		NetAmount:     c.NetAmount,
		PaymentMode:   c.PaymentMode,
		NextFollowUp:  c.NextFollowUp,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func ToMedicineResponse(m *entity.Medicine) *MedicineResponse {
	if m == nil {
		return nil
	}
	return &MedicineResponse{
		ID:           m.ID,
		Name:         m.Name,
		Code:         m.Code,
		Manufacturer: m.Manufacturer,
		Unit:         m.Unit,
		HSNCode:      m.HSNCode,
		MRP:          m.MRP,
		PurchaseRate: m.PurchaseRate,
		TaxRate:      m.TaxRate,
		AvgCost:      m.AvgCost,
		ReorderLevel: m.ReorderLevel,
		Status:       m.Status,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func ToServiceResponse(s *entity.Service) *ServiceResponse {
	if s == nil {
		return nil
	}
	return &ServiceResponse{
		ID:        s.ID,
		Name:      s.Name,
		Code:      s.Code,
		Charge:    s.Charge,
		TaxRate:   s.TaxRate,
		Status:    s.Status,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func ToPackageResponse(p *entity.Package) *PackageResponse {
	if p == nil {
		return nil
	}
	ids := p.ServiceIDs
	if ids == nil {
		ids = []string{}
	}
	return &PackageResponse{
		ID:           p.ID,
		Name:         p.Name,
		Code:         p.Code,
		Price:        p.Price,
		Sessions:     p.Sessions,
		ValidityDays: p.ValidityDays,
		ServiceIDs:   ids,
		Status:       p.Status,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func ToStockBalanceResponse(r entity.StockBalanceRow) StockBalanceResponse {
	return StockBalanceResponse{
		Owner:        r.Owner,
		MedicineID:   r.MedicineID,
		MedicineCode: r.MedicineCode,
		MedicineName: r.MedicineName,
		Quantity:     r.Quantity,
		AvgCost:      r.AvgCost,
		ReorderLevel: r.ReorderLevel,
		LowStock:     r.IsLow(),
		UpdatedAt:    r.UpdatedAt,
	}
}

func ToStockBatchResponse(b entity.StockBatchBalance) StockBatchResponse {
	return StockBatchResponse{
		Owner:      b.Owner,
		MedicineID: b.MedicineID,
		BatchNo:    b.BatchNo,
		ExpiryDate: b.ExpiryDate,
		Quantity:   b.Quantity,
		UpdatedAt:  b.UpdatedAt,
	}
}

func ToStockLedgerResponse(l entity.StockLedger) StockLedgerResponse {
	return StockLedgerResponse{
		ID:            l.ID,
		Owner:         l.Owner,
		MedicineID:    l.MedicineID,
		BatchNo:       l.BatchNo,
		Type:          l.Type,
		Quantity:      l.Quantity,
		UnitCost:      l.UnitCost,
		BalanceAfter:  l.BalanceAfter,
		ReferenceType: l.ReferenceType,
		ReferenceID:   l.ReferenceID,
		Date:          l.Date,
		CreatedBy:     l.CreatedBy,
	}
}

// ToSaleResponse incluye el avance de despacho de cada línea si viene en dispatched (por medicamento).
func ToSaleResponse(s *entity.Sale, dispatched map[string]SaleLineResponse) *SaleResponse {
	if s == nil {
		return nil
	}
	out := &SaleResponse{
		ID:             s.ID,
		FranchiseID:    s.FranchiseID,
		InvoiceNo:      s.InvoiceNo,
		InvoiceDate:    s.InvoiceDate,
		NetTotal:       s.NetTotal,
		TaxTotal:       s.TaxTotal,
		GrandTotal:     s.GrandTotal,
		DispatchStatus: s.DispatchStatus,
		Notes:          s.Notes,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
	for _, d := range s.Details {
		line := SaleLineResponse{
			ID:         d.ID,
			MedicineID: d.MedicineID,
			Quantity:   d.Quantity,
			Rate:       d.Rate,
			TaxRate:    d.TaxRate,
			Amount:     d.Amount,
			Remaining:  d.Quantity,
		}
		if info, ok := dispatched[d.MedicineID]; ok {
			line.MedicineName = info.MedicineName
			line.Dispatched = info.Dispatched
			line.Remaining = info.Remaining
		}
		out.Items = append(out.Items, line)
	}
	return out
}

func ToTransportResponse(t *entity.Transport) *TransportResponse {
	if t == nil {
		return nil
	}
	out := &TransportResponse{
		ID:           t.ID,
		SaleID:       t.SaleID,
		FranchiseID:  t.FranchiseID,
		DispatchNo:   t.DispatchNo,
		DispatchDate: t.DispatchDate,
		Transporter:  t.Transporter,
		VehicleNo:    t.VehicleNo,
		LRNo:         t.LRNo,
		Status:       t.Status,
		ReceivedAt:   t.ReceivedAt,
		ReceivedBy:   t.ReceivedBy,
		Notes:        t.Notes,
		CreatedAt:    t.CreatedAt,
	}
	for _, d := range t.Details {
		out.Items = append(out.Items, TransportLineResponse{
			ID:         d.ID,
			MedicineID: d.MedicineID,
			BatchNo:    d.BatchNo,
			ExpiryDate: d.ExpiryDate,
			Quantity:   d.Quantity,
			Rate:       d.Rate,
		})
	}
	return out
}

func ToMedicineBillResponse(b *entity.MedicineBill) *MedicineBillResponse {
	if b == nil {
		return nil
	}
	out := &MedicineBillResponse{
		ID:          b.ID,
		FranchiseID: b.FranchiseID,
		PatientID:   b.PatientID,
		TeamID:      b.TeamID,
		BillNo:      b.BillNo,
		BillDate:    b.BillDate,
		NetTotal:    b.NetTotal,
		Discount:    b.Discount,
		TaxTotal:    b.TaxTotal,
		GrandTotal:  b.GrandTotal,
		PaymentMode: b.PaymentMode,
		Status:      b.Status,
		CreatedAt:   b.CreatedAt,
	}
	for _, it := range b.Items {
		out.Items = append(out.Items, MedicineBillItemResponse{
			ID:         it.ID,
			MedicineID: it.MedicineID,
			BatchNo:    it.BatchNo,
			Quantity:   it.Quantity,
			Rate:       it.Rate,
			TaxRate:    it.TaxRate,
			Amount:     it.Amount,
		})
	}
	return out
}

func ToReceiptResponse(r *entity.Receipt) *ReceiptResponse {
	if r == nil {
		return nil
	}
	return &ReceiptResponse{
		ID:          r.ID,
		FranchiseID: r.FranchiseID,
		PatientID:   r.PatientID,
		ReceiptNo:   r.ReceiptNo,
		Kind:        r.Kind,
		ReferenceID: r.ReferenceID,
		Amount:      r.Amount,
		PaymentMode: r.PaymentMode,
		Date:        r.Date,
		Notes:       r.Notes,
		Cancelled:   r.Cancelled,
		CreatedAt:   r.CreatedAt,
	}
}

func ToRecallResponse(r *entity.Recall) *RecallResponse {
	if r == nil {
		return nil
	}
	return &RecallResponse{
		ID:             r.ID,
		FranchiseID:    r.FranchiseID,
		PatientID:      r.PatientID,
		ConsultationID: r.ConsultationID,
		RecallDate:     r.RecallDate,
		Reason:         r.Reason,
		Status:         r.Status,
		NotifiedAt:     r.NotifiedAt,
		CreatedAt:      r.CreatedAt,
	}
}

// MapList aplica f a cada puntero de la lista.
func MapList[E any, R any](list []*E, f func(*E) *R) []R {
	out := make([]R, 0, len(list))
	for _, e := range list {
		if r := f(e); r != nil {
			out = append(out, *r)
		}
	}
	return out
}
