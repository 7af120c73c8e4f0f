package apptest

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
)

// Report devuelve un ReportRepository calculado sobre el store.
func (s *Store) Report() repository.ReportRepository { return reportRepo{s} }

type reportRepo struct{ s *Store }

func within(t, from, to time.Time) bool { return !t.Before(from) && !t.After(to) }

func (r reportRepo) DayBook(_ context.Context, franchiseID string, from, to time.Time) ([]repository.DayBookRow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []repository.DayBookRow
	for _, c := range r.s.consultations {
		if (franchiseID != "" && c.FranchiseID != franchiseID) || !within(c.Date, from, to) {
			continue
		}
		out = append(out, repository.DayBookRow{
			Date:        c.Date,
			Kind:        repository.DayBookConsultation,
			ReferenceID: c.ID,
			FranchiseID: c.FranchiseID,
			PatientName: r.s.patients[c.PatientID].Name,
			TeamName:    r.s.teams[c.TeamID].Name,
			PaymentMode: c.PaymentMode,
			Amount:      c.NetAmount,
		})
	}
	for _, b := range r.s.bills {
		if (franchiseID != "" && b.FranchiseID != franchiseID) || b.Status == entity.BillCancelled || !within(b.BillDate, from, to) {
			continue
		}
		out = append(out, repository.DayBookRow{
			Date:        b.BillDate,
			Kind:        repository.DayBookMedicineBill,
			ReferenceID: b.ID,
			Number:      b.BillNo,
			FranchiseID: b.FranchiseID,
			PatientName: r.s.patients[b.PatientID].Name,
			TeamName:    r.s.teams[b.TeamID].Name,
			PaymentMode: b.PaymentMode,
			Amount:      b.GrandTotal,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ReferenceID < out[j].ReferenceID
	})
	return out, nil
}

func (r reportRepo) Activity(_ context.Context, franchiseID string, from, to time.Time) (repository.ActivityMetrics, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m := repository.ActivityMetrics{ConsultationAmount: decimal.Zero, BillAmount: decimal.Zero}
	for _, a := range r.s.appointments {
		if (franchiseID == "" || a.FranchiseID == franchiseID) && a.Status != entity.AppointmentCancelled && within(a.StartAt, from, to) {
			m.Appointments++
		}
	}
	for _, c := range r.s.consultations {
		if (franchiseID == "" || c.FranchiseID == franchiseID) && within(c.Date, from, to) {
			m.Consultations++
			m.ConsultationAmount = m.ConsultationAmount.Add(c.NetAmount)
		}
	}
	for _, b := range r.s.bills {
		if (franchiseID == "" || b.FranchiseID == franchiseID) && b.Status != entity.BillCancelled && within(b.BillDate, from, to) {
			m.Bills++
			m.BillAmount = m.BillAmount.Add(b.GrandTotal)
		}
	}
	return m, nil
}

func (r reportRepo) TopMedicines(_ context.Context, franchiseID string, from, to time.Time, limit int) ([]repository.TopMedicineResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	acc := map[string]*repository.TopMedicineResult{}
	for _, b := range r.s.bills {
		if (franchiseID != "" && b.FranchiseID != franchiseID) || b.Status == entity.BillCancelled || !within(b.BillDate, from, to) {
			continue
		}
		for _, it := range b.Items {
			t, ok := acc[it.MedicineID]
			if !ok {
				m := r.s.medicines[it.MedicineID]
				t = &repository.TopMedicineResult{MedicineID: m.ID, Code: m.Code, Name: m.Name}
				acc[it.MedicineID] = t
			}
			t.QuantitySold = t.QuantitySold.Add(it.Quantity)
			t.Revenue = t.Revenue.Add(it.Amount)
		}
	}
	out := make([]repository.TopMedicineResult, 0, len(acc))
	for _, t := range acc {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuantitySold.GreaterThan(out[j].QuantitySold) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
