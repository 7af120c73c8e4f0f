package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/clinic-franchise-api/internal/domain/entity"
	"github.com/jhoicas/clinic-franchise-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para el libro diario y el dashboard.
// En todas las consultas $1 = '' significa todas las franquicias.
type ReportRepo struct {
	pool *pgxpool.Pool
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

// DayBook une consultas y facturas vigentes del rango, ordenadas por fecha.
func (r *ReportRepo) DayBook(ctx context.Context, franchiseID string, from, to time.Time) ([]repository.DayBookRow, error) {
	const query = `
	SELECT date, kind, reference_id, number, franchise_id, patient_name, team_name, payment_mode, amount
	FROM (
	    SELECT c.date                   AS date,
	           $4::text                 AS kind,
	           c.id::text               AS reference_id,
	           ''                       AS number,
	           c.franchise_id::text     AS franchise_id,
	           p.name                   AS patient_name,
	           COALESCE(t.name, '')     AS team_name,
	           c.payment_mode           AS payment_mode,
	           c.net_amount             AS amount
	    FROM consultations c
	    JOIN patients   p ON p.id = c.patient_id
	    LEFT JOIN teams t ON t.id = c.team_id
	    WHERE ($1 = '' OR c.franchise_id::text = $1)
	      AND c.date BETWEEN $2::date AND $3::date
	    UNION ALL
	    SELECT b.bill_date, $5::text, b.id::text, b.bill_no, b.franchise_id::text,
	           p.name, COALESCE(t.name, ''), b.payment_mode, b.grand_total
	    FROM medicine_bills b
	    JOIN patients   p ON p.id = b.patient_id
	    LEFT JOIN teams t ON t.id = b.team_id
	    WHERE ($1 = '' OR b.franchise_id::text = $1)
	      AND b.bill_date BETWEEN $2::date AND $3::date
	      AND b.status <> $6
	) x
	ORDER BY date, reference_id`

	rows, err := r.pool.Query(ctx, query, franchiseID, from, to,
		repository.DayBookConsultation, repository.DayBookMedicineBill, entity.BillCancelled)
	if err != nil {
		return nil, fmt.Errorf("report.DayBook: %w", err)
	}
	defer rows.Close()

	var out []repository.DayBookRow
	for rows.Next() {
		var row repository.DayBookRow
		if err := rows.Scan(
			&row.Date,
			&row.Kind,
			&row.ReferenceID,
			&row.Number,
			&row.FranchiseID,
			&row.PatientName,
			&row.TeamName,
			&row.PaymentMode,
			&row.Amount,
		); err != nil {
			return nil, fmt.Errorf("report.DayBook scan: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Activity conteos del período. Las citas canceladas no cuentan.
func (r *ReportRepo) Activity(ctx context.Context, franchiseID string, from, to time.Time) (repository.ActivityMetrics, error) {
	const query = `
	SELECT
	    (SELECT COUNT(*) FROM appointments a
	      WHERE ($1 = '' OR a.franchise_id::text = $1)
	        AND a.start_at::date BETWEEN $2::date AND $3::date
	        AND a.status <> $4)                                            AS appointments,
	    (SELECT COUNT(*) FROM consultations c
	      WHERE ($1 = '' OR c.franchise_id::text = $1)
	        AND c.date BETWEEN $2::date AND $3::date)                      AS consultations,
	    (SELECT COALESCE(SUM(c.net_amount), 0) FROM consultations c
	      WHERE ($1 = '' OR c.franchise_id::text = $1)
	        AND c.date BETWEEN $2::date AND $3::date)                      AS consultation_amount,
	    (SELECT COUNT(*) FROM medicine_bills b
	      WHERE ($1 = '' OR b.franchise_id::text = $1)
	        AND b.bill_date BETWEEN $2::date AND $3::date
	        AND b.status <> $5)                                            AS bills,
	    (SELECT COALESCE(SUM(b.grand_total), 0) FROM medicine_bills b
	      WHERE ($1 = '' OR b.franchise_id::text = $1)
	        AND b.bill_date BETWEEN $2::date AND $3::date
	        AND b.status <> $5)                                            AS bill_amount`

	m := repository.ActivityMetrics{ConsultationAmount: decimal.Zero, BillAmount: decimal.Zero}
	err := r.pool.QueryRow(ctx, query, franchiseID, from, to, entity.AppointmentCancelled, entity.BillCancelled).Scan(
		&m.Appointments,
		&m.Consultations,
		&m.ConsultationAmount,
		&m.Bills,
		&m.BillAmount,
	)
	if err != nil {
		return m, fmt.Errorf("report.Activity: %w", err)
	}
	return m, nil
}

// TopMedicines ranking por unidades facturadas a pacientes.
func (r *ReportRepo) TopMedicines(ctx context.Context, franchiseID string, from, to time.Time, limit int) ([]repository.TopMedicineResult, error) {
	const query = `
	SELECT
	    m.id,
	    m.code,
	    m.name,
	    SUM(i.quantity) AS quantity_sold,
	    SUM(i.amount)   AS revenue
	FROM medicine_bills b
	JOIN medicine_bill_items i ON i.bill_id = b.id
	JOIN medicines           m ON m.id      = i.medicine_id
	WHERE ($1 = '' OR b.franchise_id::text = $1)
	  AND b.bill_date BETWEEN $2::date AND $3::date
	  AND b.status <> $4
	GROUP BY m.id, m.code, m.name
	ORDER BY quantity_sold DESC
	LIMIT $5`

	rows, err := r.pool.Query(ctx, query, franchiseID, from, to, entity.BillCancelled, limit)
	if err != nil {
		return nil, fmt.Errorf("report.TopMedicines: %w", err)
	}
	defer rows.Close()

	var out []repository.TopMedicineResult
	for rows.Next() {
		var row repository.TopMedicineResult
		if err := rows.Scan(&row.MedicineID, &row.Code, &row.Name, &row.QuantitySold, &row.Revenue); err != nil {
			return nil, fmt.Errorf("report.TopMedicines scan: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
