package visit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medcoop/clinic/internal/platform/db"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

// Parameters are cast explicitly so NULLs resolve to the procedure
// signature.
const (
	callAddWithNewMedicine = `CALL coop_api.add_visit_with_new_medicine(
		$1::bigint, $2::bigint, $3::date, $4::text, $5::text, $6::bigint, $7::text,
		$8::text, $9::text, $10::text, $11::text)`

	callAddWithPrescription = `CALL coop_api.add_visit_with_prescription(
		$1::bigint, $2::bigint, $3::date, $4::text, $5::text, $6::bigint, $7::text, $8::bigint)`
)

func (r *repoPG) AddWithNewMedicine(ctx context.Context, v *Record) error {
	if v.NewMedicine == nil {
		return fmt.Errorf("add visit with new medicine: medicine is missing")
	}
	m := v.NewMedicine
	_, err := r.conn(ctx).Exec(ctx, callAddWithNewMedicine,
		v.PatientID, v.DoctorID, v.VisitDate, v.Location, v.Symptoms, v.DiagnosisID, v.PrescriptionText,
		m.Name, m.IntakeMethod, m.ActionDescription, m.SideEffects,
	)
	if err != nil {
		return fmt.Errorf("add visit with new medicine: %w", err)
	}
	return nil
}

func (r *repoPG) AddWithPrescription(ctx context.Context, v *Record) error {
	_, err := r.conn(ctx).Exec(ctx, callAddWithPrescription,
		v.PatientID, v.DoctorID, v.VisitDate, v.Location, v.Symptoms, v.DiagnosisID, v.PrescriptionText,
		v.MedicineID,
	)
	if err != nil {
		return fmt.Errorf("add visit with prescription: %w", err)
	}
	return nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID int64) ([]*Summary, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT v.id, v.visit_date, v.location, v.symptoms, v.prescription_text,
		       d.name AS diagnosis_name,
		       STRING_AGG(DISTINCT m.name, ', ') AS medicines
		FROM visits v
		LEFT JOIN diagnoses d ON d.id = v.diagnosis_id
		LEFT JOIN prescriptions pr ON pr.visit_id = v.id
		LEFT JOIN medicines m ON m.id = pr.medicine_id
		WHERE v.patient_id = $1
		GROUP BY v.id, v.visit_date, v.location, v.symptoms, v.prescription_text, d.name
		ORDER BY v.visit_date DESC, v.id DESC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("list visits: %w", err)
	}
	defer rows.Close()

	var out []*Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.VisitDate, &s.Location, &s.Symptoms, &s.PrescriptionText, &s.DiagnosisName, &s.Medicines); err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *repoPG) ListMedicines(ctx context.Context) ([]*Medicine, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, name, intake_method, action_description, side_effects
		FROM medicines ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list medicines: %w", err)
	}
	defer rows.Close()

	var out []*Medicine
	for rows.Next() {
		var m Medicine
		if err := rows.Scan(&m.ID, &m.Name, &m.IntakeMethod, &m.ActionDescription, &m.SideEffects); err != nil {
			return nil, fmt.Errorf("scan medicine: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
