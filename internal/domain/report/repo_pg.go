package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) VisitsByDate(ctx context.Context, date time.Time) ([]*VisitRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT visit_id, visit_date, patient_name, doctor_name, diagnosis_name, location, symptoms, medicines
		FROM coop_api.get_visits_by_date($1::date)`, date)
	if err != nil {
		return nil, fmt.Errorf("get visits by date: %w", err)
	}
	return collect(rows, func(row pgx.Row) (*VisitRow, error) {
		var v VisitRow
		err := row.Scan(&v.VisitID, &v.VisitDate, &v.PatientName, &v.DoctorName,
			&v.DiagnosisName, &v.Location, &v.Symptoms, &v.Medicines)
		return &v, err
	})
}

func (r *repoPG) PatientsByDiagnosis(ctx context.Context) ([]*DiagnosisRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT diagnosis_id, diagnosis_name, patient_count, patients
		FROM coop_api.get_patients_by_diagnosis()`)
	if err != nil {
		return nil, fmt.Errorf("get patients by diagnosis: %w", err)
	}
	return collect(rows, func(row pgx.Row) (*DiagnosisRow, error) {
		var d DiagnosisRow
		err := row.Scan(&d.DiagnosisID, &d.DiagnosisName, &d.PatientCount, &d.Patients)
		return &d, err
	})
}

func (r *repoPG) MedicineEffects(ctx context.Context) ([]*MedicineRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT medicine_id, medicine_name, intake_method, action_description, side_effects, prescription_count
		FROM coop_api.get_medicine_effects()`)
	if err != nil {
		return nil, fmt.Errorf("get medicine effects: %w", err)
	}
	return collect(rows, func(row pgx.Row) (*MedicineRow, error) {
		var m MedicineRow
		err := row.Scan(&m.MedicineID, &m.MedicineName, &m.IntakeMethod,
			&m.ActionDescription, &m.SideEffects, &m.PrescriptionCount)
		return &m, err
	})
}

func collect[T any](rows pgx.Rows, scan func(pgx.Row) (*T, error)) ([]*T, error) {
	defer rows.Close()
	var out []*T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
