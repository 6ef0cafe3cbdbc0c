package report

import "time"

// VisitRow is a row of coop_api.get_visits_by_date.
type VisitRow struct {
	VisitID       int64     `db:"visit_id" json:"visit_id"`
	VisitDate     time.Time `db:"visit_date" json:"visit_date"`
	PatientName   string    `db:"patient_name" json:"patient_name"`
	DoctorName    string    `db:"doctor_name" json:"doctor_name"`
	DiagnosisName *string   `db:"diagnosis_name" json:"diagnosis_name,omitempty"`
	Location      string    `db:"location" json:"location"`
	Symptoms      *string   `db:"symptoms" json:"symptoms,omitempty"`
	Medicines     *string   `db:"medicines" json:"medicines,omitempty"`
}

// DiagnosisRow is a row of coop_api.get_patients_by_diagnosis.
type DiagnosisRow struct {
	DiagnosisID   int64   `db:"diagnosis_id" json:"diagnosis_id"`
	DiagnosisName string  `db:"diagnosis_name" json:"diagnosis_name"`
	PatientCount  int64   `db:"patient_count" json:"patient_count"`
	Patients      *string `db:"patients" json:"patients,omitempty"`
}

// MedicineRow is a row of coop_api.get_medicine_effects.
type MedicineRow struct {
	MedicineID        int64   `db:"medicine_id" json:"medicine_id"`
	MedicineName      string  `db:"medicine_name" json:"medicine_name"`
	IntakeMethod      *string `db:"intake_method" json:"intake_method,omitempty"`
	ActionDescription *string `db:"action_description" json:"action_description,omitempty"`
	SideEffects       *string `db:"side_effects" json:"side_effects,omitempty"`
	PrescriptionCount int64   `db:"prescription_count" json:"prescription_count"`
}

// Report is everything the reports page shows for one date.
type Report struct {
	Date      time.Time
	Visits    []*VisitRow
	Diagnoses []*DiagnosisRow
	Medicines []*MedicineRow
}
