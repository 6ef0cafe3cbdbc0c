package visit

import "time"

// DefaultLocation is recorded when a visit is saved without a location.
const DefaultLocation = "Appointment"

// Medicine maps to the medicines table. Rows are only ever created by
// coop_api.add_visit_with_new_medicine.
type Medicine struct {
	ID                int64   `db:"id" json:"id"`
	Name              string  `db:"name" json:"name"`
	IntakeMethod      *string `db:"intake_method" json:"intake_method,omitempty"`
	ActionDescription *string `db:"action_description" json:"action_description,omitempty"`
	SideEffects       *string `db:"side_effects" json:"side_effects,omitempty"`
}

// Summary is one row of a patient's visit history: the visit joined with its
// diagnosis name and the de-duplicated, comma-separated medicine names.
type Summary struct {
	ID               int64     `db:"id" json:"id"`
	VisitDate        time.Time `db:"visit_date" json:"visit_date"`
	Location         string    `db:"location" json:"location"`
	Symptoms         *string   `db:"symptoms" json:"symptoms,omitempty"`
	PrescriptionText *string   `db:"prescription_text" json:"prescription_text,omitempty"`
	DiagnosisName    *string   `db:"diagnosis_name" json:"diagnosis_name,omitempty"`
	Medicines        *string   `db:"medicines" json:"medicines,omitempty"`
}

// NewMedicine describes a medicine created together with the visit that
// prescribes it.
type NewMedicine struct {
	Name              string
	IntakeMethod      *string
	ActionDescription *string
	SideEffects       *string
}

// Record is a visit ready to be written. DoctorID always comes from the
// authenticated session. At most one of MedicineID and NewMedicine is used;
// NewMedicine wins when both are set.
type Record struct {
	PatientID        int64
	DoctorID         int64
	VisitDate        time.Time
	Location         string
	Symptoms         *string
	DiagnosisID      *int64
	PrescriptionText *string
	MedicineID       *int64
	NewMedicine      *NewMedicine
}

// Form holds the raw exam form values, named after the form fields.
type Form struct {
	PatientID               string
	VisitDate               string
	Location                string
	Symptoms                string
	DiagnosisID             string
	PrescriptionText        string
	ExistingMedicineID      string
	NewMedName              string
	NewMedIntakeMethod      string
	NewMedActionDescription string
	NewMedSideEffects       string
}
