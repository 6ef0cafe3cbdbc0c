package visit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/medcoop/clinic/internal/platform/db"
)

var (
	// ErrInvalidInput marks a form value that cannot be parsed.
	ErrInvalidInput = errors.New("invalid visit input")
	// ErrRejected marks a visit refused by the database, such as one that
	// references a patient, diagnosis or medicine that does not exist.
	ErrRejected = errors.New("visit rejected")
)

const dateLayout = "2006-01-02"

type Service struct {
	repo Repository
	tx   db.Transactor
	now  func() time.Time
}

func NewService(repo Repository, tx db.Transactor) *Service {
	return &Service{repo: repo, tx: tx, now: time.Now}
}

// Today is the default visit date in YYYY-MM-DD form.
func (s *Service) Today() string {
	return s.now().Format(dateLayout)
}

// ParseForm turns raw form values into a Record for doctorID. Blank optional
// values become NULL; a blank date becomes today and a blank location
// becomes DefaultLocation.
func (s *Service) ParseForm(f Form, doctorID int64) (*Record, error) {
	patientID, err := strconv.ParseInt(strings.TrimSpace(f.PatientID), 10, 64)
	if err != nil || patientID <= 0 {
		return nil, fmt.Errorf("%w: patient_id %q", ErrInvalidInput, f.PatientID)
	}

	r := &Record{
		PatientID:        patientID,
		DoctorID:         doctorID,
		Location:         strings.TrimSpace(f.Location),
		Symptoms:         optionalText(f.Symptoms),
		PrescriptionText: optionalText(f.PrescriptionText),
	}

	if r.VisitDate, err = s.parseDate(f.VisitDate); err != nil {
		return nil, err
	}
	if r.DiagnosisID, err = optionalID("diagnosis_id", f.DiagnosisID); err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(f.NewMedName); name != "" {
		r.NewMedicine = &NewMedicine{
			Name:              name,
			IntakeMethod:      optionalText(f.NewMedIntakeMethod),
			ActionDescription: optionalText(f.NewMedActionDescription),
			SideEffects:       optionalText(f.NewMedSideEffects),
		}
	} else if r.MedicineID, err = optionalID("existing_medicine_id", f.ExistingMedicineID); err != nil {
		return nil, err
	}

	return r, nil
}

// RecordVisit is the only way a visit is created. It writes the visit, and
// the medicine and prescription when present, through the coop_api
// procedures inside one transaction.
func (s *Service) RecordVisit(ctx context.Context, r *Record) error {
	if r.PatientID <= 0 {
		return fmt.Errorf("%w: patient is required", ErrInvalidInput)
	}
	if r.DoctorID <= 0 {
		return fmt.Errorf("%w: doctor is required", ErrInvalidInput)
	}
	if r.VisitDate.IsZero() {
		r.VisitDate, _ = time.Parse(dateLayout, s.Today())
	}
	if r.Location == "" {
		r.Location = DefaultLocation
	}
	if r.NewMedicine != nil {
		r.MedicineID = nil
	}

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if r.NewMedicine != nil {
			return s.repo.AddWithNewMedicine(ctx, r)
		}
		return s.repo.AddWithPrescription(ctx, r)
	})
	if err != nil {
		if db.IsRaisedException(err) || db.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: %v", ErrRejected, err)
		}
		return err
	}
	return nil
}

// PatientVisits returns the patient's visits, newest first.
func (s *Service) PatientVisits(ctx context.Context, patientID int64) ([]*Summary, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) ListMedicines(ctx context.Context) ([]*Medicine, error) {
	return s.repo.ListMedicines(ctx)
}

func (s *Service) parseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		v = s.Today()
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: visit_date %q", ErrInvalidInput, v)
	}
	return t, nil
}

func optionalID(field, v string) (*int64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%w: %s %q", ErrInvalidInput, field, v)
	}
	return &id, nil
}

func optionalText(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
