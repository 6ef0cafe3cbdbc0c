package visit

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medcoop/clinic/internal/domain/diagnosis"
	"github.com/medcoop/clinic/internal/domain/identity"
	"github.com/medcoop/clinic/internal/platform/auth"
	"github.com/medcoop/clinic/internal/platform/db"
	"github.com/medcoop/clinic/internal/platform/view"
)

// PatientLookup is satisfied by identity.Service.
type PatientLookup interface {
	GetPatient(ctx context.Context, id int64) (*identity.Patient, error)
	ListPatients(ctx context.Context) ([]*identity.Patient, error)
}

// DiagnosisLister is satisfied by diagnosis.Service.
type DiagnosisLister interface {
	List(ctx context.Context) ([]*diagnosis.Diagnosis, error)
}

type Handler struct {
	svc       *Service
	patients  PatientLookup
	diagnoses DiagnosisLister
}

func NewHandler(svc *Service, patients PatientLookup, diagnoses DiagnosisLister) *Handler {
	return &Handler{svc: svc, patients: patients, diagnoses: diagnoses}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	guard := auth.RequireDoctor()
	e.GET("/exam", h.ExamForm, guard)
	e.POST("/exam", h.SaveExam, guard)
	e.GET("/patients/:id", h.PatientCard, guard)
	e.POST("/patients/:id/add-diagnosis", h.AddDiagnosis, guard)
}

type ExamPage struct {
	Patients        []*identity.Patient
	Diagnoses       []*diagnosis.Diagnosis
	Medicines       []*Medicine
	Today           string
	DefaultLocation string
}

type CardPage struct {
	Patient         *identity.Patient
	Visits          []*Summary
	Diagnoses       []*diagnosis.Diagnosis
	Today           string
	DefaultLocation string
}

// -- Exam --

func (h *Handler) ExamForm(c echo.Context) error {
	ctx := c.Request().Context()
	patients, err := h.patients.ListPatients(ctx)
	if err != nil {
		return loadError(err)
	}
	diagnoses, err := h.diagnoses.List(ctx)
	if err != nil {
		return loadError(err)
	}
	medicines, err := h.svc.ListMedicines(ctx)
	if err != nil {
		return loadError(err)
	}

	return c.Render(http.StatusOK, "exam", view.Page{Title: "Exam", Data: ExamPage{
		Patients:        patients,
		Diagnoses:       diagnoses,
		Medicines:       medicines,
		Today:           h.svc.Today(),
		DefaultLocation: DefaultLocation,
	}})
}

func (h *Handler) SaveExam(c echo.Context) error {
	doctor := auth.CurrentDoctor(c)
	if doctor == nil {
		return c.Redirect(http.StatusFound, "/login")
	}
	form := Form{
		PatientID:               c.FormValue("patient_id"),
		VisitDate:               c.FormValue("visit_date"),
		Location:                c.FormValue("location"),
		Symptoms:                c.FormValue("symptoms"),
		DiagnosisID:             c.FormValue("diagnosis_id"),
		PrescriptionText:        c.FormValue("prescription_text"),
		ExistingMedicineID:      c.FormValue("existing_medicine_id"),
		NewMedName:              c.FormValue("new_med_name"),
		NewMedIntakeMethod:      c.FormValue("new_med_intake_method"),
		NewMedActionDescription: c.FormValue("new_med_action_description"),
		NewMedSideEffects:       c.FormValue("new_med_side_effects"),
	}
	if err := h.record(c, doctor, form, "failed to save exam"); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/exam")
}

// -- Patient card --

func (h *Handler) PatientCard(c echo.Context) error {
	id, ok := patientID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	ctx := c.Request().Context()

	patient, err := h.patients.GetPatient(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return loadError(err)
	}
	visits, err := h.svc.PatientVisits(ctx, id)
	if err != nil {
		return loadError(err)
	}
	diagnoses, err := h.diagnoses.List(ctx)
	if err != nil {
		return loadError(err)
	}

	return c.Render(http.StatusOK, "patient_card", view.Page{Title: patient.FullName, Data: CardPage{
		Patient:         patient,
		Visits:          visits,
		Diagnoses:       diagnoses,
		Today:           h.svc.Today(),
		DefaultLocation: DefaultLocation,
	}})
}

// AddDiagnosis records a visit from the patient card. It goes through the
// same path as the exam form, without a medicine.
func (h *Handler) AddDiagnosis(c echo.Context) error {
	doctor := auth.CurrentDoctor(c)
	if doctor == nil {
		return c.Redirect(http.StatusFound, "/login")
	}
	id, ok := patientID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	form := Form{
		PatientID:        strconv.FormatInt(id, 10),
		VisitDate:        c.FormValue("visit_date"),
		Location:         c.FormValue("location"),
		Symptoms:         c.FormValue("symptoms"),
		DiagnosisID:      c.FormValue("diagnosis_id"),
		PrescriptionText: c.FormValue("prescription_text"),
	}
	if err := h.record(c, doctor, form, "failed to add diagnosis"); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/patients/"+strconv.FormatInt(id, 10))
}

// record parses and stores a visit for doctor. It never writes the response:
// malformed or rejected input is a 400, anything else a 500, both carrying
// failMsg.
func (h *Handler) record(c echo.Context, doctor *auth.Identity, form Form, failMsg string) error {
	ctx := c.Request().Context()
	log := zerolog.Ctx(ctx)

	rec, err := h.svc.ParseForm(form, doctor.DoctorID)
	if err != nil {
		log.Warn().Err(err).Int64("doctor_id", doctor.DoctorID).Msg("invalid visit form")
		return echo.NewHTTPError(http.StatusBadRequest, failMsg).SetInternal(err)
	}
	if err := h.svc.RecordVisit(ctx, rec); err != nil {
		log.Error().Err(err).Int64("doctor_id", doctor.DoctorID).Int64("patient_id", rec.PatientID).Msg("record visit")
		code := http.StatusInternalServerError
		if errors.Is(err, ErrRejected) || errors.Is(err, ErrInvalidInput) {
			code = http.StatusBadRequest
		}
		return echo.NewHTTPError(code, failMsg).SetInternal(err)
	}
	log.Info().Int64("doctor_id", doctor.DoctorID).Int64("patient_id", rec.PatientID).
		Bool("new_medicine", rec.NewMedicine != nil).Msg("visit recorded")
	return nil
}

func patientID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

func loadError(err error) error {
	return echo.NewHTTPError(http.StatusInternalServerError, "database error").SetInternal(err)
}
