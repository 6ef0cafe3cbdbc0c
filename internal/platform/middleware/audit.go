package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medcoop/clinic/internal/platform/auth"
)

// AuditEntry records which doctor touched which patient-facing page.
type AuditEntry struct {
	DoctorID   int64
	Login      string
	Area       string // patients, exam, reports, diagnoses
	PatientID  string
	Action     string // read, write
	IPAddress  string
	UserAgent  string
	Path       string
	Method     string
	Timestamp  time.Time
	RequestID  string
	StatusCode int
}

// AuditRecorder persists audit entries somewhere other than the log.
type AuditRecorder interface {
	RecordAccess(entry AuditEntry) error
}

type AuditRecorderFunc func(entry AuditEntry) error

func (f AuditRecorderFunc) RecordAccess(entry AuditEntry) error {
	return f(entry)
}

var auditedAreas = []string{"patients", "exam", "reports", "diagnoses"}

// Audit logs every request to a page that shows or changes clinical data,
// after the handler has run, together with the doctor who made it.
func Audit(logger zerolog.Logger, recorders ...AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			area := auditArea(req.URL.Path)
			if area == "" {
				return next(c)
			}

			err := next(c)

			entry := AuditEntry{
				Area:       area,
				PatientID:  extractPatientID(c, area),
				Action:     httpMethodToAction(req.Method),
				IPAddress:  c.RealIP(),
				UserAgent:  req.UserAgent(),
				Path:       req.URL.Path,
				Method:     req.Method,
				Timestamp:  time.Now().UTC(),
				StatusCode: auditStatus(c, err),
			}
			if id := auth.CurrentDoctor(c); id != nil {
				entry.DoctorID = id.DoctorID
				entry.Login = id.Login
			}
			if rid, ok := c.Get("request_id").(string); ok {
				entry.RequestID = rid
			}

			for _, r := range recorders {
				if r == nil {
					continue
				}
				if recErr := r.RecordAccess(entry); recErr != nil {
					logger.Error().Err(recErr).
						Str("request_id", entry.RequestID).
						Msg("failed to record audit entry")
				}
			}

			logger.Info().
				Str("type", "access_audit").
				Str("request_id", entry.RequestID).
				Int64("doctor_id", entry.DoctorID).
				Str("login", entry.Login).
				Str("area", entry.Area).
				Str("patient_id", entry.PatientID).
				Str("action", entry.Action).
				Str("method", entry.Method).
				Str("path", entry.Path).
				Str("remote_ip", entry.IPAddress).
				Int("status", entry.StatusCode).
				Msg("clinical_access")

			return err
		}
	}
}

// auditStatus is the status the client receives. An error returned by the
// handler has not been written yet, so its code wins over the response.
func auditStatus(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

// auditArea returns the first path segment when it names an audited area.
func auditArea(path string) string {
	seg := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 2)[0]
	for _, a := range auditedAreas {
		if seg == a {
			return a
		}
	}
	return ""
}

func httpMethodToAction(method string) string {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return "write"
	default:
		return "read"
	}
}

// extractPatientID finds the patient in /patients/<id>/... or in a
// patient_id form or query value.
func extractPatientID(c echo.Context, area string) string {
	if area == "patients" {
		rest := strings.TrimPrefix(c.Request().URL.Path, "/patients/")
		if rest != c.Request().URL.Path {
			seg := strings.SplitN(rest, "/", 2)[0]
			if seg != "" && seg != "new" {
				return seg
			}
		}
	}
	if v := c.QueryParam("patient_id"); v != "" {
		return v
	}
	if c.Request().Method == http.MethodPost {
		if v := c.FormValue("patient_id"); v != "" {
			return v
		}
	}
	return ""
}
