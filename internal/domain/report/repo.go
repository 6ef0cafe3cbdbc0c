package report

import (
	"context"
	"time"
)

// Repository reads the coop_api reporting functions.
type Repository interface {
	VisitsByDate(ctx context.Context, date time.Time) ([]*VisitRow, error)
	PatientsByDiagnosis(ctx context.Context) ([]*DiagnosisRow, error)
	MedicineEffects(ctx context.Context) ([]*MedicineRow, error)
}
