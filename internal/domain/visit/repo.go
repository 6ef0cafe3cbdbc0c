package visit

import "context"

// Repository writes visits through the coop_api procedures and reads visit
// history and the medicine catalogue.
type Repository interface {
	AddWithNewMedicine(ctx context.Context, r *Record) error
	AddWithPrescription(ctx context.Context, r *Record) error
	ListByPatient(ctx context.Context, patientID int64) ([]*Summary, error)
	ListMedicines(ctx context.Context) ([]*Medicine, error)
}
