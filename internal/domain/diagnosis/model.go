package diagnosis

// Diagnosis maps to the diagnoses table. Names are unique.
type Diagnosis struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description,omitempty"`
}
