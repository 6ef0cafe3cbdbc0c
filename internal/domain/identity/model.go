package identity

import "time"

// Doctor maps to the doctors table. PasswordHash holds a bcrypt hash.
type Doctor struct {
	ID           int64     `db:"id" json:"id"`
	Login        string    `db:"login" json:"login"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Patient maps to the patients table.
type Patient struct {
	ID          int64      `db:"id" json:"id"`
	FullName    string     `db:"full_name" json:"full_name"`
	Gender      string     `db:"gender" json:"gender"`
	BirthDate   *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	HomeAddress *string    `db:"home_address" json:"home_address,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// PatientInput is the raw new-patient form. Optional fields are blank when
// not supplied.
type PatientInput struct {
	FullName    string
	Gender      string
	BirthDate   string
	HomeAddress string
}
