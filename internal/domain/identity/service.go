package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/medcoop/clinic/internal/platform/auth"
	"github.com/medcoop/clinic/internal/platform/db"
)

var (
	ErrFieldsRequired      = errors.New("all fields are required")
	ErrLoginExists         = errors.New("login already exists")
	ErrInvalidCredentials  = errors.New("invalid login or password")
	ErrPatientNameRequired = errors.New("full name and gender are required")
	ErrInvalidBirthDate    = errors.New("birth date must be YYYY-MM-DD")
)

const dateLayout = "2006-01-02"

type Service struct {
	doctors  DoctorRepository
	patients PatientRepository
}

func NewService(doctors DoctorRepository, patients PatientRepository) *Service {
	return &Service{doctors: doctors, patients: patients}
}

// -- Doctor --

// RegisterDoctor creates a doctor account. The password is stored as a
// salted bcrypt hash.
func (s *Service) RegisterDoctor(ctx context.Context, login, password, fullName string) (*Doctor, error) {
	login = strings.TrimSpace(login)
	fullName = strings.TrimSpace(fullName)
	if login == "" || password == "" || fullName == "" {
		return nil, ErrFieldsRequired
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	d := &Doctor{Login: login, PasswordHash: hash, FullName: fullName}
	if err := s.doctors.Create(ctx, d); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrLoginExists
		}
		return nil, err
	}
	return d, nil
}

// Authenticate returns the doctor whose login and password match.
// An unknown login and a wrong password both yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, login, password string) (*Doctor, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	d, err := s.doctors.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load doctor: %w", err)
	}
	if !auth.CheckPassword(d.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return d, nil
}

func (s *Service) GetDoctor(ctx context.Context, id int64) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

// -- Patient --

// CreatePatient validates the form and stores a new patient. Blank optional
// fields are stored as NULL.
func (s *Service) CreatePatient(ctx context.Context, in PatientInput) (*Patient, error) {
	p := &Patient{
		FullName: strings.TrimSpace(in.FullName),
		Gender:   strings.TrimSpace(in.Gender),
	}
	if p.FullName == "" || p.Gender == "" {
		return nil, ErrPatientNameRequired
	}
	if v := strings.TrimSpace(in.BirthDate); v != "" {
		bd, err := time.Parse(dateLayout, v)
		if err != nil {
			return nil, ErrInvalidBirthDate
		}
		p.BirthDate = &bd
	}
	if v := strings.TrimSpace(in.HomeAddress); v != "" {
		p.HomeAddress = &v
	}

	if err := s.patients.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetPatient(ctx context.Context, id int64) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context) ([]*Patient, error) {
	return s.patients.List(ctx)
}
