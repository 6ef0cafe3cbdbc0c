package diagnosis

import (
	"context"
	"errors"
	"strings"

	"github.com/medcoop/clinic/internal/platform/db"
)

var (
	ErrNameRequired = errors.New("diagnosis name is required")
	ErrDuplicate    = errors.New("diagnosis already exists")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create adds a diagnosis. A blank description is stored as NULL.
func (s *Service) Create(ctx context.Context, name, description string) (*Diagnosis, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	d := &Diagnosis{Name: name}
	if desc := strings.TrimSpace(description); desc != "" {
		d.Description = &desc
	}
	if err := s.repo.Create(ctx, d); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return d, nil
}

func (s *Service) List(ctx context.Context) ([]*Diagnosis, error) {
	return s.repo.List(ctx)
}
