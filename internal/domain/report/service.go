package report

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

var ErrInvalidDate = errors.New("date must be YYYY-MM-DD")

const dateLayout = "2006-01-02"

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// ParseDate reads the ?date= parameter. Blank means today.
func (s *Service) ParseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		v = s.now().Format(dateLayout)
	}
	d, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// Build runs the three reporting functions concurrently. The routines are
// read-only so they do not need a shared transaction.
func (s *Service) Build(ctx context.Context, date time.Time) (*Report, error) {
	rep := &Report{Date: date}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rep.Visits, err = s.repo.VisitsByDate(ctx, date)
		return err
	})
	g.Go(func() error {
		var err error
		rep.Diagnoses, err = s.repo.PatientsByDiagnosis(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		rep.Medicines, err = s.repo.MedicineEffects(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rep, nil
}
