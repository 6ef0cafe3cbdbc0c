package diagnosis

import "context"

type Repository interface {
	Create(ctx context.Context, d *Diagnosis) error
	List(ctx context.Context) ([]*Diagnosis, error)
}
