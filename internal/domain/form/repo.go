package form

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists form records. Every method is scoped to one clinic and
// parameterized by the form definition, which names the backing table.
type Repository interface {
	Create(ctx context.Context, def Definition, rec *Record) error
	GetByID(ctx context.Context, def Definition, clinicID string, id uuid.UUID) (*Record, error)
	GetByCheckin(ctx context.Context, def Definition, clinicID string, checkinID uuid.UUID) (*Record, error)
	List(ctx context.Context, def Definition, clinicID string, checkinID *uuid.UUID, limit, offset int) ([]*Record, int, error)
	Update(ctx context.Context, def Definition, rec *Record) error
	Count(ctx context.Context, def Definition, clinicID string) (int, error)
}
