package checkin

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("checkin not found")

type Repository interface {
	Create(ctx context.Context, ci *CheckIn) error
	GetByID(ctx context.Context, clinicID string, id uuid.UUID) (*CheckIn, error)
	List(ctx context.Context, clinicID string, activeOnly bool, limit, offset int) ([]*CheckIn, int, error)
	Update(ctx context.Context, ci *CheckIn) error
	AddStatusEvent(ctx context.Context, ev *StatusEvent) error
	StatusEvents(ctx context.Context, clinicID string, checkinID uuid.UUID) ([]*StatusEvent, error)
}
