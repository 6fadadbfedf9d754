package checkin

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/opforms/opforms/internal/platform/auth"
	"github.com/opforms/opforms/internal/platform/db"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create checks a patient in: the visit starts active in checked_in with the
// event log seeded.
func (s *Service) Create(ctx context.Context, ci *CheckIn) error {
	if ci.PatientName == "" {
		return fmt.Errorf("patient_name is required")
	}
	ci.ClinicID = db.ClinicFromContext(ctx)
	ci.Status = StatusCheckedIn
	ci.CheckInTime = time.Now().UTC()
	ci.CheckedInBy = auth.UserIDFromContext(ctx)
	ci.IsActive = true
	if err := s.repo.Create(ctx, ci); err != nil {
		return err
	}
	return s.repo.AddStatusEvent(ctx, &StatusEvent{
		ClinicID:   ci.ClinicID,
		CheckinID:  ci.ID,
		Status:     ci.Status,
		OccurredAt: ci.CheckInTime,
		Actor:      ci.CheckedInBy,
	})
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*CheckIn, error) {
	return s.repo.GetByID(ctx, db.ClinicFromContext(ctx), id)
}

func (s *Service) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*CheckIn, int, error) {
	return s.repo.List(ctx, db.ClinicFromContext(ctx), activeOnly, limit, offset)
}

// SetStatus moves the visit to status, stamps the matching per-status
// timestamp, and appends an event. Completing also closes the visit.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status string) (*CheckIn, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf("invalid status: %s", status)
	}
	ci, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	ci.Status = status
	ci.StatusChangedAt = &now
	switch status {
	case StatusRoomed:
		ci.RoomedAt = &now
	case StatusReady:
		ci.ReadyAt = &now
	case StatusInProgress:
		ci.InProgressAt = &now
	case StatusCompleted:
		ci.CompletedAt = &now
		ci.CheckOutTime = &now
		ci.IsActive = false
	}

	if err := s.repo.Update(ctx, ci); err != nil {
		return nil, err
	}
	err = s.repo.AddStatusEvent(ctx, &StatusEvent{
		ClinicID:   ci.ClinicID,
		CheckinID:  ci.ID,
		Status:     status,
		OccurredAt: now,
		Actor:      auth.UserIDFromContext(ctx),
	})
	if err != nil {
		return nil, err
	}
	return ci, nil
}

// UpdateDetails changes the mutable visit fields that are not part of the
// status ladder.
func (s *Service) UpdateDetails(ctx context.Context, id uuid.UUID, room, staff, provider string) (*CheckIn, error) {
	ci, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if room != "" {
		ci.Room = room
	}
	if staff != "" {
		ci.AssignedStaffName = staff
	}
	if provider != "" {
		ci.ProviderName = provider
	}
	if err := s.repo.Update(ctx, ci); err != nil {
		return nil, err
	}
	return ci, nil
}

func (s *Service) History(ctx context.Context, id uuid.UUID) ([]*StatusEvent, error) {
	return s.repo.StatusEvents(ctx, db.ClinicFromContext(ctx), id)
}

// Exists satisfies the form service's check-in verifier.
func (s *Service) Exists(ctx context.Context, clinicID string, id uuid.UUID) (bool, error) {
	_, err := s.repo.GetByID(ctx, clinicID, id)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
