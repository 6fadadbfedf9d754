// Package checkin tracks a patient's visit through the surgery center. Every
// chart form hangs off a check-in, and the status ladder drives the day-of
// tracking board.
package checkin

import (
	"time"

	"github.com/google/uuid"
)

// Status ladder for a visit. Transitions are recorded, not enforced: staff
// move patients back a step when the floor requires it.
const (
	StatusCheckedIn  = "checked_in"
	StatusRoomed     = "roomed"
	StatusReady      = "ready"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// CheckIn is one patient visit.
type CheckIn struct {
	ID                uuid.UUID  `json:"id"`
	ClinicID          string     `json:"clinic"`
	PatientName       string     `json:"patient_name"`
	Status            string     `json:"status"`
	Room              string     `json:"room"`
	AssignedStaffName string     `json:"assigned_staff_name"`
	ProviderName      string     `json:"provider_name"`
	StatusChangedAt   *time.Time `json:"status_changed_at"`
	RoomedAt          *time.Time `json:"roomed_at"`
	ReadyAt           *time.Time `json:"ready_at"`
	InProgressAt      *time.Time `json:"in_progress_at"`
	CompletedAt       *time.Time `json:"completed_at"`
	CheckInTime       time.Time  `json:"check_in_time"`
	CheckOutTime      *time.Time `json:"check_out_time"`
	CheckedInBy       string     `json:"checked_in_by"`
	IsActive          bool       `json:"is_active"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// StatusEvent is one immutable entry in the visit's status history.
type StatusEvent struct {
	ID         uuid.UUID `json:"id"`
	ClinicID   string    `json:"clinic"`
	CheckinID  uuid.UUID `json:"checkin"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
	Actor      string    `json:"actor"`
}

var validStatuses = map[string]bool{
	StatusCheckedIn:  true,
	StatusRoomed:     true,
	StatusReady:      true,
	StatusInProgress: true,
	StatusCompleted:  true,
}

// ValidStatus reports whether s is a known visit status.
func ValidStatus(s string) bool { return validStatuses[s] }
