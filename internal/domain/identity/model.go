// Package identity holds clinics and staff accounts, and issues the access
// tokens the rest of the API authenticates with.
package identity

import (
	"time"

	"github.com/google/uuid"
)

// Clinic is one surgery center. Every record in the system is scoped to
// exactly one clinic.
type Clinic struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Roles a staff account can carry.
const (
	RoleAdmin     = "admin"
	RolePhysician = "physician"
	RoleNurse     = "nurse"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	ClinicID     string    `json:"clinic"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

var validRoles = map[string]bool{
	RoleAdmin: true, RolePhysician: true, RoleNurse: true,
}

func ValidRole(r string) bool { return validRoles[r] }
