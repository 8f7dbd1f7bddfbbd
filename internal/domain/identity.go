package domain

import "time"

// Role enumerates the closed set of principal roles.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleDoctor     Role = "doctor"
	RoleNurse      Role = "nurse"
	RolePatient    Role = "patient"
)

// ValidRole reports whether the role belongs to the closed set.
func ValidRole(r Role) bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleDoctor, RoleNurse, RolePatient:
		return true
	}
	return false
}

// MedicalStaffRoles are the roles allowed to manage patients and examinations.
func MedicalStaffRoles() []Role {
	return []Role{RoleSuperAdmin, RoleAdmin, RoleDoctor, RoleNurse}
}

// Identity is the authenticated principal. ClinicID is nil only for
// super_admin, which has global scope.
type Identity struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	ClinicID     *string
	FullName     string
	Active       bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
