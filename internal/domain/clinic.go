package domain

import "time"

// Clinic is a tenant of the platform.
type Clinic struct {
	ID            string
	Name          string
	Code          string
	Address       *string
	Phone         *string
	ContactPerson *string
	LicenseNumber *string
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
