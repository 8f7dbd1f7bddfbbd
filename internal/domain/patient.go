package domain

import "time"

// Patient belongs to exactly one clinic.
type Patient struct {
	ID              string
	ClinicID        string
	Name            string
	Gender          *string
	BirthDate       *time.Time
	Phone           *string
	MedicalRecordNo string
	// HealthProfile carries free-form profile data as a JSON document.
	HealthProfile *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
