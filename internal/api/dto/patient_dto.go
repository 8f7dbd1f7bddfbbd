package dto

import (
	"time"

	"github.com/spec-kit/clinic-service/internal/domain"
)

// CreatePatientRequest payload.
type CreatePatientRequest struct {
	ClinicID        *string    `json:"clinicId,omitempty"`
	Name            string     `json:"name"`
	Gender          *string    `json:"gender,omitempty"`
	BirthDate       *time.Time `json:"birthDate,omitempty"`
	Phone           *string    `json:"phone,omitempty"`
	MedicalRecordNo string     `json:"medicalRecordNo"`
	HealthProfile   *string    `json:"healthProfile,omitempty"`
}

// UpdatePatientRequest payload.
type UpdatePatientRequest struct {
	Name            *string    `json:"name,omitempty"`
	Gender          *string    `json:"gender,omitempty"`
	BirthDate       *time.Time `json:"birthDate,omitempty"`
	Phone           *string    `json:"phone,omitempty"`
	MedicalRecordNo *string    `json:"medicalRecordNo,omitempty"`
}

// UpdateHealthProfileRequest payload.
type UpdateHealthProfileRequest struct {
	HealthProfile *string `json:"healthProfile"`
}

// PatientView response shape.
type PatientView struct {
	ID              string     `json:"id"`
	ClinicID        string     `json:"clinicId"`
	Name            string     `json:"name"`
	Gender          *string    `json:"gender,omitempty"`
	BirthDate       *time.Time `json:"birthDate,omitempty"`
	Phone           *string    `json:"phone,omitempty"`
	MedicalRecordNo string     `json:"medicalRecordNo"`
	HealthProfile   *string    `json:"healthProfile,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// NewPatientView maps the domain model.
func NewPatientView(patient *domain.Patient) PatientView {
	return PatientView{
		ID:              patient.ID,
		ClinicID:        patient.ClinicID,
		Name:            patient.Name,
		Gender:          patient.Gender,
		BirthDate:       patient.BirthDate,
		Phone:           patient.Phone,
		MedicalRecordNo: patient.MedicalRecordNo,
		HealthProfile:   patient.HealthProfile,
		CreatedAt:       patient.CreatedAt,
	}
}
