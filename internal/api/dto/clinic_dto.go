package dto

import (
	"time"

	"github.com/spec-kit/clinic-service/internal/domain"
)

// CreateClinicRequest payload.
type CreateClinicRequest struct {
	Name          string  `json:"name"`
	Code          string  `json:"code"`
	Address       *string `json:"address,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	ContactPerson *string `json:"contactPerson,omitempty"`
	LicenseNumber *string `json:"licenseNumber,omitempty"`
}

// UpdateClinicRequest payload.
type UpdateClinicRequest struct {
	Name          *string `json:"name,omitempty"`
	Address       *string `json:"address,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	ContactPerson *string `json:"contactPerson,omitempty"`
	LicenseNumber *string `json:"licenseNumber,omitempty"`
	IsActive      *bool   `json:"isActive,omitempty"`
}

// ClinicView response shape.
type ClinicView struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Code          string    `json:"code"`
	Address       *string   `json:"address,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	ContactPerson *string   `json:"contactPerson,omitempty"`
	LicenseNumber *string   `json:"licenseNumber,omitempty"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewClinicView maps the domain model.
func NewClinicView(clinic *domain.Clinic) ClinicView {
	return ClinicView{
		ID:            clinic.ID,
		Name:          clinic.Name,
		Code:          clinic.Code,
		Address:       clinic.Address,
		Phone:         clinic.Phone,
		ContactPerson: clinic.ContactPerson,
		LicenseNumber: clinic.LicenseNumber,
		IsActive:      clinic.Active,
		CreatedAt:     clinic.CreatedAt,
	}
}
