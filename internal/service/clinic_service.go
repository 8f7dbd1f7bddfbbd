package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/clinic-service/internal/domain"
	"github.com/spec-kit/clinic-service/internal/repository"
	apperrors "github.com/spec-kit/clinic-service/pkg/util/errorutil"
)

// ClinicService manages tenants. Routing already restricts these operations
// to super_admin; the service re-checks scope anyway so nothing depends on
// the route table alone.
type ClinicService struct {
	clinics repository.ClinicRepository
}

// NewClinicService builds the service.
func NewClinicService(clinics repository.ClinicRepository) *ClinicService {
	return &ClinicService{clinics: clinics}
}

// ClinicCreateInput carries the creation payload.
type ClinicCreateInput struct {
	Name          string
	Code          string
	Address       *string
	Phone         *string
	ContactPerson *string
	LicenseNumber *string
}

// ClinicUpdateInput carries partial update fields.
type ClinicUpdateInput struct {
	Name          *string
	Address       *string
	Phone         *string
	ContactPerson *string
	LicenseNumber *string
	Active        *bool
}

// Create registers a new clinic.
func (s *ClinicService) Create(ctx context.Context, identity *domain.Identity, input ClinicCreateInput) (*domain.Clinic, error) {
	if identity.Role != domain.RoleSuperAdmin {
		return nil, apperrors.NewForbidden("clinic management requires super_admin")
	}
	if input.Name == "" || input.Code == "" {
		return nil, apperrors.NewValidationError("name and code required", nil)
	}

	if _, err := s.clinics.GetByCode(ctx, input.Code); err == nil {
		return nil, apperrors.NewConflict("clinic code already in use", nil)
	} else if err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}

	clinic := &domain.Clinic{
		Name:          input.Name,
		Code:          input.Code,
		Address:       input.Address,
		Phone:         input.Phone,
		ContactPerson: input.ContactPerson,
		LicenseNumber: input.LicenseNumber,
		Active:        true,
	}
	if err := s.clinics.Create(ctx, clinic); err != nil {
		return nil, apperrors.MapError(err)
	}
	return clinic, nil
}

// Get fetches a clinic by id.
func (s *ClinicService) Get(ctx context.Context, identity *domain.Identity, id string) (*domain.Clinic, error) {
	if identity.Role != domain.RoleSuperAdmin {
		return nil, apperrors.NewForbidden("clinic management requires super_admin")
	}
	clinic, err := s.clinics.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("clinic", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return clinic, nil
}

// List returns clinics matching the filter.
func (s *ClinicService) List(ctx context.Context, identity *domain.Identity, filter repository.ClinicFilter) ([]domain.Clinic, error) {
	if identity.Role != domain.RoleSuperAdmin {
		return nil, apperrors.NewForbidden("clinic management requires super_admin")
	}
	clinics, err := s.clinics.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return clinics, nil
}

// Update applies partial changes.
func (s *ClinicService) Update(ctx context.Context, identity *domain.Identity, id string, input ClinicUpdateInput) (*domain.Clinic, error) {
	clinic, err := s.Get(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		clinic.Name = *input.Name
	}
	if input.Address != nil {
		clinic.Address = input.Address
	}
	if input.Phone != nil {
		clinic.Phone = input.Phone
	}
	if input.ContactPerson != nil {
		clinic.ContactPerson = input.ContactPerson
	}
	if input.LicenseNumber != nil {
		clinic.LicenseNumber = input.LicenseNumber
	}
	if input.Active != nil {
		clinic.Active = *input.Active
	}

	if err := s.clinics.Update(ctx, clinic); err != nil {
		return nil, apperrors.MapError(err)
	}
	return clinic, nil
}

// Deactivate soft-deletes a clinic. Records are never hard-deleted.
func (s *ClinicService) Deactivate(ctx context.Context, identity *domain.Identity, id string) error {
	if identity.Role != domain.RoleSuperAdmin {
		return apperrors.NewForbidden("clinic management requires super_admin")
	}
	if err := s.clinics.Deactivate(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("clinic", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}
