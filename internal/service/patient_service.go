package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/clinic-service/internal/domain"
	"github.com/spec-kit/clinic-service/internal/repository"
	apperrors "github.com/spec-kit/clinic-service/pkg/util/errorutil"
)

// PatientService manages patient records. Every operation applies the
// caller's clinic scope after the role check has already passed.
type PatientService struct {
	patients repository.PatientRepository
	exams    repository.ExaminationRepository
	stats    repository.StatsRepository
}

// NewPatientService builds the service.
func NewPatientService(patients repository.PatientRepository, exams repository.ExaminationRepository, stats repository.StatsRepository) *PatientService {
	return &PatientService{patients: patients, exams: exams, stats: stats}
}

// PatientCreateInput carries the creation payload.
type PatientCreateInput struct {
	ClinicID        *string
	Name            string
	Gender          *string
	BirthDate       *time.Time
	Phone           *string
	MedicalRecordNo string
	HealthProfile   *string
}

// PatientUpdateInput carries partial update fields.
type PatientUpdateInput struct {
	Name            *string
	Gender          *string
	BirthDate       *time.Time
	Phone           *string
	MedicalRecordNo *string
}

// Create registers a patient under the caller's clinic. A super_admin must
// name the target clinic explicitly.
func (s *PatientService) Create(ctx context.Context, identity *domain.Identity, input PatientCreateInput) (*domain.Patient, error) {
	if input.Name == "" || input.MedicalRecordNo == "" {
		return nil, apperrors.NewValidationError("name and medical_record_no required", nil)
	}

	scope := domain.ScopeFor(identity)
	clinicID := ""
	switch {
	case scope.All():
		if input.ClinicID == nil {
			return nil, apperrors.NewValidationError("clinic_id required", nil)
		}
		clinicID = *input.ClinicID
	default:
		clinicID = *scope.ClinicFilter()
		if input.ClinicID != nil && !scope.Allows(*input.ClinicID) {
			return nil, apperrors.NewForbidden("clinic scope violation")
		}
	}

	patient := &domain.Patient{
		ClinicID:        clinicID,
		Name:            input.Name,
		Gender:          input.Gender,
		BirthDate:       input.BirthDate,
		Phone:           input.Phone,
		MedicalRecordNo: input.MedicalRecordNo,
		HealthProfile:   input.HealthProfile,
	}
	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, apperrors.MapError(err)
	}
	return patient, nil
}

// Get fetches a patient visible within the caller's scope.
func (s *PatientService) Get(ctx context.Context, identity *domain.Identity, id string) (*domain.Patient, error) {
	patient, err := s.patients.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("patient", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if !domain.ScopeFor(identity).Allows(patient.ClinicID) {
		// hide the record's existence from other clinics
		return nil, apperrors.NewNotFound("patient", nil)
	}
	return patient, nil
}

// List returns patients inside the caller's clinic scope.
func (s *PatientService) List(ctx context.Context, identity *domain.Identity, filter repository.PatientFilter) ([]domain.Patient, error) {
	filter.ClinicID = domain.ScopeFor(identity).ClinicFilter()
	patients, err := s.patients.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return patients, nil
}

// Update applies partial changes to a scoped patient.
func (s *PatientService) Update(ctx context.Context, identity *domain.Identity, id string, input PatientUpdateInput) (*domain.Patient, error) {
	patient, err := s.Get(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		patient.Name = *input.Name
	}
	if input.Gender != nil {
		patient.Gender = input.Gender
	}
	if input.BirthDate != nil {
		patient.BirthDate = input.BirthDate
	}
	if input.Phone != nil {
		patient.Phone = input.Phone
	}
	if input.MedicalRecordNo != nil {
		patient.MedicalRecordNo = *input.MedicalRecordNo
	}

	if err := s.patients.Update(ctx, patient); err != nil {
		return nil, apperrors.MapError(err)
	}
	return patient, nil
}

// UpdateHealthProfile replaces the patient's health profile document.
func (s *PatientService) UpdateHealthProfile(ctx context.Context, identity *domain.Identity, id string, profile *string) (*domain.Patient, error) {
	patient, err := s.Get(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	if err := s.patients.UpdateHealthProfile(ctx, patient.ID, profile); err != nil {
		return nil, apperrors.MapError(err)
	}
	patient.HealthProfile = profile
	return patient, nil
}

// ListExaminations returns the patient's examinations within scope.
func (s *PatientService) ListExaminations(ctx context.Context, identity *domain.Identity, id string, limit, offset int) ([]domain.Examination, error) {
	patient, err := s.Get(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	filter := repository.ExaminationFilter{
		ClinicID:  domain.ScopeFor(identity).ClinicFilter(),
		PatientID: &patient.ID,
		Limit:     limit,
		Offset:    offset,
	}
	exams, err := s.exams.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return exams, nil
}

// Stats returns examination and report counts for a scoped patient.
func (s *PatientService) Stats(ctx context.Context, identity *domain.Identity, id string) (*repository.PatientStats, error) {
	patient, err := s.Get(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	stats, err := s.stats.Patient(ctx, patient.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return stats, nil
}

// Delete removes a patient. Only admins reach this through the route table.
func (s *PatientService) Delete(ctx context.Context, identity *domain.Identity, id string) error {
	if _, err := s.Get(ctx, identity, id); err != nil {
		return err
	}
	if err := s.patients.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
