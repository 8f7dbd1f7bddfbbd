package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/clinic-service/internal/api/dto"
	"github.com/spec-kit/clinic-service/internal/auth"
	"github.com/spec-kit/clinic-service/internal/repository"
	"github.com/spec-kit/clinic-service/internal/service"
	apperrors "github.com/spec-kit/clinic-service/pkg/util/errorutil"
)

// PatientsHandler manages patient endpoints.
type PatientsHandler struct {
	service *service.PatientService
}

// NewPatientsHandler constructs handler.
func NewPatientsHandler(patientService *service.PatientService) *PatientsHandler {
	return &PatientsHandler{service: patientService}
}

// List handles GET /api/patients.
func (h *PatientsHandler) List(c *fiber.Ctx) error {
	identity, ok2 := auth.IdentityFromContext(c)
	if !ok2 {
		return apperrors.NewMissingToken()
	}
	limit, offset := pagination(c)
	patients, err := h.service.List(c.Context(), identity, repository.PatientFilter{
		Search: queryString(c, "search"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return err
	}
	items := make([]dto.PatientView, 0, len(patients))
	for i := range patients {
		items = append(items, dto.NewPatientView(&patients[i]))
	}
	return ok(c, items)
}

// Get handles GET /api/patients/:id.
func (h *PatientsHandler) Get(c *fiber.Ctx) error {
	identity, ok2 := auth.IdentityFromContext(c)
	if !ok2 {
		return apperrors.NewMissingToken()
	}
	patient, err := h.service.Get(c.Context(), identity, c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, dto.NewPatientView(patient))
}

// Create handles POST /api/patients.
func (h *PatientsHandler) Create(c *fiber.Ctx) error {
	identity, ok2 := auth.IdentityFromContext(c)
	if !ok2 {
		return apperrors.NewMissingToken()
	}
	var req dto.CreatePatientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	patient, err := h.service.Create(c.Context(), identity, service.PatientCreateInput{
		ClinicID:        req.ClinicID,
		Name:            req.Name,
		Gender:          req.Gender,
		BirthDate:       req.BirthDate,
		Phone:           req.Phone,
		MedicalRecordNo: req.MedicalRecordNo,
		HealthProfile:   req.HealthProfile,
	})
	if err != nil {
		return err
	}
	return created(c, dto.NewPatientView(patient))
}

// Update handles PUT /api/patients/:id.
func (h *PatientsHandler) Update(c *fiber.Ctx) error {
	identity, ok2 := auth.IdentityFromContext(c)
	if !ok2 {
		return apperrors.NewMissingToken()
	}
	var req dto.UpdatePatientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	patient, err := h.service.Update(c.Context(), identity, c.Params("id"), service.PatientUpdateInput{
		Name:            req.Name,
		Gender:          req.Gender,
		BirthDate:       req.BirthDate,
		Phone:           req.Phone,
		MedicalRecordNo: req.MedicalRecordNo,
	})
	if err != nil {
		return err
	}
	return ok(c, dto.NewPatientView(patient))
}

// UpdateHealthProfile handles PUT /api/patients/:id/health-profile.
func (h *PatientsHandler) UpdateHealthProfile(c *fiber.Ctx) error {
	identity, ok2 := auth.IdentityFromContext(c)
	if !ok2 {
		return apperrors.NewMissingToken()
	}
	var req dto.UpdateHealthProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	patient, err := h.service.UpdateHealthProfile(c.Context(), identity, c.Params("id"), req.HealthProfile)
	if err != nil {
		return err
	}
	return ok(c, dto.NewPatientView(patient))
}

// ListExaminations handles GET /api/patients/:id/examinations.
func (h *PatientsHandler) ListExaminations(c *fiber.Ctx) error {
	identity, ok2 := auth.IdentityFromContext(c)
	if !ok2 {
		return apperrors.NewMissingToken()
	}
	limit, offset := pagination(c)
	exams, err := h.service.ListExaminations(c.Context(), identity, c.Params("id"), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.ExaminationView, 0, len(exams))
	for i := range exams {
		items = append(items, dto.NewExaminationView(&exams[i]))
	}
	return ok(c, items)
}

// Stats handles GET /api/patients/:id/stats.
func (h *PatientsHandler) Stats(c *fiber.Ctx) error {
	identity, ok2 := auth.IdentityFromContext(c)
	if !ok2 {
		return apperrors.NewMissingToken()
	}
	stats, err := h.service.Stats(c.Context(), identity, c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, fiber.Map{
		"totalExaminations": stats.TotalExaminations,
		"totalReports":      stats.TotalReports,
		"lastExaminedAt":    stats.LastExaminedAt,
	})
}

// Delete handles DELETE /api/patients/:id.
func (h *PatientsHandler) Delete(c *fiber.Ctx) error {
	identity, ok2 := auth.IdentityFromContext(c)
	if !ok2 {
		return apperrors.NewMissingToken()
	}
	if err := h.service.Delete(c.Context(), identity, c.Params("id")); err != nil {
		return err
	}
	return ok(c, fiber.Map{"deleted": true})
}
