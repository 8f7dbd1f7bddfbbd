package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/clinic-service/internal/api/dto"
	"github.com/spec-kit/clinic-service/internal/auth"
	"github.com/spec-kit/clinic-service/internal/repository"
	"github.com/spec-kit/clinic-service/internal/service"
	apperrors "github.com/spec-kit/clinic-service/pkg/util/errorutil"
)

// ClinicsHandler manages clinic endpoints.
type ClinicsHandler struct {
	service *service.ClinicService
}

// NewClinicsHandler constructs handler.
func NewClinicsHandler(clinicService *service.ClinicService) *ClinicsHandler {
	return &ClinicsHandler{service: clinicService}
}

// List handles GET /api/clinics.
func (h *ClinicsHandler) List(c *fiber.Ctx) error {
	identity, ok2 := auth.IdentityFromContext(c)
	if !ok2 {
		return apperrors.NewMissingToken()
	}

	limit, offset := pagination(c)
	filter := repository.ClinicFilter{
		Search: queryString(c, "search"),
		Limit:  limit,
		Offset: offset,
	}
	if raw := c.Query("isActive"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter.Active = &active
		}
	}

	clinics, err := h.service.List(c.Context(), identity, filter)
	if err != nil {
		return err
	}
	items := make([]dto.ClinicView, 0, len(clinics))
	for i := range clinics {
		items = append(items, dto.NewClinicView(&clinics[i]))
	}
	return ok(c, items)
}

// Get handles GET /api/clinics/:id.
func (h *ClinicsHandler) Get(c *fiber.Ctx) error {
	identity, ok2 := auth.IdentityFromContext(c)
	if !ok2 {
		return apperrors.NewMissingToken()
	}
	clinic, err := h.service.Get(c.Context(), identity, c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, dto.NewClinicView(clinic))
}

// Create handles POST /api/clinics.
func (h *ClinicsHandler) Create(c *fiber.Ctx) error {
	identity, ok2 := auth.IdentityFromContext(c)
	if !ok2 {
		return apperrors.NewMissingToken()
	}
	var req dto.CreateClinicRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	clinic, err := h.service.Create(c.Context(), identity, service.ClinicCreateInput{
		Name:          req.Name,
		Code:          req.Code,
		Address:       req.Address,
		Phone:         req.Phone,
		ContactPerson: req.ContactPerson,
		LicenseNumber: req.LicenseNumber,
	})
	if err != nil {
		return err
	}
	return created(c, dto.NewClinicView(clinic))
}

// Update handles PUT /api/clinics/:id.
func (h *ClinicsHandler) Update(c *fiber.Ctx) error {
	identity, ok2 := auth.IdentityFromContext(c)
	if !ok2 {
		return apperrors.NewMissingToken()
	}
	var req dto.UpdateClinicRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	clinic, err := h.service.Update(c.Context(), identity, c.Params("id"), service.ClinicUpdateInput{
		Name:          req.Name,
		Address:       req.Address,
		Phone:         req.Phone,
		ContactPerson: req.ContactPerson,
		LicenseNumber: req.LicenseNumber,
		Active:        req.IsActive,
	})
	if err != nil {
		return err
	}
	return ok(c, dto.NewClinicView(clinic))
}

// Delete handles DELETE /api/clinics/:id (soft delete).
func (h *ClinicsHandler) Delete(c *fiber.Ctx) error {
	identity, ok2 := auth.IdentityFromContext(c)
	if !ok2 {
		return apperrors.NewMissingToken()
	}
	if err := h.service.Deactivate(c.Context(), identity, c.Params("id")); err != nil {
		return err
	}
	return ok(c, fiber.Map{"deactivated": true})
}
