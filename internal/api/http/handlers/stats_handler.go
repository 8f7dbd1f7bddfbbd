package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/clinic-service/internal/auth"
	"github.com/spec-kit/clinic-service/internal/service"
	apperrors "github.com/spec-kit/clinic-service/pkg/util/errorutil"
)

// StatsHandler serves dashboard aggregates.
type StatsHandler struct {
	service *service.StatsService
}

// NewStatsHandler constructs handler.
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{service: statsService}
}

// Overview handles GET /api/stats/overview.
func (h *StatsHandler) Overview(c *fiber.Ctx) error {
	identity, ok2 := auth.IdentityFromContext(c)
	if !ok2 {
		return apperrors.NewMissingToken()
	}
	stats, err := h.service.Overview(c.Context(), identity)
	if err != nil {
		return err
	}
	return ok(c, fiber.Map{
		"totalClinics":      stats.TotalClinics,
		"totalPatients":     stats.TotalPatients,
		"totalExaminations": stats.TotalExaminations,
		"totalReports":      stats.TotalReports,
	})
}

// Reports handles GET /api/stats/reports.
func (h *StatsHandler) Reports(c *fiber.Ctx) error {
	identity, ok2 := auth.IdentityFromContext(c)
	if !ok2 {
		return apperrors.NewMissingToken()
	}
	stats, err := h.service.Reports(c.Context(), identity)
	if err != nil {
		return err
	}
	return ok(c, fiber.Map{"byStatus": stats.ByStatus})
}

// Clinics handles GET /api/stats/clinics.
func (h *StatsHandler) Clinics(c *fiber.Ctx) error {
	identity, ok2 := auth.IdentityFromContext(c)
	if !ok2 {
		return apperrors.NewMissingToken()
	}
	stats, err := h.service.Clinics(c.Context(), identity)
	if err != nil {
		return err
	}
	return ok(c, fiber.Map{"active": stats.Active, "inactive": stats.Inactive})
}
