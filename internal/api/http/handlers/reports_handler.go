package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/clinic-service/internal/api/dto"
	"github.com/spec-kit/clinic-service/internal/auth"
	"github.com/spec-kit/clinic-service/internal/repository"
	"github.com/spec-kit/clinic-service/internal/service"
	apperrors "github.com/spec-kit/clinic-service/pkg/util/errorutil"
)

// ReportsHandler manages report endpoints.
type ReportsHandler struct {
	service *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{service: reportService}
}

// List handles GET /api/reports.
func (h *ReportsHandler) List(c *fiber.Ctx) error {
	identity, ok2 := auth.IdentityFromContext(c)
	if !ok2 {
		return apperrors.NewMissingToken()
	}
	limit, offset := pagination(c)
	reports, err := h.service.List(c.Context(), identity, repository.ReportFilter{
		PatientID:     queryString(c, "patientId"),
		ExaminationID: queryString(c, "examinationId"),
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		return err
	}
	items := make([]dto.ReportView, 0, len(reports))
	for i := range reports {
		items = append(items, dto.NewReportView(&reports[i]))
	}
	return ok(c, items)
}

// Get handles GET /api/reports/:id.
func (h *ReportsHandler) Get(c *fiber.Ctx) error {
	identity, ok2 := auth.IdentityFromContext(c)
	if !ok2 {
		return apperrors.NewMissingToken()
	}
	report, err := h.service.Get(c.Context(), identity, c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, dto.NewReportView(report))
}

// Download handles GET /api/reports/:id/download, returning the rendered
// content as a plain text attachment.
func (h *ReportsHandler) Download(c *fiber.Ctx) error {
	identity, ok2 := auth.IdentityFromContext(c)
	if !ok2 {
		return apperrors.NewMissingToken()
	}
	report, err := h.service.Get(c.Context(), identity, c.Params("id"))
	if err != nil {
		return err
	}
	c.Set("Content-Type", "text/plain; charset=utf-8")
	c.Set("Content-Disposition", `attachment; filename="report-`+report.ID+`.txt"`)
	return c.SendString(report.Content)
}

// Finalize handles POST /api/reports/:id/finalize.
func (h *ReportsHandler) Finalize(c *fiber.Ctx) error {
	identity, ok2 := auth.IdentityFromContext(c)
	if !ok2 {
		return apperrors.NewMissingToken()
	}
	report, err := h.service.Finalize(c.Context(), identity, c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, dto.NewReportView(report))
}
