package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/clinic-service/internal/api/dto"
	"github.com/spec-kit/clinic-service/internal/auth"
	"github.com/spec-kit/clinic-service/internal/domain"
	"github.com/spec-kit/clinic-service/internal/repository"
	"github.com/spec-kit/clinic-service/internal/service"
	apperrors "github.com/spec-kit/clinic-service/pkg/util/errorutil"
)

// ExaminationsHandler manages examination endpoints.
type ExaminationsHandler struct {
	service *service.ExaminationService
}

// NewExaminationsHandler constructs handler.
func NewExaminationsHandler(examService *service.ExaminationService) *ExaminationsHandler {
	return &ExaminationsHandler{service: examService}
}

// List handles GET /api/examinations.
func (h *ExaminationsHandler) List(c *fiber.Ctx) error {
	identity, ok2 := auth.IdentityFromContext(c)
	if !ok2 {
		return apperrors.NewMissingToken()
	}
	limit, offset := pagination(c)
	filter := repository.ExaminationFilter{
		PatientID: queryString(c, "patientId"),
		DoctorID:  queryString(c, "doctorId"),
		Limit:     limit,
		Offset:    offset,
	}
	if status := c.Query("status"); status != "" {
		filter.Statuses = []domain.ExaminationStatus{domain.ExaminationStatus(status)}
	}

	exams, err := h.service.List(c.Context(), identity, filter)
	if err != nil {
		return err
	}
	items := make([]dto.ExaminationView, 0, len(exams))
	for i := range exams {
		items = append(items, dto.NewExaminationView(&exams[i]))
	}
	return ok(c, items)
}

// Get handles GET /api/examinations/:id.
func (h *ExaminationsHandler) Get(c *fiber.Ctx) error {
	identity, ok2 := auth.IdentityFromContext(c)
	if !ok2 {
		return apperrors.NewMissingToken()
	}
	exam, err := h.service.Get(c.Context(), identity, c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, dto.NewExaminationView(exam))
}

// Create handles POST /api/examinations.
func (h *ExaminationsHandler) Create(c *fiber.Ctx) error {
	identity, ok2 := auth.IdentityFromContext(c)
	if !ok2 {
		return apperrors.NewMissingToken()
	}
	var req dto.CreateExaminationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	exam, err := h.service.Create(c.Context(), identity, service.ExaminationCreateInput{
		PatientID:  req.PatientID,
		Type:       req.Type,
		ImageURL:   req.ImageURL,
		Findings:   req.Findings,
		ExaminedAt: req.ExaminedAt,
	})
	if err != nil {
		return err
	}
	return created(c, dto.NewExaminationView(exam))
}

// Update handles PUT /api/examinations/:id.
func (h *ExaminationsHandler) Update(c *fiber.Ctx) error {
	identity, ok2 := auth.IdentityFromContext(c)
	if !ok2 {
		return apperrors.NewMissingToken()
	}
	var req dto.UpdateExaminationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	input := service.ExaminationUpdateInput{
		Type:     req.Type,
		ImageURL: req.ImageURL,
		Findings: req.Findings,
	}
	if req.Status != nil {
		status := domain.ExaminationStatus(*req.Status)
		input.Status = &status
	}
	exam, err := h.service.Update(c.Context(), identity, c.Params("id"), input)
	if err != nil {
		return err
	}
	return ok(c, dto.NewExaminationView(exam))
}

// RequestAnalysis handles POST /api/examinations/:id/ai-analysis.
func (h *ExaminationsHandler) RequestAnalysis(c *fiber.Ctx) error {
	identity, ok2 := auth.IdentityFromContext(c)
	if !ok2 {
		return apperrors.NewMissingToken()
	}
	analysis, err := h.service.RequestAnalysis(c.Context(), identity, c.Params("id"))
	if err != nil {
		return err
	}
	return created(c, dto.NewAnalysisView(analysis))
}

// ListAnalyses handles GET /api/examinations/:id/ai-analyses.
func (h *ExaminationsHandler) ListAnalyses(c *fiber.Ctx) error {
	identity, ok2 := auth.IdentityFromContext(c)
	if !ok2 {
		return apperrors.NewMissingToken()
	}
	analyses, err := h.service.ListAnalyses(c.Context(), identity, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.AnalysisView, 0, len(analyses))
	for i := range analyses {
		items = append(items, dto.NewAnalysisView(&analyses[i]))
	}
	return ok(c, items)
}

// GenerateReport handles POST /api/examinations/:id/generate-report.
func (h *ExaminationsHandler) GenerateReport(c *fiber.Ctx) error {
	identity, ok2 := auth.IdentityFromContext(c)
	if !ok2 {
		return apperrors.NewMissingToken()
	}
	var req dto.GenerateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	report, err := h.service.GenerateReport(c.Context(), identity, c.Params("id"), req.Title)
	if err != nil {
		return err
	}
	return created(c, dto.NewReportView(report))
}
