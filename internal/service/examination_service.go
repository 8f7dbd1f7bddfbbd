package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/clinic-service/internal/domain"
	"github.com/spec-kit/clinic-service/internal/events"
	"github.com/spec-kit/clinic-service/internal/repository"
	apperrors "github.com/spec-kit/clinic-service/pkg/util/errorutil"
)

// ExaminationService manages examinations and their analysis records.
type ExaminationService struct {
	exams      repository.ExaminationRepository
	patients   repository.PatientRepository
	reports    repository.ReportRepository
	ai         *AIClient
	dispatcher events.Dispatcher
}

// ExaminationDependencies bundles constructor arguments.
type ExaminationDependencies struct {
	ExamRepo   repository.ExaminationRepository
	Patients   repository.PatientRepository
	Reports    repository.ReportRepository
	AIClient   *AIClient
	Dispatcher events.Dispatcher
}

// NewExaminationService builds the service.
func NewExaminationService(deps ExaminationDependencies) *ExaminationService {
	return &ExaminationService{
		exams:      deps.ExamRepo,
		patients:   deps.Patients,
		reports:    deps.Reports,
		ai:         deps.AIClient,
		dispatcher: deps.Dispatcher,
	}
}

// ExaminationCreateInput carries the creation payload.
type ExaminationCreateInput struct {
	PatientID  string
	Type       string
	ImageURL   *string
	Findings   *string
	ExaminedAt *time.Time
}

// ExaminationUpdateInput carries partial update fields.
type ExaminationUpdateInput struct {
	Type     *string
	Status   *domain.ExaminationStatus
	ImageURL *string
	Findings *string
}

// Create records an examination for a patient inside the caller's scope.
func (s *ExaminationService) Create(ctx context.Context, identity *domain.Identity, input ExaminationCreateInput) (*domain.Examination, error) {
	if input.PatientID == "" || input.Type == "" {
		return nil, apperrors.NewValidationError("patient_id and type required", nil)
	}

	patient, err := s.patients.GetByID(ctx, input.PatientID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("patient", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if !domain.ScopeFor(identity).Allows(patient.ClinicID) {
		return nil, apperrors.NewNotFound("patient", nil)
	}

	examinedAt := time.Now()
	if input.ExaminedAt != nil {
		examinedAt = *input.ExaminedAt
	}

	exam := &domain.Examination{
		ClinicID:   patient.ClinicID,
		PatientID:  patient.ID,
		DoctorID:   identity.ID,
		Type:       input.Type,
		Status:     domain.ExaminationStatusPending,
		ImageURL:   input.ImageURL,
		Findings:   input.Findings,
		ExaminedAt: examinedAt,
	}
	if err := s.exams.Create(ctx, exam); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, identity, exam, events.EventExaminationCreated, events.ExaminationCreatedPayload{
		PatientID: exam.PatientID,
		Type:      exam.Type,
	})
	return exam, nil
}

// Get fetches an examination inside the caller's scope.
func (s *ExaminationService) Get(ctx context.Context, identity *domain.Identity, id string) (*domain.Examination, error) {
	exam, err := s.exams.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("examination", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if !domain.ScopeFor(identity).Allows(exam.ClinicID) {
		return nil, apperrors.NewNotFound("examination", nil)
	}
	return exam, nil
}

// List returns examinations inside the caller's scope.
func (s *ExaminationService) List(ctx context.Context, identity *domain.Identity, filter repository.ExaminationFilter) ([]domain.Examination, error) {
	filter.ClinicID = domain.ScopeFor(identity).ClinicFilter()
	exams, err := s.exams.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return exams, nil
}

// Update applies partial changes to a scoped examination.
func (s *ExaminationService) Update(ctx context.Context, identity *domain.Identity, id string, input ExaminationUpdateInput) (*domain.Examination, error) {
	exam, err := s.Get(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	if input.Type != nil {
		exam.Type = *input.Type
	}
	if input.Status != nil {
		exam.Status = *input.Status
	}
	if input.ImageURL != nil {
		exam.ImageURL = input.ImageURL
	}
	if input.Findings != nil {
		exam.Findings = input.Findings
	}

	if err := s.exams.Update(ctx, exam); err != nil {
		return nil, apperrors.MapError(err)
	}
	return exam, nil
}

// RequestAnalysis submits the examination to the external analysis service
// and stores the result.
func (s *ExaminationService) RequestAnalysis(ctx context.Context, identity *domain.Identity, id string) (*domain.AIAnalysis, error) {
	exam, err := s.Get(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	result, err := s.ai.Analyze(ctx, AnalysisRequest{
		ExaminationID: exam.ID,
		ImageURL:      exam.ImageURL,
		Findings:      exam.Findings,
	})
	if err != nil {
		return nil, err
	}

	analysis := &domain.AIAnalysis{
		ExaminationID: exam.ID,
		Label:         result.Label,
		Confidence:    result.Confidence,
		Summary:       result.Summary,
		ModelVersion:  s.ai.ModelVersion(),
	}
	if err := s.exams.AddAnalysis(ctx, analysis); err != nil {
		return nil, apperrors.MapError(err)
	}

	exam.Status = domain.ExaminationStatusAnalyzed
	if err := s.exams.Update(ctx, exam); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, identity, exam, events.EventAIAnalysisCompleted, events.AIAnalysisCompletedPayload{
		AnalysisID: analysis.ID,
		Label:      analysis.Label,
		Confidence: analysis.Confidence,
	})
	return analysis, nil
}

// ListAnalyses returns stored analyses for a scoped examination.
func (s *ExaminationService) ListAnalyses(ctx context.Context, identity *domain.Identity, id string) ([]domain.AIAnalysis, error) {
	exam, err := s.Get(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	analyses, err := s.exams.ListAnalyses(ctx, exam.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return analyses, nil
}

// GenerateReport renders a report from the examination and its latest
// analysis and persists it.
func (s *ExaminationService) GenerateReport(ctx context.Context, identity *domain.Identity, id, title string) (*domain.Report, error) {
	exam, err := s.Get(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	content := fmt.Sprintf("Examination %s (%s)\nStatus: %s\n", exam.ID, exam.Type, exam.Status)
	if exam.Findings != nil {
		content += "Findings: " + *exam.Findings + "\n"
	}
	analyses, err := s.exams.ListAnalyses(ctx, exam.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(analyses) > 0 {
		latest := analyses[0]
		content += fmt.Sprintf("Analysis: %s (%.2f)\n%s\n", latest.Label, latest.Confidence, latest.Summary)
	}
	if title == "" {
		title = fmt.Sprintf("%s report", exam.Type)
	}

	report := &domain.Report{
		ClinicID:      exam.ClinicID,
		ExaminationID: exam.ID,
		PatientID:     exam.PatientID,
		Title:         title,
		Content:       content,
		Status:        domain.ReportStatusDraft,
		GeneratedBy:   identity.ID,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, identity, exam, events.EventReportGenerated, events.ReportGeneratedPayload{
		ReportID:  report.ID,
		PatientID: report.PatientID,
		Title:     report.Title,
	})
	return report, nil
}

func (s *ExaminationService) publish(ctx context.Context, identity *domain.Identity, exam *domain.Examination, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		ClinicID:      exam.ClinicID,
		ExaminationID: exam.ID,
		Actor:         events.Actor{IdentityID: identity.ID, Role: identity.Role},
		Timestamp:     time.Now(),
		Payload:       payload,
	})
}
