package dto

import (
	"time"

	"github.com/spec-kit/clinic-service/internal/domain"
)

// CreateExaminationRequest payload.
type CreateExaminationRequest struct {
	PatientID  string     `json:"patientId"`
	Type       string     `json:"type"`
	ImageURL   *string    `json:"imageUrl,omitempty"`
	Findings   *string    `json:"findings,omitempty"`
	ExaminedAt *time.Time `json:"examinedAt,omitempty"`
}

// UpdateExaminationRequest payload.
type UpdateExaminationRequest struct {
	Type     *string `json:"type,omitempty"`
	Status   *string `json:"status,omitempty"`
	ImageURL *string `json:"imageUrl,omitempty"`
	Findings *string `json:"findings,omitempty"`
}

// GenerateReportRequest payload.
type GenerateReportRequest struct {
	Title string `json:"title"`
}

// ExaminationView response shape.
type ExaminationView struct {
	ID         string    `json:"id"`
	ClinicID   string    `json:"clinicId"`
	PatientID  string    `json:"patientId"`
	DoctorID   string    `json:"doctorId"`
	Type       string    `json:"type"`
	Status     string    `json:"status"`
	ImageURL   *string   `json:"imageUrl,omitempty"`
	Findings   *string   `json:"findings,omitempty"`
	ExaminedAt time.Time `json:"examinedAt"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewExaminationView maps the domain model.
func NewExaminationView(exam *domain.Examination) ExaminationView {
	return ExaminationView{
		ID:         exam.ID,
		ClinicID:   exam.ClinicID,
		PatientID:  exam.PatientID,
		DoctorID:   exam.DoctorID,
		Type:       exam.Type,
		Status:     string(exam.Status),
		ImageURL:   exam.ImageURL,
		Findings:   exam.Findings,
		ExaminedAt: exam.ExaminedAt,
		CreatedAt:  exam.CreatedAt,
	}
}

// AnalysisView response shape.
type AnalysisView struct {
	ID            string    `json:"id"`
	ExaminationID string    `json:"examinationId"`
	Label         string    `json:"label"`
	Confidence    float64   `json:"confidence"`
	Summary       string    `json:"summary"`
	ModelVersion  string    `json:"modelVersion"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewAnalysisView maps the domain model.
func NewAnalysisView(analysis *domain.AIAnalysis) AnalysisView {
	return AnalysisView{
		ID:            analysis.ID,
		ExaminationID: analysis.ExaminationID,
		Label:         analysis.Label,
		Confidence:    analysis.Confidence,
		Summary:       analysis.Summary,
		ModelVersion:  analysis.ModelVersion,
		CreatedAt:     analysis.CreatedAt,
	}
}
