package dto

import (
	"time"

	"github.com/spec-kit/clinic-service/internal/domain"
)

// ReportView response shape.
type ReportView struct {
	ID            string    `json:"id"`
	ClinicID      string    `json:"clinicId"`
	ExaminationID string    `json:"examinationId"`
	PatientID     string    `json:"patientId"`
	Title         string    `json:"title"`
	Status        string    `json:"status"`
	GeneratedBy   string    `json:"generatedBy"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewReportView maps the domain model without the content body.
func NewReportView(report *domain.Report) ReportView {
	return ReportView{
		ID:            report.ID,
		ClinicID:      report.ClinicID,
		ExaminationID: report.ExaminationID,
		PatientID:     report.PatientID,
		Title:         report.Title,
		Status:        string(report.Status),
		GeneratedBy:   report.GeneratedBy,
		CreatedAt:     report.CreatedAt,
	}
}
