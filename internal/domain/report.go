package domain

import "time"

// ReportStatus tracks report lifecycle.
type ReportStatus string

const (
	ReportStatusDraft     ReportStatus = "DRAFT"
	ReportStatusFinalized ReportStatus = "FINALIZED"
)

// Report is a rendered clinical report derived from an examination.
type Report struct {
	ID            string
	ClinicID      string
	ExaminationID string
	PatientID     string
	Title         string
	Content       string
	Status        ReportStatus
	GeneratedBy   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
