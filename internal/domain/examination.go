package domain

import "time"

// ExaminationStatus tracks the examination lifecycle.
type ExaminationStatus string

const (
	ExaminationStatusPending   ExaminationStatus = "PENDING"
	ExaminationStatusCompleted ExaminationStatus = "COMPLETED"
	ExaminationStatusAnalyzed  ExaminationStatus = "ANALYZED"
)

// Examination records a single visit-level examination of a patient.
type Examination struct {
	ID         string
	ClinicID   string
	PatientID  string
	DoctorID   string
	Type       string
	Status     ExaminationStatus
	ImageURL   *string
	Findings   *string
	ExaminedAt time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AIAnalysis is the stored result of a third-party analysis run against an
// examination image.
type AIAnalysis struct {
	ID            string
	ExaminationID string
	Label         string
	Confidence    float64
	Summary       string
	ModelVersion  string
	CreatedAt     time.Time
}
