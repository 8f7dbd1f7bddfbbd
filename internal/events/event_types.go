package events

import (
	"time"

	"github.com/spec-kit/clinic-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventExaminationCreated  EventType = "examination_created"
	EventAIAnalysisCompleted EventType = "ai_analysis_completed"
	EventReportGenerated     EventType = "report_generated"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	IdentityID string      `json:"identity_id"`
	Role       domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID            string      `json:"id"`
	Type          EventType   `json:"type"`
	ClinicID      string      `json:"clinic_id"`
	ExaminationID string      `json:"examination_id"`
	Actor         Actor       `json:"actor"`
	Timestamp     time.Time   `json:"timestamp"`
	Payload       interface{} `json:"payload"`
}

// ExaminationCreatedPayload payload.
type ExaminationCreatedPayload struct {
	PatientID string `json:"patient_id"`
	Type      string `json:"type"`
}

// AIAnalysisCompletedPayload payload.
type AIAnalysisCompletedPayload struct {
	AnalysisID string  `json:"analysis_id"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// ReportGeneratedPayload payload.
type ReportGeneratedPayload struct {
	ReportID  string `json:"report_id"`
	PatientID string `json:"patient_id"`
	Title     string `json:"title"`
}
