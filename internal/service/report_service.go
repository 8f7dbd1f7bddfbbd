package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/clinic-service/internal/domain"
	"github.com/spec-kit/clinic-service/internal/repository"
	apperrors "github.com/spec-kit/clinic-service/pkg/util/errorutil"
)

// ReportService exposes report access, clinic-scoped.
type ReportService struct {
	reports repository.ReportRepository
}

// NewReportService builds the service.
func NewReportService(reports repository.ReportRepository) *ReportService {
	return &ReportService{reports: reports}
}

// Get fetches a report inside the caller's scope.
func (s *ReportService) Get(ctx context.Context, identity *domain.Identity, id string) (*domain.Report, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("report", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if !domain.ScopeFor(identity).Allows(report.ClinicID) {
		return nil, apperrors.NewNotFound("report", nil)
	}
	return report, nil
}

// List returns reports inside the caller's scope.
func (s *ReportService) List(ctx context.Context, identity *domain.Identity, filter repository.ReportFilter) ([]domain.Report, error) {
	filter.ClinicID = domain.ScopeFor(identity).ClinicFilter()
	reports, err := s.reports.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return reports, nil
}

// Finalize marks a draft report as finalized.
func (s *ReportService) Finalize(ctx context.Context, identity *domain.Identity, id string) (*domain.Report, error) {
	report, err := s.Get(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	report.Status = domain.ReportStatusFinalized
	if err := s.reports.Update(ctx, report); err != nil {
		return nil, apperrors.MapError(err)
	}
	return report, nil
}
