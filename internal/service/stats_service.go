package service

import (
	"context"

	"github.com/spec-kit/clinic-service/internal/domain"
	"github.com/spec-kit/clinic-service/internal/repository"
	apperrors "github.com/spec-kit/clinic-service/pkg/util/errorutil"
)

// StatsService serves dashboard aggregates, clinic-scoped.
type StatsService struct {
	stats repository.StatsRepository
}

// NewStatsService builds the service.
func NewStatsService(stats repository.StatsRepository) *StatsService {
	return &StatsService{stats: stats}
}

// Overview returns counts scoped to the caller's clinic.
func (s *StatsService) Overview(ctx context.Context, identity *domain.Identity) (*repository.OverviewStats, error) {
	stats, err := s.stats.Overview(ctx, domain.ScopeFor(identity).ClinicFilter())
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return stats, nil
}

// Reports returns report breakdowns scoped to the caller's clinic.
func (s *StatsService) Reports(ctx context.Context, identity *domain.Identity) (*repository.ReportStats, error) {
	stats, err := s.stats.Reports(ctx, domain.ScopeFor(identity).ClinicFilter())
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return stats, nil
}

// Clinics returns active/inactive clinic counts; super_admin only, enforced
// here on top of the route table.
func (s *StatsService) Clinics(ctx context.Context, identity *domain.Identity) (*repository.ClinicStats, error) {
	if identity.Role != domain.RoleSuperAdmin {
		return nil, apperrors.NewForbidden("clinic stats require super_admin")
	}
	stats, err := s.stats.Clinics(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return stats, nil
}
