package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// OverviewStats aggregates platform-wide or clinic-scoped counts.
type OverviewStats struct {
	TotalClinics      int64
	TotalPatients     int64
	TotalExaminations int64
	TotalReports      int64
}

// ReportStats breaks report counts down by status.
type ReportStats struct {
	ByStatus map[string]int64
}

// ClinicStats breaks clinic counts down by active flag.
type ClinicStats struct {
	Active   int64
	Inactive int64
}

// PatientStats aggregates per-patient record counts.
type PatientStats struct {
	TotalExaminations int64
	TotalReports      int64
	LastExaminedAt    *time.Time
}

// StatsRepository runs aggregate queries for the dashboards.
type StatsRepository interface {
	Overview(ctx context.Context, clinicID *string) (*OverviewStats, error)
	Reports(ctx context.Context, clinicID *string) (*ReportStats, error)
	Clinics(ctx context.Context) (*ClinicStats, error)
	Patient(ctx context.Context, patientID string) (*PatientStats, error)
}

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository instantiates repository.
func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &statsRepository{pool: pool}
}

func (r *statsRepository) Overview(ctx context.Context, clinicID *string) (*OverviewStats, error) {
	stats := &OverviewStats{}

	if clinicID == nil {
		if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clinics`).Scan(&stats.TotalClinics); err != nil {
			return nil, err
		}
	} else {
		stats.TotalClinics = 1
	}

	counts := []struct {
		table string
		dest  *int64
	}{
		{"patients", &stats.TotalPatients},
		{"examinations", &stats.TotalExaminations},
		{"reports", &stats.TotalReports},
	}
	for _, c := range counts {
		query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, c.table)
		args := []any{}
		if clinicID != nil {
			query += ` WHERE clinic_id=$1`
			args = append(args, *clinicID)
		}
		if err := r.pool.QueryRow(ctx, query, args...).Scan(c.dest); err != nil {
			return nil, err
		}
	}
	return stats, nil
}

func (r *statsRepository) Reports(ctx context.Context, clinicID *string) (*ReportStats, error) {
	query := `SELECT status, COUNT(*) FROM reports`
	args := []any{}
	if clinicID != nil {
		query += ` WHERE clinic_id=$1`
		args = append(args, *clinicID)
	}
	query += ` GROUP BY status`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &ReportStats{ByStatus: map[string]int64{}}
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
	}
	return stats, rows.Err()
}

func (r *statsRepository) Patient(ctx context.Context, patientID string) (*PatientStats, error) {
	stats := &PatientStats{}

	const examQuery = `SELECT COUNT(*), MAX(examined_at) FROM examinations WHERE patient_id=$1`
	if err := r.pool.QueryRow(ctx, examQuery, patientID).Scan(&stats.TotalExaminations, &stats.LastExaminedAt); err != nil {
		return nil, err
	}

	const reportQuery = `SELECT COUNT(*) FROM reports WHERE patient_id=$1`
	if err := r.pool.QueryRow(ctx, reportQuery, patientID).Scan(&stats.TotalReports); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *statsRepository) Clinics(ctx context.Context) (*ClinicStats, error) {
	const query = `SELECT is_active, COUNT(*) FROM clinics GROUP BY is_active`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &ClinicStats{}
	for rows.Next() {
		var active bool
		var count int64
		if err := rows.Scan(&active, &count); err != nil {
			return nil, err
		}
		if active {
			stats.Active = count
		} else {
			stats.Inactive = count
		}
	}
	return stats, rows.Err()
}
