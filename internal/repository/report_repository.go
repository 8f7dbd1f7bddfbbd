package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/clinic-service/internal/domain"
)

// ReportFilter captures list parameters. ClinicID carries the caller's
// clinic scope; nil means global.
type ReportFilter struct {
	ClinicID      *string
	PatientID     *string
	ExaminationID *string
	Statuses      []domain.ReportStatus
	Limit         int
	Offset        int
}

// ReportRepository encapsulates report persistence.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	Update(ctx context.Context, report *domain.Report) error
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	List(ctx context.Context, filter ReportFilter) ([]domain.Report, error)
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository instantiates repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

const reportColumns = `id, clinic_id, examination_id, patient_id, title, content, status, generated_by, created_at, updated_at`

func (r *reportRepository) Create(ctx context.Context, report *domain.Report) error {
	const query = `
        INSERT INTO reports (clinic_id, examination_id, patient_id, title, content, status, generated_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		report.ClinicID,
		report.ExaminationID,
		report.PatientID,
		report.Title,
		report.Content,
		report.Status,
		report.GeneratedBy,
	).Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)
}

func (r *reportRepository) Update(ctx context.Context, report *domain.Report) error {
	const query = `
        UPDATE reports SET title=$1, content=$2, status=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		report.Title,
		report.Content,
		report.Status,
		report.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	const query = `SELECT ` + reportColumns + ` FROM reports WHERE id=$1`
	var report domain.Report
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&report.ID,
		&report.ClinicID,
		&report.ExaminationID,
		&report.PatientID,
		&report.Title,
		&report.Content,
		&report.Status,
		&report.GeneratedBy,
		&report.CreatedAt,
		&report.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) List(ctx context.Context, filter ReportFilter) ([]domain.Report, error) {
	base := `SELECT ` + reportColumns + ` FROM reports`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ClinicID != nil {
		args = append(args, *filter.ClinicID)
		clauses = append(clauses, fmt.Sprintf("clinic_id=$%d", len(args)))
	}
	if filter.PatientID != nil {
		args = append(args, *filter.PatientID)
		clauses = append(clauses, fmt.Sprintf("patient_id=$%d", len(args)))
	}
	if filter.ExaminationID != nil {
		args = append(args, *filter.ExaminationID)
		clauses = append(clauses, fmt.Sprintf("examination_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Report
	for rows.Next() {
		var report domain.Report
		if err := rows.Scan(
			&report.ID,
			&report.ClinicID,
			&report.ExaminationID,
			&report.PatientID,
			&report.Title,
			&report.Content,
			&report.Status,
			&report.GeneratedBy,
			&report.CreatedAt,
			&report.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, report)
	}
	return result, rows.Err()
}
