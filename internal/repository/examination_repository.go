package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/clinic-service/internal/domain"
)

// ExaminationFilter captures search parameters. ClinicID carries the
// caller's clinic scope; nil means global.
type ExaminationFilter struct {
	ClinicID     *string
	PatientID    *string
	DoctorID     *string
	Statuses     []domain.ExaminationStatus
	ExaminedFrom *time.Time
	ExaminedTo   *time.Time
	Limit        int
	Offset       int
}

// ExaminationRepository encapsulates examination persistence.
type ExaminationRepository interface {
	Create(ctx context.Context, exam *domain.Examination) error
	Update(ctx context.Context, exam *domain.Examination) error
	GetByID(ctx context.Context, id string) (*domain.Examination, error)
	List(ctx context.Context, filter ExaminationFilter) ([]domain.Examination, error)
	AddAnalysis(ctx context.Context, analysis *domain.AIAnalysis) error
	ListAnalyses(ctx context.Context, examinationID string) ([]domain.AIAnalysis, error)
}

type examinationRepository struct {
	pool *pgxpool.Pool
}

// NewExaminationRepository instantiates repository.
func NewExaminationRepository(pool *pgxpool.Pool) ExaminationRepository {
	return &examinationRepository{pool: pool}
}

const examColumns = `id, clinic_id, patient_id, doctor_id, type, status, image_url, findings, examined_at, created_at, updated_at`

func (r *examinationRepository) Create(ctx context.Context, exam *domain.Examination) error {
	const query = `
        INSERT INTO examinations (clinic_id, patient_id, doctor_id, type, status, image_url, findings, examined_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		exam.ClinicID,
		exam.PatientID,
		exam.DoctorID,
		exam.Type,
		exam.Status,
		exam.ImageURL,
		exam.Findings,
		exam.ExaminedAt,
	).Scan(&exam.ID, &exam.CreatedAt, &exam.UpdatedAt)
}

func (r *examinationRepository) Update(ctx context.Context, exam *domain.Examination) error {
	const query = `
        UPDATE examinations SET type=$1, status=$2, image_url=$3, findings=$4, examined_at=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		exam.Type,
		exam.Status,
		exam.ImageURL,
		exam.Findings,
		exam.ExaminedAt,
		exam.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *examinationRepository) GetByID(ctx context.Context, id string) (*domain.Examination, error) {
	const query = `SELECT ` + examColumns + ` FROM examinations WHERE id=$1`
	var exam domain.Examination
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&exam.ID,
		&exam.ClinicID,
		&exam.PatientID,
		&exam.DoctorID,
		&exam.Type,
		&exam.Status,
		&exam.ImageURL,
		&exam.Findings,
		&exam.ExaminedAt,
		&exam.CreatedAt,
		&exam.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *examinationRepository) List(ctx context.Context, filter ExaminationFilter) ([]domain.Examination, error) {
	base := `SELECT ` + examColumns + ` FROM examinations`
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
	if filter.DoctorID != nil {
		args = append(args, *filter.DoctorID)
		clauses = append(clauses, fmt.Sprintf("doctor_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.ExaminedFrom != nil {
		args = append(args, *filter.ExaminedFrom)
		clauses = append(clauses, fmt.Sprintf("examined_at >= $%d", len(args)))
	}
	if filter.ExaminedTo != nil {
		args = append(args, *filter.ExaminedTo)
		clauses = append(clauses, fmt.Sprintf("examined_at <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY examined_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Examination
	for rows.Next() {
		var exam domain.Examination
		if err := rows.Scan(
			&exam.ID,
			&exam.ClinicID,
			&exam.PatientID,
			&exam.DoctorID,
			&exam.Type,
			&exam.Status,
			&exam.ImageURL,
			&exam.Findings,
			&exam.ExaminedAt,
			&exam.CreatedAt,
			&exam.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, exam)
	}
	return result, rows.Err()
}

func (r *examinationRepository) AddAnalysis(ctx context.Context, analysis *domain.AIAnalysis) error {
	const query = `
        INSERT INTO ai_analyses (examination_id, label, confidence, summary, model_version)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		analysis.ExaminationID,
		analysis.Label,
		analysis.Confidence,
		analysis.Summary,
		analysis.ModelVersion,
	).Scan(&analysis.ID, &analysis.CreatedAt)
}

func (r *examinationRepository) ListAnalyses(ctx context.Context, examinationID string) ([]domain.AIAnalysis, error) {
	const query = `
        SELECT id, examination_id, label, confidence, summary, model_version, created_at
        FROM ai_analyses WHERE examination_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, examinationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AIAnalysis
	for rows.Next() {
		var analysis domain.AIAnalysis
		if err := rows.Scan(
			&analysis.ID,
			&analysis.ExaminationID,
			&analysis.Label,
			&analysis.Confidence,
			&analysis.Summary,
			&analysis.ModelVersion,
			&analysis.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, analysis)
	}
	return result, rows.Err()
}
