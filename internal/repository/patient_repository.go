package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/clinic-service/internal/domain"
)

// PatientFilter captures list parameters. ClinicID carries the caller's
// clinic scope; nil means global (super_admin).
type PatientFilter struct {
	ClinicID *string
	Search   *string
	Limit    int
	Offset   int
}

// PatientRepository encapsulates patient persistence.
type PatientRepository interface {
	Create(ctx context.Context, patient *domain.Patient) error
	Update(ctx context.Context, patient *domain.Patient) error
	UpdateHealthProfile(ctx context.Context, id string, profile *string) error
	GetByID(ctx context.Context, id string) (*domain.Patient, error)
	List(ctx context.Context, filter PatientFilter) ([]domain.Patient, error)
	Delete(ctx context.Context, id string) error
}

type patientRepository struct {
	pool *pgxpool.Pool
}

// NewPatientRepository instantiates repository.
func NewPatientRepository(pool *pgxpool.Pool) PatientRepository {
	return &patientRepository{pool: pool}
}

const patientColumns = `id, clinic_id, name, gender, birth_date, phone, medical_record_no, health_profile, created_at, updated_at`

func (r *patientRepository) Create(ctx context.Context, patient *domain.Patient) error {
	const query = `
        INSERT INTO patients (clinic_id, name, gender, birth_date, phone, medical_record_no, health_profile)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		patient.ClinicID,
		patient.Name,
		patient.Gender,
		patient.BirthDate,
		patient.Phone,
		patient.MedicalRecordNo,
		patient.HealthProfile,
	).Scan(&patient.ID, &patient.CreatedAt, &patient.UpdatedAt)
}

func (r *patientRepository) Update(ctx context.Context, patient *domain.Patient) error {
	const query = `
        UPDATE patients SET name=$1, gender=$2, birth_date=$3, phone=$4,
            medical_record_no=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		patient.Name,
		patient.Gender,
		patient.BirthDate,
		patient.Phone,
		patient.MedicalRecordNo,
		patient.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *patientRepository) UpdateHealthProfile(ctx context.Context, id string, profile *string) error {
	const query = `UPDATE patients SET health_profile=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, profile, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *patientRepository) GetByID(ctx context.Context, id string) (*domain.Patient, error) {
	const query = `SELECT ` + patientColumns + ` FROM patients WHERE id=$1`
	var patient domain.Patient
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&patient.ID,
		&patient.ClinicID,
		&patient.Name,
		&patient.Gender,
		&patient.BirthDate,
		&patient.Phone,
		&patient.MedicalRecordNo,
		&patient.HealthProfile,
		&patient.CreatedAt,
		&patient.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM patients WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *patientRepository) List(ctx context.Context, filter PatientFilter) ([]domain.Patient, error) {
	base := `SELECT ` + patientColumns + ` FROM patients`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ClinicID != nil {
		args = append(args, *filter.ClinicID)
		clauses = append(clauses, fmt.Sprintf("clinic_id=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(name) LIKE %s OR LOWER(medical_record_no) LIKE %s)", placeholder, placeholder))
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

	var result []domain.Patient
	for rows.Next() {
		var patient domain.Patient
		if err := rows.Scan(
			&patient.ID,
			&patient.ClinicID,
			&patient.Name,
			&patient.Gender,
			&patient.BirthDate,
			&patient.Phone,
			&patient.MedicalRecordNo,
			&patient.HealthProfile,
			&patient.CreatedAt,
			&patient.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, patient)
	}
	return result, rows.Err()
}
