package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/clinic-service/internal/domain"
)

// ClinicFilter captures list parameters for clinics.
type ClinicFilter struct {
	Search *string
	Active *bool
	Limit  int
	Offset int
}

// ClinicRepository encapsulates clinic persistence.
type ClinicRepository interface {
	Create(ctx context.Context, clinic *domain.Clinic) error
	Update(ctx context.Context, clinic *domain.Clinic) error
	GetByID(ctx context.Context, id string) (*domain.Clinic, error)
	GetByCode(ctx context.Context, code string) (*domain.Clinic, error)
	List(ctx context.Context, filter ClinicFilter) ([]domain.Clinic, error)
	Deactivate(ctx context.Context, id string) error
}

type clinicRepository struct {
	pool *pgxpool.Pool
}

// NewClinicRepository instantiates repository.
func NewClinicRepository(pool *pgxpool.Pool) ClinicRepository {
	return &clinicRepository{pool: pool}
}

const clinicColumns = `id, name, code, address, phone, contact_person, license_number, is_active, created_at, updated_at`

func (r *clinicRepository) Create(ctx context.Context, clinic *domain.Clinic) error {
	const query = `
        INSERT INTO clinics (name, code, address, phone, contact_person, license_number, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		clinic.Name,
		clinic.Code,
		clinic.Address,
		clinic.Phone,
		clinic.ContactPerson,
		clinic.LicenseNumber,
		clinic.Active,
	).Scan(&clinic.ID, &clinic.CreatedAt, &clinic.UpdatedAt)
}

func (r *clinicRepository) Update(ctx context.Context, clinic *domain.Clinic) error {
	const query = `
        UPDATE clinics SET name=$1, address=$2, phone=$3, contact_person=$4,
            license_number=$5, is_active=$6, updated_at=NOW()
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		clinic.Name,
		clinic.Address,
		clinic.Phone,
		clinic.ContactPerson,
		clinic.LicenseNumber,
		clinic.Active,
		clinic.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *clinicRepository) GetByID(ctx context.Context, id string) (*domain.Clinic, error) {
	const query = `SELECT ` + clinicColumns + ` FROM clinics WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *clinicRepository) GetByCode(ctx context.Context, code string) (*domain.Clinic, error) {
	const query = `SELECT ` + clinicColumns + ` FROM clinics WHERE code=$1`
	return r.fetchSingle(ctx, query, code)
}

func (r *clinicRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE clinics SET is_active=false, updated_at=NOW() WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *clinicRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Clinic, error) {
	var clinic domain.Clinic
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&clinic.ID,
		&clinic.Name,
		&clinic.Code,
		&clinic.Address,
		&clinic.Phone,
		&clinic.ContactPerson,
		&clinic.LicenseNumber,
		&clinic.Active,
		&clinic.CreatedAt,
		&clinic.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &clinic, nil
}

func (r *clinicRepository) List(ctx context.Context, filter ClinicFilter) ([]domain.Clinic, error) {
	base := `SELECT ` + clinicColumns + ` FROM clinics`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(name) LIKE %s OR LOWER(code) LIKE %s OR LOWER(COALESCE(address,'')) LIKE %s)", placeholder, placeholder, placeholder))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		clauses = append(clauses, fmt.Sprintf("is_active=$%d", len(args)))
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

	var result []domain.Clinic
	for rows.Next() {
		var clinic domain.Clinic
		if err := rows.Scan(
			&clinic.ID,
			&clinic.Name,
			&clinic.Code,
			&clinic.Address,
			&clinic.Phone,
			&clinic.ContactPerson,
			&clinic.LicenseNumber,
			&clinic.Active,
			&clinic.CreatedAt,
			&clinic.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, clinic)
	}
	return result, rows.Err()
}
