package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/clinic-service/internal/domain"
)

// UserRepository defines persistence access for identities.
type UserRepository interface {
	Create(ctx context.Context, identity *domain.Identity) error
	Update(ctx context.Context, identity *domain.Identity) error
	GetByID(ctx context.Context, id string) (*domain.Identity, error)
	GetByEmail(ctx context.Context, email string) (*domain.Identity, error)
	TouchLastLogin(ctx context.Context, id string) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, username, email, password_hash, role, clinic_id, full_name, is_active, last_login_at, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, identity *domain.Identity) error {
	const query = `
        INSERT INTO users (username, email, password_hash, role, clinic_id, full_name, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		identity.Username,
		identity.Email,
		identity.PasswordHash,
		identity.Role,
		identity.ClinicID,
		identity.FullName,
		identity.Active,
	).Scan(&identity.ID, &identity.CreatedAt, &identity.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, identity *domain.Identity) error {
	const query = `
        UPDATE users SET username=$1, email=$2, password_hash=$3, role=$4, clinic_id=$5,
            full_name=$6, is_active=$7, updated_at=NOW()
        WHERE id=$8`

	cmd, err := r.pool.Exec(ctx, query,
		identity.Username,
		identity.Email,
		identity.PasswordHash,
		identity.Role,
		identity.ClinicID,
		identity.FullName,
		identity.Active,
		identity.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *userRepository) TouchLastLogin(ctx context.Context, id string) error {
	const query = `UPDATE users SET last_login_at=NOW() WHERE id=$1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Identity, error) {
	var identity domain.Identity
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&identity.ID,
		&identity.Username,
		&identity.Email,
		&identity.PasswordHash,
		&identity.Role,
		&identity.ClinicID,
		&identity.FullName,
		&identity.Active,
		&identity.LastLoginAt,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &identity, nil
}
