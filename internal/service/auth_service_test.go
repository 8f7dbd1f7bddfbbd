package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/clinic-service/internal/auth"
	"github.com/spec-kit/clinic-service/internal/domain"
	"github.com/spec-kit/clinic-service/internal/repository"
	apperrors "github.com/spec-kit/clinic-service/pkg/util/errorutil"
)

var _ repository.UserRepository = (*mockUserRepository)(nil)

type mockUserRepository struct {
	CreateFunc         func(ctx context.Context, identity *domain.Identity) error
	UpdateFunc         func(ctx context.Context, identity *domain.Identity) error
	GetByIDFunc        func(ctx context.Context, id string) (*domain.Identity, error)
	GetByEmailFunc     func(ctx context.Context, email string) (*domain.Identity, error)
	TouchLastLoginFunc func(ctx context.Context, id string) error
}

func (m *mockUserRepository) Create(ctx context.Context, identity *domain.Identity) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, identity)
	}
	identity.ID = "generated-id"
	return nil
}

func (m *mockUserRepository) Update(ctx context.Context, identity *domain.Identity) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, identity)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUserRepository) TouchLastLogin(ctx context.Context, id string) error {
	if m.TouchLastLoginFunc != nil {
		return m.TouchLastLoginFunc(ctx, id)
	}
	return nil
}

func newTestAuthService(users repository.UserRepository) *AuthService {
	return NewAuthService(AuthDependencies{
		UserRepo:     users,
		TokenManager: auth.NewTokenManager("test-secret", time.Hour),
		SessionStore: auth.NewSessionStore(nil, 0, nil),
		BcryptCost:   bcrypt.MinCost,
	})
}

func storedIdentity(t *testing.T, active bool) *domain.Identity {
	t.Helper()
	hash, err := auth.HashPassword("correct-password", bcrypt.MinCost)
	require.NoError(t, err)
	clinicID := "clinic-1"
	return &domain.Identity{
		ID:           "user-1",
		Username:     "doc",
		Email:        "doc@example.com",
		PasswordHash: hash,
		Role:         domain.RoleDoctor,
		ClinicID:     &clinicID,
		Active:       active,
	}
}

func TestLoginSuccess(t *testing.T) {
	stored := storedIdentity(t, true)
	users := &mockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*domain.Identity, error) {
			assert.Equal(t, "doc@example.com", email)
			return stored, nil
		},
	}
	svc := newTestAuthService(users)

	identity, token, expiresAt, err := svc.Login(context.Background(), "doc@example.com", "correct-password")

	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.ID)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)
}

func TestLoginUnknownEmailAndWrongPasswordAreIndistinguishable(t *testing.T) {
	stored := storedIdentity(t, true)
	users := &mockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*domain.Identity, error) {
			if email == stored.Email {
				return stored, nil
			}
			return nil, pgx.ErrNoRows
		},
	}
	svc := newTestAuthService(users)

	_, _, _, unknownErr := svc.Login(context.Background(), "nobody@example.com", "whatever")
	_, _, _, wrongPwErr := svc.Login(context.Background(), "doc@example.com", "wrong-password")

	require.Error(t, unknownErr)
	require.Error(t, wrongPwErr)
	assert.Equal(t, apperrors.ToDomainError(unknownErr).Code, apperrors.ToDomainError(wrongPwErr).Code)
	assert.Equal(t, apperrors.ToDomainError(unknownErr).Message, apperrors.ToDomainError(wrongPwErr).Message)
	assert.Equal(t, 401, apperrors.ToDomainError(unknownErr).HTTPStatus)
}

func TestLoginInactiveAccount(t *testing.T) {
	stored := storedIdentity(t, false)
	users := &mockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*domain.Identity, error) {
			return stored, nil
		},
	}
	svc := newTestAuthService(users)

	_, _, _, err := svc.Login(context.Background(), "doc@example.com", "correct-password")

	require.Error(t, err)
	assert.Equal(t, "ACCOUNT_INACTIVE", apperrors.ToDomainError(err).Code)
}

func TestLoginInactiveNotRevealedOnWrongPassword(t *testing.T) {
	stored := storedIdentity(t, false)
	users := &mockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*domain.Identity, error) {
			return stored, nil
		},
	}
	svc := newTestAuthService(users)

	_, _, _, err := svc.Login(context.Background(), "doc@example.com", "wrong-password")

	require.Error(t, err)
	assert.Equal(t, "INVALID_CREDENTIALS", apperrors.ToDomainError(err).Code)
}

func TestLoginValidation(t *testing.T) {
	svc := newTestAuthService(&mockUserRepository{})

	_, _, _, err := svc.Login(context.Background(), "not-an-email", "pw")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, _, _, err = svc.Login(context.Background(), "a@b.com", "")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestRegisterRequiresClinicForScopedRoles(t *testing.T) {
	svc := newTestAuthService(&mockUserRepository{})

	_, _, _, err := svc.Register(context.Background(), RegisterInput{
		Username: "doc",
		Email:    "doc@example.com",
		Password: "pw",
		FullName: "Doc",
		Role:     domain.RoleDoctor,
	})

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc := newTestAuthService(&mockUserRepository{})

	_, _, _, err := svc.Register(context.Background(), RegisterInput{
		Username: "x",
		Email:    "x@example.com",
		Password: "pw",
		FullName: "X",
		Role:     domain.Role("janitor"),
	})

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	stored := storedIdentity(t, true)
	users := &mockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*domain.Identity, error) {
			return stored, nil
		},
	}
	svc := newTestAuthService(users)
	clinicID := "clinic-1"

	_, _, _, err := svc.Register(context.Background(), RegisterInput{
		Username: "doc2",
		Email:    "doc@example.com",
		Password: "pw",
		FullName: "Doc Two",
		Role:     domain.RoleDoctor,
		ClinicID: &clinicID,
	})

	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestRegisterSuccessIssuesToken(t *testing.T) {
	users := &mockUserRepository{}
	svc := newTestAuthService(users)
	clinicID := "clinic-1"

	identity, token, _, err := svc.Register(context.Background(), RegisterInput{
		Username: "nurse",
		Email:    "nurse@example.com",
		Password: "pw",
		FullName: "Nurse Joy",
		Role:     domain.RoleNurse,
		ClinicID: &clinicID,
	})

	require.NoError(t, err)
	assert.Equal(t, "generated-id", identity.ID)
	assert.True(t, identity.Active)
	assert.NotEqual(t, "pw", identity.PasswordHash)
	assert.NotEmpty(t, token)
}

func TestLogoutWithUnusableTokenIsNoop(t *testing.T) {
	svc := newTestAuthService(&mockUserRepository{})

	assert.NoError(t, svc.Logout(context.Background(), "garbage-token"))
}

func TestUpdateProfileMergesFields(t *testing.T) {
	stored := storedIdentity(t, true)
	var updated *domain.Identity
	users := &mockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*domain.Identity, error) {
			return stored, nil
		},
		UpdateFunc: func(ctx context.Context, identity *domain.Identity) error {
			updated = identity
			return nil
		},
	}
	svc := newTestAuthService(users)

	newName := "Dr. Updated"
	result, err := svc.UpdateProfile(context.Background(), stored, &newName, nil)

	require.NoError(t, err)
	assert.Equal(t, "Dr. Updated", result.FullName)
	assert.Equal(t, "doc", result.Username)
	require.NotNil(t, updated)
	assert.Equal(t, "Dr. Updated", updated.FullName)
}
