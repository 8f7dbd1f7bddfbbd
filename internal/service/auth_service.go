package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/clinic-service/internal/auth"
	"github.com/spec-kit/clinic-service/internal/domain"
	"github.com/spec-kit/clinic-service/internal/repository"
	apperrors "github.com/spec-kit/clinic-service/pkg/util/errorutil"
)

// AuthService coordinates login, logout, refresh and registration flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	sessions   *auth.SessionStore
	bcryptCost int
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	TokenManager *auth.TokenManager
	SessionStore *auth.SessionStore
	BcryptCost   int
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   deps.TokenManager,
		sessions:   deps.SessionStore,
		bcryptCost: deps.BcryptCost,
	}
}

// Login authenticates an identity by email and password and issues a token.
// Unknown email and wrong password return the same error so accounts cannot
// be enumerated.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Identity, string, time.Time, error) {
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		return nil, "", time.Time{}, apperrors.NewValidationError("invalid email", nil)
	}
	if password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("password required", nil)
	}

	identity, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			auth.CompareDummy(password)
			return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(identity.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
	}
	if !identity.Active {
		return nil, "", time.Time{}, apperrors.NewAccountInactive()
	}

	token, exp, err := s.tokenMgr.GenerateToken(identity)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	_ = s.users.TouchLastLogin(ctx, identity.ID)
	s.sessions.CacheIdentity(ctx, identity)
	return identity, token, exp, nil
}

// Logout revokes the presented token for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokenMgr.ParseToken(token)
	if err != nil {
		// already unusable, nothing to revoke
		return nil
	}
	s.sessions.InvalidateIdentity(ctx, claims.SubjectID)
	return s.sessions.Revoke(ctx, token, claims.ExpiresAt.Time)
}

// Refresh exchanges a still-valid token for a fresh one. The old token is
// revoked so the swap is one-way.
func (s *AuthService) Refresh(ctx context.Context, identity *domain.Identity, oldToken string) (string, time.Time, error) {
	token, exp, err := s.tokenMgr.GenerateToken(identity)
	if err != nil {
		return "", time.Time{}, apperrors.MapError(err)
	}
	if claims, err := s.tokenMgr.ParseToken(oldToken); err == nil {
		_ = s.sessions.Revoke(ctx, oldToken, claims.ExpiresAt.Time)
	}
	return token, exp, nil
}

// Register creates a new identity. Every role but super_admin must carry a
// clinic association.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.Identity, string, time.Time, error) {
	if _, err := mail.ParseAddress(strings.TrimSpace(input.Email)); err != nil {
		return nil, "", time.Time{}, apperrors.NewValidationError("invalid email", nil)
	}
	if input.Password == "" || input.Username == "" || input.FullName == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("username, full_name and password required", nil)
	}
	if !domain.ValidRole(input.Role) {
		return nil, "", time.Time{}, apperrors.NewValidationError("unknown role", nil)
	}
	if input.Role != domain.RoleSuperAdmin && input.ClinicID == nil {
		return nil, "", time.Time{}, apperrors.NewValidationError("clinic_id required for this role", nil)
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("email already registered", nil)
	} else if err != pgx.ErrNoRows {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	identity := &domain.Identity{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		ClinicID:     input.ClinicID,
		FullName:     input.FullName,
		Active:       true,
	}
	if err := s.users.Create(ctx, identity); err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	token, exp, err := s.tokenMgr.GenerateToken(identity)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return identity, token, exp, nil
}

// UpdateProfile merges profile fields into the stored identity and drops the
// cached copy so the next request sees fresh data.
func (s *AuthService) UpdateProfile(ctx context.Context, identity *domain.Identity, fullName, username *string) (*domain.Identity, error) {
	stored, err := s.users.GetByID(ctx, identity.ID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if fullName != nil && strings.TrimSpace(*fullName) != "" {
		stored.FullName = *fullName
	}
	if username != nil && strings.TrimSpace(*username) != "" {
		stored.Username = *username
	}
	if err := s.users.Update(ctx, stored); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.sessions.InvalidateIdentity(ctx, stored.ID)
	return stored, nil
}

// RegisterInput carries the registration payload.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Role     domain.Role
	ClinicID *string
}
