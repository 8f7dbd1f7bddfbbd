package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/clinic-service/internal/domain"
)

func TestGenerateAndParseRoundTrip(t *testing.T) {
	clinicID := "clinic-1"
	identity := &domain.Identity{
		ID:       "user-1",
		Email:    "doc@example.com",
		Role:     domain.RoleDoctor,
		ClinicID: &clinicID,
	}
	tm := NewTokenManager("test-secret", time.Hour)

	token, expiresAt, err := tm.GenerateToken(identity)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.SubjectID)
	assert.Equal(t, "doc@example.com", claims.Email)
	assert.Equal(t, domain.RoleDoctor, claims.Role)
	require.NotNil(t, claims.ClinicID)
	assert.Equal(t, "clinic-1", *claims.ClinicID)
}

func TestParseExpiredToken(t *testing.T) {
	identity := &domain.Identity{ID: "user-1", Email: "a@b.com", Role: domain.RoleAdmin}
	tm := &TokenManager{secret: []byte("test-secret"), ttl: -time.Minute}

	token, _, err := tm.GenerateToken(identity)
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseTamperedToken(t *testing.T) {
	identity := &domain.Identity{ID: "user-1", Email: "a@b.com", Role: domain.RoleAdmin}
	tm := NewTokenManager("test-secret", time.Hour)

	token, _, err := tm.GenerateToken(identity)
	require.NoError(t, err)

	other := NewTokenManager("different-secret", time.Hour)
	_, err = other.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = tm.ParseToken(token + "x")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = tm.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestDefaultTTLApplied(t *testing.T) {
	tm := NewTokenManager("s", 0)
	assert.Equal(t, 168*time.Hour, tm.TTL())
}
