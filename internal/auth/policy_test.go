package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/clinic-service/internal/domain"
	apperrors "github.com/spec-kit/clinic-service/pkg/util/errorutil"
)

func identityWithRole(role domain.Role) *domain.Identity {
	clinicID := "clinic-1"
	id := &domain.Identity{ID: "u1", Role: role, Active: true}
	if role != domain.RoleSuperAdmin {
		id.ClinicID = &clinicID
	}
	return id
}

func assertForbidden(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
	assert.Equal(t, 403, domainErr.HTTPStatus)
}

func TestAuthorizeNilIdentityIsAuthenticationFailure(t *testing.T) {
	policy := DefaultPolicy()

	err := policy.Authorize(nil, "GET", "/api/patients")

	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "MISSING_TOKEN", domainErr.Code)
	assert.Equal(t, 401, domainErr.HTTPStatus)
}

func TestAuthorizeFailsClosedOnUnknownRoute(t *testing.T) {
	policy := DefaultPolicy()

	err := policy.Authorize(identityWithRole(domain.RoleSuperAdmin), "GET", "/api/unknown")
	assertForbidden(t, err)

	err = policy.Authorize(identityWithRole(domain.RoleSuperAdmin), "PATCH", "/api/patients")
	assertForbidden(t, err)
}

func TestAuthorizeRoleMatrix(t *testing.T) {
	policy := DefaultPolicy()

	cases := []struct {
		name    string
		role    domain.Role
		method  string
		path    string
		allowed bool
	}{
		{"doctor lists patients", domain.RoleDoctor, "GET", "/api/patients", true},
		{"nurse creates examination", domain.RoleNurse, "POST", "/api/examinations", true},
		{"patient cannot list patients", domain.RolePatient, "GET", "/api/patients", false},
		{"doctor cannot manage clinics", domain.RoleDoctor, "GET", "/api/clinics", false},
		{"super_admin manages clinics", domain.RoleSuperAdmin, "POST", "/api/clinics", true},
		{"doctor cannot delete patient", domain.RoleDoctor, "DELETE", "/api/patients/p1", false},
		{"admin deletes patient", domain.RoleAdmin, "DELETE", "/api/patients/p1", true},
		{"patient reads report", domain.RolePatient, "GET", "/api/reports/r1", true},
		{"patient updates own profile", domain.RolePatient, "PUT", "/api/auth/profile", true},
		{"nurse updates own profile", domain.RoleNurse, "PUT", "/api/auth/profile", true},
		{"doctor finalizes report", domain.RoleDoctor, "POST", "/api/reports/r1/finalize", true},
		{"patient cannot finalize report", domain.RolePatient, "POST", "/api/reports/r1/finalize", false},
		{"nurse cannot read clinic stats", domain.RoleNurse, "GET", "/api/stats/clinics", false},
		{"admin reads report stats", domain.RoleAdmin, "GET", "/api/stats/reports", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := policy.Authorize(identityWithRole(tc.role), tc.method, tc.path)
			if tc.allowed {
				assert.NoError(t, err)
			} else {
				assertForbidden(t, err)
			}
		})
	}
}

func TestMostSpecificPatternWins(t *testing.T) {
	policy := NewPolicy([]PolicyRule{
		{Method: "GET", Pattern: "/api/patients/:id", Roles: []domain.Role{domain.RoleDoctor}},
		{Method: "GET", Pattern: "/api/patients/export", Roles: []domain.Role{domain.RoleAdmin}},
	})

	// literal segment beats the placeholder even though both match
	err := policy.Authorize(identityWithRole(domain.RoleAdmin), "GET", "/api/patients/export")
	assert.NoError(t, err)

	err = policy.Authorize(identityWithRole(domain.RoleDoctor), "GET", "/api/patients/export")
	assertForbidden(t, err)

	err = policy.Authorize(identityWithRole(domain.RoleDoctor), "GET", "/api/patients/p-123")
	assert.NoError(t, err)
}

func TestWildcardPattern(t *testing.T) {
	policy := NewPolicy([]PolicyRule{
		{Method: "GET", Pattern: "/api/admin/*", Roles: []domain.Role{domain.RoleSuperAdmin}},
	})

	assert.NoError(t, policy.Authorize(identityWithRole(domain.RoleSuperAdmin), "GET", "/api/admin/anything/below"))
	assertForbidden(t, policy.Authorize(identityWithRole(domain.RoleAdmin), "GET", "/api/admin/anything"))
}

func TestPatternLengthMismatch(t *testing.T) {
	policy := NewPolicy([]PolicyRule{
		{Method: "GET", Pattern: "/api/patients/:id", Roles: []domain.Role{domain.RoleDoctor}},
	})

	assertForbidden(t, policy.Authorize(identityWithRole(domain.RoleDoctor), "GET", "/api/patients"))
	assertForbidden(t, policy.Authorize(identityWithRole(domain.RoleDoctor), "GET", "/api/patients/p1/extra"))
}
