package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeForSuperAdmin(t *testing.T) {
	identity := &Identity{ID: "u1", Role: RoleSuperAdmin}

	scope := ScopeFor(identity)

	assert.True(t, scope.All())
	assert.True(t, scope.Allows("any-clinic"))
	assert.Nil(t, scope.ClinicFilter())
}

func TestScopeForClinicBoundRoles(t *testing.T) {
	clinicID := "clinic-1"

	for _, role := range []Role{RoleAdmin, RoleDoctor, RoleNurse, RolePatient} {
		t.Run(string(role), func(t *testing.T) {
			identity := &Identity{ID: "u1", Role: role, ClinicID: &clinicID}

			scope := ScopeFor(identity)

			assert.False(t, scope.All())
			assert.True(t, scope.Allows("clinic-1"))
			assert.False(t, scope.Allows("clinic-2"))

			filter := scope.ClinicFilter()
			require.NotNil(t, filter)
			assert.Equal(t, "clinic-1", *filter)
		})
	}
}

func TestScopeForIdentityWithoutClinicDeniesEverything(t *testing.T) {
	identity := &Identity{ID: "u1", Role: RoleDoctor}

	scope := ScopeFor(identity)

	assert.False(t, scope.All())
	assert.False(t, scope.Allows("clinic-1"))
	assert.False(t, scope.Allows(""))
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleSuperAdmin))
	assert.True(t, ValidRole(RolePatient))
	assert.False(t, ValidRole(Role("manager")))
	assert.False(t, ValidRole(Role("")))
}
