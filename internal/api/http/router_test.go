package http

import (
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/clinic-service/internal/auth"
	"github.com/spec-kit/clinic-service/internal/domain"
)

// routeTableApp registers the route table with empty handler and middleware
// slots; only the registrations themselves matter to these tests, no request
// is ever dispatched.
func routeTableApp() *fiber.App {
	app := fiber.New()
	RegisterRoutes(app, RouteConfig{Policy: auth.DefaultPolicy()})
	return app
}

func roleIdentity(role domain.Role) *domain.Identity {
	clinicID := "clinic-1"
	identity := &domain.Identity{ID: "u1", Role: role, Active: true}
	if role != domain.RoleSuperAdmin {
		identity.ClinicID = &clinicID
	}
	return identity
}

// Every route registered behind the gate must be authorized for at least one
// role, otherwise the fail-closed policy makes the handler unreachable.
func TestEveryGatedRouteHasPolicyRule(t *testing.T) {
	app := routeTableApp()
	policy := auth.DefaultPolicy()
	roles := []domain.Role{domain.RoleSuperAdmin, domain.RoleAdmin, domain.RoleDoctor, domain.RoleNurse, domain.RolePatient}

	public := map[string]bool{
		"POST /api/auth/login":    true,
		"POST /api/auth/register": true,
	}

	checked := 0
	for _, route := range app.GetRoutes(true) {
		if route.Method == fiber.MethodHead || !strings.HasPrefix(route.Path, "/api") {
			continue
		}
		path := strings.TrimSuffix(route.Path, "/")
		if public[route.Method+" "+path] {
			continue
		}
		path = strings.ReplaceAll(path, ":id", "id-1")

		reachable := false
		for _, role := range roles {
			if policy.Authorize(roleIdentity(role), route.Method, path) == nil {
				reachable = true
				break
			}
		}
		assert.True(t, reachable, "%s %s is denied for every role", route.Method, route.Path)
		checked++
	}
	require.Greater(t, checked, 20, "route walk saw too few gated routes")
}

// The inverse direction: a policy rule without a registered route is dead
// weight and usually means the table and the router drifted apart.
func TestEveryPolicyRuleHasRegisteredRoute(t *testing.T) {
	app := routeTableApp()

	registered := make(map[string]bool)
	for _, route := range app.GetRoutes(true) {
		registered[route.Method+" "+strings.TrimSuffix(route.Path, "/")] = true
	}

	for _, rule := range auth.DefaultPolicy().Rules() {
		assert.True(t, registered[rule.Method+" "+rule.Pattern],
			"no registered route for policy rule %s %s", rule.Method, rule.Pattern)
	}
}
