package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/clinic-service/internal/domain"
	apperrors "github.com/spec-kit/clinic-service/pkg/util/errorutil"
)

// PolicyRule binds one {method, path pattern} pair to the set of roles
// allowed to reach it. Pattern segments may be literals, ":param"
// placeholders or a trailing "*" that matches the rest of the path.
type PolicyRule struct {
	Method  string
	Pattern string
	Roles   []domain.Role
}

// Policy is the static authorization table. Lookups fail closed: a
// (method, path) pair with no matching rule is always denied.
type Policy struct {
	rules []PolicyRule
}

// NewPolicy builds a policy from rules.
func NewPolicy(rules []PolicyRule) *Policy {
	return &Policy{rules: rules}
}

// DefaultPolicy is the route table for the API surface. Clinic management is
// super_admin only; patients and examinations take medical staff; reports
// and stats are open to every authenticated role.
func DefaultPolicy() *Policy {
	staff := domain.MedicalStaffRoles()
	everyone := []domain.Role{domain.RoleSuperAdmin, domain.RoleAdmin, domain.RoleDoctor, domain.RoleNurse, domain.RolePatient}
	admins := []domain.Role{domain.RoleSuperAdmin, domain.RoleAdmin}

	return NewPolicy([]PolicyRule{
		{Method: "GET", Pattern: "/api/auth/me", Roles: everyone},
		{Method: "POST", Pattern: "/api/auth/logout", Roles: everyone},
		{Method: "POST", Pattern: "/api/auth/refresh", Roles: everyone},
		{Method: "PUT", Pattern: "/api/auth/profile", Roles: everyone},

		{Method: "GET", Pattern: "/api/clinics", Roles: []domain.Role{domain.RoleSuperAdmin}},
		{Method: "POST", Pattern: "/api/clinics", Roles: []domain.Role{domain.RoleSuperAdmin}},
		{Method: "GET", Pattern: "/api/clinics/:id", Roles: []domain.Role{domain.RoleSuperAdmin}},
		{Method: "PUT", Pattern: "/api/clinics/:id", Roles: []domain.Role{domain.RoleSuperAdmin}},
		{Method: "DELETE", Pattern: "/api/clinics/:id", Roles: []domain.Role{domain.RoleSuperAdmin}},

		{Method: "GET", Pattern: "/api/patients", Roles: staff},
		{Method: "POST", Pattern: "/api/patients", Roles: staff},
		{Method: "GET", Pattern: "/api/patients/:id", Roles: staff},
		{Method: "PUT", Pattern: "/api/patients/:id", Roles: staff},
		{Method: "DELETE", Pattern: "/api/patients/:id", Roles: admins},
		{Method: "PUT", Pattern: "/api/patients/:id/health-profile", Roles: staff},
		{Method: "GET", Pattern: "/api/patients/:id/examinations", Roles: staff},
		{Method: "GET", Pattern: "/api/patients/:id/stats", Roles: staff},

		{Method: "GET", Pattern: "/api/examinations", Roles: staff},
		{Method: "POST", Pattern: "/api/examinations", Roles: staff},
		{Method: "GET", Pattern: "/api/examinations/:id", Roles: staff},
		{Method: "PUT", Pattern: "/api/examinations/:id", Roles: staff},
		{Method: "POST", Pattern: "/api/examinations/:id/ai-analysis", Roles: staff},
		{Method: "GET", Pattern: "/api/examinations/:id/ai-analyses", Roles: staff},
		{Method: "POST", Pattern: "/api/examinations/:id/generate-report", Roles: staff},

		{Method: "GET", Pattern: "/api/reports", Roles: everyone},
		{Method: "GET", Pattern: "/api/reports/:id", Roles: everyone},
		{Method: "GET", Pattern: "/api/reports/:id/download", Roles: everyone},
		{Method: "POST", Pattern: "/api/reports/:id/finalize", Roles: staff},

		{Method: "GET", Pattern: "/api/stats/overview", Roles: everyone},
		{Method: "GET", Pattern: "/api/stats/reports", Roles: admins},
		{Method: "GET", Pattern: "/api/stats/clinics", Roles: admins},
	})
}

// Rules returns a copy of the rule table in evaluation order.
func (p *Policy) Rules() []PolicyRule {
	return append([]PolicyRule(nil), p.rules...)
}

// Authorize checks the identity's role against the table. A nil identity is
// an authentication failure, not an authorization failure.
func (p *Policy) Authorize(identity *domain.Identity, method, path string) error {
	if identity == nil {
		return apperrors.NewMissingToken()
	}

	rule, ok := p.match(method, path)
	if !ok {
		return apperrors.NewForbidden("no policy for resource")
	}
	for _, role := range rule.Roles {
		if role == identity.Role {
			return nil
		}
	}
	return apperrors.NewForbidden("insufficient role")
}

// match returns the most specific rule for the method and path: the
// candidate with the most literal segments wins, first rule breaks ties.
func (p *Policy) match(method, path string) (PolicyRule, bool) {
	segments := splitPath(path)

	best := -1
	var bestRule PolicyRule
	for _, rule := range p.rules {
		if !strings.EqualFold(rule.Method, method) {
			continue
		}
		score, ok := matchPattern(splitPath(rule.Pattern), segments)
		if ok && score > best {
			best = score
			bestRule = rule
		}
	}
	if best < 0 {
		return PolicyRule{}, false
	}
	return bestRule, true
}

func matchPattern(pattern, path []string) (int, bool) {
	score := 0
	for i, seg := range pattern {
		if seg == "*" {
			return score, true
		}
		if i >= len(path) {
			return 0, false
		}
		if strings.HasPrefix(seg, ":") {
			continue
		}
		if !strings.EqualFold(seg, path[i]) {
			return 0, false
		}
		score++
	}
	if len(path) != len(pattern) {
		return 0, false
	}
	return score, true
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// Gate returns a fiber middleware enforcing the policy for every request
// that reaches it. It must run after AuthMiddleware.Handle.
func Gate(policy *Policy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewMissingToken()
		}
		if err := policy.Authorize(identity, c.Method(), c.Path()); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireRoles ensures the authenticated identity holds one of the allowed
// roles. Used for one-off routes outside the static table.
func RequireRoles(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewMissingToken()
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[identity.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
