package domain

// ClinicScope is the set of clinic-owned records an identity may access.
// It is derived per-request, never stored.
type ClinicScope struct {
	all      bool
	clinicID string
}

// ScopeFor derives the scope for an identity: everything for super_admin,
// otherwise exactly the identity's clinic.
func ScopeFor(identity *Identity) ClinicScope {
	if identity.Role == RoleSuperAdmin {
		return ClinicScope{all: true}
	}
	scope := ClinicScope{}
	if identity.ClinicID != nil {
		scope.clinicID = *identity.ClinicID
	}
	return scope
}

// All reports whether the scope covers every clinic.
func (s ClinicScope) All() bool {
	return s.all
}

// Allows reports whether a record owned by clinicID is visible in this scope.
func (s ClinicScope) Allows(clinicID string) bool {
	if s.all {
		return true
	}
	return s.clinicID != "" && s.clinicID == clinicID
}

// ClinicFilter returns the clinic id to filter queries by, or nil when the
// scope is global.
func (s ClinicScope) ClinicFilter() *string {
	if s.all {
		return nil
	}
	id := s.clinicID
	return &id
}
