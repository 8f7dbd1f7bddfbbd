package client

// GuardDecision is the outcome of a route guard evaluation.
type GuardDecision int

const (
	// GuardWait means the session is still resolving; hold the navigation.
	GuardWait GuardDecision = iota
	// GuardAllow admits the navigation.
	GuardAllow
	// GuardRedirectLogin sends an unauthenticated visitor to the login page.
	GuardRedirectLogin
	// GuardRedirectUnauthorized sends an authenticated visitor without the
	// required role to the unauthorized page.
	GuardRedirectUnauthorized
)

func (d GuardDecision) String() string {
	switch d {
	case GuardAllow:
		return "allow"
	case GuardRedirectLogin:
		return "redirect-login"
	case GuardRedirectUnauthorized:
		return "redirect-unauthorized"
	default:
		return "wait"
	}
}

// Guard evaluates whether the session may enter a route restricted to the
// given roles. An empty role list only requires authentication. Unknown and
// loading states defer the decision instead of flashing a redirect that a
// moment later turns out wrong.
func (s *Session) Guard(requiredRoles ...string) GuardDecision {
	s.mu.Lock()
	state, user := s.state, s.user
	s.mu.Unlock()

	switch state {
	case StateUnknown, StateLoading:
		return GuardWait
	case StateAnonymous:
		return GuardRedirectLogin
	}

	if len(requiredRoles) == 0 {
		return GuardAllow
	}
	if user == nil {
		return GuardRedirectLogin
	}
	for _, role := range requiredRoles {
		if user.Role == role {
			return GuardAllow
		}
	}
	return GuardRedirectUnauthorized
}
