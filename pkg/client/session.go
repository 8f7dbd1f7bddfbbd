package client

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// SessionState is the client-side authentication state.
type SessionState string

const (
	// StateUnknown means no resolution attempt has run yet.
	StateUnknown SessionState = "unknown"
	// StateLoading means a resolution request is in flight.
	StateLoading SessionState = "loading"
	// StateAuthenticated means a valid identity is present.
	StateAuthenticated SessionState = "authenticated"
	// StateAnonymous means resolution finished without an identity.
	StateAnonymous SessionState = "anonymous"
)

// User is the identity as returned by the API.
type User struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	ClinicID    *string    `json:"clinicId,omitempty"`
	FullName    string     `json:"fullName"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

type authPayload struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

// Session tracks the authenticated identity and its lifecycle. All
// transitions are serialized; a generation counter tags each in-flight
// request so a response that arrives after a later transition (for example a
// /me response landing after Logout) is discarded instead of resurrecting a
// dead session.
type Session struct {
	client *Client

	mu         sync.Mutex
	state      SessionState
	user       *User
	generation uint64
}

// NewSession creates a session in the unknown state.
func NewSession(c *Client) *Session {
	return &Session{
		client: c,
		state:  StateUnknown,
	}
}

// State returns the current state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentUser returns the resolved identity, or nil outside the
// authenticated state.
func (s *Session) CurrentUser() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// beginRequest flips to loading and returns the generation for this attempt.
func (s *Session) beginRequest() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.state = StateLoading
	return s.generation
}

// settle applies the outcome of request gen unless a later transition
// already superseded it.
func (s *Session) settle(gen uint64, state SessionState, user *User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	s.state = state
	s.user = user
	return true
}

// Resolve restores the session from a persisted token by calling /me.
// Without a token the session settles as anonymous immediately.
func (s *Session) Resolve(ctx context.Context) error {
	if _, ok := s.client.tokens.Token(); !ok {
		gen := s.beginRequest()
		s.settle(gen, StateAnonymous, nil)
		return nil
	}

	gen := s.beginRequest()
	var payload struct {
		User User `json:"user"`
	}
	err := s.client.DoJSON(ctx, http.MethodGet, "/api/auth/me", nil, &payload)
	if err != nil {
		if IsAuthError(err) {
			if s.settle(gen, StateAnonymous, nil) {
				s.client.tokens.Clear()
			}
			return nil
		}
		// Transport or server failure: the token may still be good, so the
		// session stays unresolved rather than logging the user out.
		s.settle(gen, StateUnknown, nil)
		return err
	}

	s.settle(gen, StateAuthenticated, &payload.User)
	return nil
}

// Login exchanges credentials for a token and an authenticated session.
func (s *Session) Login(ctx context.Context, email, password string) (*User, error) {
	gen := s.beginRequest()

	var payload authPayload
	err := s.client.DoJSON(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &payload)
	if err != nil {
		s.settle(gen, StateAnonymous, nil)
		return nil, err
	}

	if !s.settle(gen, StateAuthenticated, &payload.User) {
		return nil, context.Canceled
	}
	s.client.tokens.Save(payload.Token)
	u := payload.User
	return &u, nil
}

// Logout revokes the token server-side and clears local state. The local
// session is cleared even when the revocation call fails.
func (s *Session) Logout(ctx context.Context) error {
	err := s.client.DoJSON(ctx, http.MethodPost, "/api/auth/logout", nil, nil)

	s.mu.Lock()
	s.generation++
	s.state = StateAnonymous
	s.user = nil
	s.mu.Unlock()
	s.client.tokens.Clear()

	if err != nil && !IsAuthError(err) {
		return err
	}
	return nil
}

// Refresh trades the current token for a fresh one. A 401 means the token is
// no longer honored, so the session drops to anonymous and the token is
// cleared.
func (s *Session) Refresh(ctx context.Context) error {
	gen := s.beginRequest()

	var payload authPayload
	err := s.client.DoJSON(ctx, http.MethodPost, "/api/auth/refresh", nil, &payload)
	if err != nil {
		if IsAuthError(err) {
			if s.settle(gen, StateAnonymous, nil) {
				s.client.tokens.Clear()
			}
		} else {
			s.settle(gen, StateUnknown, nil)
		}
		return err
	}

	if !s.settle(gen, StateAuthenticated, &payload.User) {
		return nil
	}
	s.client.tokens.Save(payload.Token)
	return nil
}

// UpdateUser replaces the cached identity after a profile change, keeping
// the current state.
func (s *Session) UpdateUser(user *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateAuthenticated && user != nil {
		u := *user
		s.user = &u
	}
}
