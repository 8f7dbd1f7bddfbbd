package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": data})
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": message})
}

func testUser() User {
	return User{ID: "u1", Username: "doc", Email: "doc@example.com", Role: "doctor", IsActive: true}
}

func TestSessionStartsUnknown(t *testing.T) {
	session := NewSession(New("http://localhost:0"))
	assert.Equal(t, StateUnknown, session.State())
	assert.Nil(t, session.CurrentUser())
}

func TestResolveWithoutTokenIsAnonymous(t *testing.T) {
	session := NewSession(New("http://localhost:0"))

	require.NoError(t, session.Resolve(context.Background()))
	assert.Equal(t, StateAnonymous, session.State())
}

func TestLoginTransitionsToAuthenticated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		writeSuccess(w, map[string]interface{}{
			"token":     "issued-token",
			"expiresAt": time.Now().Add(time.Hour),
			"user":      testUser(),
		})
	}))
	defer server.Close()

	c := New(server.URL)
	session := NewSession(c)

	user, err := session.Login(context.Background(), "doc@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, StateAuthenticated, session.State())

	token, ok := c.TokenStore().Token()
	require.True(t, ok)
	assert.Equal(t, "issued-token", token)
}

func TestLoginFailureIsAnonymous(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusUnauthorized, "invalid email or password")
	}))
	defer server.Close()

	c := New(server.URL)
	session := NewSession(c)

	_, err := session.Login(context.Background(), "doc@example.com", "bad")
	require.Error(t, err)
	assert.Equal(t, StateAnonymous, session.State())
	_, ok := c.TokenStore().Token()
	assert.False(t, ok)
}

func TestResolveWith401ClearsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusUnauthorized, "authorization token expired")
	}))
	defer server.Close()

	c := New(server.URL)
	c.TokenStore().Save("stale-token")
	session := NewSession(c)

	require.NoError(t, session.Resolve(context.Background()))
	assert.Equal(t, StateAnonymous, session.State())
	_, ok := c.TokenStore().Token()
	assert.False(t, ok)
}

func TestResolveTransportFailureKeepsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusInternalServerError, "internal server error")
	}))
	defer server.Close()

	c := New(server.URL)
	c.TokenStore().Save("maybe-good-token")
	session := NewSession(c)

	err := session.Resolve(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateUnknown, session.State())

	token, ok := c.TokenStore().Token()
	require.True(t, ok)
	assert.Equal(t, "maybe-good-token", token)
}

// A /me response landing after Logout must not resurrect the session.
func TestLogoutDiscardsStaleResolution(t *testing.T) {
	meStarted := make(chan struct{})
	meRelease := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/me":
			close(meStarted)
			<-meRelease
			writeSuccess(w, map[string]interface{}{"user": testUser()})
		case "/api/auth/logout":
			writeSuccess(w, map[string]bool{"loggedOut": true})
		default:
			writeFailure(w, http.StatusNotFound, "not found")
		}
	}))
	defer server.Close()

	c := New(server.URL)
	c.TokenStore().Save("live-token")
	session := NewSession(c)

	resolveDone := make(chan error, 1)
	go func() {
		resolveDone <- session.Resolve(context.Background())
	}()

	<-meStarted
	require.NoError(t, session.Logout(context.Background()))
	assert.Equal(t, StateAnonymous, session.State())

	close(meRelease)
	require.NoError(t, <-resolveDone)

	// the stale authenticated response was discarded
	assert.Equal(t, StateAnonymous, session.State())
	assert.Nil(t, session.CurrentUser())
	_, ok := c.TokenStore().Token()
	assert.False(t, ok)
}

func TestRefresh401DropsToAnonymous(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusUnauthorized, "invalid authorization token")
	}))
	defer server.Close()

	c := New(server.URL)
	c.TokenStore().Save("revoked-token")
	session := NewSession(c)

	err := session.Refresh(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateAnonymous, session.State())
	_, ok := c.TokenStore().Token()
	assert.False(t, ok)
}

func TestRefreshRotatesToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer old-token", r.Header.Get("Authorization"))
		writeSuccess(w, map[string]interface{}{
			"token":     "new-token",
			"expiresAt": time.Now().Add(time.Hour),
			"user":      testUser(),
		})
	}))
	defer server.Close()

	c := New(server.URL)
	c.TokenStore().Save("old-token")
	session := NewSession(c)

	require.NoError(t, session.Refresh(context.Background()))
	assert.Equal(t, StateAuthenticated, session.State())

	token, ok := c.TokenStore().Token()
	require.True(t, ok)
	assert.Equal(t, "new-token", token)
}

func TestGuardDecisions(t *testing.T) {
	c := New("http://localhost:0")
	session := NewSession(c)

	assert.Equal(t, GuardWait, session.Guard("doctor"))

	require.NoError(t, session.Resolve(context.Background()))
	assert.Equal(t, GuardRedirectLogin, session.Guard("doctor"))
	assert.Equal(t, GuardRedirectLogin, session.Guard())

	user := testUser()
	session.state = StateAuthenticated
	session.user = &user
	assert.Equal(t, GuardAllow, session.Guard())
	assert.Equal(t, GuardAllow, session.Guard("doctor"))
	assert.Equal(t, GuardAllow, session.Guard("admin", "doctor"))
	assert.Equal(t, GuardRedirectUnauthorized, session.Guard("super_admin"))
}

func TestNoRetryOnUnauthorized(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeFailure(w, http.StatusUnauthorized, "invalid authorization token")
	}))
	defer server.Close()

	c := New(server.URL)
	err := c.DoJSON(context.Background(), http.MethodGet, "/api/auth/me", nil, nil)

	require.Error(t, err)
	assert.True(t, IsAuthError(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRetriesOnServerError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			writeFailure(w, http.StatusBadGateway, "ai analysis service is unavailable")
			return
		}
		writeSuccess(w, testUser())
	}))
	defer server.Close()

	c := New(server.URL)
	var user User
	err := c.DoJSON(context.Background(), http.MethodGet, "/api/auth/me", nil, &user)

	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestNoRetryOnValidationError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeFailure(w, http.StatusUnprocessableEntity, "invalid payload")
	}))
	defer server.Close()

	c := New(server.URL)
	err := c.DoJSON(context.Background(), http.MethodPost, "/api/auth/login", map[string]string{}, nil)

	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
