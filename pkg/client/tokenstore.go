package client

import (
	"net/http"
	"sync"
	"time"
)

const tokenTTL = 7 * 24 * time.Hour

// TokenStore persists the session token between requests.
type TokenStore interface {
	Token() (string, bool)
	Save(token string)
	Clear()
}

// MemoryTokenStore keeps the token in process memory.
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryTokenStore returns an empty in-memory store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

func (s *MemoryTokenStore) Save(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func (s *MemoryTokenStore) Clear() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}

// CookieTokenStore persists the token as a browser cookie. It reads from the
// incoming request and writes Set-Cookie headers on the response, so each
// instance is bound to one request/response pair.
type CookieTokenStore struct {
	name   string
	secure bool
	req    *http.Request
	w      http.ResponseWriter
}

// NewCookieTokenStore binds a store to a request/response pair. Set secure
// for production deployments so the cookie only travels over TLS.
func NewCookieTokenStore(name string, secure bool, w http.ResponseWriter, req *http.Request) *CookieTokenStore {
	if name == "" {
		name = "session_token"
	}
	return &CookieTokenStore{name: name, secure: secure, req: req, w: w}
}

func (s *CookieTokenStore) Token() (string, bool) {
	if s.req == nil {
		return "", false
	}
	cookie, err := s.req.Cookie(s.name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (s *CookieTokenStore) Save(token string) {
	if s.w == nil {
		return
	}
	http.SetCookie(s.w, &http.Cookie{
		Name:     s.name,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(tokenTTL),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *CookieTokenStore) Clear() {
	if s.w == nil {
		return
	}
	http.SetCookie(s.w, &http.Cookie{
		Name:     s.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	})
}
