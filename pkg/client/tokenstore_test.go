package client

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTokenStore(t *testing.T) {
	store := NewMemoryTokenStore()

	_, ok := store.Token()
	assert.False(t, ok)

	store.Save("tok")
	token, ok := store.Token()
	require.True(t, ok)
	assert.Equal(t, "tok", token)

	store.Clear()
	_, ok = store.Token()
	assert.False(t, ok)
}

func TestCookieTokenStoreSaveSetsStrictCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	store := NewCookieTokenStore("session_token", true, rec, nil)

	store.Save("tok-value")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, "session_token", cookie.Name)
	assert.Equal(t, "tok-value", cookie.Value)
	assert.True(t, cookie.Secure)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), cookie.Expires, time.Minute)
}

func TestCookieTokenStoreReadsFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "tok-value"})
	store := NewCookieTokenStore("session_token", false, nil, req)

	token, ok := store.Token()
	require.True(t, ok)
	assert.Equal(t, "tok-value", token)
}

func TestCookieTokenStoreClearExpiresCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	store := NewCookieTokenStore("", false, rec, nil)

	store.Clear()

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session_token", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}
