package auth_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aura-attendance/backend/internal/storetest"
	"github.com/aura-attendance/backend/pkg/session"
)

func TestLoginPage(t *testing.T) {
	h := storetest.NewHarness(nil)

	w := h.Do(http.MethodGet, "/admin/login", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/admin/login"`)

	w = h.Do(http.MethodGet, "/admin/login", nil, h.AdminCookie())
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/dashboard", w.Header().Get("Location"))
}

func TestLoginSuccess(t *testing.T) {
	h := storetest.NewHarness(nil)

	w := h.Do(http.MethodPost, "/admin/login", url.Values{"username": {storetest.AdminUsername}, "password": {storetest.AdminPassword}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/dashboard", w.Header().Get("Location"))

	sess := h.SessionFrom(w)
	require.NotNil(t, sess)
	assert.True(t, sess.AdminLoggedIn)
	assert.Equal(t, storetest.AdminUsername, sess.Username)
	assert.Equal(t, []session.Flash{{Category: session.FlashSuccess, Message: "Login successful!"}}, sess.Flashes)

	// The cookie opens the dashboard and the flash is shown once.
	cookie := h.Cookie(w)
	w = h.Do(http.MethodGet, "/admin/dashboard", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Login successful!")
	after := h.SessionFrom(w)
	require.NotNil(t, after)
	assert.True(t, after.AdminLoggedIn)
	assert.Empty(t, after.Flashes)
}

func TestLoginFailureIsGeneric(t *testing.T) {
	h := storetest.NewHarness(nil)

	for _, form := range []url.Values{
		{"username": {storetest.AdminUsername}, "password": {"nope"}},
		{"username": {"nobody"}, "password": {storetest.AdminPassword}},
		{},
	} {
		w := h.Do(http.MethodPost, "/admin/login", form)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid credentials. Please try again.")
		if sess := h.SessionFrom(w); sess != nil {
			assert.False(t, sess.AdminLoggedIn)
		}
	}
}

func TestLoginMissingPasswordKeepsUsername(t *testing.T) {
	h := storetest.NewHarness(nil)

	w := h.Do(http.MethodPost, "/admin/login", url.Values{"username": {storetest.AdminUsername}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials. Please try again.")
	assert.Contains(t, w.Body.String(), `value="admin"`)
}

func TestLogout(t *testing.T) {
	h := storetest.NewHarness(nil)

	w := h.Do(http.MethodGet, "/admin/logout", nil, h.AdminCookie())
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))

	sess := h.SessionFrom(w)
	require.NotNil(t, sess)
	assert.False(t, sess.AdminLoggedIn)
	assert.Equal(t, "You have been logged out.", sess.Flashes[0].Message)

	w = h.Do(http.MethodGet, "/admin/dashboard", nil, h.Cookie(w))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))
}

func TestForgedSessionRejected(t *testing.T) {
	h := storetest.NewHarness(nil)
	forged := session.NewStore("attacker-secret", h.Sessions.CookieName(), false)
	sess := &session.Session{}
	sess.LogIn("admin")
	value, err := forged.Encode(sess)
	require.NoError(t, err)

	w := h.Do(http.MethodGet, "/admin/dashboard", nil, &http.Cookie{Name: h.Sessions.CookieName(), Value: value})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))
}
