package storetest

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aura-attendance/backend/internal/auth"
	"github.com/aura-attendance/backend/internal/server"
	"github.com/aura-attendance/backend/internal/web"
	"github.com/aura-attendance/backend/pkg/metrics"
	"github.com/aura-attendance/backend/pkg/session"
)

// Test credentials accepted by routers built with NewRouter.
const (
	AdminUsername = "admin"
	AdminPassword = "password"
)

// Harness is a router backed by a Store.
type Harness struct {
	Store    *Store
	Sessions *session.Store
	Router   *gin.Engine
}

// NewHarness builds the full route table over an empty Store. m may be nil.
func NewHarness(m *metrics.Metrics) *Harness {
	gin.SetMode(gin.TestMode)
	st := New()
	sessions := session.NewStore("test-secret", "attendance_session", false)
	router, err := server.NewRouter(server.Deps{
		Links:         st,
		Attendees:     st,
		Roster:        st,
		Sessions:      sessions,
		Credentials:   auth.Credentials{Username: AdminUsername, Password: AdminPassword},
		Templates:     web.MustTemplates(),
		PublicBaseURL: "https://attend.example.org",
		Metrics:       m,
	})
	if err != nil {
		panic(err)
	}
	return &Harness{Store: st, Sessions: sessions, Router: router}
}

// AdminCookie returns a session cookie with the admin flag set.
func (h *Harness) AdminCookie() *http.Cookie {
	sess := &session.Session{}
	sess.LogIn(AdminUsername)
	v, err := h.Sessions.Encode(sess)
	if err != nil {
		panic(err)
	}
	return &http.Cookie{Name: h.Sessions.CookieName(), Value: v}
}

// Do serves one request. form, when non-nil, is sent url-encoded.
func (h *Harness) Do(method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		if c != nil {
			req.AddCookie(c)
		}
	}
	w := httptest.NewRecorder()
	h.Router.ServeHTTP(w, req)
	return w
}

// SessionFrom decodes the session cookie set by a response, or nil when none was set.
func (h *Harness) SessionFrom(w *httptest.ResponseRecorder) *session.Session {
	for _, c := range w.Result().Cookies() {
		if c.Name != h.Sessions.CookieName() || c.Value == "" {
			continue
		}
		sess, err := h.Sessions.Decode(c.Value)
		if err != nil {
			return nil
		}
		return sess
	}
	return nil
}

// Cookie returns the session cookie set by a response, or nil.
func (h *Harness) Cookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == h.Sessions.CookieName() {
			return c
		}
	}
	return nil
}
