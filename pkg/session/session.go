// Package session keeps per-browser state (the admin flag and pending flash
// messages) in a cookie holding an HS256-signed JWT.
package session

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Flash categories understood by the page templates.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

const contextKey = "session"

// MaxFlashes bounds the queued messages so an unread backlog cannot push the
// cookie past browser size limits. The oldest messages are dropped.
const MaxFlashes = 5

// ErrInvalidSession is returned when a cookie value is not a session signed with our secret.
var ErrInvalidSession = errors.New("invalid session")

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Session is the decoded cookie state for one request.
type Session struct {
	AdminLoggedIn bool
	Username      string
	Flashes       []Flash

	dirty bool
}

// LogIn marks the session as belonging to the admin.
func (s *Session) LogIn(username string) {
	s.AdminLoggedIn = true
	s.Username = username
	s.dirty = true
}

// LogOut clears the admin flag. Pending flashes are kept.
func (s *Session) LogOut() {
	s.AdminLoggedIn = false
	s.Username = ""
	s.dirty = true
}

// AddFlash queues a message for the next rendered page.
func (s *Session) AddFlash(category, message string) {
	s.Flashes = append(s.Flashes, Flash{Category: category, Message: message})
	if n := len(s.Flashes); n > MaxFlashes {
		s.Flashes = append([]Flash(nil), s.Flashes[n-MaxFlashes:]...)
	}
	s.dirty = true
}

// PopFlashes returns and clears the queued messages.
func (s *Session) PopFlashes() []Flash {
	if len(s.Flashes) == 0 {
		return nil
	}
	out := s.Flashes
	s.Flashes = nil
	s.dirty = true
	return out
}

func (s *Session) empty() bool {
	return !s.AdminLoggedIn && len(s.Flashes) == 0
}

type claims struct {
	AdminLoggedIn bool    `json:"admin_logged_in,omitempty"`
	Flashes       []Flash `json:"flashes,omitempty"`
	jwt.RegisteredClaims
}

// Store encodes sessions into signed cookies.
type Store struct {
	secret     []byte
	cookieName string
	secure     bool
}

// NewStore creates a cookie store signing with secret.
func NewStore(secret, cookieName string, secure bool) *Store {
	return &Store{secret: []byte(secret), cookieName: cookieName, secure: secure}
}

// CookieName returns the name of the session cookie.
func (s *Store) CookieName() string { return s.cookieName }

// Encode signs the session. No expiry is set; the cookie lives as long as the browser session.
func (s *Store) Encode(sess *Session) (string, error) {
	cl := claims{
		AdminLoggedIn: sess.AdminLoggedIn,
		Flashes:       sess.Flashes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: sess.Username,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(s.secret)
}

// Decode verifies and parses a cookie value.
func (s *Store) Decode(value string) (*Session, error) {
	token, err := jwt.ParseWithClaims(value, &claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidSession
	}
	cl, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidSession
	}
	return &Session{
		AdminLoggedIn: cl.AdminLoggedIn,
		Username:      cl.Subject,
		Flashes:       cl.Flashes,
	}, nil
}

type state struct {
	store *Store
	sess  *Session
}

// Middleware loads the session cookie into the gin context. A missing or
// tampered cookie yields an empty session.
func (s *Store) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := &Session{}
		if raw, err := c.Cookie(s.cookieName); err == nil && raw != "" {
			if decoded, err := s.Decode(raw); err == nil {
				sess = decoded
			} else {
				// Drop the bad cookie on the next save.
				sess.dirty = true
			}
		}
		c.Set(contextKey, &state{store: s, sess: sess})
		c.Next()
	}
}

// Get returns the request's session. Without the middleware it returns a
// detached empty session that Save ignores.
func Get(c *gin.Context) *Session {
	if v, ok := c.Get(contextKey); ok {
		return v.(*state).sess
	}
	st := &state{sess: &Session{}}
	c.Set(contextKey, st)
	return st.sess
}

// Save writes the session cookie if the session changed. Must run before the
// response body or status is written.
func Save(c *gin.Context) error {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil
	}
	st := v.(*state)
	if st.store == nil || !st.sess.dirty {
		return nil
	}
	c.SetSameSite(http.SameSiteLaxMode)
	if st.sess.empty() {
		c.SetCookie(st.store.cookieName, "", -1, "/", "", st.store.secure, true)
		st.sess.dirty = false
		return nil
	}
	value, err := st.store.Encode(st.sess)
	if err != nil {
		return err
	}
	c.SetCookie(st.store.cookieName, value, 0, "/", "", st.store.secure, true)
	st.sess.dirty = false
	return nil
}
