package session

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	store := NewStore("secret", "sid", false)
	sess := &Session{}
	sess.LogIn("admin")
	sess.AddFlash(FlashSuccess, "Login successful!")

	value, err := store.Encode(sess)
	require.NoError(t, err)

	got, err := store.Decode(value)
	require.NoError(t, err)
	assert.True(t, got.AdminLoggedIn)
	assert.Equal(t, "admin", got.Username)
	assert.Equal(t, []Flash{{Category: FlashSuccess, Message: "Login successful!"}}, got.Flashes)
}

func TestDecodeRejectsForeignSignature(t *testing.T) {
	sess := &Session{}
	sess.LogIn("admin")
	value, err := NewStore("other-secret", "sid", false).Encode(sess)
	require.NoError(t, err)

	_, err = NewStore("secret", "sid", false).Decode(value)
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = NewStore("secret", "sid", false).Decode("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestPopFlashesClears(t *testing.T) {
	sess := &Session{}
	assert.Nil(t, sess.PopFlashes())

	sess.AddFlash(FlashInfo, "one")
	sess.AddFlash(FlashWarning, "two")
	assert.Len(t, sess.PopFlashes(), 2)
	assert.Empty(t, sess.Flashes)
}

func TestAddFlashKeepsNewest(t *testing.T) {
	sess := &Session{}
	for i := 0; i < MaxFlashes+3; i++ {
		sess.AddFlash(FlashInfo, strconv.Itoa(i))
	}
	require.Len(t, sess.Flashes, MaxFlashes)
	assert.Equal(t, "3", sess.Flashes[0].Message)
	assert.Equal(t, strconv.Itoa(MaxFlashes+2), sess.Flashes[MaxFlashes-1].Message)
}

func TestMiddlewareLoadsAndSaves(t *testing.T) {
	store := NewStore("secret", "sid", false)
	r := gin.New()
	r.Use(store.Middleware())
	r.GET("/login", func(c *gin.Context) {
		Get(c).LogIn("admin")
		require.NoError(t, Save(c))
		c.Status(http.StatusNoContent)
	})
	r.GET("/whoami", func(c *gin.Context) {
		if Get(c).AdminLoggedIn {
			c.String(http.StatusOK, Get(c).Username)
			return
		}
		c.Status(http.StatusUnauthorized)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: cookies[0].Value + "x"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSaveWithoutChangesWritesNothing(t *testing.T) {
	store := NewStore("secret", "sid", false)
	r := gin.New()
	r.Use(store.Middleware())
	r.GET("/", func(c *gin.Context) {
		_ = Get(c)
		require.NoError(t, Save(c))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, w.Result().Cookies())
}
