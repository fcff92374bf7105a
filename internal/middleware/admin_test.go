package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/aura-attendance/backend/pkg/metrics"
	"github.com/aura-attendance/backend/pkg/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAdminRouter(store *session.Store) *gin.Engine {
	r := gin.New()
	r.Use(store.Middleware())
	r.GET("/login", func(c *gin.Context) {
		session.Get(c).LogIn("admin")
		_ = session.Save(c)
		c.Status(http.StatusNoContent)
	})
	r.GET("/admin/dashboard", RequireAdmin(), func(c *gin.Context) {
		c.String(http.StatusOK, "hello "+MustAdmin(c).Username)
	})
	return r
}

func TestRequireAdminRedirectsWithoutSession(t *testing.T) {
	store := session.NewStore("secret", "sid", false)
	r := newAdminRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, LoginPath, w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	sess, err := store.Decode(cookies[0].Value)
	require.NoError(t, err)
	assert.False(t, sess.AdminLoggedIn)
	require.Len(t, sess.Flashes, 1)
	assert.Equal(t, session.FlashWarning, sess.Flashes[0].Category)
}

func TestRequireAdminPassesWithSession(t *testing.T) {
	store := session.NewStore("secret", "sid", false)
	r := newAdminRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello admin", w.Body.String())
}

func TestLoggerRecordsRequest(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(Logger(zap.New(core)))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(http.StatusTeapot), entries[0].ContextMap()["status"])
	assert.Equal(t, "/ping", entries[0].ContextMap()["path"])
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	r := gin.New()
	r.Use(Metrics(m))
	r.POST("/admin/toggle-link/:id", func(c *gin.Context) { c.Status(http.StatusFound) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/admin/toggle-link/7", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/admin/toggle-link/8", nil))

	families, err := reg.Gather()
	require.NoError(t, err)
	var found bool
	for _, mf := range families {
		if mf.GetName() != "attendance_http_requests_total" {
			continue
		}
		require.Len(t, mf.GetMetric(), 1)
		labels := map[string]string{}
		for _, lp := range mf.GetMetric()[0].GetLabel() {
			labels[lp.GetName()] = lp.GetValue()
		}
		assert.Equal(t, "/admin/toggle-link/:id", labels["route"])
		assert.Equal(t, "302", labels["status"])
		assert.Equal(t, 2.0, mf.GetMetric()[0].GetCounter().GetValue())
		found = true
	}
	assert.True(t, found)
}
