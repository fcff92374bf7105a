package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aura-attendance/backend/internal/middleware"
	"github.com/aura-attendance/backend/pkg/metrics"
	"github.com/aura-attendance/backend/pkg/response"
	"github.com/aura-attendance/backend/pkg/session"
)

const templateLogin = "admin_login"

// LoginRequest is the form posted to /admin/login.
type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// Handler handles admin login and logout.
type Handler struct {
	creds   Credentials
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(creds Credentials, m *metrics.Metrics, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{creds: creds, metrics: m, logger: logger}
}

// LoginPage handles GET /admin/login.
func (h *Handler) LoginPage(c *gin.Context) {
	if session.Get(c).AdminLoggedIn {
		response.Redirect(c, middleware.DashboardPath)
		return
	}
	response.Page(c, http.StatusOK, templateLogin, gin.H{"Title": "Admin login"})
}

// Login handles POST /admin/login.
func (h *Handler) Login(c *gin.Context) {
	sess := session.Get(c)
	if sess.AdminLoggedIn {
		response.Redirect(c, middleware.DashboardPath)
		return
	}

	var req LoginRequest
	err := c.ShouldBind(&req)
	if err == nil {
		err = h.creds.Check(req.Username, req.Password)
	}
	if err != nil {
		h.metrics.LoginAttempt(false)
		h.logger.Warn("admin login failed", zap.String("client_ip", c.ClientIP()))
		sess.AddFlash(session.FlashDanger, "Invalid credentials. Please try again.")
		response.Page(c, http.StatusUnauthorized, templateLogin, gin.H{"Title": "Admin login", "Username": req.Username})
		return
	}

	h.metrics.LoginAttempt(true)
	h.logger.Info("admin logged in", zap.String("admin", req.Username))
	sess.LogIn(req.Username)
	sess.AddFlash(session.FlashSuccess, "Login successful!")
	response.Redirect(c, middleware.DashboardPath)
}

// Logout handles GET /admin/logout. Routed behind middleware.RequireAdmin.
func (h *Handler) Logout(c *gin.Context) {
	admin := middleware.MustAdmin(c)
	sess := session.Get(c)
	sess.LogOut()
	sess.AddFlash(session.FlashInfo, "You have been logged out.")
	h.logger.Info("admin logged out", zap.String("admin", admin.Username))
	response.Redirect(c, middleware.LoginPath)
}
