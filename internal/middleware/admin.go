package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/aura-attendance/backend/pkg/response"
	"github.com/aura-attendance/backend/pkg/session"
)

// Admin pages the handlers redirect to.
const (
	LoginPath     = "/admin/login"
	DashboardPath = "/admin/dashboard"
)

// ContextAdmin is the gin context key holding the authenticated Admin.
const ContextAdmin = "admin"

// Admin is the authenticated principal produced by RequireAdmin.
type Admin struct {
	Username string
}

// RequireAdmin lets the request through only when the session carries the
// admin flag. Otherwise it flashes a warning and redirects to the login page.
// There is no expiry, CSRF or rate limiting here.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := session.Get(c)
		if !sess.AdminLoggedIn {
			sess.AddFlash(session.FlashWarning, "Please log in to access this page.")
			response.Redirect(c, LoginPath)
			c.Abort()
			return
		}
		c.Set(ContextAdmin, Admin{Username: sess.Username})
		c.Next()
	}
}

// MustAdmin returns the Admin set by RequireAdmin. It panics when called on a
// route that is not behind RequireAdmin.
func MustAdmin(c *gin.Context) Admin {
	return c.MustGet(ContextAdmin).(Admin)
}
