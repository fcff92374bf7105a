package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aura-attendance/backend/pkg/session"
)

// Template names shared by handlers.
const (
	TemplateNotFound = "not_found"
	TemplateError    = "error"
)

// Body is the JSON envelope for the few machine-facing endpoints.
type Body struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OK sends a 200 JSON response with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data})
}

// Page renders an HTML template. Pending flashes and the admin flag are added
// to data, and the session cookie is written before the body.
func Page(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	sess := session.Get(c)
	data["Flashes"] = sess.PopFlashes()
	data["AdminLoggedIn"] = sess.AdminLoggedIn
	saveSession(c)
	c.HTML(status, name, data)
}

// Redirect saves the session and sends a 302 to location.
func Redirect(c *gin.Context, location string) {
	saveSession(c)
	c.Redirect(http.StatusFound, location)
}

// NotFound renders the generic 404 page.
func NotFound(c *gin.Context) {
	Page(c, http.StatusNotFound, TemplateNotFound, nil)
}

// Internal renders the generic 500 page. Callers log the cause.
func Internal(c *gin.Context) {
	Page(c, http.StatusInternalServerError, TemplateError, nil)
}

func saveSession(c *gin.Context) {
	if err := session.Save(c); err != nil {
		_ = c.Error(err)
	}
}
