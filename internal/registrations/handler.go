package registrations

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aura-attendance/backend/internal/links"
	"github.com/aura-attendance/backend/internal/models"
	"github.com/aura-attendance/backend/pkg/metrics"
	"github.com/aura-attendance/backend/pkg/response"
)

// SuccessPath is the confirmation page shown after a registration.
const SuccessPath = "/success"

const (
	templateForm    = "register"
	templateInvalid = "invalid_link"
	templateSuccess = "success"
)

// LinkFinder resolves a token to its active link.
type LinkFinder interface {
	GetActiveByToken(ctx context.Context, token string) (*models.AccessLink, error)
}

// AttendeeCreator stores a registration guarded by the link's active flag.
type AttendeeCreator interface {
	Create(ctx context.Context, a *models.Attendee) error
}

// Handler handles the public registration pages.
type Handler struct {
	links     LinkFinder
	attendees AttendeeCreator
	metrics   *metrics.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

// NewHandler creates a registrations handler.
func NewHandler(linkFinder LinkFinder, attendees AttendeeCreator, m *metrics.Metrics, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		links:     linkFinder,
		attendees: attendees,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// ShowForm handles GET /register/:token.
func (h *Handler) ShowForm(c *gin.Context) {
	token := c.Param("token")
	if !h.activeToken(c, token) {
		return
	}
	response.Page(c, http.StatusOK, templateForm, formData(token, "", "", ""))
}

// Submit handles POST /register/:token. The token is checked again here; a
// link deactivated after the form was loaded rejects the submission.
func (h *Handler) Submit(c *gin.Context) {
	token := c.Param("token")
	if !h.activeToken(c, token) {
		return
	}

	req, err := bindRegistration(c)
	if err != nil {
		data := formData(token, req.Name, req.Role, derefString(req.Group))
		data["Error"] = err.Error()
		response.Page(c, http.StatusBadRequest, templateForm, data)
		return
	}

	a := &models.Attendee{
		Name:            req.Name,
		Role:            req.Role,
		Group:           req.Group,
		Timestamp:       h.now().UTC(),
		AccessTokenUsed: token,
	}
	err = h.attendees.Create(c.Request.Context(), a)
	if errors.Is(err, ErrLinkInactive) {
		renderInvalid(c)
		return
	}
	if err != nil {
		h.logger.Error("create attendee failed", zap.Error(err))
		response.Internal(c)
		return
	}

	h.metrics.RegistrationAccepted()
	h.logger.Info("attendee registered", zap.Int64("attendee_id", a.ID), zap.String("role", a.Role))
	response.Redirect(c, SuccessPath)
}

// Success handles GET /success.
func (h *Handler) Success(c *gin.Context) {
	response.Page(c, http.StatusOK, templateSuccess, gin.H{"Title": "Registered"})
}

// activeToken renders the invalid-link page and returns false unless token
// names the active link.
func (h *Handler) activeToken(c *gin.Context, token string) bool {
	_, err := h.links.GetActiveByToken(c.Request.Context(), token)
	if errors.Is(err, links.ErrNotFound) {
		renderInvalid(c)
		return false
	}
	if err != nil {
		h.logger.Error("lookup access link failed", zap.Error(err))
		response.Internal(c)
		return false
	}
	return true
}

func renderInvalid(c *gin.Context) {
	response.Page(c, http.StatusNotFound, templateInvalid, gin.H{"Title": "Invalid link"})
}

func formData(token, name, role, group string) gin.H {
	return gin.H{
		"Title": "Register",
		"Token": token,
		"Roles": models.AttendeeRoles,
		"Name":  name,
		"Role":  role,
		"Group": group,
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
