package links

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aura-attendance/backend/internal/middleware"
	"github.com/aura-attendance/backend/internal/models"
	"github.com/aura-attendance/backend/pkg/metrics"
	"github.com/aura-attendance/backend/pkg/response"
	"github.com/aura-attendance/backend/pkg/session"
)

// Store is the link persistence used by the admin handlers.
type Store interface {
	Generate(ctx context.Context) (*models.AccessLink, error)
	Toggle(ctx context.Context, id int64) (*models.AccessLink, error)
}

// Handler handles admin link endpoints.
type Handler struct {
	store   Store
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewHandler creates a links handler.
func NewHandler(store Store, m *metrics.Metrics, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, metrics: m, logger: logger}
}

// Generate handles POST /admin/generate-link.
func (h *Handler) Generate(c *gin.Context) {
	admin := middleware.MustAdmin(c)
	link, err := h.store.Generate(c.Request.Context())
	if err != nil {
		h.logger.Error("generate link failed", zap.Error(err), zap.String("admin", admin.Username))
		response.Internal(c)
		return
	}
	h.metrics.LinkChanged(metrics.ActionGenerate)
	h.logger.Info("access link generated", zap.Int64("link_id", link.ID), zap.String("admin", admin.Username))

	session.Get(c).AddFlash(session.FlashSuccess, "New access link generated and activated. Previous links have been deactivated.")
	response.Redirect(c, middleware.DashboardPath)
}

// Toggle handles POST /admin/toggle-link/:id.
func (h *Handler) Toggle(c *gin.Context) {
	admin := middleware.MustAdmin(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.NotFound(c)
		return
	}
	link, err := h.store.Toggle(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c)
		return
	}
	if err != nil {
		h.logger.Error("toggle link failed", zap.Error(err), zap.Int64("link_id", id), zap.String("admin", admin.Username))
		response.Internal(c)
		return
	}

	sess := session.Get(c)
	if link.IsActive {
		h.metrics.LinkChanged(metrics.ActionActivate)
		sess.AddFlash(session.FlashSuccess, fmt.Sprintf("Link %s... has been activated. All other links deactivated.", link.ShortToken()))
	} else {
		h.metrics.LinkChanged(metrics.ActionDeactivate)
		sess.AddFlash(session.FlashWarning, fmt.Sprintf("Link %s... has been deactivated.", link.ShortToken()))
	}
	h.logger.Info("access link toggled",
		zap.Int64("link_id", link.ID),
		zap.Bool("active", link.IsActive),
		zap.String("admin", admin.Username),
	)
	response.Redirect(c, middleware.DashboardPath)
}
