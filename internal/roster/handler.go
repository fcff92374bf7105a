package roster

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aura-attendance/backend/internal/models"
	"github.com/aura-attendance/backend/pkg/response"
)

const templateDashboard = "admin_dashboard"

// AttendeeLister lists attendees in a validated order.
type AttendeeLister interface {
	ListAttendees(ctx context.Context, s Sort) ([]models.Attendee, error)
}

// LinkLister lists access links and finds the active one.
type LinkLister interface {
	List(ctx context.Context) ([]models.AccessLink, error)
	GetActive(ctx context.Context) (*models.AccessLink, error)
}

// Column is a sortable header on the dashboard.
type Column struct {
	Label   string
	URL     string
	Current bool
}

// Handler serves the admin dashboard and CSV export.
type Handler struct {
	attendees AttendeeLister
	links     LinkLister
	baseURL   string
	logger    *zap.Logger
}

// NewHandler creates a roster handler. baseURL prefixes registration links;
// when empty it is derived from each request.
func NewHandler(attendees AttendeeLister, linkLister LinkLister, baseURL string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{attendees: attendees, links: linkLister, baseURL: strings.TrimRight(baseURL, "/"), logger: logger}
}

// Dashboard handles GET /admin/dashboard?sort_by=&order=.
func (h *Handler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	s := ParseSort(c.Query("sort_by"), c.Query("order"))

	attendees, err := h.attendees.ListAttendees(ctx, s)
	if err != nil {
		h.logger.Error("list attendees failed", zap.Error(err))
		response.Internal(c)
		return
	}
	links, err := h.links.List(ctx)
	if err != nil {
		h.logger.Error("list links failed", zap.Error(err))
		response.Internal(c)
		return
	}
	active, err := h.links.GetActive(ctx)
	if err != nil {
		h.logger.Error("get active link failed", zap.Error(err))
		response.Internal(c)
		return
	}

	data := gin.H{
		"Title":      "Dashboard",
		"Attendees":  attendees,
		"Links":      links,
		"ActiveLink": active,
		"SortBy":     string(s.Field),
		"Order":      string(s.Order),
		"Columns":    columnsFor(s),
	}
	if active != nil {
		data["ActiveURL"] = h.registrationURL(c, active.Token)
	}
	response.Page(c, http.StatusOK, templateDashboard, data)
}

// ExportCSV handles GET /admin/export-csv.
func (h *Handler) ExportCSV(c *gin.Context) {
	attendees, err := h.attendees.ListAttendees(c.Request.Context(), DefaultSort)
	if err != nil {
		h.logger.Error("list attendees for export failed", zap.Error(err))
		response.Internal(c)
		return
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, attendees); err != nil {
		h.logger.Error("write csv failed", zap.Error(err))
		response.Internal(c)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+ExportFilename)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

func (h *Handler) registrationURL(c *gin.Context, token string) string {
	base := h.baseURL
	if base == "" {
		scheme := "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
		if proto := c.GetHeader("X-Forwarded-Proto"); proto == "http" || proto == "https" {
			scheme = proto
		}
		base = scheme + "://" + c.Request.Host
	}
	return base + "/register/" + url.PathEscape(token)
}

func columnsFor(s Sort) []Column {
	labels := map[Field]string{
		FieldName:      "Name",
		FieldRole:      "Role",
		FieldGroup:     "Group",
		FieldTimestamp: "Timestamp (UTC)",
	}
	cols := make([]Column, 0, len(Fields))
	for _, f := range Fields {
		q := url.Values{"sort_by": {string(f)}, "order": {string(s.Toggle(f))}}
		cols = append(cols, Column{
			Label:   labels[f],
			URL:     "/admin/dashboard?" + q.Encode(),
			Current: f == s.Field,
		})
	}
	return cols
}
