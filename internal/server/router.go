// Package server assembles the HTTP route table.
package server

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aura-attendance/backend/internal/auth"
	"github.com/aura-attendance/backend/internal/links"
	"github.com/aura-attendance/backend/internal/middleware"
	"github.com/aura-attendance/backend/internal/registrations"
	"github.com/aura-attendance/backend/internal/roster"
	"github.com/aura-attendance/backend/pkg/metrics"
	"github.com/aura-attendance/backend/pkg/response"
	"github.com/aura-attendance/backend/pkg/session"
)

// LinkStore is everything the routes need from link persistence.
type LinkStore interface {
	links.Store
	roster.LinkLister
	registrations.LinkFinder
}

// Deps are the collaborators wired into the router.
type Deps struct {
	Links          LinkStore
	Attendees      registrations.AttendeeCreator
	Roster         roster.AttendeeLister
	Sessions       *session.Store
	Credentials    auth.Credentials
	Templates      *template.Template
	PublicBaseURL  string
	TrustedProxies []string // nil trusts no proxy headers
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler // nil disables /metrics
	Logger         *zap.Logger
}

// NewRouter builds the gin engine with every public and admin route.
func NewRouter(d Deps) (*gin.Engine, error) {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	linkHandler := links.NewHandler(d.Links, d.Metrics, logger)
	registrationHandler := registrations.NewHandler(d.Links, d.Attendees, d.Metrics, logger)
	rosterHandler := roster.NewHandler(d.Roster, d.Links, d.PublicBaseURL, logger)
	authHandler := auth.NewHandler(d.Credentials, d.Metrics, logger)

	router := gin.New()
	if err := router.SetTrustedProxies(d.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	router.SetHTMLTemplate(d.Templates)
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	if d.Metrics != nil {
		router.Use(middleware.Metrics(d.Metrics))
	}
	router.Use(d.Sessions.Middleware())
	router.NoRoute(response.NotFound)

	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })
	if d.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(d.MetricsHandler))
	}

	router.GET("/", func(c *gin.Context) { response.Redirect(c, middleware.DashboardPath) })

	// Public: attendee registration
	router.GET("/register/:token", registrationHandler.ShowForm)
	router.POST("/register/:token", registrationHandler.Submit)
	router.GET("/success", registrationHandler.Success)

	// Public: admin login
	router.GET(middleware.LoginPath, authHandler.LoginPage)
	router.POST(middleware.LoginPath, authHandler.Login)

	// Admin session required
	admin := router.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/logout", authHandler.Logout)
		admin.GET("/dashboard", rosterHandler.Dashboard)
		admin.POST("/generate-link", linkHandler.Generate)
		admin.POST("/toggle-link/:id", linkHandler.Toggle)
		admin.GET("/export-csv", rosterHandler.ExportCSV)
	}

	return router, nil
}
