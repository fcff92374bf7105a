// Package metrics holds the Prometheus collectors for the attendance service.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Link change actions.
const (
	ActionGenerate   = "generate"
	ActionActivate   = "activate"
	ActionDeactivate = "deactivate"
)

// Metrics groups the service collectors.
type Metrics struct {
	registrations prometheus.Counter
	linkChanges   *prometheus.CounterVec
	loginAttempts *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "attendance_registrations_total",
			Help: "Accepted attendee registrations.",
		}),
		linkChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_link_changes_total",
			Help: "Access link state changes by action.",
		}, []string{"action"}),
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_login_attempts_total",
			Help: "Admin login attempts by result.",
		}, []string{"result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "attendance_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	for _, c := range []prometheus.Collector{m.registrations, m.linkChanges, m.loginAttempts, m.httpRequests, m.httpDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RegistrationAccepted counts one stored attendee.
func (m *Metrics) RegistrationAccepted() {
	if m == nil {
		return
	}
	m.registrations.Inc()
}

// LinkChanged counts a link state change.
func (m *Metrics) LinkChanged(action string) {
	if m == nil {
		return
	}
	m.linkChanges.WithLabelValues(action).Inc()
}

// LoginAttempt counts an admin login attempt.
func (m *Metrics) LoginAttempt(ok bool) {
	if m == nil {
		return
	}
	result := "failure"
	if ok {
		result = "success"
	}
	m.loginAttempts.WithLabelValues(result).Inc()
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(seconds)
}
