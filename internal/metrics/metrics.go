// Package metrics exposes Prometheus counters for responses and mail dispatch.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can create independent instances.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry  *prometheus.Registry
	responses *prometheus.CounterVec
	mail      *prometheus.CounterVec
	pages     *prometheus.CounterVec
}

// New registers the application collectors plus the Go runtime collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		responses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "videoinvite",
			Name:      "responses_total",
			Help:      "Accept/decline submissions by action and result.",
		}, []string{"action", "result"}),
		mail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "videoinvite",
			Name:      "mail_dispatch_total",
			Help:      "Outbound mail attempts by kind and outcome.",
		}, []string{"kind", "outcome"}),
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "videoinvite",
			Name:      "pages_rendered_total",
			Help:      "Rendered HTML pages by template.",
		}, []string{"page"}),
	}
	reg.MustRegister(
		m.responses,
		m.mail,
		m.pages,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Response counts an accept/decline outcome.
func (m *Metrics) Response(action, result string) {
	if m == nil {
		return
	}
	m.responses.WithLabelValues(action, result).Inc()
}

// Mail counts a dispatch outcome ("sent", "failed", "dropped").
func (m *Metrics) Mail(kind, outcome string) {
	if m == nil {
		return
	}
	m.mail.WithLabelValues(kind, outcome).Inc()
}

// Page counts a rendered page.
func (m *Metrics) Page(name string) {
	if m == nil {
		return
	}
	m.pages.WithLabelValues(name).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
