package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"citizenportal/internal/domains"
)

// Metrics holds the portal's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	CreatedTotal    *prometheus.CounterVec
	PublishedTotal  *prometheus.CounterVec
	DeletedTotal    *prometheus.CounterVec
	SubmittedTotal  *prometheus.CounterVec
	Backlog         *prometheus.GaugeVec
	RequestDuration *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry along with the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		CreatedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_content_created_total",
			Help: "Content entities created, by kind",
		}, []string{"kind"}),
		PublishedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_content_published_total",
			Help: "Content entities moved to published, by kind",
		}, []string{"kind"}),
		DeletedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_content_deleted_total",
			Help: "Content entities deleted, by kind",
		}, []string{"kind"}),
		SubmittedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_tickets_submitted_total",
			Help: "Grievances and feedback submitted by citizens",
		}, []string{"kind"}),
		Backlog: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "portal_backlog",
			Help: "Open items awaiting an admin, by kind and status",
		}, []string{"kind", "status"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route template",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "method", "status"}),
	}
}

func (m *Metrics) ContentCreated(kind domains.Kind) {
	if m != nil {
		m.CreatedTotal.WithLabelValues(string(kind)).Inc()
	}
}

func (m *Metrics) ContentPublished(kind domains.Kind) {
	if m != nil {
		m.PublishedTotal.WithLabelValues(string(kind)).Inc()
	}
}

func (m *Metrics) ContentDeleted(kind domains.Kind) {
	if m != nil {
		m.DeletedTotal.WithLabelValues(string(kind)).Inc()
	}
}

func (m *Metrics) TicketSubmitted(kind domains.TicketKind) {
	if m != nil {
		m.SubmittedTotal.WithLabelValues(string(kind)).Inc()
	}
}

// SetBacklog implements scheduler.BacklogSink.
func (m *Metrics) SetBacklog(kind, status string, n int) {
	if m != nil {
		m.Backlog.WithLabelValues(kind, status).Set(float64(n))
	}
}

// ObserveRequest records one served request under its route template.
func (m *Metrics) ObserveRequest(route, method string, status int, d time.Duration) {
	if m != nil {
		m.RequestDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(d.Seconds())
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
