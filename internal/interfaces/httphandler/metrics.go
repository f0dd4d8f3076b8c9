package httphandler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the dispatcher's Prometheus collectors.
type Metrics struct {
	redirects *prometheus.CounterVec
	responses *prometheus.CounterVec
}

// NewMetrics registers the collectors with reg. A nil reg leaves them
// unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		redirects: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "iscs",
				Subsystem: "dispatcher",
				Name:      "redirects_total",
				Help:      "Total number of requests redirected to a backend",
			},
			[]string{"resource_type", "backend"},
		),
		responses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "iscs",
				Subsystem: "dispatcher",
				Name:      "responses_total",
				Help:      "Total number of responses by status code",
			},
			[]string{"code"},
		),
	}
}

func (m *Metrics) incRedirect(resourceType, backend string) {
	m.redirects.WithLabelValues(resourceType, backend).Inc()
}

func (m *Metrics) incResponse(status int) {
	m.responses.WithLabelValues(strconv.Itoa(status)).Inc()
}

// NewAdminHandler serves /metrics from gatherer and pprof under /debug.
func NewAdminHandler(gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Mount("/debug", middleware.Profiler())
	return r
}
