// Package metrics exposes pipeline and HTTP metrics in Prometheus format.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"reviews-dashboard/models"
)

const namespace = "reviews_dashboard"

// Metrics holds the dashboard's collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	ReviewsLoaded  prometheus.Gauge
	ReviewsKept    prometheus.Gauge
	RowsDropped    prometheus.Gauge
	Locations      prometheus.Gauge
	FocusLocations *prometheus.GaugeVec
	TopicsRetained prometheus.Gauge
	HTTPRequests   *prometheus.CounterVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ReviewsLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reviews_loaded",
			Help:      "Rows read from the review source",
		}),
		ReviewsKept: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reviews_kept",
			Help:      "Reviews left after normalization",
		}),
		RowsDropped: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rows_dropped",
			Help:      "Rows removed during normalization",
		}),
		Locations: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "locations",
			Help:      "Distinct normalized locations",
		}),
		FocusLocations: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "focus_locations",
			Help:      "Locations in the focus set by half",
		}, []string{"half"}),
		TopicsRetained: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "topics_retained",
			Help:      "Focus topics at or above the mention threshold",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status",
		}, []string{"route", "status"}),
	}
}

// ObserveReport records the pipeline's outcome.
func (m *Metrics) ObserveReport(r *models.Report) {
	m.ReviewsLoaded.Set(float64(r.TotalReviews))
	m.ReviewsKept.Set(float64(r.KeptReviews))
	m.RowsDropped.Set(float64(r.DroppedRows))
	m.Locations.Set(float64(len(r.Locations)))
	m.FocusLocations.WithLabelValues("top").Set(float64(len(r.Focus.Top)))
	m.FocusLocations.WithLabelValues("bottom").Set(float64(len(r.Focus.Bottom)))
	m.TopicsRetained.Set(float64(len(r.Topics)))
}

// ObserveRequest counts one served request.
func (m *Metrics) ObserveRequest(route string, status int) {
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// Handler serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
