package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	IngestionsProcessed *prometheus.CounterVec
	APIErrors           prometheus.Counter
	RequestSeconds      *prometheus.HistogramVec
	PlacedMarkers       prometheus.Gauge
	TickSeconds         *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		IngestionsProcessed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "lodestar_ingestions_processed_total",
			Help: "Total number of listing ingestions by outcome.",
		}, []string{"status"}),
		APIErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "lodestar_listings_api_errors_total",
			Help: "Total number of transport errors from the listings provider.",
		}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lodestar_listings_request_duration_seconds",
			Help:    "Duration of requests to the listings provider.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		PlacedMarkers: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "lodestar_placed_markers",
			Help: "Current number of listing markers placed in the scene.",
		}),
		TickSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lodestar_loop_tick_duration_seconds",
			Help:    "Duration of periodic ticks on the interaction loop.",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}, []string{"task"}),
	}
}
