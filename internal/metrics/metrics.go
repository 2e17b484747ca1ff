package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	LocationAcquisitions  *prometheus.CounterVec
	HospitalFetchFailures prometheus.Counter
	TriageQueries         *prometheus.CounterVec
	RouteComputations     *prometheus.CounterVec
	Broadcasts            *prometheus.CounterVec
	RequestSeconds        *prometheus.HistogramVec
	ActiveRoutes          prometheus.Gauge
	APIRequests           *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		LocationAcquisitions: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "emergency_location_acquisitions_total",
			Help: "Total number of finished location acquisition cycles.",
		}, []string{"outcome"}),
		HospitalFetchFailures: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "emergency_hospital_fetch_failures_total",
			Help: "Total number of nearby hospital fetches degraded to an empty list.",
		}),
		TriageQueries: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "emergency_triage_queries_total",
			Help: "Total number of AI triage queries.",
		}, []string{"status"}),
		RouteComputations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "emergency_route_computations_total",
			Help: "Total number of route computations.",
		}, []string{"provider", "status"}),
		Broadcasts: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "emergency_broadcasts_total",
			Help: "Total number of SOS dispatch attempts.",
		}, []string{"kind", "status"}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "emergency_backend_request_duration_seconds",
			Help:    "Duration of requests to the health backend API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		ActiveRoutes: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "emergency_active_route_overlays",
			Help: "Current number of route overlays attached to the map.",
		}),
		APIRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "emergency_api_requests_total",
			Help: "Total number of requests served by the coordinator API.",
		}, []string{"route", "status"}),
	}
}
