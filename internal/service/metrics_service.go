package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and
// the scheduling engine.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	generationTotal *prometheus.CounterVec
	bestEfficiency  *prometheus.GaugeVec
	repairPlans     prometheus.Counter
	repairApplied   prometheus.Counter
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	generationTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_generations_total",
		Help: "Timetable generation runs by strategy",
	}, []string{"strategy"})

	bestEfficiency := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "timetable_best_efficiency_score",
		Help: "Efficiency score of the latest generated timetable per strategy",
	}, []string{"strategy"})

	repairPlans := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "repair_plans_generated_total",
		Help: "Repair plans produced by the planner",
	})

	repairApplied := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "repair_plans_applied_total",
		Help: "Repair plans applied to the published timetable",
	})

	registry.MustRegister(requestDuration, requestTotal, generationTotal, bestEfficiency, repairPlans, repairApplied)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		generationTotal: generationTotal,
		bestEfficiency:  bestEfficiency,
		repairPlans:     repairPlans,
		repairApplied:   repairApplied,
	}
}

// Handler exposes the scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one served request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := prometheus.Labels{"method": method, "path": path, "status": strconv.Itoa(status)}
	s.requestDuration.With(labels).Observe(duration.Seconds())
	s.requestTotal.With(labels).Inc()
}

// ObserveGeneration records one timetable generation run.
func (s *MetricsService) ObserveGeneration(strategy string, efficiency float64) {
	s.generationTotal.WithLabelValues(strategy).Inc()
	s.bestEfficiency.WithLabelValues(strategy).Set(efficiency)
}

// ObserveRepairPlans records planner output volume.
func (s *MetricsService) ObserveRepairPlans(count int) {
	s.repairPlans.Add(float64(count))
}

// ObserveRepairApplied records one applied plan.
func (s *MetricsService) ObserveRepairApplied() {
	s.repairApplied.Inc()
}
