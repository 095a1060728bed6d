package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the portal.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	recordsFiled    *prometheus.CounterVec
	serviceLogs     prometheus.Counter
	resolutions     prometheus.Counter
	notifyFailures  prometheus.Counter
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
}

// NewMetricsService registers the portal's Prometheus collectors.
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

	recordsFiled := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "conduct_records_filed_total",
		Help: "Conduct records filed, labelled by category and seriousness",
	}, []string{"category", "serious"})

	serviceLogs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "service_logs_filed_total",
		Help: "Extension-duty service logs filed",
	})

	resolutions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "infraction_resolutions_total",
		Help: "Serious infractions resolved",
	})

	notifyFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notification_failures_total",
		Help: "Notification emails that failed to send",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "balance_cache_hits_total",
		Help: "Balance summary cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "balance_cache_misses_total",
		Help: "Balance summary cache misses",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, recordsFiled, serviceLogs, resolutions, notifyFailures, cacheHits, cacheMisses, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		recordsFiled:    recordsFiled,
		serviceLogs:     serviceLogs,
		resolutions:     resolutions,
		notifyFailures:  notifyFailures,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordFiled counts a filed conduct record.
func (m *MetricsService) RecordFiled(category string, serious bool) {
	if m == nil {
		return
	}
	label := "false"
	if serious {
		label = "true"
	}
	m.recordsFiled.WithLabelValues(category, label).Inc()
}

// ServiceLogFiled counts a filed service log.
func (m *MetricsService) ServiceLogFiled() {
	if m == nil {
		return
	}
	m.serviceLogs.Inc()
}

// InfractionResolved counts a completed adjudication.
func (m *MetricsService) InfractionResolved() {
	if m == nil {
		return
	}
	m.resolutions.Inc()
}

// NotificationFailed counts a dropped notification email.
func (m *MetricsService) NotificationFailed() {
	if m == nil {
		return
	}
	m.notifyFailures.Inc()
}

// RecordCacheLookup counts a balance cache hit or miss.
func (m *MetricsService) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}
