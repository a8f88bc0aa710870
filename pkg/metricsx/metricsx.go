// Package metricsx holds the Prometheus metrics the API exports.
package metricsx

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "prometheus_api"

// Metrics owns a registry, so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	FieldsTotal   *prometheus.CounterVec
	FieldDuration *prometheus.HistogramVec

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	EventsPublished *prometheus.CounterVec
	Housekeeping    *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		FieldsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "graphql",
			Name:      "fields_total",
			Help:      "Root GraphQL fields executed, by field and error code",
		}, []string{"field", "code"}),

		FieldDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "graphql",
			Name:      "field_duration_seconds",
			Help:      "Root GraphQL field resolution time in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"field"}),

		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests served, by route and status",
		}, []string{"route", "status"}),

		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),

		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Domain events handed to the broker, by routing key and status",
		}, []string{"routing_key", "status"}),

		Housekeeping: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "housekeeping",
			Name:      "deleted_total",
			Help:      "Rows removed by the housekeeping worker",
		}, []string{"kind"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.FieldsTotal,
		m.FieldDuration,
		m.RequestsTotal,
		m.RequestDuration,
		m.EventsPublished,
		m.Housekeeping,
	)
	return m
}

// ObserveField matches the gqlx observer signature. An empty code is "OK".
func (m *Metrics) ObserveField(field, code string, elapsed time.Duration) {
	if code == "" {
		code = "OK"
	}
	m.FieldsTotal.WithLabelValues(field, code).Inc()
	m.FieldDuration.WithLabelValues(field).Observe(elapsed.Seconds())
}

// ObservePublish counts one event publication attempt.
func (m *Metrics) ObservePublish(routingKey string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.EventsPublished.WithLabelValues(routingKey, status).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Middleware records request counts and durations under a fixed route
// label, so arbitrary paths cannot blow up label cardinality.
func (m *Metrics) Middleware(route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)
			m.RequestsTotal.WithLabelValues(route, strconv.Itoa(rw.status)).Inc()
			m.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		})
	}
}

type statusWriter struct {
	http.ResponseWriter

	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
