package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics набор метрик сервиса.
// Все методы безопасны для nil-получателя: при выключенных метриках вызовы ничего не делают.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration   *prometheus.HistogramVec
	DBQueryErrors     *prometheus.CounterVec
	DBOpenConnections *prometheus.GaugeVec
	DBInUse           *prometheus.GaugeVec
	DBIdle            *prometheus.GaugeVec
	DBWaitCount       *prometheus.GaugeVec

	BookingsCreated  *prometheus.CounterVec
	SlotConflicts    prometheus.Counter
	BookingsReleased *prometheus.CounterVec
	EmailsTotal      *prometheus.CounterVec
	PaymentErrors    *prometheus.CounterVec
}

// New создает и регистрирует метрики в собственном реестре
func New(serviceName string) *Metrics {
	labels := prometheus.Labels{"service": serviceName}
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: labels,
		}, []string{"method", "route"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			ConstLabels: labels,
		}, []string{"db", "operation"}),
		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: labels,
		}, []string{"db", "operation"}),
		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: labels,
		}, []string{"db"}),
		DBInUse: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: labels,
		}, []string{"db"}),
		DBIdle: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: labels,
		}, []string{"db"}),
		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: labels,
		}, []string{"db"}),
		BookingsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "bookings_created_total",
			Help:        "Bookings created by payment method",
			ConstLabels: labels,
		}, []string{"payment_method"}),
		SlotConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "slot_conflicts_total",
			Help:        "Booking attempts rejected because a slot was taken",
			ConstLabels: labels,
		}),
		BookingsReleased: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "bookings_released_total",
			Help:        "Bookings whose slots were released, by reason",
			ConstLabels: labels,
		}, []string{"reason"}),
		EmailsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "emails_total",
			Help:        "Emails processed by kind and result",
			ConstLabels: labels,
		}, []string{"kind", "result"}),
		PaymentErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "payment_provider_errors_total",
			Help:        "Payment provider call failures by operation",
			ConstLabels: labels,
		}, []string{"operation"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBOpenConnections,
		m.DBInUse,
		m.DBIdle,
		m.DBWaitCount,
		m.BookingsCreated,
		m.SlotConflicts,
		m.BookingsReleased,
		m.EmailsTotal,
		m.PaymentErrors,
	)

	return m
}

// Handler отдает метрики в формате Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry нужен тестам для чтения значений
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) ObserveDBQuery(db, operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(db, operation).Observe(duration.Seconds())
	if err != nil {
		m.DBQueryErrors.WithLabelValues(db, operation).Inc()
	}
}

func (m *Metrics) BookingCreated(paymentMethod string) {
	if m == nil {
		return
	}
	m.BookingsCreated.WithLabelValues(paymentMethod).Inc()
}

func (m *Metrics) SlotConflict() {
	if m == nil {
		return
	}
	m.SlotConflicts.Inc()
}

// BookingReleased reason: cancelled, refunded, abandoned, expired
func (m *Metrics) BookingReleased(reason string) {
	if m == nil {
		return
	}
	m.BookingsReleased.WithLabelValues(reason).Inc()
}

func (m *Metrics) Email(kind, result string) {
	if m == nil {
		return
	}
	m.EmailsTotal.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) PaymentError(operation string) {
	if m == nil {
		return
	}
	m.PaymentErrors.WithLabelValues(operation).Inc()
}
