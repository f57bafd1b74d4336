package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор прометеус-метрик сервиса
// Регистрируется в дефолтном реестре, отдаётся через promhttp.Handler()
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueriesTotal  *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec
	dbPoolOpen      *prometheus.GaugeVec
	dbPoolInUse     *prometheus.GaugeVec
	dbPoolIdle      *prometheus.GaugeVec

	holdsCreatedTotal  prometheus.Counter
	slotConflictsTotal prometheus.Counter
	bookingsConfirmed  prometheus.Counter
	holdsExpiredTotal  prometheus.Counter
	bookingsCancelled  prometheus.Counter
}

// New создает и регистрирует метрики сервиса
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "path"}),

		dbQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: constLabels,
		}, []string{"operation", "status"}),

		dbQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			ConstLabels: constLabels,
		}, []string{"operation"}),

		dbPoolOpen: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_open_connections",
			Help:        "Number of open database connections",
			ConstLabels: constLabels,
		}, []string{"db"}),

		dbPoolInUse: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_in_use_connections",
			Help:        "Number of database connections in use",
			ConstLabels: constLabels,
		}, []string{"db"}),

		dbPoolIdle: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_idle_connections",
			Help:        "Number of idle database connections",
			ConstLabels: constLabels,
		}, []string{"db"}),

		holdsCreatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "booking_holds_created_total",
			Help:        "Total number of holds created",
			ConstLabels: constLabels,
		}),

		slotConflictsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "booking_slot_conflicts_total",
			Help:        "Total number of hold attempts rejected due to slot conflicts",
			ConstLabels: constLabels,
		}),

		bookingsConfirmed: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "booking_confirmed_total",
			Help:        "Total number of confirmed bookings",
			ConstLabels: constLabels,
		}),

		holdsExpiredTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "booking_holds_expired_total",
			Help:        "Total number of holds swept to expired status",
			ConstLabels: constLabels,
		}),

		bookingsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "booking_cancelled_total",
			Help:        "Total number of cancelled bookings",
			ConstLabels: constLabels,
		}),
	}
}

// ObserveHTTPRequest фиксирует завершённый HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует выполненный запрос к БД
func (m *Metrics) ObserveDBQuery(operation, status string, duration time.Duration) {
	m.dbQueriesTotal.WithLabelValues(operation, status).Inc()
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetDBPoolStats обновляет gauge-метрики connection pool
func (m *Metrics) SetDBPoolStats(dbName string, open, inUse, idle int) {
	m.dbPoolOpen.WithLabelValues(dbName).Set(float64(open))
	m.dbPoolInUse.WithLabelValues(dbName).Set(float64(inUse))
	m.dbPoolIdle.WithLabelValues(dbName).Set(float64(idle))
}

// IncHoldCreated увеличивает счётчик созданных холдов
func (m *Metrics) IncHoldCreated() {
	m.holdsCreatedTotal.Inc()
}

// IncSlotConflict увеличивает счётчик конфликтов слотов
func (m *Metrics) IncSlotConflict() {
	m.slotConflictsTotal.Inc()
}

// IncBookingConfirmed увеличивает счётчик подтверждённых бронирований
func (m *Metrics) IncBookingConfirmed() {
	m.bookingsConfirmed.Inc()
}

// IncHoldsExpired увеличивает счётчик истёкших холдов
func (m *Metrics) IncHoldsExpired(n int64) {
	m.holdsExpiredTotal.Add(float64(n))
}

// IncBookingCancelled увеличивает счётчик отменённых бронирований
func (m *Metrics) IncBookingCancelled() {
	m.bookingsCancelled.Inc()
}
