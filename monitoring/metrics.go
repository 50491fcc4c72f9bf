package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Orders created, by payment method",
		},
		[]string{"payment_method"},
	)

	ReservationsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reservations_rejected_total",
			Help: "Order attempts rejected for insufficient inventory",
		},
	)

	ConfirmationsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_confirmations_total",
			Help: "Payment confirmations applied, by gateway verdict",
		},
		[]string{"status"},
	)

	ScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_scans_total",
			Help: "Admission scans, by outcome",
		},
		[]string{"result"},
	)

	TransfersCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_transfers_total",
			Help: "Completed ticket transfers, by method",
		},
		[]string{"method"},
	)

	TicketsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_expired_total",
			Help: "Tickets expired by the sweeper",
		},
	)

	OrdersLapsed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_lapsed_total",
			Help: "Pending orders failed by the sweeper after their reservation lapsed",
		},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// HTTPMetrics records request latency per route. Uses the route template,
// not the raw path, to keep label cardinality bounded.
func HTTPMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpDuration.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}
