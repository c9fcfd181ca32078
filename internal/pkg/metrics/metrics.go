package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridsquare",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gridsquare",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gridsquare",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Grid metrics
	SquaresServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridsquare",
		Subsystem: "grid",
		Name:      "squares_served_total",
		Help:      "Total grid squares resolved, by how they were requested",
	}, []string{"origin"})

	GridRefsParsed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridsquare",
		Subsystem: "grid",
		Name:      "refs_parsed_total",
		Help:      "Grid references parsed, by outcome",
	}, []string{"outcome"})

	RandomSquareAttempts = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gridsquare",
		Subsystem: "grid",
		Name:      "random_square_attempts",
		Help:      "Samples drawn before a random square landed inside its region",
		Buckets:   []float64{1, 2, 5, 10, 50, 100, 500, 1000},
	})

	BoundaryGaps = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gridsquare",
		Subsystem: "boundary",
		Name:      "unjoined_ways_total",
		Help:      "Outer ways appended without a matching endpoint during assembly",
	})

	BoundariesAssembled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridsquare",
		Subsystem: "boundary",
		Name:      "assembled_total",
		Help:      "Region boundaries assembled, by source",
	}, []string{"source"})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "gridsquare",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridsquare",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridsquare",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})

	// Database pool metrics
	DBPoolConnsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "gridsquare",
		Subsystem: "db",
		Name:      "pool_conns_open",
		Help:      "Total connections open in the database pool",
	})

	DBPoolConnsAcquired = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "gridsquare",
		Subsystem: "db",
		Name:      "pool_conns_acquired",
		Help:      "Connections currently acquired from the database pool",
	})

	DBPoolConnsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "gridsquare",
		Subsystem: "db",
		Name:      "pool_conns_idle",
		Help:      "Idle connections in the database pool",
	})

	DBPoolEmptyAcquires = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "gridsquare",
		Subsystem: "db",
		Name:      "pool_empty_acquires",
		Help:      "Cumulative acquires that had to wait for a new connection, as reported by the pool",
	})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}

// UpdateDBPoolMetrics copies pool gauges from a *pgxpool.Stat. It takes an
// interface so this package does not depend on pgx.
func UpdateDBPoolMetrics(stat interface{}) {
	type poolStat interface {
		AcquiredConns() int32
		IdleConns() int32
		TotalConns() int32
		EmptyAcquireCount() int64
	}

	s, ok := stat.(poolStat)
	if !ok {
		return
	}
	DBPoolConnsAcquired.Set(float64(s.AcquiredConns()))
	DBPoolConnsIdle.Set(float64(s.IdleConns()))
	DBPoolConnsOpen.Set(float64(s.TotalConns()))
	DBPoolEmptyAcquires.Set(float64(s.EmptyAcquireCount()))
}
