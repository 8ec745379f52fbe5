package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pool metrics
	PoolCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lumidex_pool_count",
		Help: "Total number of pools in the registry",
	})

	ReserveReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lumidex_reserve_reads_total",
			Help: "Total number of reserve snapshot reads",
		},
		[]string{"status"},
	)

	ReserveReadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lumidex_reserve_read_duration_seconds",
		Help:    "Reserve snapshot read duration in seconds",
		Buckets: []float64{0.005, 0.01, 0.02, 0.05, 0.1, 0.25, 0.5, 1},
	})

	// Quote metrics
	QuoteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lumidex_quote_requests_total",
			Help: "Total number of quote requests",
		},
		[]string{"direction", "status"},
	)

	QuoteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lumidex_quote_duration_seconds",
			Help:    "Quote request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"direction"},
	)

	RouteKinds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lumidex_route_kinds_total",
			Help: "Resolved routes by kind",
		},
		[]string{"kind"},
	)

	PriceImpact = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lumidex_price_impact_bps",
			Help:    "Price impact in basis points",
			Buckets: []float64{0, 10, 50, 100, 300, 500, 1000, 5000, 10000},
		},
		[]string{"severity"},
	)

	// Plan metrics
	PlanRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lumidex_plan_requests_total",
			Help: "Total number of call-plan build requests",
		},
		[]string{"direction", "status"},
	)

	PlanCallCount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lumidex_plan_call_count",
		Help:    "Number of calls in built plans",
		Buckets: []float64{1, 2, 3},
	})

	// Execution metrics
	SubmittedCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lumidex_submitted_calls_total",
			Help: "Total number of submitted plan calls",
		},
		[]string{"kind", "status"},
	)

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lumidex_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lumidex_http_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
