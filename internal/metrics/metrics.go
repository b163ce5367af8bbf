package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "crazycube_graveyard"

var (
	// RPCRequests counts outgoing RPC requests by method and outcome
	RPCRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rpc_requests_total",
		Help:      "Total number of RPC requests sent to the chain node",
	}, []string{"method", "outcome"})

	// RPCDuration observes RPC latency by method
	RPCDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rpc_duration_seconds",
		Help:      "RPC request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	// LogRangeShrinks counts chunk halvings caused by range-too-large errors
	LogRangeShrinks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "log_range_shrinks_total",
		Help:      "Total number of times the log scan chunk size was halved",
	})

	// MulticallBatches counts multicall round-trips
	MulticallBatches = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "multicall_batches_total",
		Help:      "Total number of multicall batches issued",
	})

	// CacheLookups counts response cache lookups by namespace and result
	CacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Total number of response cache lookups",
	}, []string{"namespace", "result"})

	// AggregationDuration observes how long a full aggregation takes per route
	AggregationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "aggregation_duration_seconds",
		Help:      "Time spent building an uncached report",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"route"})
)

func init() {
	prometheus.MustRegister(
		RPCRequests,
		RPCDuration,
		LogRangeShrinks,
		MulticallBatches,
		CacheLookups,
		AggregationDuration,
	)
}

// Outcome maps an error to the outcome label
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Handler returns the prometheus scrape handler
func Handler() http.Handler {
	return promhttp.Handler()
}
