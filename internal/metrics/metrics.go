package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salon_agenda",
			Name:      "http_requests_total",
			Help:      "Count of API requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	refreshCycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salon_agenda",
			Name:      "refresh_cycles_total",
			Help:      "Count of sync refresh cycles by kind and result.",
		},
		[]string{"kind", "result"},
	)

	staleDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "salon_agenda",
			Name:      "stale_responses_dropped_total",
			Help:      "Count of detail refresh responses discarded by the generation guard.",
		},
	)

	groupUpdates = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "salon_agenda",
			Name:      "group_updates_total",
			Help:      "Count of day view groups updated by incremental merges.",
		},
	)

	cacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salon_agenda",
			Name:      "cache_hits_total",
			Help:      "Count of read-through cache lookups by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, refreshCycles, staleDropped, groupUpdates, cacheHits)
	})
}

func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

func IncRefreshCycle(kind, result string) {
	refreshCycles.WithLabelValues(kind, result).Inc()
}

func IncStaleDropped() {
	staleDropped.Inc()
}

func AddGroupUpdates(n int) {
	groupUpdates.Add(float64(n))
}

func IncCacheHit(outcome string) {
	cacheHits.WithLabelValues(outcome).Inc()
}
