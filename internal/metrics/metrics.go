package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RateFetches counts rate provider resolutions by snapshot provenance.
	RateFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_fetches_total",
			Help: "Rate snapshots produced, labelled by source (live, mock, fallback)",
		},
		[]string{"source"},
	)

	// RateCacheHits counts rate lookups served from the in-memory cache.
	RateCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_cache_hits_total",
			Help: "Rate lookups answered from the cached snapshot",
		},
	)

	// ZakatCalculations counts completed calculations.
	ZakatCalculations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zakat_calculations_total",
			Help: "Completed zakat calculations by nisab basis and applicability",
		},
		[]string{"nisab_basis", "applicable"},
	)
)
