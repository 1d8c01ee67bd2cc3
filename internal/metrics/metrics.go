// Package metrics provides Prometheus metrics for the marketplace pricing
// backend. Scrape these at /metrics for dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pipeline metrics
	LookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_lookups_total",
			Help: "Card lookups by input kind and resolution outcome",
		},
		[]string{"kind", "result"}, // result: "resolved", "ambiguous", "not_found"
	)

	PipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "marketplace_pipeline_duration_seconds",
			Help:    "End-to-end duration of one resolution+pricing pipeline run",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	// External pricing quota
	PricingQuotaRemaining = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "marketplace_pricing_quota_remaining",
			Help: "Remaining external pricing API calls for today",
		},
	)

	PricingQuotaLimit = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "marketplace_pricing_quota_limit",
			Help: "Daily external pricing API call limit",
		},
	)

	QuotaRejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marketplace_quota_rejections_total",
			Help: "Requests rejected because the daily pricing quota was exhausted",
		},
	)

	// Cache metrics
	CatalogCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marketplace_catalog_cache_hits_total",
			Help: "Catalogue search cache hits",
		},
	)

	CatalogCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marketplace_catalog_cache_misses_total",
			Help: "Catalogue search cache misses",
		},
	)

	MarketCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marketplace_market_cache_hits_total",
			Help: "Market data cache hits",
		},
	)

	MarketCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marketplace_market_cache_misses_total",
			Help: "Market data cache misses",
		},
	)

	// Upstream metrics
	UpstreamLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marketplace_upstream_latency_seconds",
			Help:    "External API call latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"api"}, // "catalog", "market_data"
	)

	// Price monitor metrics
	MonitorRefreshesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marketplace_monitor_refreshes_total",
			Help: "Cards refreshed by the background price monitor",
		},
	)

	MonitorLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "marketplace_monitor_last_run_timestamp_seconds",
			Help: "Unix time of the last completed price monitor run",
		},
	)

	// History metrics
	HistoryPointsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marketplace_history_points_total",
			Help: "Daily price history points written",
		},
	)

	// Card index metrics
	CardIndexSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "marketplace_card_index_size",
			Help: "Number of cards in the local card index",
		},
	)
)
