package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 聚合服务的核心指标。bootstrap 会把 /metrics 挂到服务的 ServeMux 上。
var (
	// UpstreamRequestDuration 按上游服务和结果统计一次取数的耗时。
	UpstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cartview",
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of upstream fetch calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"upstream", "outcome"})

	// OfferLookupBatchSize 记录每个分片实际携带的 offer id 数量（上限 500）。
	OfferLookupBatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "cartview",
		Name:      "offer_lookup_batch_size",
		Help:      "Number of offer ids per relational lookup batch.",
		Buckets:   []float64{1, 10, 50, 100, 250, 500},
	})

	// AggregateRequests 统计聚合请求的终态。
	AggregateRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cartview",
		Name:      "aggregate_requests_total",
		Help:      "Terminal outcomes of cart aggregation requests.",
	}, []string{"outcome"})

	// AggregateBuildDuration 记录从发起扇出到持久化完成的整体耗时。
	AggregateBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "cartview",
		Name:      "aggregate_build_duration_seconds",
		Help:      "End-to-end duration of a cart aggregation request.",
		Buckets:   prometheus.DefBuckets,
	})

	// OfferCacheHits 统计 Redis offer 缓存的命中与回源。
	OfferCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cartview",
		Name:      "offer_cache_lookups_total",
		Help:      "Offer definition cache lookups by result.",
	}, []string{"result"})
)
