package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProductsScrapedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "products_scraped_total",
		Help: "Total number of products successfully scraped",
	}, []string{"source"})

	ScrapeFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scrape_failures_total",
		Help: "Total number of failed detail extractions",
	}, []string{"source", "reason"})

	ScrapeRunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scrape_run_duration_seconds",
		Help:    "Duration of a full scrape run per source",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{"source"})

	ProductsUpsertedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_upserted_total",
		Help: "Total number of products written to the catalog",
	})

	BatchSaveFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "batch_save_failures_total",
		Help: "Total number of rolled-back scrape batches",
	})

	FeedQueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "feed_query_duration_seconds",
		Help:    "Latency of feed page queries",
		Buckets: prometheus.DefBuckets,
	})

	FeedCacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_cache_hits_total",
		Help: "Feed cache lookups by outcome",
	}, []string{"outcome"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
